package affiliate

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/affiliate", h.GetDashboard)
	api.POST("/affiliate/clicks", h.TrackClick)
	api.POST("/affiliate/signups", h.TrackSignup)
}

func (h *Handler) GetDashboard(c echo.Context) error {
	d, err := h.svc.Dashboard(c.Request().Context())
	if err != nil {
		return h.internalError(err, "affiliate dashboard failed")
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) TrackClick(c echo.Context) error {
	st, err := h.svc.TrackClick(c.Request().Context())
	if err != nil {
		return h.internalError(err, "affiliate click not tracked")
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) TrackSignup(c echo.Context) error {
	st, err := h.svc.TrackSignup(c.Request().Context())
	if err != nil {
		return h.internalError(err, "affiliate signup not tracked")
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) internalError(err error, msg string) error {
	h.logger.Error().Err(err).Msg(msg)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}
