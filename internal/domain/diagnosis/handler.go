package diagnosis

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type Handler struct {
	history   *History
	generator *Generator
	logger    zerolog.Logger
}

func NewHandler(history *History, generator *Generator, logger zerolog.Logger) *Handler {
	return &Handler{history: history, generator: generator, logger: logger}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/diagnoses/professions", h.ListProfessions)
	api.POST("/diagnoses", h.Generate)
	api.GET("/diagnoses", h.ListHistory)
	api.DELETE("/diagnoses/:id", h.RemoveEntry)
	api.DELETE("/diagnoses", h.ClearHistory)
}

func (h *Handler) ListProfessions(c echo.Context) error {
	return c.JSON(http.StatusOK, Professions())
}

type generateRequest struct {
	Profession Profession `json:"profession"`
	Input      string     `json:"input"`
}

func (h *Handler) Generate(c echo.Context) error {
	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	entry, err := h.generator.Generate(c.Request().Context(), req.Profession, req.Input)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
		}
		h.logger.Error().Err(err).Str("profession", string(req.Profession)).Msg("diagnosis generation failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "erro ao gerar recomendações")
	}
	return c.JSON(http.StatusCreated, entry)
}

// ListHistory returns entries oldest first, or newest first with order=desc.
func (h *Handler) ListHistory(c echo.Context) error {
	entries := h.history.List()
	switch c.QueryParam("order") {
	case "", "asc":
	case "desc":
		entries = SortByRecency(entries)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "order must be asc or desc")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data":  entries,
		"total": len(entries),
	})
}

func (h *Handler) RemoveEntry(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.history.Remove(c.Request().Context(), id); err != nil {
		h.logger.Error().Err(err).Int64("id", id).Msg("diagnosis removal failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ClearHistory(c echo.Context) error {
	if err := h.history.Clear(c.Request().Context()); err != nil {
		h.logger.Error().Err(err).Msg("diagnosis history clear failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.NoContent(http.StatusNoContent)
}
