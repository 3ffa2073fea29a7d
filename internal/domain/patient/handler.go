package patient

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/zuro/agenda/pkg/pagination"
)

// SessionHeader carries the opaque view-state id. Responses always echo it.
const SessionHeader = "X-Session-ID"

type Handler struct {
	store    *Store
	sessions *Sessions
	analyst  *Analyst
	logger   zerolog.Logger
}

func NewHandler(store *Store, sessions *Sessions, analyst *Analyst, logger zerolog.Logger) *Handler {
	return &Handler{store: store, sessions: sessions, analyst: analyst, logger: logger}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients", h.ListPatients)
	api.POST("/patients", h.CreatePatient)
	api.GET("/patients/search", h.SearchPatient)
	api.POST("/patients/sweep", h.SweepStatuses)
	api.GET("/patients/:id", h.GetPatient)
	api.DELETE("/patients/:id", h.DeletePatient)
	api.POST("/patients/:id/notes", h.AddNote)
	api.POST("/patients/:id/files", h.AddFile)
	api.GET("/patients/:id/consultation-notes", h.GetConsultationNotes)
	api.PUT("/patients/:id/consultation-notes", h.SaveConsultationNotes)
	api.POST("/patients/:id/analysis", h.Analyze)

	api.GET("/session", h.GetSession)
	api.PUT("/session/selection", h.SelectPatient)
	api.DELETE("/session/selection", h.ClearSelection)
	api.PUT("/session/drafts", h.SetDrafts)
}

// -- Patients --

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	term := c.QueryParam("q")
	if sid := c.Request().Header.Get(SessionHeader); sid != "" {
		h.sessions.SetDrafts(h.sessionID(c), Drafts{SearchTerm: &term})
	}
	matches := h.store.Filter(term)
	return c.JSON(http.StatusOK, pagination.NewResponse(pagination.Page(matches, pg), len(matches), pg))
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var in NewPatient
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.store.Add(c.Request().Context(), in)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) SearchPatient(c echo.Context) error {
	sid := h.sessionID(c)
	cpf := c.QueryParam("cpf")
	h.sessions.Update(sid, func(s *Session) { s.SearchCPF = FormatCPF(cpf) })

	p, err := h.store.Search(cpf)
	if errors.Is(err, ErrIncompleteCPF) {
		return c.NoContent(http.StatusNoContent)
	}
	if err != nil {
		return h.httpError(err)
	}
	h.sessions.Select(sid, p.ID)
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return err
	}
	p, err := h.store.Get(id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return err
	}
	if err := h.store.Delete(c.Request().Context(), id); err != nil {
		return h.httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AddNote(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return err
	}
	var body struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.store.AddNote(c.Request().Context(), id, body.Content)
	if err != nil {
		return h.httpError(err)
	}
	if c.Request().Header.Get(SessionHeader) != "" {
		empty := ""
		h.sessions.SetDrafts(h.sessionID(c), Drafts{NoteDraft: &empty})
	}
	return c.JSON(http.StatusOK, p)
}

// AddFile accepts either a multipart upload in field "file" (only the name
// and content type are kept) or a JSON FileMeta body.
func (h *Handler) AddFile(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return err
	}
	var meta FileMeta
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			meta = FileMeta{Name: fh.Filename, MimeType: fh.Header.Get(echo.HeaderContentType)}
		}
	} else if err := c.Bind(&meta); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.store.AddFile(c.Request().Context(), id, meta)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) GetConsultationNotes(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return err
	}
	p, err := h.store.Get(id)
	if err != nil {
		return h.httpError(err)
	}
	h.sessions.OpenNotes(h.sessionID(c), p)
	return c.JSON(http.StatusOK, map[string]any{
		"patient_id":        p.ID,
		"consultationNotes": p.ConsultationNotes,
	})
}

func (h *Handler) SaveConsultationNotes(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return err
	}
	var body struct {
		ConsultationNotes string `json:"consultationNotes"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.store.SaveConsultationNotes(c.Request().Context(), id, body.ConsultationNotes)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Analyze(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return err
	}
	a, err := h.analyst.Analyze(c.Request().Context(), id)
	if err != nil {
		if IsNotFound(err) {
			return h.httpError(err)
		}
		h.logger.Error().Err(err).Int("patient_id", id).Msg("patient analysis failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "analysis failed")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) SweepStatuses(c echo.Context) error {
	changes, err := h.store.Sweep(c.Request().Context(), time.Now())
	if err != nil {
		return h.httpError(err)
	}
	if changes == nil {
		changes = []StatusChange{}
	}
	return c.JSON(http.StatusOK, map[string]any{"changes": changes})
}

// -- Session view-state --

func (h *Handler) GetSession(c echo.Context) error {
	return c.JSON(http.StatusOK, h.sessions.Get(h.sessionID(c)))
}

func (h *Handler) SelectPatient(c echo.Context) error {
	var body struct {
		PatientID int `json:"patient_id"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if _, err := h.store.Get(body.PatientID); err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, h.sessions.Select(h.sessionID(c), body.PatientID))
}

func (h *Handler) ClearSelection(c echo.Context) error {
	return c.JSON(http.StatusOK, h.sessions.ClearSelection(h.sessionID(c)))
}

func (h *Handler) SetDrafts(c echo.Context) error {
	var d Drafts
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, h.sessions.SetDrafts(h.sessionID(c), d))
}

// sessionID returns the caller's session id, minting one when the header is
// absent. The id is written to the response header either way.
func (h *Handler) sessionID(c echo.Context) string {
	sid := c.Request().Header.Get(SessionHeader)
	if sid == "" {
		sid = c.Response().Header().Get(SessionHeader)
	}
	if sid == "" {
		sid = uuid.New().String()
	}
	c.Response().Header().Set(SessionHeader, sid)
	return sid
}

func patientID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func (h *Handler) httpError(err error) error {
	var (
		ve *ValidationError
		de *DuplicateError
		nf *NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.As(err, &de):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.As(err, &nf):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "request cancelled")
	}
	h.logger.Error().Err(err).Msg("patient request failed")
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}
