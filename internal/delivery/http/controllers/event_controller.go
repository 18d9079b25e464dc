package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	h "eventhub/internal/delivery/http/helpers"
	"eventhub/internal/domain"
)

// filterAll is the query value meaning "no filter" for category and date.
const filterAll = "all"

// CreateEventRequest is the request body for POST /api/events.
// organizerId is accepted for client compatibility; the caller becomes the organizer.
type CreateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	ImageURL    *string   `json:"imageUrl"`
	Capacity    int       `json:"capacity"`
	OrganizerID *int64    `json:"organizerId,omitempty"`
}

// Validate implements Validator.
func (e *CreateEventRequest) Validate() []string {
	var errs []string
	if e.StartDate.IsZero() {
		errs = append(errs, "startDate is required")
	}
	if e.EndDate.IsZero() {
		errs = append(errs, "endDate is required")
	}
	return errs
}

// UpdateEventRequest is the request body for PUT /api/events/{id}. Absent fields are left unchanged.
type UpdateEventRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Category    *string        `json:"category"`
	Location    *string        `json:"location"`
	StartDate   *time.Time     `json:"startDate"`
	EndDate     *time.Time     `json:"endDate"`
	ImageURL    optionalString `json:"imageUrl" swaggertype:"string"`
	Capacity    *int           `json:"capacity"`
	OrganizerID *int64         `json:"organizerId,omitempty"`
}

// optionalString tells an absent field from an explicit null.
type optionalString struct {
	Set   bool
	Value *string
}

func (o *optionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (u *UpdateEventRequest) toUpdate() domain.EventUpdate {
	upd := domain.EventUpdate{
		Title:       u.Title,
		Description: u.Description,
		Location:    u.Location,
		StartDate:   u.StartDate,
		EndDate:     u.EndDate,
		ImageURL:    u.ImageURL.Value,
		Capacity:    u.Capacity,
	}
	if u.ImageURL.Set && u.ImageURL.Value == nil {
		upd.ClearImageURL = true
	}
	if u.Category != nil {
		cat := domain.Category(strings.ToLower(strings.TrimSpace(*u.Category)))
		upd.Category = &cat
	}
	return upd
}

// EventSuccessResponse is the success envelope for single-event endpoints.
type EventSuccessResponse struct {
	Data  *domain.Event `json:"data"`
	Error *h.APIError   `json:"error"`
}

// EventListSuccessResponse is the success envelope for event list endpoints.
type EventListSuccessResponse struct {
	Data  []*domain.Event `json:"data"`
	Error *h.APIError     `json:"error"`
}

// RegistrationListSuccessResponse is the success envelope for GET /api/events/{id}/registrations.
type RegistrationListSuccessResponse struct {
	Data  []*domain.EventRegistration `json:"data"`
	Error *h.APIError                 `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// ListEvents godoc
// @Summary List events
// @Description Lists events, optionally filtered. "all" for category or date means no filter. Date buckets: today, tomorrow, this-week, this-weekend, next-week, this-month.
// @Tags events
// @Produce json
// @Param category query string false "Category (hackathon, workshop, seminar, conference, networking or all)"
// @Param search query string false "Case-insensitive text matched against title, description and location"
// @Param date query string false "Date bucket"
// @Param organizerId query int false "Organizer user ID"
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter domain.EventFilter
	if cat := strings.TrimSpace(q.Get("category")); cat != "" && cat != filterAll {
		filter.Category = domain.Category(strings.ToLower(cat))
	}
	filter.Search = strings.TrimSpace(q.Get("search"))
	if date := strings.TrimSpace(q.Get("date")); date != "" && date != filterAll {
		filter.Date = date
	}
	if raw := strings.TrimSpace(q.Get("organizerId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid organizerId")
			return
		}
		filter.OrganizerID = id
	}

	events, err := c.Service.ListEvents(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	event, err := c.Service.GetEvent(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// CreateEvent godoc
// @Summary Create an event
// @Description Admins and organizers only. The caller becomes the organizer.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventRequest true "Event"
// @Success 201 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}
	var req CreateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.CreateEvent(r.Context(), caller, domain.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    domain.Category(strings.ToLower(strings.TrimSpace(req.Category))),
		Location:    req.Location,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		ImageURL:    req.ImageURL,
		Capacity:    req.Capacity,
	})
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, event)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Partial update. Admins or the event's organizer only.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param body body UpdateEventRequest true "Fields to change"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), caller, id, req.toUpdate())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Admins or the event's organizer only. Registrations are kept.
// @Tags events
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 204
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), caller, id); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteNoContent(w)
}

// ListEventRegistrations godoc
// @Summary List an event's registrations
// @Description Admins or the event's organizer only.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} controllers.RegistrationListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id}/registrations [get]
func (c *EventController) ListEventRegistrations(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	regs, err := c.Service.ListEventRegistrations(r.Context(), caller, id)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	if regs == nil {
		regs = []*domain.EventRegistration{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, regs)
}

// ListOrganizedEvents godoc
// @Summary List events organized by the current user
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /user/organized-events [get]
func (c *EventController) ListOrganizedEvents(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}
	events, err := c.Service.ListOrganizedEvents(r.Context(), caller)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, events)
}
