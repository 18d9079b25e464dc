package controllers

import (
	"log/slog"
	"net/http"

	h "eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

type AttendeeController struct {
	Logger  *slog.Logger
	Service domain.AttendeeService
}

func NewAttendeeController(logger *slog.Logger, svc domain.AttendeeService) *AttendeeController {
	return &AttendeeController{
		Logger:  logger,
		Service: svc,
	}
}

// RegistrationSuccessResponse is the success envelope for POST /api/events/{id}/register.
type RegistrationSuccessResponse struct {
	Data  *domain.EventRegistration `json:"data"`
	Error *h.APIError               `json:"error"`
}

// IsRegisteredResponse is returned by GET /api/events/{id}/is-registered.
type IsRegisteredResponse struct {
	IsRegistered bool `json:"isRegistered"`
}

// IsRegisteredSuccessResponse is the success envelope for GET /api/events/{id}/is-registered.
type IsRegisteredSuccessResponse struct {
	Data  IsRegisteredResponse `json:"data"`
	Error *h.APIError          `json:"error"`
}

// RegisterForEvent godoc
// @Summary Register the current user for an event
// @Description Fails with already_registered when the user holds a registration and with event_full when capacity is reached.
// @Tags attendee
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 201 {object} controllers.RegistrationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, already_registered or event_full"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id}/register [post]
func (c *AttendeeController) RegisterForEvent(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}
	eventID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	reg, err := c.Service.RegisterForEvent(r.Context(), eventID, caller.UserID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// CancelRegistration godoc
// @Summary Cancel the current user's registration
// @Tags attendee
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 204
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id}/register [delete]
func (c *AttendeeController) CancelRegistration(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}
	eventID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.CancelRegistration(r.Context(), eventID, caller.UserID); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteNoContent(w)
}

// IsRegistered godoc
// @Summary Check whether the current user is registered
// @Description Anonymous callers always get false.
// @Tags attendee
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} controllers.IsRegisteredSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id}/is-registered [get]
func (c *AttendeeController) IsRegistered(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONSuccess(w, http.StatusOK, IsRegisteredResponse{IsRegistered: false})
		return
	}
	registered, err := c.Service.IsRegistered(r.Context(), eventID, caller.UserID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, IsRegisteredResponse{IsRegistered: registered})
}

// ListMyRegisteredEvents godoc
// @Summary List events the current user is registered for
// @Tags attendee
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /user/events [get]
func (c *AttendeeController) ListMyRegisteredEvents(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}
	events, err := c.Service.ListMyRegisteredEvents(r.Context(), caller.UserID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, events)
}
