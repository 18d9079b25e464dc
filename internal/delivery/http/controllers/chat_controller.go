package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

// ChatRequest is the request body for POST /api/chat
type ChatRequest struct {
	Message string `json:"message"`
}

// Validate implements Validator.
func (c *ChatRequest) Validate() []string {
	if strings.TrimSpace(c.Message) == "" {
		return []string{"message is required"}
	}
	return nil
}

// ChatResponse is the answer to a chat message.
type ChatResponse struct {
	Message  string `json:"message"`
	Response string `json:"response"`
}

// ChatSuccessResponse is the success envelope for POST /api/chat.
type ChatSuccessResponse struct {
	Data  *ChatResponse `json:"data"`
	Error *h.APIError   `json:"error"`
}

// ChatHistorySuccessResponse is the success envelope for GET /api/chat/history.
type ChatHistorySuccessResponse struct {
	Data  []*domain.ChatMessage `json:"data"`
	Error *h.APIError           `json:"error"`
}

type ChatController struct {
	Logger  *slog.Logger
	Service domain.ChatService
}

func NewChatController(logger *slog.Logger, svc domain.ChatService) *ChatController {
	return &ChatController{
		Logger:  logger,
		Service: svc,
	}
}

// Ask godoc
// @Summary Ask the event assistant
// @Description Answers questions about the listed events. Anonymous callers are allowed; signed-in callers get the exchange stored in their history. A fixed apology is returned when the assistant is unavailable.
// @Tags chat
// @Accept json
// @Produce json
// @Param body body ChatRequest true "Message"
// @Success 200 {object} controllers.ChatSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /chat [post]
func (c *ChatController) Ask(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	var userID *int64
	if caller, ok := middleware.IdentityFromContext(r.Context()); ok {
		uid := caller.UserID
		userID = &uid
	}
	msg, err := c.Service.Ask(r.Context(), userID, req.Message)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, ChatResponse{Message: msg.Message, Response: msg.Response})
}

// History godoc
// @Summary Get the current user's chat history
// @Description Oldest first.
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ChatHistorySuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /chat/history [get]
func (c *ChatController) History(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}
	msgs, err := c.Service.History(r.Context(), caller.UserID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	if msgs == nil {
		msgs = []*domain.ChatMessage{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, msgs)
}
