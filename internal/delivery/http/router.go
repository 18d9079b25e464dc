package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventhub/internal/delivery/http/controllers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

// RouterArgs holds the collaborators of the HTTP router.
type RouterArgs struct {
	Logger         *slog.Logger
	Auth           domain.AuthService
	Events         domain.EventService
	Attendees      domain.AttendeeService
	Chat           domain.ChatService
	AllowedOrigins []string
}

// NewRouter initializes the HTTP router with all application routes, wrapped
// as CORS -> request logging -> mux.
func NewRouter(args RouterArgs) http.Handler {
	authController := controllers.NewAuthController(args.Logger, args.Auth)
	eventController := controllers.NewEventController(args.Logger, args.Events)
	attendeeController := controllers.NewAttendeeController(args.Logger, args.Attendees)
	chatController := controllers.NewChatController(args.Logger, args.Chat)

	requireAuth := middleware.RequireAuth(args.Auth, args.Logger)
	optionalAuth := middleware.OptionalAuth(args.Auth, args.Logger)

	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /api/register", authController.Register)
	mux.HandleFunc("POST /api/login", authController.Login)
	mux.HandleFunc("POST /api/logout", requireAuth(authController.Logout))
	mux.HandleFunc("GET /api/user", requireAuth(authController.CurrentUser))

	// Events
	mux.HandleFunc("GET /api/events", eventController.ListEvents)
	mux.HandleFunc("GET /api/events/{id}", eventController.GetEvent)
	mux.HandleFunc("POST /api/events", requireAuth(eventController.CreateEvent))
	mux.HandleFunc("PUT /api/events/{id}", requireAuth(eventController.UpdateEvent))
	mux.HandleFunc("DELETE /api/events/{id}", requireAuth(eventController.DeleteEvent))
	mux.HandleFunc("GET /api/events/{id}/registrations", requireAuth(eventController.ListEventRegistrations))
	mux.HandleFunc("GET /api/user/organized-events", requireAuth(eventController.ListOrganizedEvents))

	// Attendee
	mux.HandleFunc("POST /api/events/{id}/register", requireAuth(attendeeController.RegisterForEvent))
	mux.HandleFunc("DELETE /api/events/{id}/register", requireAuth(attendeeController.CancelRegistration))
	mux.HandleFunc("GET /api/events/{id}/is-registered", optionalAuth(attendeeController.IsRegistered))
	mux.HandleFunc("GET /api/user/events", requireAuth(attendeeController.ListMyRegisteredEvents))

	// Chat
	mux.HandleFunc("POST /api/chat", optionalAuth(chatController.Ask))
	mux.HandleFunc("GET /api/chat/history", requireAuth(chatController.History))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.CORS(args.AllowedOrigins, middleware.LoggingMiddleware(args.Logger, mux))
}
