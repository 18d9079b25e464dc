package domain

// EventStore is the full data-access contract of the application. Every
// backend (memory, postgres, mongo) implements it and the route layer depends
// only on this interface.
type EventStore interface {
	UserRepository
	EventRepository
	EventRegistrationRepository
	ChatMessageRepository

	// SessionStore returns the login session store owned by this EventStore.
	SessionStore() SessionStore
}
