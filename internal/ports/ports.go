package ports

// Package ports defines interfaces (hexagonal ports) for the session layer.
// Implementations live in internal/adapters; orchestration in internal/service.

import "context"

// KeyValueStore is the durable client storage abstraction. All session
// persistence goes through this single boundary so the storage layer is
// testable with an in-memory substitute.
type KeyValueStore interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Change describes a single key mutation in a KeyValueStore.
type Change struct {
	Key   string
	Value string // empty on delete
	// Origin identifies the store instance that performed the mutation,
	// letting subscribers ignore their own writes.
	Origin string
}

// ChangeNotifier delivers storage change events to subscribers. This is the
// cross-tab signal: a login/logout in one process becomes a Change in every
// other process sharing the store.
type ChangeNotifier interface {
	// Subscribe registers fn for change events and returns an unsubscribe
	// function. Delivery is asynchronous and best-effort.
	Subscribe(ctx context.Context, fn func(Change)) (func(), error)
}

// WatchableStore combines storage with change notification, the contract the
// session service needs to stay convergent across tabs.
type WatchableStore interface {
	KeyValueStore
	ChangeNotifier
	// Origin returns the identifier this store stamps on its own changes.
	Origin() string
}

// Credentials carries the login form inputs posted to the login endpoint.
type Credentials struct {
	Email       string
	Password    string
	ProfileHint string
}

// LoginResult is the raw successful outcome of the login endpoint. The user
// payload is kept untyped; the service normalizes it into the canonical shape.
type LoginResult struct {
	AccessToken string
	RawUser     map[string]any
}

// LoginAPI posts credentials to the external login endpoint.
// Implementations translate transport failures into the AppError taxonomy:
// server rejection -> authentication, malformed success -> protocol.
type LoginAPI interface {
	Authenticate(ctx context.Context, creds Credentials) (LoginResult, error)
}

// Navigator is the injected navigation facility the guards drive. Redirect
// replaces the current location without pushing a history entry.
type Navigator interface {
	Redirect(path string)
	CurrentPath() string
}
