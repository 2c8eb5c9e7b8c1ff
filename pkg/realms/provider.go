package realms

import (
	"context"
	"errors"
)

// ErrNotFound is returned by providers when no realm has the requested name.
var ErrNotFound = errors.New("realm not found")

// Provider looks realms up by name. Implementations must support concurrent
// reads; any error other than ErrNotFound is treated as a store failure.
type Provider interface {
	FindRealmByName(ctx context.Context, name string) (*Realm, error)
}
