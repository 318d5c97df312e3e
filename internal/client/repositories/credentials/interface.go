// Package credentials is the durable token store of the client: the bearer
// token and the serialized user profile, kept under two fixed keys of a
// local SQLite key/value table.
package credentials

import (
	"context"

	"github.com/dmitrijs2005/petadopt/internal/client/models"
)

// Repository persists the session credential. It performs no validation;
// storage failures are returned wrapped in common.ErrStorage.
type Repository interface {
	// Get returns nil, nil when no complete credential is stored.
	Get(ctx context.Context) (*models.Credential, error)
	Set(ctx context.Context, token string, user models.User) error
	Clear(ctx context.Context) error
}
