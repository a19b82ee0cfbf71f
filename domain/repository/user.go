package repository

import (
	"context"

	"artist-hub/domain/model"
)

// IUser is the session-check lookup consumed by the auth middleware.
type IUser interface {
	GetByUserName(ctx context.Context, userName string) (model.User, error)
}
