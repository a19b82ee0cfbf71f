package persistence

import (
	"context"
	"database/sql"

	"artist-hub/domain/model"
)

type UserRepositoryMSSQL struct{ db *sql.DB }

func NewUserRepositoryMSSQL(db *sql.DB) *UserRepositoryMSSQL { return &UserRepositoryMSSQL{db: db} }

func (r *UserRepositoryMSSQL) GetByUserName(ctx context.Context, userName string) (model.User, error) {
	var user model.User
	row := r.db.QueryRowContext(ctx, `SELECT u.id, u.name, u.user_name, u.created_at, u.updated_at
	FROM dbo.[user] AS u
	WHERE u.user_name = @p1`, userName)
	err := row.Scan(&user.ID, &user.Name, &user.UserName, &user.CreatedAt, &user.UpdatedAt)
	return user, err
}
