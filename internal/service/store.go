package service

import (
	"context"

	"teamtasks/internal/domain"
)

// UserStore persists accounts. Lookups by id or login return an error
// wrapping domain.ErrNotFound when nothing matches; Create returns one
// wrapping domain.ErrConflict for a taken login.
type UserStore interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	GetByID(ctx context.Context, id int) (domain.User, error)
	GetByLogin(ctx context.Context, login string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ListLeaders(ctx context.Context) ([]domain.User, error)
	ListSubordinates(ctx context.Context, leaderID int) ([]domain.User, error)
}

// TaskStore persists tasks. GetByID, Update, UpdateStatus and Delete return
// an error wrapping domain.ErrNotFound for an unknown id.
type TaskStore interface {
	Create(ctx context.Context, t domain.Task) (domain.Task, error)
	GetByID(ctx context.Context, id int) (domain.Task, error)
	ListByAssignees(ctx context.Context, userIDs []int) ([]domain.Task, error)
	Update(ctx context.Context, t domain.Task) (domain.Task, error)
	UpdateStatus(ctx context.Context, id int, status domain.Status) (domain.Task, error)
	Delete(ctx context.Context, id int) error
}
