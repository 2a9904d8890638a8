package service

import (
	"context"

	"go-task-manager/internal/model"
)

// UserStore is the credential store surface the services need. Implemented by
// repository.UserRepository; tests substitute an in-memory fake.
type UserStore interface {
	Create(ctx context.Context, u model.User) error
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByLogin(ctx context.Context, username string, email string) (model.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username string, email string) (bool, error)
	SetRefreshToken(ctx context.Context, userID string, token string) error
	UpdateRole(ctx context.Context, userID string, role model.Role) (model.User, error)
	List(ctx context.Context) ([]model.Identity, error)
}

// TaskStore is the task persistence surface. Implemented by
// repository.TaskRepository.
type TaskStore interface {
	Create(ctx context.Context, t model.Task) error
	FindByID(ctx context.Context, id string) (model.Task, error)
	Update(ctx context.Context, t model.Task) error
	Delete(ctx context.Context, id string) error
	ListByCategory(ctx context.Context, category string) ([]model.Task, error)
	ListByStatus(ctx context.Context, status model.Status) ([]model.Task, error)
}
