package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go-task-manager/internal/model"
)

// MemoryUserRepository is an in-memory UserStore with the same semantics as
// the Mongo implementation. Used by tests and local experiments.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]model.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: map[string]model.User{}}
}

func (r *MemoryUserRepository) Create(ctx context.Context, u model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return model.ErrUserAlreadyExists
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *MemoryUserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (r *MemoryUserRepository) FindByLogin(ctx context.Context, username string, email string) (model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (r *MemoryUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username string, email string) (bool, error) {
	_, err := r.FindByLogin(ctx, username, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *MemoryUserRepository) SetRefreshToken(ctx context.Context, userID string, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	u.RefreshToken = token
	r.users[userID] = u
	return nil
}

func (r *MemoryUserRepository) UpdateRole(ctx context.Context, userID string, role model.Role) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	u.Role = role
	r.users[userID] = u
	return u, nil
}

func (r *MemoryUserRepository) List(ctx context.Context) ([]model.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]model.Identity, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u.Identity())
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

// MemoryTaskRepository is the in-memory TaskStore counterpart.
type MemoryTaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]model.Task
}

func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{tasks: map[string]model.Task{}}
}

func (r *MemoryTaskRepository) Create(ctx context.Context, t model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[t.ID] = t
	return nil
}

func (r *MemoryTaskRepository) FindByID(ctx context.Context, id string) (model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return model.Task{}, model.ErrTaskNotFound
	}
	return t, nil
}

func (r *MemoryTaskRepository) Update(ctx context.Context, t model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[t.ID]; !ok {
		return model.ErrTaskNotFound
	}
	r.tasks[t.ID] = t
	return nil
}

func (r *MemoryTaskRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return model.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *MemoryTaskRepository) ListByCategory(ctx context.Context, category string) ([]model.Task, error) {
	return r.filter(func(t model.Task) bool { return t.Category == category }), nil
}

func (r *MemoryTaskRepository) ListByStatus(ctx context.Context, status model.Status) ([]model.Task, error) {
	return r.filter(func(t model.Task) bool { return t.Status == status }), nil
}

func (r *MemoryTaskRepository) filter(keep func(model.Task) bool) []model.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]model.Task, 0)
	for _, t := range r.tasks {
		if keep(t) {
			tasks = append(tasks, t)
		}
	}
	return tasks
}
