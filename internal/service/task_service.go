package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"go-task-manager/internal/model"
	"go-task-manager/pkg/apierror"
)

// TaskService applies the ownership and role rules around task CRUD. A task
// may be mutated or deleted by its owner or by an admin; everyone else gets
// a 403.
type TaskService struct {
	tasks TaskStore
	users UserStore
}

func NewTaskService(tasks TaskStore, users UserStore) *TaskService {
	return &TaskService{tasks: tasks, users: users}
}

// Create makes a task owned by the caller. Status defaults to Pending.
func (s *TaskService) Create(ctx context.Context, actor model.Identity, req model.CreateTaskRequest) (model.Task, error) {
	return s.create(ctx, actor.ID, req)
}

// CreateForUser is the admin variant: the task is owned by the target user,
// who must exist. An empty target leaves the task unowned.
func (s *TaskService) CreateForUser(ctx context.Context, req model.CreateTaskRequest) (model.Task, error) {
	ownerID := trim(req.UserID)
	if ownerID != "" {
		if _, err := s.users.FindByID(ctx, ownerID); err != nil {
			if errors.Is(err, model.ErrUserNotFound) {
				return model.Task{}, apierror.NotFound("user not found", ownerID)
			}
			return model.Task{}, err
		}
	}
	return s.create(ctx, ownerID, req)
}

func (s *TaskService) create(ctx context.Context, ownerID string, req model.CreateTaskRequest) (model.Task, error) {
	description := trim(req.Description)
	category := trim(req.Category)
	if description == "" || category == "" {
		return model.Task{}, apierror.BadRequest("description and category are required", "")
	}

	status := model.StatusPending
	if trim(req.Status) != "" {
		parsed, ok := model.ParseStatus(trim(req.Status))
		if !ok {
			return model.Task{}, apierror.BadRequest("status must be one of: Pending, In Progress, Completed", req.Status)
		}
		status = parsed
	}

	now := time.Now().UTC()
	task := model.Task{
		ID:          uuid.NewString(),
		Description: description,
		Category:    category,
		Status:      status,
		UserID:      ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, actor model.Identity, taskID string, req model.UpdateTaskRequest) (model.Task, error) {
	task, err := s.loadOwned(ctx, actor, taskID)
	if err != nil {
		return model.Task{}, err
	}

	if req.Description != nil {
		description := trim(*req.Description)
		if description == "" {
			return model.Task{}, apierror.BadRequest("description cannot be empty", "")
		}
		task.Description = description
	}

	if req.Category != nil {
		category := trim(*req.Category)
		if category == "" {
			return model.Task{}, apierror.BadRequest("category cannot be empty", "")
		}
		task.Category = category
	}

	if req.Status != nil {
		status, ok := model.ParseStatus(trim(*req.Status))
		if !ok {
			return model.Task{}, apierror.BadRequest("status must be one of: Pending, In Progress, Completed", *req.Status)
		}
		task.Status = status
	}

	task.UpdatedAt = time.Now().UTC()
	if err := s.tasks.Update(ctx, task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, actor model.Identity, taskID string) error {
	if _, err := s.loadOwned(ctx, actor, taskID); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, taskID)
}

// Complete forces the status to Completed regardless of the current state.
func (s *TaskService) Complete(ctx context.Context, actor model.Identity, taskID string) (model.Task, error) {
	task, err := s.loadOwned(ctx, actor, taskID)
	if err != nil {
		return model.Task{}, err
	}

	task.Status = model.StatusCompleted
	task.UpdatedAt = time.Now().UTC()
	if err := s.tasks.Update(ctx, task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

// ListByCategory returns every task in the category; an empty result is a
// 404, not an empty list.
func (s *TaskService) ListByCategory(ctx context.Context, category string) ([]model.Task, error) {
	category = trim(category)
	if category == "" {
		return nil, apierror.BadRequest("category is required", "")
	}

	tasks, err := s.tasks.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, apierror.NotFound("no tasks found for this category", category)
	}
	return tasks, nil
}

func (s *TaskService) ListByStatus(ctx context.Context, rawStatus string) ([]model.Task, error) {
	status, ok := model.ParseStatus(trim(rawStatus))
	if !ok {
		return nil, apierror.BadRequest("status must be one of: Pending, In Progress, Completed", rawStatus)
	}

	tasks, err := s.tasks.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, apierror.NotFound("no tasks found with this status", rawStatus)
	}
	return tasks, nil
}

// loadOwned loads a task and enforces the owner-or-admin rule.
func (s *TaskService) loadOwned(ctx context.Context, actor model.Identity, taskID string) (model.Task, error) {
	if trim(taskID) == "" {
		return model.Task{}, apierror.BadRequest("task id is required", "")
	}

	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return model.Task{}, err
	}

	if actor.Role != model.RoleAdmin && task.UserID != actor.ID {
		return model.Task{}, apierror.Forbidden("you do not have permission to modify this task")
	}

	return task, nil
}
