package service

import (
	"context"

	"tasktrack/internal/model"
	"tasktrack/internal/repository"

	"github.com/google/uuid"
)

// TaskService enforces the creator-only mutation policy in front of the
// task store, so no handler can reach a mutator without the check. The
// acting user is an explicit parameter on every operation.
type TaskService struct {
	tasks        repository.TaskRepositoryInterface
	users        repository.UserRepositoryInterface
	restoreGuard bool
}

func NewTaskService(tasks repository.TaskRepositoryInterface, users repository.UserRepositoryInterface, restoreGuard bool) *TaskService {
	return &TaskService{
		tasks:        tasks,
		users:        users,
		restoreGuard: restoreGuard,
	}
}

// Submit validates the payload and creates a task owned by actingUser.
func (s *TaskService) Submit(ctx context.Context, p TaskPayload, actingUser uuid.UUID) (*model.Task, error) {
	parsed, err := validatePayload(p)
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		Title:       p.Title,
		Description: p.Description,
		AssignTo:    model.JoinAssignees(parsed.assignees),
		CreatedBy:   actingUser,
		StartDate:   parsed.startDate,
		EndDate:     parsed.endDate,
		Flag:        p.Flag,
		Priority:    p.Priority,
		Status:      model.StatusActive,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Fetch returns the task with its creator record attached. Soft-deleted
// tasks remain fetchable by id.
func (s *TaskService) Fetch(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	creator, err := s.users.GetByID(ctx, task.CreatedBy)
	if err != nil {
		return nil, err
	}
	if creator != nil {
		task.Creator = *creator
	}
	return task, nil
}

// Edit overwrites the mutable fields of a task. Authorization runs before
// validation, so a non-creator is rejected regardless of payload shape. It
// runs the same validation as Submit; status and createdBy are never touched
// here.
func (s *TaskService) Edit(ctx context.Context, id uuid.UUID, p TaskPayload, actingUser uuid.UUID) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.CreatedBy != actingUser {
		return nil, ErrNotTaskCreator
	}

	parsed, err := validatePayload(p)
	if err != nil {
		return nil, err
	}

	task.Title = p.Title
	task.Description = p.Description
	task.AssignTo = model.JoinAssignees(parsed.assignees)
	task.StartDate = parsed.startDate
	task.EndDate = parsed.endDate
	task.Flag = p.Flag
	task.Priority = p.Priority

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// SoftDelete marks the task deleted. Deleting an already-deleted task is a
// conflict.
func (s *TaskService) SoftDelete(ctx context.Context, id, actingUser uuid.UUID) (*model.Task, error) {
	return s.setStatus(ctx, id, model.StatusDeleted, actingUser, true)
}

// Restore reactivates the task. The no-op guard is a policy switch and off
// by default: restoring an already-active task silently succeeds.
func (s *TaskService) Restore(ctx context.Context, id, actingUser uuid.UUID) (*model.Task, error) {
	return s.setStatus(ctx, id, model.StatusActive, actingUser, s.restoreGuard)
}

func (s *TaskService) setStatus(ctx context.Context, id uuid.UUID, status model.Status, actingUser uuid.UUID, guarded bool) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.CreatedBy != actingUser {
		return nil, ErrNotTaskCreator
	}
	if task.Status == status {
		if guarded {
			return nil, ErrStatusConflict
		}
		return task, nil
	}
	if err := s.tasks.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}
	task.Status = status
	return task, nil
}
