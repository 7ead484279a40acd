package service

import (
	"context"
	"strings"

	"tasktrack/internal/model"
	"tasktrack/internal/repository"

	"github.com/google/uuid"
)

const defaultPageLength = 10

// Column describes one table column for the listing UI.
type Column struct {
	Title string `json:"title"`
	Data  int    `json:"data"`
}

// RowActions describes which affordances the row exposes. Edit and view are
// always present; delete and restore depend on the lifecycle status.
type RowActions struct {
	Edit    bool `json:"edit"`
	View    bool `json:"view"`
	Delete  bool `json:"delete"`
	Restore bool `json:"restore"`
}

// TaskRow projects the ten display columns plus the actions descriptor.
type TaskRow struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"task_description"`
	AssignToNames string     `json:"assign_to_name"`
	CreatedByName string     `json:"task_created_by_name"`
	StartDate     string     `json:"start_date"`
	EndDate       string     `json:"end_date"`
	Flag          string     `json:"flag"`
	Priority      string     `json:"priority"`
	Status        string     `json:"status"`
	Actions       RowActions `json:"actions"`
}

// Page is one slice of the listing plus the table counters.
type Page struct {
	Rows     []TaskRow
	Total    int64
	Filtered int64
}

// TaskQuery assembles the joined, paginated read model for the table UI,
// decoupled from the pagination math so both are testable on their own.
type TaskQuery struct {
	tasks repository.TaskRepositoryInterface
	users repository.UserRepositoryInterface
}

func NewTaskQuery(tasks repository.TaskRepositoryInterface, users repository.UserRepositoryInterface) *TaskQuery {
	return &TaskQuery{tasks: tasks, users: users}
}

// ListPage translates the zero-based offset into a 1-based page number
// (page = start/length + 1), reads one page in stable order, and resolves
// creator and assignee display names through the user directory.
func (q *TaskQuery) ListPage(ctx context.Context, start, length int) (*Page, error) {
	if length <= 0 {
		length = defaultPageLength
	}
	if start < 0 {
		start = 0
	}
	page := start/length + 1
	offset := (page - 1) * length

	tasks, err := q.tasks.ListPage(ctx, offset, length)
	if err != nil {
		return nil, err
	}
	total, err := q.tasks.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	names, err := q.displayNames(ctx, tasks)
	if err != nil {
		return nil, err
	}

	rows := make([]TaskRow, len(tasks))
	for i := range tasks {
		rows[i] = buildRow(&tasks[i], names)
	}

	// No search filter exists upstream of pagination, so the filtered
	// count equals the total.
	return &Page{Rows: rows, Total: total, Filtered: total}, nil
}

// displayNames resolves every creator and assignee id on the page in one
// directory lookup.
func (q *TaskQuery) displayNames(ctx context.Context, tasks []model.Task) (map[uuid.UUID]string, error) {
	idSet := make(map[uuid.UUID]struct{})
	for i := range tasks {
		idSet[tasks[i].CreatedBy] = struct{}{}
		for _, id := range tasks[i].AssigneeIDs() {
			idSet[id] = struct{}{}
		}
	}
	ids := make([]uuid.UUID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	users, err := q.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(users))
	for i := range users {
		names[users[i].ID] = users[i].Name
	}
	return names, nil
}

func buildRow(t *model.Task, names map[uuid.UUID]string) TaskRow {
	assignees := t.AssigneeIDs()
	parts := make([]string, 0, len(assignees))
	for _, id := range assignees {
		if name, ok := names[id]; ok {
			parts = append(parts, name)
		}
	}

	return TaskRow{
		ID:            t.ID.String(),
		Title:         t.Title,
		Description:   t.Description,
		AssignToNames: strings.Join(parts, ", "),
		CreatedByName: names[t.CreatedBy],
		StartDate:     t.StartDate.Format(DateLayout),
		EndDate:       t.EndDate.Format(DateLayout),
		Flag:          t.Flag,
		Priority:      t.Priority,
		Status:        string(t.Status),
		Actions: RowActions{
			Edit:    true,
			View:    true,
			Delete:  t.Status == model.StatusActive,
			Restore: t.Status == model.StatusDeleted,
		},
	}
}

// Columns returns the header metadata the table page bootstraps with.
func Columns() []Column {
	return []Column{
		{Title: "#ID", Data: 0},
		{Title: "Title", Data: 1},
		{Title: "Task Description", Data: 2},
		{Title: "Assign To", Data: 3},
		{Title: "Task Created By", Data: 4},
		{Title: "Start Date", Data: 5},
		{Title: "End Date", Data: 6},
		{Title: "Flag", Data: 7},
		{Title: "Priority", Data: 8},
		{Title: "Status", Data: 9},
		{Title: "Actions", Data: 10},
	}
}
