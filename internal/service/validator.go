package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format for task dates.
const DateLayout = "2006-01-02"

const maxTitleLen = 255

// TaskPayload is the client-submitted task body, shared by create and edit.
type TaskPayload struct {
	Title       string   `json:"title"`
	Description string   `json:"task_description"`
	AssignTo    []string `json:"assign_to"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Flag        string   `json:"flag"`
	Priority    string   `json:"priority"`
}

// ValidationError reports every missing or malformed field at once.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// parsedPayload holds the typed values produced by validation.
type parsedPayload struct {
	assignees []uuid.UUID
	startDate time.Time
	endDate   time.Time
}

// validatePayload applies the same rules to create and edit. The end date
// may precede the start date; no ordering is enforced between them.
func validatePayload(p TaskPayload) (*parsedPayload, error) {
	fields := make(map[string][]string)
	parsed := &parsedPayload{}

	if strings.TrimSpace(p.Title) == "" {
		fields["title"] = append(fields["title"], "The title field is required.")
	} else if len(p.Title) > maxTitleLen {
		fields["title"] = append(fields["title"], "The title may not be greater than 255 characters.")
	}

	if strings.TrimSpace(p.Description) == "" {
		fields["task_description"] = append(fields["task_description"], "The task description field is required.")
	}

	if len(p.AssignTo) == 0 {
		fields["assign_to"] = append(fields["assign_to"], "The assign to field is required.")
	} else {
		for _, raw := range p.AssignTo {
			id, err := uuid.Parse(strings.TrimSpace(raw))
			if err != nil {
				fields["assign_to"] = append(fields["assign_to"], fmt.Sprintf("The assignee %q is not a valid user id.", raw))
				continue
			}
			parsed.assignees = append(parsed.assignees, id)
		}
	}

	parsed.startDate = parseDateField(p.StartDate, "start_date", fields)
	parsed.endDate = parseDateField(p.EndDate, "end_date", fields)

	if strings.TrimSpace(p.Flag) == "" {
		fields["flag"] = append(fields["flag"], "The flag field is required.")
	}
	if strings.TrimSpace(p.Priority) == "" {
		fields["priority"] = append(fields["priority"], "The priority field is required.")
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	return parsed, nil
}

func parseDateField(raw, name string, fields map[string][]string) time.Time {
	if strings.TrimSpace(raw) == "" {
		fields[name] = append(fields[name], fmt.Sprintf("The %s field is required.", strings.ReplaceAll(name, "_", " ")))
		return time.Time{}
	}
	date, err := time.Parse(DateLayout, raw)
	if err != nil {
		fields[name] = append(fields[name], fmt.Sprintf("The %s is not a valid date.", strings.ReplaceAll(name, "_", " ")))
		return time.Time{}
	}
	return date
}
