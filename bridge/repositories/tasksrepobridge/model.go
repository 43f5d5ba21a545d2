package tasksrepobridge

import (
	"errors"

	"github.com/jrazmi/anchorboard/core/repositories/tasksrepo"
)

// CreateTaskInput is the request body for creating a task. Context anchors
// the task to a file and line range.
type CreateTaskInput struct {
	Title       string             `json:"title"`
	Description *string            `json:"description"`
	Type        tasksrepo.Type     `json:"type"`
	Priority    tasksrepo.Priority `json:"priority"`
	Context     *tasksrepo.Anchor  `json:"context"`
}

type UpdateStatusInput struct {
	Completed *bool `json:"completed"`
}

func (i UpdateStatusInput) Validate() error {
	if i.Completed == nil {
		return errors.New("completed is required")
	}
	return nil
}

type SetStatusInput struct {
	Status tasksrepo.Status `json:"status"`
}

func (i SetStatusInput) Validate() error {
	if i.Status == "" {
		return errors.New("status is required")
	}
	return nil
}

type StarResponse struct {
	IsStarred bool `json:"isStarred"`
}
