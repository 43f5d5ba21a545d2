package tasksrepo

import (
	"fmt"

	"github.com/jrazmi/anchorboard/core/repositories"
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", repositories.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func validateNew(n NewTask) error {
	if n.RepositoryID == "" {
		return invalid("repository id is required")
	}
	if n.Title == "" {
		return invalid("title is required")
	}
	if !n.Type.Valid() {
		return invalid("unknown task type %q", n.Type)
	}
	if !n.Priority.Valid() {
		return invalid("unknown priority %q", n.Priority)
	}
	if n.Anchor != nil {
		return validateAnchor(*n.Anchor)
	}
	return nil
}

func validateAnchor(a Anchor) error {
	if a.File == "" || a.SHA == "" {
		return invalid("anchor requires both file and sha")
	}
	if a.LineStart != nil && *a.LineStart < 1 {
		return invalid("lineStart must be positive, got %d", *a.LineStart)
	}
	if a.LineEnd != nil {
		if *a.LineEnd < 1 {
			return invalid("lineEnd must be positive, got %d", *a.LineEnd)
		}
		if a.LineStart == nil {
			return invalid("lineEnd requires lineStart")
		}
		if *a.LineEnd < *a.LineStart {
			return invalid("lineEnd %d is before lineStart %d", *a.LineEnd, *a.LineStart)
		}
	}
	return nil
}
