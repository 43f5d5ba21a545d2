package tasksrepobridge

import "github.com/jrazmi/anchorboard/core/repositories/tasksrepo"

// MarshalCreateToRepository converts bridge create input to repository input
func MarshalCreateToRepository(repositoryID string, input CreateTaskInput) tasksrepo.NewTask {
	return tasksrepo.NewTask{
		RepositoryID: repositoryID,
		Title:        input.Title,
		Description:  input.Description,
		Type:         input.Type,
		Priority:     input.Priority,
		Anchor:       input.Context,
	}
}
