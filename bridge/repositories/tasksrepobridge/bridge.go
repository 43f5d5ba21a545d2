package tasksrepobridge

import (
	"context"
	"net/http"

	"github.com/jrazmi/anchorboard/bridge/scaffolding/errs"
	"github.com/jrazmi/anchorboard/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/anchorboard/bridge/scaffolding/mid"
	"github.com/jrazmi/anchorboard/core/repositories/tasksrepo"
	"github.com/jrazmi/anchorboard/infrastructure/web"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

type bridge struct {
	log             *logger.Logger
	tasksRepository *tasksrepo.Repository
}

func newBridge(log *logger.Logger, tasksRepository *tasksrepo.Repository) *bridge {
	return &bridge{
		log:             log,
		tasksRepository: tasksRepository,
	}
}

func (b *bridge) httpListForRepository(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	tasks, err := b.tasksRepository.ListForRepository(ctx, userID, web.Param(r, "repository_id"))
	if err != nil {
		return errs.FromCore(err)
	}
	return fopbridge.NewRecordsResponse(tasks)
}

func (b *bridge) httpCreate(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	var input CreateTaskInput
	if err := web.Decode(r, &input); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	task, err := b.tasksRepository.Create(ctx, userID, MarshalCreateToRepository(web.Param(r, "repository_id"), input))
	if err != nil {
		return errs.FromCore(err)
	}
	return fopbridge.NewCreatedResponse(task)
}

func (b *bridge) httpListForUser(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	tasks, err := b.tasksRepository.ListForUser(ctx, userID)
	if err != nil {
		return errs.FromCore(err)
	}
	return fopbridge.NewRecordsResponse(tasks)
}

// httpUpdateStatus answers 204. A false completed flag reopens the task
// whatever its previous status.
func (b *bridge) httpUpdateStatus(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	var input UpdateStatusInput
	if err := web.Decode(r, &input); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	if err := b.tasksRepository.UpdateStatus(ctx, userID, web.Param(r, "task_id"), *input.Completed); err != nil {
		return errs.FromCore(err)
	}
	return nil
}

func (b *bridge) httpSetStatus(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	var input SetStatusInput
	if err := web.Decode(r, &input); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	if err := b.tasksRepository.SetStatus(ctx, userID, web.Param(r, "task_id"), input.Status); err != nil {
		return errs.FromCore(err)
	}
	return nil
}

func (b *bridge) httpToggleStar(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	starred, err := b.tasksRepository.ToggleStar(ctx, userID, web.Param(r, "task_id"))
	if err != nil {
		return errs.FromCore(err)
	}
	return web.NewJSONResponse(StarResponse{IsStarred: starred})
}

func (b *bridge) httpDelete(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	taskID := web.Param(r, "task_id")
	if err := b.tasksRepository.Delete(ctx, userID, taskID); err != nil {
		return errs.FromCore(err)
	}
	b.log.InfoContext(ctx, "task deleted", "task_id", taskID, "user_id", userID)
	return nil
}
