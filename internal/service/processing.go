package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/HizanLi/learn-textbook-with-ai/internal/pipeline"
	"github.com/HizanLi/learn-textbook-with-ai/internal/store"
	"github.com/HizanLi/learn-textbook-with-ai/internal/store/model"
	"github.com/HizanLi/learn-textbook-with-ai/pkg/metrics"
)

// ProcessingService drives a project through the external pipeline:
// convert, chunk, vectorize, strictly in that order, persisting status
// after every transition. At most one run per project is in flight; the
// claim is a compare-and-swap on the stored status, persisted before any
// remote call is made.
type ProcessingService struct {
	store    store.Store
	pipeline pipeline.Client
}

func NewProcessingService(store store.Store, pipeline pipeline.Client) *ProcessingService {
	return &ProcessingService{store: store, pipeline: pipeline}
}

// ProcessProject runs the state machine for one project.
//
// Completed projects are returned unchanged; a second call never restarts
// the pipeline or touches processedAt. A project already being processed
// is returned as-is so the caller knows work is in flight. Uploaded and
// failed projects are (re)run from the first stage; there is no partial
// resume. Failed projects may be retried any number of times, there is no
// backoff - retry is always caller-initiated.
func (s *ProcessingService) ProcessProject(ctx context.Context, username string, projectID string) (*model.Project, error) {
	project, err := s.store.Project().Get(ctx, username, projectID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrProjectNotFound(username, projectID)
		}
		return nil, err
	}

	switch project.Status {
	case model.ProjectStatusProcessing, model.ProjectStatusCompleted:
		return project, nil
	}

	claimed, err := s.store.Project().UpdateStatusIf(ctx, username, projectID,
		[]model.ProjectStatus{model.ProjectStatusUploaded, model.ProjectStatusFailed},
		model.ProjectStatusProcessing)
	if err != nil {
		return nil, err
	}
	if !claimed {
		// a concurrent call won the claim; surface whatever it produced
		project, err := s.store.Project().Get(ctx, username, projectID)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return nil, NewErrProjectNotFound(username, projectID)
			}
			return nil, err
		}
		return project, nil
	}
	project.Status = model.ProjectStatusProcessing

	// The claim is persisted; from here on a caller disconnect must not
	// abort the run or the status write. The pipeline client's own
	// timeouts remain the only bound on the remote calls.
	ctx = context.WithoutCancel(ctx)

	logger := zap.S().Named("processing").With("username", username, "project", projectID)
	logger.Infow("pipeline run claimed", "file", project.Filename)

	if err := s.pipeline.Health(ctx); err != nil {
		logger.Warnw("pipeline service unreachable", "error", err)
		metrics.IncreaseProcessingRuns(metrics.RunOutcomeUnavailable)
		unavailable := NewErrPipelineUnavailable(err)
		if failErr := s.markFailed(ctx, project, unavailable.Error()); failErr != nil {
			return nil, failErr
		}
		return nil, unavailable
	}

	updated, err := s.runStages(ctx, logger, project)
	if err != nil {
		var stageErr *pipeline.StageError
		if errors.As(err, &stageErr) {
			logger.Warnw("stage failed", "stage", stageErr.Stage, "detail", stageErr.Detail)
			metrics.IncreaseProcessingRuns(metrics.RunOutcomeFailed)
			if failErr := s.markFailed(ctx, project, stageErr.Error()); failErr != nil {
				return nil, failErr
			}
			return nil, NewErrProcessingFailed(stageErr)
		}
		// storage failure mid-run, nothing we can safely persist
		return nil, err
	}

	metrics.IncreaseProcessingRuns(metrics.RunOutcomeCompleted)
	logger.Infow("pipeline run completed",
		"markdown", *updated.MarkdownFile,
		"chunks", *updated.ChunksFile,
		"collection", *updated.CollectionName,
	)
	return updated, nil
}

// runStages executes the three stages in sequence. Each stage consumes the
// path the prior stage declared, falling back to the derived default when
// the service reported none.
func (s *ProcessingService) runStages(ctx context.Context, logger *zap.SugaredLogger, project *model.Project) (*model.Project, error) {
	username := project.Username

	converted, err := s.pipeline.Convert(ctx, username, project.Filename)
	if err != nil {
		return nil, err
	}
	markdownPath := converted.Path
	if markdownPath == "" {
		markdownPath = pipeline.DefaultMarkdownPath(project.Filename)
	}
	logger.Debugw("convert stage done", "markdown", markdownPath)

	chunksName := pipeline.DefaultChunksName(project.ID)
	chunked, err := s.pipeline.Chunk(ctx, username, markdownPath, chunksName)
	if err != nil {
		return nil, err
	}
	chunksPath := chunked.Path
	if chunksPath == "" {
		chunksPath = chunksName
	}
	logger.Debugw("chunk stage done", "chunks", chunksPath)

	collection := pipeline.CollectionName(username, project.ID)
	if err := s.pipeline.Vectorize(ctx, username, chunksPath, collection); err != nil {
		return nil, err
	}
	logger.Debugw("vectorize stage done", "collection", collection)

	now := time.Now().UTC()
	project.Status = model.ProjectStatusCompleted
	project.ProcessedAt = &now
	project.MarkdownFile = &markdownPath
	project.ChunksFile = &chunksPath
	project.CollectionName = &collection

	return s.store.Project().Update(ctx, *project)
}

// markFailed persists the failed status with the failure detail. Storage
// errors here propagate: losing a status write corrupts the state machine,
// so the caller must see it as an internal error.
func (s *ProcessingService) markFailed(ctx context.Context, project *model.Project, detail string) error {
	project.Status = model.ProjectStatusFailed
	project.Error = &detail
	_, err := s.store.Project().Update(ctx, *project)
	return err
}

// GetProject is a pure read, safe to call during or after processing.
func (s *ProcessingService) GetProject(ctx context.Context, username string, projectID string) (*model.Project, error) {
	project, err := s.store.Project().Get(ctx, username, projectID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrProjectNotFound(username, projectID)
		}
		return nil, err
	}
	return project, nil
}

// PipelineReady reports whether the external pipeline answers its
// liveness probe.
func (s *ProcessingService) PipelineReady(ctx context.Context) bool {
	return s.pipeline.Health(ctx) == nil
}
