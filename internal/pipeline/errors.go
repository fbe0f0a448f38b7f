package pipeline

import "fmt"

// Stage names one step of the external processing pipeline.
type Stage string

const (
	StageConvert   Stage = "convert"
	StageChunk     Stage = "chunk"
	StageVectorize Stage = "vectorize"
	StageSearch    Stage = "search"
)

// StageError is returned when a stage call comes back non-success or
// malformed. The orchestrator treats every StageError the same way: abort
// the remaining stages and mark the project failed with Detail.
type StageError struct {
	Stage  Stage
	Detail string
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %s", e.Stage, e.Detail)
}

func newStageError(stage Stage, format string, args ...any) *StageError {
	return &StageError{Stage: stage, Detail: fmt.Sprintf(format, args...)}
}
