package service

import "fmt"

type ErrProjectNotFound struct {
	error
}

func NewErrProjectNotFound(username, id string) *ErrProjectNotFound {
	return &ErrProjectNotFound{fmt.Errorf("project %s not found for user %s", id, username)}
}

// ErrPipelineUnavailable means the processing service did not answer the
// liveness probe. Distinct from ErrProcessingFailed so callers can tell
// "dependency down" from "bad input".
type ErrPipelineUnavailable struct {
	error
}

func NewErrPipelineUnavailable(err error) *ErrPipelineUnavailable {
	return &ErrPipelineUnavailable{fmt.Errorf("pipeline service unreachable: %w", err)}
}

// ErrProcessingFailed wraps a stage failure. The project record carries
// the same detail in its error field.
type ErrProcessingFailed struct {
	error
}

func NewErrProcessingFailed(err error) *ErrProcessingFailed {
	return &ErrProcessingFailed{err}
}

type ErrInvalidRequest struct {
	error
}

func NewErrInvalidRequest(message string) *ErrInvalidRequest {
	return &ErrInvalidRequest{fmt.Errorf("bad request: %s", message)}
}
