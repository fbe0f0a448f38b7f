// Package v1alpha1 holds the wire types of the learner API. They are shared
// by the HTTP handlers, the typed API client and the ops CLI.
package v1alpha1

import "time"

// ProjectStatus is the processing state of an uploaded project.
type ProjectStatus string

const (
	ProjectStatusUploaded   ProjectStatus = "uploaded"
	ProjectStatusProcessing ProjectStatus = "processing"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusFailed     ProjectStatus = "failed"
)

// Project is one uploaded document and its processing record.
type Project struct {
	Id             string        `json:"id"`
	Filename       string        `json:"filename"`
	OriginalName   string        `json:"originalName"`
	UploadedAt     time.Time     `json:"uploadedAt"`
	Status         ProjectStatus `json:"status"`
	ProcessedAt    *time.Time    `json:"processedAt,omitempty"`
	MarkdownFile   *string       `json:"markdownFile,omitempty"`
	ChunksFile     *string       `json:"chunksFile,omitempty"`
	CollectionName *string       `json:"collectionName,omitempty"`
	Error          *string       `json:"error,omitempty"`
}

type ProjectList []Project

// Processing outcome reasons surfaced on failure responses so callers can
// distinguish "pipeline down" from "bad input".
const (
	FailureReasonServiceUnavailable = "service_unavailable"
	FailureReasonProcessingError    = "processing_error"
)

// ProcessReply is the response body of the process trigger endpoint.
type ProcessReply struct {
	Status  ProjectStatus `json:"status"`
	Reason  string        `json:"reason,omitempty"`
	Message string        `json:"message"`
	Project *Project      `json:"project,omitempty"`
}

// CurrentProjectUpdate selects the user's current project.
type CurrentProjectUpdate struct {
	ProjectId string `json:"projectId"`
}

// CurrentProjectReply reports the current selection. Project is null when
// the user has no selection or the selection dangles.
type CurrentProjectReply struct {
	Project *Project `json:"project"`
}

// SearchRequest queries the vectorized collection of a completed project.
type SearchRequest struct {
	Query    string `json:"query"`
	NResults int    `json:"nResults,omitempty"`
}

type SearchResultMetadata struct {
	Source           string `json:"source"`
	Header1          string `json:"header_1"`
	Header2          string `json:"header_2"`
	Header3          string `json:"header_3"`
	HasImage         bool   `json:"has_image"`
	ReferencedImages string `json:"referenced_images"`
}

type SearchResult struct {
	Content  string               `json:"content"`
	Metadata SearchResultMetadata `json:"metadata"`
	Distance float64              `json:"distance"`
}

type SearchReply struct {
	CollectionName string         `json:"collectionName"`
	Query          string         `json:"query"`
	ResultsCount   int            `json:"resultsCount"`
	Results        []SearchResult `json:"results"`
}

// Health reports service liveness plus the reachability of the external
// processing pipeline.
type Health struct {
	Status   string `json:"status"`
	Pipeline string `json:"pipeline"`
}

// Error is the generic error body.
type Error struct {
	Message string `json:"message"`
}
