package pipeline

import (
	"path/filepath"
	"strings"
)

// The pipeline service reports output paths in data.path, but an older
// deployment omits them. The orchestrator then falls back to the paths the
// service is known to produce; the derivations below are the single place
// that knowledge lives.

// DefaultMarkdownPath is the conversion output assumed when the convert
// stage reports no path: the input name with its extension swapped
// for ".md".
func DefaultMarkdownPath(inputName string) string {
	stem := strings.TrimSuffix(inputName, filepath.Ext(inputName))
	return stem + ".md"
}

// DefaultChunksName is the chunker output assumed when the chunk stage
// reports no path.
func DefaultChunksName(projectID string) string {
	return projectID + "-chunks.json"
}

// CollectionName derives the vector collection a project is stored under.
// Collections are per user and per project.
func CollectionName(username, projectID string) string {
	return username + "-" + projectID
}
