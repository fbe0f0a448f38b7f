package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultMarkdownPath(t *testing.T) {
	assert.Equal(t, "p1.md", DefaultMarkdownPath("p1.pdf"))
	assert.Equal(t, "chapter.3.md", DefaultMarkdownPath("chapter.3.docx"))
	// no extension, suffix is still appended
	assert.Equal(t, "notes.md", DefaultMarkdownPath("notes"))
}

func TestDefaultChunksName(t *testing.T) {
	assert.Equal(t, "p1-chunks.json", DefaultChunksName("p1"))
}

func TestCollectionName(t *testing.T) {
	assert.Equal(t, "alice-p1", CollectionName("alice", "p1"))
}
