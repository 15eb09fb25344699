package ports

import (
	"context"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

// BlobStore retrieves stored document content together with its metadata.
// Both are read in one logical operation so content and properties always
// describe the same blob version.
type BlobStore interface {
	Fetch(ctx context.Context, ref domain.FileReference) ([]byte, domain.FileProperties, error)
}

// TextExtractor converts raw document bytes into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, content []byte, props domain.FileProperties) (string, error)
}

// TaskCompleter sends one rendered prompt to the completion service and
// decodes the model output into the result variant for the prompt's kind.
// Implementations make a single attempt; retry policy belongs to callers.
type TaskCompleter interface {
	CompleteTask(ctx context.Context, prompt domain.Prompt) (domain.TaskResult, error)
}
