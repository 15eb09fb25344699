package ports

import (
	"context"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

// TaskProcessor is the inbound contract for running one document analysis
// task end to end.
type TaskProcessor interface {
	Process(ctx context.Context, req domain.TaskRequest) (domain.TaskOutcome, error)
}
