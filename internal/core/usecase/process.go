package usecase

import (
	"context"
	"fmt"

	"github.com/kirillkom/docinsight/internal/core/domain"
	"github.com/kirillkom/docinsight/internal/core/ports"
)

// TextLimits caps how many characters of an extracted document reach the
// model. Translation gets its own, tighter limit because translated output
// scales with input size.
type TextLimits struct {
	Default     int
	Translation int
}

// ForKind returns the limit that applies to the given task kind.
func (l TextLimits) ForKind(kind domain.TaskKind) int {
	if kind == domain.TaskTranslate && l.Translation > 0 {
		return l.Translation
	}
	return l.Default
}

// ProcessTaskUseCase runs the document analysis pipeline: locate the blob,
// fetch it, extract text, cap its length, render the prompt, and invoke
// the completion service once.
type ProcessTaskUseCase struct {
	store     ports.BlobStore
	extractor ports.TextExtractor
	completer ports.TaskCompleter
	limits    TextLimits
}

func NewProcessTaskUseCase(
	store ports.BlobStore,
	extractor ports.TextExtractor,
	completer ports.TaskCompleter,
	limits TextLimits,
) *ProcessTaskUseCase {
	return &ProcessTaskUseCase{
		store:     store,
		extractor: extractor,
		completer: completer,
		limits:    limits,
	}
}

// Process executes one task request. Parameter validation and path parsing
// happen before any I/O, so bad requests never touch the store or the
// model.
func (uc *ProcessTaskUseCase) Process(ctx context.Context, req domain.TaskRequest) (domain.TaskOutcome, error) {
	if err := req.Validate(); err != nil {
		return domain.TaskOutcome{}, err
	}

	ref, err := domain.ParseFileReference(req.FilePath)
	if err != nil {
		return domain.TaskOutcome{}, err
	}

	content, props, err := uc.fetch(ctx, ref)
	if err != nil {
		return domain.TaskOutcome{}, err
	}

	text, err := uc.extract(ctx, content, props)
	if err != nil {
		return domain.TaskOutcome{}, err
	}

	doc := domain.LimitText(text, uc.limits.ForKind(req.Kind))

	prompt, err := BuildPrompt(req, doc)
	if err != nil {
		return domain.TaskOutcome{}, err
	}

	result, err := uc.invoke(ctx, prompt)
	if err != nil {
		return domain.TaskOutcome{}, err
	}

	return domain.TaskOutcome{
		Request:    req,
		Result:     result,
		Document:   doc,
		Properties: props,
	}, nil
}

func (uc *ProcessTaskUseCase) fetch(ctx context.Context, ref domain.FileReference) ([]byte, domain.FileProperties, error) {
	content, props, err := uc.store.Fetch(ctx, ref)
	if err != nil {
		return nil, domain.FileProperties{}, fmt.Errorf("fetch %s/%s: %w", ref.Container, ref.BlobName, err)
	}
	return content, props, nil
}

func (uc *ProcessTaskUseCase) extract(ctx context.Context, content []byte, props domain.FileProperties) (string, error) {
	text, err := uc.extractor.Extract(ctx, content, props)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", props.Name, err)
	}
	return text, nil
}

func (uc *ProcessTaskUseCase) invoke(ctx context.Context, prompt domain.Prompt) (domain.TaskResult, error) {
	result, err := uc.completer.CompleteTask(ctx, prompt)
	if err != nil {
		return domain.TaskResult{}, fmt.Errorf("complete %s task: %w", prompt.Kind, err)
	}
	return result, nil
}
