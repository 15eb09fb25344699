package domain

import (
	"errors"
	"fmt"
	"strings"
)

// TaskKind identifies one of the document analysis tasks the service
// offers. Values double as the endpoint path segment.
type TaskKind string

const (
	TaskSummarize     TaskKind = "summarize"
	TaskSentiment     TaskKind = "sentiment"
	TaskKeywords      TaskKind = "extract-keywords"
	TaskTranslate     TaskKind = "translate"
	TaskStructureData TaskKind = "structure-data"
	TaskDetectTopics  TaskKind = "detect-topics"
)

// TaskKinds lists every supported task in endpoint order.
func TaskKinds() []TaskKind {
	return []TaskKind{
		TaskSummarize,
		TaskSentiment,
		TaskKeywords,
		TaskTranslate,
		TaskStructureData,
		TaskDetectTopics,
	}
}

// TaskRequest is one unit of work: a task kind applied to a stored document.
type TaskRequest struct {
	Kind           TaskKind
	FilePath       string
	TargetLanguage string
}

// Validate checks the request parameters that must hold before any I/O is
// attempted.
func (r TaskRequest) Validate() error {
	switch r.Kind {
	case TaskSummarize, TaskSentiment, TaskKeywords, TaskStructureData, TaskDetectTopics:
	case TaskTranslate:
		if strings.TrimSpace(r.TargetLanguage) == "" {
			return WrapError(ErrInvalidTaskParams, "validate task", errors.New("target_language is required for translation"))
		}
	default:
		return WrapError(ErrInvalidTaskParams, "validate task", fmt.Errorf("unknown task kind %q", r.Kind))
	}
	if strings.TrimSpace(r.FilePath) == "" {
		return WrapError(ErrInvalidTaskParams, "validate task", errors.New("file_path is required"))
	}
	return nil
}

// TaskResult carries the decoded completion for exactly one task kind. The
// variant matching Kind is non-nil, the rest stay nil.
type TaskResult struct {
	Kind           TaskKind
	Summary        *SummaryResult
	Sentiment      *SentimentResult
	Keywords       *KeywordsResult
	Translation    *TranslationResult
	StructuredData *StructureResult
	Topics         *TopicsResult
}

type SummaryResult struct {
	Summary        string
	SummaryLength  int
	OriginalLength int
}

type SentimentResult struct {
	Sentiment   string  `json:"sentiment"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

type KeywordsResult struct {
	Keywords []string
	Count    int
}

type TranslationResult struct {
	TargetLanguage   string
	SourceLanguage   string
	OriginalText     string
	TranslatedText   string
	OriginalLength   int
	TranslatedLength int
}

type StructureResult struct {
	Data map[string]any
}

// TopicEntry is one detected topic with its supporting keywords.
type TopicEntry struct {
	Topic      string   `json:"topic"`
	Confidence float64  `json:"confidence"`
	Keywords   []string `json:"keywords"`
}

type TopicsResult struct {
	Topics       []TopicEntry
	PrimaryTopic string
	Count        int
}

// PrimaryTopic returns the topic with the highest confidence. On ties the
// first listed topic wins. An empty list yields an empty string.
func PrimaryTopic(topics []TopicEntry) string {
	if len(topics) == 0 {
		return ""
	}
	best := topics[0]
	for _, t := range topics[1:] {
		if t.Confidence > best.Confidence {
			best = t
		}
	}
	return best.Topic
}

// Prompt is the fully rendered model request for one task. SourceText is
// kept alongside the instruction so result derivation can reference the
// exact text the model saw.
type Prompt struct {
	Kind           TaskKind
	Instruction    string
	SourceText     string
	TargetLanguage string
	JSONMode       bool
	ResponseSchema string
	MaxTokens      int
	Temperature    float32
}

// TaskOutcome bundles everything a successful pipeline run produced.
type TaskOutcome struct {
	Request    TaskRequest
	Result     TaskResult
	Document   ExtractedDocument
	Properties FileProperties
}
