package usecase

import (
	"github.com/kirillkom/docinsight/internal/core/domain"
)

// Fixed success message per task kind; part of the response contract.
var successMessages = map[domain.TaskKind]string{
	domain.TaskSummarize:     "Document summarized successfully",
	domain.TaskSentiment:     "Sentiment analysis completed successfully",
	domain.TaskKeywords:      "Keywords extracted successfully",
	domain.TaskTranslate:     "Document translated successfully",
	domain.TaskStructureData: "Structured data extracted successfully",
	domain.TaskDetectTopics:  "Topics detected successfully",
}

// AssembleSuccess builds the success envelope for a finished task. The
// data payload always carries the echoed file path, the blob properties
// and the truncation flag, plus the task-specific fields.
func AssembleSuccess(outcome domain.TaskOutcome) domain.ResponseEnvelope {
	data := map[string]any{
		"file_path":       outcome.Request.FilePath,
		"file_properties": outcome.Properties,
		"was_truncated":   outcome.Document.WasTruncated,
	}

	switch outcome.Request.Kind {
	case domain.TaskSummarize:
		r := outcome.Result.Summary
		data["summary"] = r.Summary
		data["summary_length"] = r.SummaryLength
		data["original_length"] = r.OriginalLength
	case domain.TaskSentiment:
		r := outcome.Result.Sentiment
		data["sentiment"] = r.Sentiment
		data["confidence"] = r.Confidence
		data["explanation"] = r.Explanation
	case domain.TaskKeywords:
		r := outcome.Result.Keywords
		data["keywords"] = r.Keywords
		data["keyword_count"] = r.Count
	case domain.TaskTranslate:
		r := outcome.Result.Translation
		data["target_language"] = r.TargetLanguage
		data["source_language"] = r.SourceLanguage
		data["original_text"] = r.OriginalText
		data["translated_text"] = r.TranslatedText
		data["original_length"] = r.OriginalLength
		data["translated_length"] = r.TranslatedLength
	case domain.TaskStructureData:
		data["structured_data"] = outcome.Result.StructuredData.Data
	case domain.TaskDetectTopics:
		r := outcome.Result.Topics
		data["topics"] = r.Topics
		data["primary_topic"] = r.PrimaryTopic
		data["topic_count"] = r.Count
	}

	return domain.ResponseEnvelope{
		Status:  domain.StatusSuccess,
		Message: successMessages[outcome.Request.Kind],
		Data:    data,
	}
}

// AssembleError builds the error envelope for a failed task. The error key
// comes from the taxonomy; the message keeps the full cause chain so the
// failing pipeline stage stays identifiable.
func AssembleError(err error) domain.ResponseEnvelope {
	return domain.ResponseEnvelope{
		Status:  domain.StatusError,
		Message: err.Error(),
		Error:   domain.TaxonomyKey(err),
	}
}
