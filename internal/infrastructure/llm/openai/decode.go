package openai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

// decodeTaskResult turns raw completion content into the result variant
// for the prompt's kind. Free-text tasks take the content as-is; JSON
// tasks are schema-checked first so a model that answered with the wrong
// shape is reported as a malformed response, not a transport failure.
func decodeTaskResult(prompt domain.Prompt, content string) (domain.TaskResult, error) {
	result := domain.TaskResult{Kind: prompt.Kind}

	switch prompt.Kind {
	case domain.TaskSummarize:
		if content == "" {
			return domain.TaskResult{}, malformed(prompt.Kind, errors.New("empty completion content"))
		}
		result.Summary = &domain.SummaryResult{
			Summary:        content,
			SummaryLength:  len(content),
			OriginalLength: len(prompt.SourceText),
		}
		return result, nil

	case domain.TaskTranslate:
		if content == "" {
			return domain.TaskResult{}, malformed(prompt.Kind, errors.New("empty completion content"))
		}
		result.Translation = &domain.TranslationResult{
			TargetLanguage:   prompt.TargetLanguage,
			SourceLanguage:   "auto-detected",
			OriginalText:     prompt.SourceText,
			TranslatedText:   content,
			OriginalLength:   len(prompt.SourceText),
			TranslatedLength: len(content),
		}
		return result, nil
	}

	raw, err := extractJSONObject(content)
	if err != nil {
		return domain.TaskResult{}, malformed(prompt.Kind, err)
	}
	if err := validateSchema(prompt.ResponseSchema, raw); err != nil {
		return domain.TaskResult{}, malformed(prompt.Kind, err)
	}

	switch prompt.Kind {
	case domain.TaskSentiment:
		var s domain.SentimentResult
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return domain.TaskResult{}, malformed(prompt.Kind, err)
		}
		result.Sentiment = &s

	case domain.TaskKeywords:
		var payload struct {
			Keywords []string `json:"keywords"`
		}
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return domain.TaskResult{}, malformed(prompt.Kind, err)
		}
		if payload.Keywords == nil {
			payload.Keywords = []string{}
		}
		result.Keywords = &domain.KeywordsResult{
			Keywords: payload.Keywords,
			Count:    len(payload.Keywords),
		}

	case domain.TaskStructureData:
		var data map[string]any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return domain.TaskResult{}, malformed(prompt.Kind, err)
		}
		result.StructuredData = &domain.StructureResult{Data: data}

	case domain.TaskDetectTopics:
		var payload struct {
			Topics []domain.TopicEntry `json:"topics"`
		}
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return domain.TaskResult{}, malformed(prompt.Kind, err)
		}
		for i := range payload.Topics {
			if payload.Topics[i].Keywords == nil {
				payload.Topics[i].Keywords = []string{}
			}
		}
		result.Topics = &domain.TopicsResult{
			Topics:       payload.Topics,
			PrimaryTopic: domain.PrimaryTopic(payload.Topics),
			Count:        len(payload.Topics),
		}

	default:
		return domain.TaskResult{}, malformed(prompt.Kind, fmt.Errorf("no decoder for task kind %q", prompt.Kind))
	}

	return result, nil
}

func malformed(kind domain.TaskKind, err error) error {
	return domain.WrapError(domain.ErrAIMalformedResponse, fmt.Sprintf("decode %s response", kind), err)
}

// extractJSONObject trims any chatter around the outermost JSON object.
func extractJSONObject(content string) (string, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return "", errors.New("completion content contains no JSON object")
	}
	return content[start : end+1], nil
}

func validateSchema(schema, document string) error {
	if schema == "" {
		return nil
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewStringLoader(document),
	)
	if err != nil {
		return fmt.Errorf("validate against schema: %w", err)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, d := range result.Errors() {
			details = append(details, d.String())
		}
		return fmt.Errorf("schema violations: %s", strings.Join(details, "; "))
	}
	return nil
}
