package usecase

import (
	"fmt"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

const summarizeTemplate = `Please summarize the following document into a concise paragraph that captures the main points and key information:

%s

Provide a clear, informative summary that maintains the essential details while being significantly shorter than the original.`

const sentimentTemplate = `Analyze the sentiment of the following text and provide:
1. Overall sentiment (positive, negative, or neutral)
2. Confidence score (0.0 to 1.0)
3. Brief explanation of the sentiment analysis

Text to analyze:
%s

Respond in JSON format with the following structure:
{
    "sentiment": "positive/negative/neutral",
    "confidence": 0.85,
    "explanation": "Brief explanation of the sentiment analysis"
}`

const keywordsTemplate = `Extract the most important keywords and key phrases from the following text.
Focus on:
- Important nouns and proper nouns
- Key concepts and themes
- Technical terms
- Names of people, places, organizations

Text to analyze:
%s

Respond in JSON format with a list of keywords:
{
    "keywords": ["keyword1", "keyword2", "keyword3", ...]
}

Limit to the top 15 most important keywords.`

// The translate template takes the target language first, then the text.
const translateTemplate = `Translate the following text to %s.
Maintain the original meaning, tone, and structure as much as possible.

Text to translate:
%s

Provide only the translated text without any additional commentary.`

const structureTemplate = `Extract structured data from the following text. Look for and extract:
- Names (people, organizations, locations)
- Dates and times
- Numbers and amounts (monetary, quantities, percentages)
- Contact information (emails, phone numbers, addresses)
- Key entities and their relationships

Text to analyze:
%s

Respond in JSON format with the following structure:
{
    "names": {
        "people": ["person1", "person2"],
        "organizations": ["org1", "org2"],
        "locations": ["location1", "location2"]
    },
    "dates": ["date1", "date2"],
    "amounts": {
        "monetary": ["$100", "$200"],
        "quantities": ["50 units", "25%%"],
        "numbers": ["100", "200"]
    },
    "contact_info": {
        "emails": ["email1", "email2"],
        "phones": ["phone1", "phone2"],
        "addresses": ["address1", "address2"]
    },
    "key_entities": ["entity1", "entity2"]
}`

const topicsTemplate = `Identify the primary topics and themes discussed in the following text.
Categorize the content and provide:
- Main topics (up to 8 topics)
- Supporting keywords for each topic
- Confidence score for each topic (0.0 to 1.0)

Text to analyze:
%s

Respond in JSON format:
{
    "topics": [
        {
            "topic": "Topic Name",
            "confidence": 0.85,
            "keywords": ["keyword1", "keyword2"]
        }
    ]
}`

// Response schemas for the JSON-mode tasks. The completion client checks
// the model output against these before decoding, so a wrong shape is
// rejected in one place.
const sentimentSchema = `{
	"type": "object",
	"required": ["sentiment", "confidence", "explanation"],
	"properties": {
		"sentiment": {"type": "string", "minLength": 1},
		"confidence": {"type": "number", "minimum": 0, "maximum": 1},
		"explanation": {"type": "string"}
	}
}`

const keywordsSchema = `{
	"type": "object",
	"required": ["keywords"],
	"properties": {
		"keywords": {"type": "array", "items": {"type": "string"}}
	}
}`

// Structured extraction output varies too much per document to pin down
// beyond "a JSON object".
const structureSchema = `{"type": "object"}`

const topicsSchema = `{
	"type": "object",
	"required": ["topics"],
	"properties": {
		"topics": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["topic", "confidence", "keywords"],
				"properties": {
					"topic": {"type": "string", "minLength": 1},
					"confidence": {"type": "number", "minimum": 0, "maximum": 1},
					"keywords": {"type": "array", "items": {"type": "string"}}
				}
			}
		}
	}
}`

type promptProfile struct {
	template    string
	schema      string
	jsonMode    bool
	maxTokens   int
	temperature float32
}

var promptProfiles = map[domain.TaskKind]promptProfile{
	domain.TaskSummarize: {
		template:    summarizeTemplate,
		maxTokens:   500,
		temperature: 0.3,
	},
	domain.TaskSentiment: {
		template:    sentimentTemplate,
		schema:      sentimentSchema,
		jsonMode:    true,
		maxTokens:   300,
		temperature: 0.1,
	},
	domain.TaskKeywords: {
		template:    keywordsTemplate,
		schema:      keywordsSchema,
		jsonMode:    true,
		maxTokens:   400,
		temperature: 0.2,
	},
	domain.TaskTranslate: {
		template:    translateTemplate,
		maxTokens:   2000,
		temperature: 0.1,
	},
	domain.TaskStructureData: {
		template:    structureTemplate,
		schema:      structureSchema,
		jsonMode:    true,
		maxTokens:   800,
		temperature: 0.1,
	},
	domain.TaskDetectTopics: {
		template:    topicsTemplate,
		schema:      topicsSchema,
		jsonMode:    true,
		maxTokens:   600,
		temperature: 0.2,
	},
}

// BuildPrompt renders the model instruction for one task over an already
// length-capped document.
func BuildPrompt(req domain.TaskRequest, doc domain.ExtractedDocument) (domain.Prompt, error) {
	profile, ok := promptProfiles[req.Kind]
	if !ok {
		return domain.Prompt{}, domain.WrapError(
			domain.ErrInvalidTaskParams,
			"build prompt",
			fmt.Errorf("unknown task kind %q", req.Kind),
		)
	}

	var instruction string
	if req.Kind == domain.TaskTranslate {
		instruction = fmt.Sprintf(profile.template, req.TargetLanguage, doc.Text)
	} else {
		instruction = fmt.Sprintf(profile.template, doc.Text)
	}

	return domain.Prompt{
		Kind:           req.Kind,
		Instruction:    instruction,
		SourceText:     doc.Text,
		TargetLanguage: req.TargetLanguage,
		JSONMode:       profile.jsonMode,
		ResponseSchema: profile.schema,
		MaxTokens:      profile.maxTokens,
		Temperature:    profile.temperature,
	}, nil
}
