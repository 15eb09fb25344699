package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	APIPort  string
	LogLevel string

	// StorageBackend selects the blob store implementation: "s3" or
	// "localfs".
	StorageBackend string
	StoragePath    string

	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string

	OpenAIAPIKey         string
	OpenAIBaseURL        string
	OpenAIModel          string
	OpenAITimeoutSeconds int

	MaxTextLength            int
	TranslationMaxTextLength int

	// APIKeys holds the shared secret per task endpoint path. An empty
	// value marks the endpoint as not configured.
	APIKeys map[string]string
}

// Load reads configuration from the environment. A .env file is applied
// first when present, and CONFIG_FILE may point at a YAML file of
// key/value seeds. Precedence: environment, then seed file, then default.
func Load() Config {
	_ = godotenv.Load()
	seed := loadSeed(os.Getenv("CONFIG_FILE"))

	return Config{
		APIPort:  seed.str("API_PORT", "8080"),
		LogLevel: seed.str("LOG_LEVEL", "info"),

		StorageBackend: seed.str("STORAGE_BACKEND", "s3"),
		StoragePath:    seed.str("STORAGE_PATH", "./data/blobs"),

		S3Endpoint:        seed.str("S3_ENDPOINT", ""),
		S3Region:          seed.str("S3_REGION", "us-east-1"),
		S3AccessKeyID:     seed.str("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: seed.str("S3_SECRET_ACCESS_KEY", ""),

		OpenAIAPIKey:         seed.str("OPENAI_API_KEY", ""),
		OpenAIBaseURL:        seed.str("OPENAI_BASE_URL", ""),
		OpenAIModel:          seed.str("OPENAI_MODEL", "gpt-4o"),
		OpenAITimeoutSeconds: seed.integer("OPENAI_TIMEOUT_SECONDS", 120),

		MaxTextLength:            seed.integer("MAX_TEXT_LENGTH", 100_000),
		TranslationMaxTextLength: seed.integer("TRANSLATION_MAX_TEXT_LENGTH", 50_000),

		APIKeys: map[string]string{
			"/summarize":        seed.str("SUMMARIZE_API_KEY", ""),
			"/sentiment":        seed.str("SENTIMENT_API_KEY", ""),
			"/extract-keywords": seed.str("KEYWORDS_API_KEY", ""),
			"/translate":        seed.str("TRANSLATE_API_KEY", ""),
			"/structure-data":   seed.str("STRUCTURE_API_KEY", ""),
			"/detect-topics":    seed.str("TOPICS_API_KEY", ""),
		},
	}
}

type seedValues map[string]string

func loadSeed(path string) seedValues {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var seed seedValues
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil
	}
	return seed
}

func (s seedValues) str(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v, ok := s[key]; ok && v != "" {
		return v
	}
	return fallback
}

func (s seedValues) integer(key string, fallback int) int {
	v := s.str(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
