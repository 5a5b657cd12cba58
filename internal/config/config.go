// ABOUTME: Centralized configuration for the coach analytics pipeline
// ABOUTME: Loads from environment variables plus an optional coach.yaml overlay
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultTopics is the built-in candidate topic list used by the topic
// affinity engine when coach.yaml does not provide one.
var DefaultTopics = []string{
	"childhood memories",
	"work and career goals",
	"family",
	"hopes and dreams",
	"fears and worries",
	"hobbies and free time",
	"money and finances",
	"friends and social life",
	"health and wellbeing",
	"travel",
	"values and beliefs",
	"daily routines",
}

// Config holds all configuration for the coach system
type Config struct {
	// Charm settings (vector index backend)
	CharmHost   string
	CharmDBName string
	AutoSync    bool

	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Pipeline settings
	VectorDimension int
	RetrievalBudget int
	MinMessages     int // floor for quick analyses (ratio, horsemen, bids, ...)
	MinTopicMsgs    int // floor for topic analyses (love map, shared interests)
	WordLimit       int // ceiling passed to the synthesizer prompt

	// Topic affinity candidates
	Topics []string
}

// fileOverlay is the subset of Config loadable from coach.yaml
type fileOverlay struct {
	Topics          []string `yaml:"topics"`
	WordLimit       int      `yaml:"word_limit"`
	RetrievalBudget int      `yaml:"retrieval_budget"`
	MinMessages     int      `yaml:"min_messages"`
	MinTopicMsgs    int      `yaml:"min_topic_messages"`
}

// Load reads configuration from environment variables and, when COACH_CONFIG
// points at a YAML file (or ./coach.yaml exists), overlays its values.
func Load() (*Config, error) {
	cfg := &Config{
		CharmHost:       getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName:     getEnv("CHARM_DB", "coach"),
		AutoSync:        getEnvBool("CHARM_AUTO_SYNC", true),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		ChatModel:       getEnv("COACH_OPENAI_MODEL", "gpt-4o-mini"),
		EmbeddingModel:  getEnv("COACH_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:         getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:      getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:      getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		VectorDimension: getEnvInt("VECTOR_DIMENSION", 1536),
		RetrievalBudget: getEnvInt("COACH_RETRIEVAL_BUDGET", 100),
		MinMessages:     getEnvInt("COACH_MIN_MESSAGES", 20),
		MinTopicMsgs:    getEnvInt("COACH_MIN_TOPIC_MESSAGES", 50),
		WordLimit:       getEnvInt("COACH_WORD_LIMIT", 180),
		Topics:          DefaultTopics,
	}

	path := os.Getenv("COACH_CONFIG")
	if path == "" {
		if _, err := os.Stat("coach.yaml"); err == nil {
			path = "coach.yaml"
		}
	}
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	return cfg, cfg.Validate()
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var overlay fileOverlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(overlay.Topics) > 0 {
		c.Topics = overlay.Topics
	}
	if overlay.WordLimit > 0 {
		c.WordLimit = overlay.WordLimit
	}
	if overlay.RetrievalBudget > 0 {
		c.RetrievalBudget = overlay.RetrievalBudget
	}
	if overlay.MinMessages > 0 {
		c.MinMessages = overlay.MinMessages
	}
	if overlay.MinTopicMsgs > 0 {
		c.MinTopicMsgs = overlay.MinTopicMsgs
	}
	return nil
}

func (c *Config) Validate() error {
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.VectorDimension <= 0 {
		return fmt.Errorf("VECTOR_DIMENSION must be positive, got %d", c.VectorDimension)
	}
	if c.RetrievalBudget <= 0 {
		return fmt.Errorf("COACH_RETRIEVAL_BUDGET must be positive, got %d", c.RetrievalBudget)
	}
	if c.MinMessages <= 0 || c.MinTopicMsgs <= 0 {
		return fmt.Errorf("message thresholds must be positive, got %d and %d", c.MinMessages, c.MinTopicMsgs)
	}
	if c.WordLimit <= 0 {
		return fmt.Errorf("COACH_WORD_LIMIT must be positive, got %d", c.WordLimit)
	}
	if len(c.Topics) == 0 {
		return fmt.Errorf("topic list cannot be empty")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
