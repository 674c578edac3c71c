package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the function
type Config struct {
	Environment string
	Port        string
	LogLevel    string
	ScratchDir  string
	Model       ModelConfig
	Download    DownloadConfig
	Twitter     TwitterConfig
}

// ModelConfig locates the classifier artifacts and sets inference parameters
type ModelConfig struct {
	Dir                 string `validate:"required"`
	GraphFile           string `validate:"required"`
	LabelLookupFile     string `validate:"required"`
	UIDLookupFile       string `validate:"required"`
	ImageSize           int    `validate:"gt=0"`
	MaxPredictions      int    `validate:"gt=0"`
	ConfidenceThreshold float64 `validate:"gte=0,lt=1"`
}

// GraphPath returns the full path of the serialized graph file.
func (m ModelConfig) GraphPath() string { return filepath.Join(m.Dir, m.GraphFile) }

// LabelLookupPath returns the full path of the UID-to-label table.
func (m ModelConfig) LabelLookupPath() string { return filepath.Join(m.Dir, m.LabelLookupFile) }

// UIDLookupPath returns the full path of the node-ID-to-UID table.
func (m ModelConfig) UIDLookupPath() string { return filepath.Join(m.Dir, m.UIDLookupFile) }

// DownloadConfig bounds the remote image download
type DownloadConfig struct {
	Timeout  time.Duration `validate:"gt=0"`
	MaxBytes int64         `validate:"gt=0"`
}

// TwitterConfig holds the publishing credentials. Absent credentials are not
// an error here; publishing fails when attempted.
type TwitterConfig struct {
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
	Timeout           time.Duration `validate:"gt=0"`
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SCRATCH_DIR", "")
	viper.SetDefault("MODEL_DIR", "/tmp/tfmodel/")
	viper.SetDefault("GRAPH_DEF_FILENAME", "classify_image_graph_def.onnx")
	viper.SetDefault("LABEL_LOOKUP_FILENAME", "imagenet_synset_to_human_label_map.txt")
	viper.SetDefault("UID_LOOKUP_FILENAME", "imagenet_2012_challenge_label_map_proto.pbtxt")
	viper.SetDefault("MODEL_IMAGE_SIZE", 299)
	viper.SetDefault("MAX_PREDICTIONS", 5)
	viper.SetDefault("CONFIDENCE_THRESHOLD", 0.0)
	viper.SetDefault("DOWNLOAD_TIMEOUT_SECONDS", 30)
	viper.SetDefault("DOWNLOAD_MAX_BYTES", 50*1024*1024)
	viper.SetDefault("TWITTER_TIMEOUT_SECONDS", 60)

	config := &Config{
		Environment: viper.GetString("ENVIRONMENT"),
		Port:        viper.GetString("PORT"),
		LogLevel:    viper.GetString("LOG_LEVEL"),
		ScratchDir:  viper.GetString("SCRATCH_DIR"),
		Model: ModelConfig{
			Dir:                 viper.GetString("MODEL_DIR"),
			GraphFile:           viper.GetString("GRAPH_DEF_FILENAME"),
			LabelLookupFile:     viper.GetString("LABEL_LOOKUP_FILENAME"),
			UIDLookupFile:       viper.GetString("UID_LOOKUP_FILENAME"),
			ImageSize:           viper.GetInt("MODEL_IMAGE_SIZE"),
			MaxPredictions:      viper.GetInt("MAX_PREDICTIONS"),
			ConfidenceThreshold: viper.GetFloat64("CONFIDENCE_THRESHOLD"),
		},
		Download: DownloadConfig{
			Timeout:  time.Duration(viper.GetInt("DOWNLOAD_TIMEOUT_SECONDS")) * time.Second,
			MaxBytes: viper.GetInt64("DOWNLOAD_MAX_BYTES"),
		},
		Twitter: TwitterConfig{
			ConsumerKey:       viper.GetString("TWITTER_CONSUMER_KEY"),
			ConsumerSecret:    viper.GetString("TWITTER_CONSUMER_SECRET"),
			AccessToken:       viper.GetString("TWITTER_ACCESS_TOKEN"),
			AccessTokenSecret: viper.GetString("TWITTER_ACCESS_TOKEN_SECRET"),
			Timeout:           time.Duration(viper.GetInt("TWITTER_TIMEOUT_SECONDS")) * time.Second,
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks parameter bounds
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
