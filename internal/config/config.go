package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        App        `mapstructure:"app"`
	Gemini     Gemini     `mapstructure:"gemini"`
	Google     Google     `mapstructure:"google"`
	Sheets     Sheets     `mapstructure:"sheets"`
	Docs       Docs       `mapstructure:"docs"`
	Generation Generation `mapstructure:"generation"`
	Dedup      Dedup      `mapstructure:"dedup"`
	Feedback   Feedback   `mapstructure:"feedback"`
	Logging    Logging    `mapstructure:"logging"`
}

// App holds general application configuration
type App struct {
	Debug     bool   `mapstructure:"debug"`
	OutputDir string `mapstructure:"output_dir"` // local documents when running offline
}

// Gemini holds Google Gemini configuration
type Gemini struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
	TopP        float32 `mapstructure:"top_p"`
	TopK        int32   `mapstructure:"top_k"`
	MaxTokens   int32   `mapstructure:"max_tokens"`
}

// Google holds service-account credentials for Sheets, Docs and Drive
type Google struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	CredentialsJSON string `mapstructure:"credentials_json"`
}

// Sheets identifies the source spreadsheet
type Sheets struct {
	SheetID  string `mapstructure:"sheet_id"`
	Tab      string `mapstructure:"tab"`
	XLSXPath string `mapstructure:"xlsx_path"`
}

// Docs holds document placement configuration
type Docs struct {
	DefaultFolderID    string `mapstructure:"default_folder_id"`
	FallbackFolderName string `mapstructure:"fallback_folder_name"`
}

// Generation tunes the row workflow
type Generation struct {
	Delay               time.Duration `mapstructure:"delay"`
	TitleRetries        int           `mapstructure:"title_retries"`
	TemperatureStep     float32       `mapstructure:"temperature_step"`
	SimilarityThreshold float64       `mapstructure:"similarity_threshold"`
	HistorySize         int           `mapstructure:"history_size"`
	Language            string        `mapstructure:"language"`
	BodyWords           int           `mapstructure:"body_words"`
}

// Dedup holds content dedup configuration
type Dedup struct {
	Threshold float64 `mapstructure:"threshold"`
}

// Feedback holds the feedback store location
type Feedback struct {
	DataDir string `mapstructure:"data_dir"`
}

// Logging holds logging configuration
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var globalConfig *Config

// Load loads the configuration from various sources
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".anchorwriter")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	postProcessConfig(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.output_dir", "articles")

	viper.SetDefault("gemini.model", "gemini-1.5-flash")
	viper.SetDefault("gemini.temperature", 0.8)
	viper.SetDefault("gemini.top_p", 0.95)
	viper.SetDefault("gemini.top_k", 40)
	viper.SetDefault("gemini.max_tokens", 2048)

	viper.SetDefault("docs.fallback_folder_name", "anchorwriter articles")

	viper.SetDefault("generation.delay", "5s")
	viper.SetDefault("generation.title_retries", 3)
	viper.SetDefault("generation.temperature_step", 0.1)
	viper.SetDefault("generation.similarity_threshold", 0.65)
	viper.SetDefault("generation.history_size", 200)
	viper.SetDefault("generation.language", "português do Brasil")
	viper.SetDefault("generation.body_words", 800)

	viper.SetDefault("dedup.threshold", 0.4)

	viper.SetDefault("feedback.data_dir", ".anchorwriter")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
}

// bindEnvironmentVariables sets up flexible environment variable binding
func bindEnvironmentVariables() {
	bindEnvKeys("gemini.api_key", []string{
		"GEMINI_API_KEY",
		"GOOGLE_GEMINI_API_KEY",
		"GOOGLE_AI_API_KEY",
	})

	bindEnvKeys("google.credentials_file", []string{
		"GOOGLE_APPLICATION_CREDENTIALS",
	})

	bindEnvKeys("google.credentials_json", []string{
		"GOOGLE_APPLICATION_CREDENTIALS_JSON",
	})

	bindEnvKeys("sheets.sheet_id", []string{
		"ANCHORWRITER_SHEET_ID",
		"SHEET_ID",
	})

	bindEnvKeys("docs.default_folder_id", []string{
		"DRIVE_FOLDER_ID",
	})

	bindEnvKeys("app.debug", []string{
		"DEBUG",
		"ANCHORWRITER_DEBUG",
	})
}

// bindEnvKeys binds the first found environment variable to a viper key
func bindEnvKeys(viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			viper.Set(viperKey, value)
			return
		}
	}
}

func postProcessConfig(config *Config) {
	config.App.OutputDir = expandPath(config.App.OutputDir)
	config.Feedback.DataDir = expandPath(config.Feedback.DataDir)
	config.Sheets.XLSXPath = expandPath(config.Sheets.XLSXPath)
	config.Google.CredentialsFile = expandPath(config.Google.CredentialsFile)
	if config.App.Debug && config.Logging.Level == "info" {
		config.Logging.Level = "debug"
	}
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// Validate rejects out-of-range tuning values. Credentials are checked by
// the commands that need them.
func (c *Config) Validate() error {
	var errors []string

	if c.Generation.Delay < 0 {
		errors = append(errors, fmt.Sprintf("generation.delay must not be negative, got %s", c.Generation.Delay))
	}
	if c.Generation.TitleRetries < 1 {
		errors = append(errors, fmt.Sprintf("generation.title_retries must be at least 1, got %d", c.Generation.TitleRetries))
	}
	if c.Generation.TemperatureStep < 0 || c.Generation.TemperatureStep > 1 {
		errors = append(errors, fmt.Sprintf("generation.temperature_step must be within [0,1], got %v", c.Generation.TemperatureStep))
	}
	if c.Generation.SimilarityThreshold <= 0 || c.Generation.SimilarityThreshold > 1 {
		errors = append(errors, fmt.Sprintf("generation.similarity_threshold must be within (0,1], got %v", c.Generation.SimilarityThreshold))
	}
	if c.Generation.HistorySize < 0 {
		errors = append(errors, fmt.Sprintf("generation.history_size must not be negative, got %d", c.Generation.HistorySize))
	}
	if c.Dedup.Threshold <= 0 || c.Dedup.Threshold > 1 {
		errors = append(errors, fmt.Sprintf("dedup.threshold must be within (0,1], got %v", c.Dedup.Threshold))
	}
	if c.Gemini.Temperature < 0 || c.Gemini.Temperature > 2 {
		errors = append(errors, fmt.Sprintf("gemini.temperature must be within [0,2], got %v", c.Gemini.Temperature))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "console":
	default:
		errors = append(errors, fmt.Sprintf("logging.format must be json or console, got %q", c.Logging.Format))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// RequireGemini reports a missing or placeholder Gemini API key.
func (c *Config) RequireGemini() error {
	if !isValidAPIKey(c.Gemini.APIKey) {
		return fmt.Errorf("gemini API key is required. Set GEMINI_API_KEY environment variable or gemini.api_key in config file")
	}
	return nil
}

// UseWorkbook reports whether the run reads a local .xlsx file instead of Google Sheets.
func (c *Config) UseWorkbook() bool {
	return c.Sheets.XLSXPath != ""
}

// isValidAPIKey checks if an API key is valid (not empty and not a placeholder)
func isValidAPIKey(apiKey string) bool {
	if apiKey == "" {
		return false
	}

	placeholders := []string{
		"your-api-key", "your-gemini-key", "YOUR_API_KEY", "PLACEHOLDER", "TODO", "CHANGE_ME",
	}
	for _, placeholder := range placeholders {
		if apiKey == placeholder {
			return false
		}
	}
	return true
}

// Reset clears the global configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viper.Reset()
}
