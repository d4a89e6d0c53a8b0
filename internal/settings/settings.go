package settings

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"emoji-transfer/internal/model"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	keySourceToken      = "source_token"
	keyDestinationToken = "destination_token"
	keyBatchSize        = "batch_size"
	keySecondsPerBatch  = "seconds_per_batch"
	keyPreview          = "preview"
	keyAPIBaseURL       = "api_base_url"
	keyHTTPTimeout      = "http_timeout_seconds"
	keyLogFile          = "log_file"
	keyLogLevel         = "log_level"
	keyReportFile       = "report_file"
)

// Settings is the resolved runtime configuration for one invocation.
type Settings struct {
	SourceToken        string `json:"-"`
	DestinationToken   string `json:"-"`
	BatchSize          int    `json:"batch_size"`
	SecondsPerBatch    int    `json:"seconds_per_batch"`
	Preview            string `json:"preview"`
	APIBaseURL         string `json:"api_base_url"`
	HTTPTimeoutSeconds int    `json:"http_timeout_seconds,omitempty"`
	LogFile            string `json:"log_file,omitempty"`
	LogLevel           string `json:"log_level"`
	ReportFile         string `json:"report_file,omitempty"`
}

func (s Settings) BatchInterval() time.Duration {
	return time.Duration(s.SecondsPerBatch) * time.Second
}

func (s Settings) HTTPTimeout() time.Duration {
	return time.Duration(s.HTTPTimeoutSeconds) * time.Second
}

// Load resolves settings from defaults, an optional config file and
// EMOJI_TRANSFER_* environment variables, in increasing priority.
// Command line flags are applied afterwards by the caller.
func Load(configPath string) (Settings, error) {
	v := viper.New()
	v.SetDefault(keySourceToken, "")
	v.SetDefault(keyDestinationToken, "")
	v.SetDefault(keyBatchSize, DefaultBatchSize)
	v.SetDefault(keySecondsPerBatch, DefaultSecondsPerBatch)
	v.SetDefault(keyPreview, DefaultPreviewMode)
	v.SetDefault(keyAPIBaseURL, DefaultAPIBaseURL)
	v.SetDefault(keyHTTPTimeout, 0)
	v.SetDefault(keyLogFile, "")
	v.SetDefault(keyLogLevel, DefaultLogLevel)
	v.SetDefault(keyReportFile, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	path := strings.TrimSpace(configPath)
	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvPrefix + "_CONFIG"))
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	batchSize, err := intSetting(v, keyBatchSize)
	if err != nil {
		return Settings{}, err
	}
	secondsPerBatch, err := intSetting(v, keySecondsPerBatch)
	if err != nil {
		return Settings{}, err
	}
	httpTimeout, err := intSetting(v, keyHTTPTimeout)
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		SourceToken:        strings.TrimSpace(v.GetString(keySourceToken)),
		DestinationToken:   strings.TrimSpace(v.GetString(keyDestinationToken)),
		BatchSize:          batchSize,
		SecondsPerBatch:    secondsPerBatch,
		Preview:            v.GetString(keyPreview),
		APIBaseURL:         v.GetString(keyAPIBaseURL),
		HTTPTimeoutSeconds: httpTimeout,
		LogFile:            strings.TrimSpace(v.GetString(keyLogFile)),
		LogLevel:           v.GetString(keyLogLevel),
		ReportFile:         strings.TrimSpace(v.GetString(keyReportFile)),
	}, nil
}

// intSetting reads key as an integer. viper's GetInt turns unparsable
// values into 0, which would silently pass as a real setting.
func intSetting(v *viper.Viper, key string) (int, error) {
	raw := v.Get(key)
	if s, ok := raw.(string); ok {
		raw = strings.TrimSpace(s)
	}
	n, err := cast.ToIntE(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer: %w", key, fmt.Sprint(v.Get(key)), model.ErrInvalidArgument)
	}
	return n, nil
}

// Normalize trims and canonicalises string settings. Numeric settings are
// left as given so Validate can reject them.
func Normalize(raw Settings) Settings {
	norm := raw
	norm.Preview = normalizePreviewMode(norm.Preview)
	norm.APIBaseURL = strings.TrimRight(strings.TrimSpace(norm.APIBaseURL), "/")
	if norm.APIBaseURL == "" {
		norm.APIBaseURL = DefaultAPIBaseURL
	}
	norm.LogLevel = strings.ToLower(strings.TrimSpace(norm.LogLevel))
	if norm.LogLevel == "" {
		norm.LogLevel = DefaultLogLevel
	}
	return norm
}

func Validate(s Settings) error {
	if s.BatchSize <= 0 {
		return fmt.Errorf("batch size must be > 0, got %d: %w", s.BatchSize, model.ErrInvalidArgument)
	}
	if s.SecondsPerBatch < 0 {
		return fmt.Errorf("seconds per batch must be >= 0, got %d: %w", s.SecondsPerBatch, model.ErrInvalidArgument)
	}
	if s.HTTPTimeoutSeconds < 0 {
		return fmt.Errorf("http timeout must be >= 0 seconds, got %d: %w", s.HTTPTimeoutSeconds, model.ErrInvalidArgument)
	}
	switch s.Preview {
	case PreviewAuto, PreviewYes, PreviewNo:
	default:
		return fmt.Errorf("invalid preview mode %q (use auto|yes|no): %w", s.Preview, model.ErrInvalidArgument)
	}
	u, err := url.Parse(s.APIBaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid api base url %q: %w", s.APIBaseURL, model.ErrInvalidArgument)
	}
	return nil
}

func normalizePreviewMode(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", PreviewAuto:
		return PreviewAuto
	case PreviewYes, "y", "true":
		return PreviewYes
	case PreviewNo, "n", "false":
		return PreviewNo
	default:
		return strings.ToLower(strings.TrimSpace(raw))
	}
}
