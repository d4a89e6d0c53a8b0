package cli

import (
	"flag"
	"strings"

	"emoji-transfer/internal/logging"
	"emoji-transfer/internal/settings"
	"emoji-transfer/internal/slack"

	"go.uber.org/zap"
)

// commonFlags are shared by every subcommand that talks to the API.
type commonFlags struct {
	fs          *flag.FlagSet
	config      *string
	sourceToken *string
	apiBase     *string
	httpTimeout *int
	logFile     *string
	logLevel    *string
}

func registerCommonFlags(fs *flag.FlagSet) *commonFlags {
	return &commonFlags{
		fs:          fs,
		config:      fs.String("config", "", "config file (yaml|json|toml); env "+settings.EnvPrefix+"_CONFIG"),
		sourceToken: fs.String("source-token", "", "source workspace token (prompted when empty)"),
		apiBase:     fs.String("api-base", "", "Slack Web API base URL"),
		httpTimeout: fs.Int("http-timeout", 0, "per-request timeout in seconds (0 = none)"),
		logFile:     fs.String("log-file", "", "write JSON logs to this file"),
		logLevel:    fs.String("log-level", "", "log level: debug|info|warn|error"),
	}
}

// resolve loads settings and applies explicitly set flags on top.
func (c *commonFlags) resolve() (settings.Settings, error) {
	cfg, err := settings.Load(strings.TrimSpace(*c.config))
	if err != nil {
		return settings.Settings{}, err
	}
	if flagWasSet(c.fs, "source-token") {
		cfg.SourceToken = strings.TrimSpace(*c.sourceToken)
	}
	if flagWasSet(c.fs, "api-base") {
		cfg.APIBaseURL = *c.apiBase
	}
	if flagWasSet(c.fs, "http-timeout") {
		cfg.HTTPTimeoutSeconds = *c.httpTimeout
	}
	if flagWasSet(c.fs, "log-file") {
		cfg.LogFile = strings.TrimSpace(*c.logFile)
	}
	if flagWasSet(c.fs, "log-level") {
		cfg.LogLevel = *c.logLevel
	}
	return cfg, nil
}

// logStderr reports whether --log-level was given without a log file.
func (c *commonFlags) logStderr(cfg settings.Settings) bool {
	return cfg.LogFile == "" && flagWasSet(c.fs, "log-level")
}

func newLogger(c *commonFlags, cfg settings.Settings) (*zap.Logger, error) {
	return logging.New(logging.Options{
		Path:   cfg.LogFile,
		Level:  cfg.LogLevel,
		Stderr: c.logStderr(cfg),
	})
}

func newSlackClient(cfg settings.Settings) *slack.Client {
	return slack.NewClient(slack.ClientOptions{
		BaseURL:   cfg.APIBaseURL,
		Timeout:   cfg.HTTPTimeout(),
		UserAgent: "emoji-transfer",
	})
}

func flagWasSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
