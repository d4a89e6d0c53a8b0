package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"emoji-transfer/internal/settings"
)

func runSettings(args []string) error {
	return settingsCommand(args, defaultIO())
}

func settingsCommand(args []string, cio commandIO) error {
	if len(args) == 0 {
		printSettingsUsage()
		return nil
	}
	switch args[0] {
	case "show":
		return settingsShowCommand(args[1:], cio)
	case "help", "-h", "--help":
		printSettingsUsage()
		return nil
	default:
		printSettingsUsage()
		return fmt.Errorf("unknown settings subcommand %q", args[0])
	}
}

// settingsShowCommand prints the effective settings after defaults, config
// file, environment and flags are merged. Tokens are masked.
func settingsShowCommand(args []string, cio commandIO) error {
	fs := flag.NewFlagSet("settings show", flag.ContinueOnError)
	common := registerCommonFlags(fs)
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := common.resolve()
	if err != nil {
		return err
	}
	cfg = settings.Normalize(cfg)
	validation := ""
	if err := settings.Validate(cfg); err != nil {
		validation = err.Error()
	}

	configPath := strings.TrimSpace(*common.config)
	if configPath == "" {
		configPath = strings.TrimSpace(os.Getenv(settings.EnvPrefix + "_CONFIG"))
	}

	if *jsonOut {
		return printJSON(cio.Out, map[string]any{
			"config_path":       configPath,
			"source_token":      maskToken(cfg.SourceToken),
			"destination_token": maskToken(cfg.DestinationToken),
			"settings":          cfg,
			"error":             validation,
		})
	}

	if configPath == "" {
		configPath = "(none)"
	}
	fmt.Fprintf(cio.Out, "config: %s\n", configPath)
	fmt.Fprintf(cio.Out, "source_token: %s\n", maskToken(cfg.SourceToken))
	fmt.Fprintf(cio.Out, "destination_token: %s\n", maskToken(cfg.DestinationToken))
	fmt.Fprintf(cio.Out, "batch_size: %d\n", cfg.BatchSize)
	fmt.Fprintf(cio.Out, "seconds_per_batch: %d\n", cfg.SecondsPerBatch)
	fmt.Fprintf(cio.Out, "preview: %s\n", cfg.Preview)
	fmt.Fprintf(cio.Out, "api_base_url: %s\n", cfg.APIBaseURL)
	if cfg.HTTPTimeoutSeconds > 0 {
		fmt.Fprintf(cio.Out, "http_timeout_seconds: %d\n", cfg.HTTPTimeoutSeconds)
	} else {
		fmt.Fprintln(cio.Out, "http_timeout_seconds: (none)")
	}
	fmt.Fprintf(cio.Out, "log_file: %s\n", defaultIfEmpty(cfg.LogFile, "(none)"))
	fmt.Fprintf(cio.Out, "log_level: %s\n", cfg.LogLevel)
	fmt.Fprintf(cio.Out, "report_file: %s\n", defaultIfEmpty(cfg.ReportFile, "(none)"))
	if validation != "" {
		fmt.Fprintln(cio.Out, reportErrorStyle.Render("invalid: "+validation))
	}
	return nil
}

func printSettingsUsage() {
	fmt.Println("emoji-transfer settings")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  emoji-transfer settings show [--config <path>] [--json]")
	fmt.Println()
	fmt.Println("Settings resolve from defaults, then the config file, then")
	fmt.Printf("%s_* environment variables, then command flags.\n", settings.EnvPrefix)
}

func defaultIfEmpty(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
