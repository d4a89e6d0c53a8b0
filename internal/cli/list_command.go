package cli

import (
	"context"
	"flag"
	"fmt"

	"emoji-transfer/internal/model"
	"emoji-transfer/internal/settings"
	"emoji-transfer/internal/transfer"

	"go.uber.org/zap"
)

type listResult struct {
	Emoji   []model.EmojiDescriptor `json:"emoji"`
	Skipped []model.SkippedEntry    `json:"skipped"`
}

func runList(args []string) error {
	return listCommand(args, defaultIO())
}

func listCommand(args []string, cio commandIO) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	common := registerCommonFlags(fs)
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	cfg, err := common.resolve()
	if err != nil {
		return err
	}
	cfg = settings.Normalize(cfg)
	if err := settings.Validate(cfg); err != nil {
		return err
	}

	logger, err := newLogger(common, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	token, err := newPrompter(cio, cfg.SourceToken, "").SourceToken()
	if err != nil {
		return err
	}

	client := newSlackClient(cfg)
	listing, err := client.ListEmoji(context.Background(), token)
	if err != nil {
		logger.Error("list source emoji failed", zap.Error(err))
		return err
	}
	descriptors, skipped := transfer.BuildDescriptors(listing)
	logger.Info("source emoji listed",
		zap.Int("emoji", len(descriptors)),
		zap.Int("skipped", len(skipped)),
	)

	if *jsonOut {
		return printJSON(cio.Out, listResult{Emoji: descriptors, Skipped: skipped})
	}
	if len(descriptors) == 0 && len(skipped) == 0 {
		fmt.Fprintln(cio.Out, "no custom emoji in source workspace")
		return nil
	}
	fmt.Fprint(cio.Out, renderPreviewText(descriptors, skipped))
	return nil
}
