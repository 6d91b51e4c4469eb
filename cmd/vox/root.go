package main

import (
	"context"
	"os"

	"github.com/sandevgo/voxbot/internal/config"
	"github.com/sandevgo/voxbot/pkg/log"
	"github.com/spf13/cobra"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "vox",
	Short: "VoxBot, a voice task assistant",
	Long:  `VoxBot answers weather questions, manages your calendar and falls back to small talk, over CLI or Telegram.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}
