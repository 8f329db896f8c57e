package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"opencsg.com/image-moderation/cmd/image-moderation/cmd/check"
	"opencsg.com/image-moderation/cmd/image-moderation/cmd/launch"
	"opencsg.com/image-moderation/cmd/image-moderation/cmd/version"
	"opencsg.com/image-moderation/common/config"
	"opencsg.com/image-moderation/common/log"
)

var (
	logLevel   string
	logFormat  string
	logFile    string
	configFile string
)

var RootCmd = &cobra.Command{
	Use:          "image-moderation",
	Short:        "Image moderation service backed by Sightengine.",
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "set log level to debug, info, warn or error (case-insensitive). default is INFO")
	RootCmd.PersistentFlags().StringVarP(&logFormat, "log-format", "f", "json", "set log format to json or text. default is json")
	RootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write json logs to this file, e.g. logs/app.log")
	RootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "optional toml config file, environment variables take priority")
	RootCmd.DisableAutoGenTag = true

	cobra.OnInitialize(func() {
		setupLog(logLevel, logFormat, logFile)
		config.SetConfigFile(configFile)
	})

	RootCmd.AddCommand(
		launch.Cmd,
		check.Cmd,
		version.Cmd,
	)
}

func setupLog(lvl, format, file string) {
	// the file stays open for the lifetime of the process
	_, err := log.Setup(log.Options{
		Level:  lvl,
		Format: format,
		File:   file,
	})
	if err != nil {
		fmt.Printf("failed to init log file, logging to stdout only: %v\n", err)
		_, _ = log.Setup(log.Options{Level: lvl, Format: format})
		return
	}
	fmt.Printf("init logger, level: %s, format: %s\n", lvl, format)
}
