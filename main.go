package main

import (
	"fmt"
	"os"

	"monitorhead-converter/cli"
	"monitorhead-converter/config"
	"monitorhead-converter/logging"
	"monitorhead-converter/services"
	"monitorhead-converter/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)
	converterService := services.NewConverterService(logger)
	openWindow := func() error {
		defaultFormat, err := services.ParseFormat(cfg.Output.DefaultFormat)
		if err != nil {
			return err
		}
		return ui.NewMainWindow(converterService, defaultFormat, logger).Open()
	}
	err = cli.NewRootCommand(cfg, converterService, openWindow).Execute()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}
