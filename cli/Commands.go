package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"monitorhead-converter/config"
	"monitorhead-converter/services"
)

// NewRootCommand builds the mhconv command tree. Running the root command
// without a subcommand calls openWindow.
func NewRootCommand(cfg *config.Config, converterService *services.ConverterService, openWindow func() error) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mhconv",
		Short:         "Convert MonitorHead telemetry logs to XLSX or CSV",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return openWindow()
		},
	}
	rootCmd.AddCommand(newConvertCommand(cfg, converterService))
	return rootCmd
}

func newConvertCommand(cfg *config.Config, converterService *services.ConverterService) *cobra.Command {
	var output, format string
	var force bool
	cmd := &cobra.Command{
		Use:   "convert INPUT",
		Short: "Convert a log file without opening the window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = cfg.Output.DefaultFormat
			}
			parsedFormat, err := services.ParseFormat(format)
			if err != nil {
				return err
			}
			request := services.ConversionRequest{
				InputPath:  args[0],
				OutputPath: output,
				Format:     parsedFormat,
			}
			if request.OutputPath == "" {
				request.OutputPath = services.DefaultOutputPath(request.InputPath, parsedFormat)
			}
			if !force && !cfg.Output.OverwriteEnabled() {
				if _, err := os.Stat(request.OutputPath); err == nil {
					return fmt.Errorf("output file %s already exists (use --force to overwrite)", request.OutputPath)
				}
			}
			result := follow(cmd.ErrOrStderr(), converterService.Start(request))
			if !result.Success {
				return errors.New(result.Message)
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input name with the format's extension)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: tabular (xlsx) or delimited (csv)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing output file")
	return cmd
}

// follow renders progress to w until the terminal result arrives.
func follow(w io.Writer, events <-chan services.Event) services.ConversionResult {
	var result services.ConversionResult
	shown := -1
	for event := range events {
		switch {
		case event.Result != nil:
			result = *event.Result
		case event.Progress.Status != "":
			if shown >= 0 {
				fmt.Fprintln(w)
				shown = -1
			}
			fmt.Fprintln(w, event.Progress.Status)
		case event.Progress.Percent != shown:
			shown = event.Progress.Percent
			fmt.Fprintf(w, "\r%3d%%", shown)
		}
	}
	if shown >= 0 {
		fmt.Fprintln(w)
	}
	return result
}
