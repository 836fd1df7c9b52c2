package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-tg-updates/internal/sysutil"
)

const (
	outputText = "text"
	outputJSON = "json"
)

var availableOutputs = []string{outputText, outputJSON}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "tgupdates",
		Short:         "Classify Telegram bot updates and serve the webhook",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("output")
			if out != outputText && out != outputJSON {
				return fmt.Errorf("--output must be one of [%s], got %q", strings.Join(availableOutputs, ", "), out)
			}
			lvl, _ := cmd.Flags().GetString("log-level")
			sysutil.SetupLogger(lvl, false)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.StringP("log-level", "l", "warn", "sets the log level for offline commands (serve uses LOG_LEVEL)")
	pf.StringP("output", "o", outputText, fmt.Sprintf("sets the output format (one of [%s])", strings.Join(availableOutputs, ", ")))

	root.AddCommand(newServeCommand())
	root.AddCommand(newClassifyCommand())
	root.AddCommand(newKindsCommand())
	root.AddCommand(newSubkindsCommand())
	return root
}

func outputFormat(cmd *cobra.Command) string {
	out, _ := cmd.Flags().GetString("output")
	return out
}
