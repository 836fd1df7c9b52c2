package main

import (
	"encoding/json"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-tg-updates/internal/services"
)

func newKindsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "Print the update kind registry in classification order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := services.KindRows()
			if outputFormat(cmd) == outputJSON {
				return writeJSON(cmd, rows)
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("kind", "label", "property", "payload", "message")
			for _, r := range rows {
				if err := table.Append([]string{string(r.Kind), r.Label, r.Property, r.PayloadType, strconv.FormatBool(r.MessageBearing)}); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
}

func newSubkindsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "subkinds",
		Aliases: []string{"sub-kinds"},
		Short:   "Print the message sub-kind registry in priority order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := services.SubkindRows()
			if outputFormat(cmd) == outputJSON {
				return writeJSON(cmd, rows)
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("priority", "subkind", "label", "field", "payload")
			for _, r := range rows {
				if err := table.Append([]string{strconv.Itoa(r.Priority), string(r.Subkind), r.Label, r.Field, r.PayloadType}); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
