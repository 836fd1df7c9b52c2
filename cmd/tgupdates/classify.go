package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-tg-updates/internal/services"
	"github.com/tbourn/go-tg-updates/internal/telegram"
	"github.com/tbourn/go-tg-updates/internal/updates"
)

const stdinSource = "-"

// classifyResult is one line of `classify` output.
type classifyResult struct {
	Source           string            `json:"source"`
	Kind             updates.Kind      `json:"kind,omitempty"`
	Subkind          updates.Subkind   `json:"subkind,omitempty"`
	MatchingSubkinds []updates.Subkind `json:"matching_subkinds,omitempty"`
	Error            string            `json:"error,omitempty"`
}

func newClassifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [file...]",
		Short: "Classify update JSON documents without storing or dispatching them",
		Long: "Reads one Telegram Update JSON object per file (or from stdin when no file,\n" +
			"or \"-\", is given) and prints its kind, message sub-kind and every matching\n" +
			"sub-kind in priority order. Exits non-zero when any document fails.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{stdinSource}
			}
			via, _ := cmd.Flags().GetString("via")
			svc := services.NewIngestService(nil, nil)

			results := make([]classifyResult, 0, len(args))
			failed := 0
			for _, src := range args {
				res := classifySource(cmd, svc, via, src)
				if res.Error != "" {
					failed++
					zerolog.Ctx(cmd.Context()).Debug().Str("source", src).Str("error", res.Error).Msg("classify failed")
				}
				results = append(results, res)
			}

			if err := printResults(cmd, results); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d updates could not be classified", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().String("via", "", fmt.Sprintf("decode through an SDK's Update type first (one of [%s])",
		strings.Join([]string{telegram.SDKBotAPI, telegram.SDKTelego, telegram.SDKGoTelegram}, ", ")))
	return cmd
}

func classifySource(cmd *cobra.Command, svc *services.IngestService, via, src string) classifyResult {
	res := classifyResult{Source: src}

	var r io.Reader
	if src == stdinSource {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(src)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	u, err := telegram.DecodeVia(via, data)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	c, err := svc.Classify(cmd.Context(), u)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Kind = c.Kind
	res.Subkind = c.Subkind
	res.MatchingSubkinds = c.MatchingSubkinds
	return res
}

func printResults(cmd *cobra.Command, results []classifyResult) error {
	if outputFormat(cmd) == outputJSON {
		return writeJSON(cmd, results)
	}
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("source", "kind", "subkind", "matching", "error")
	for _, r := range results {
		matching := make([]string, len(r.MatchingSubkinds))
		for i, s := range r.MatchingSubkinds {
			matching[i] = string(s)
		}
		sub := string(r.Subkind)
		if sub == "" && r.Error == "" {
			sub = "none"
		}
		row := []string{r.Source, string(r.Kind), sub, strings.Join(matching, ","), r.Error}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
