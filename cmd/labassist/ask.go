package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	labassist "github.com/kailas-cloud/labassist/pkg/sdk"
)

func askCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer one question in-process and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := labassist.New(sdkOptions()...)
			if err != nil {
				return err
			}

			a, err := client.Ask(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(a)
			}
			return printAnswer(cmd.OutOrStdout(), a)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full answer as JSON")
	return cmd
}

// sdkOptions maps the loaded config to SDK options, skipping collaborators that are not configured.
func sdkOptions() []labassist.Option {
	var opts []labassist.Option
	if cfg.Search.Enabled() {
		opts = append(opts,
			labassist.WithSearch(cfg.Search.Endpoint, cfg.Search.APIKey, cfg.Search.Index),
			labassist.WithSearchAPIVersion(cfg.Search.APIVersion),
		)
	}
	if cfg.LLM.Enabled() {
		opts = append(opts,
			labassist.WithAzureOpenAI(cfg.LLM.Endpoint, cfg.LLM.APIKey, cfg.LLM.Deployment, cfg.LLM.APIVersion),
			labassist.WithRequestsPerMinute(cfg.LLM.RequestsPerMinute),
		)
	}
	// The SDK shares one HTTP client, so the longer of the two timeouts wins.
	if timeout := max(cfg.Search.TimeoutSec, cfg.LLM.TimeoutSec); timeout > 0 {
		opts = append(opts, labassist.WithHTTPClient(&http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		}))
	}
	opts = append(opts, labassist.WithMaxExcerptLength(cfg.Excerpt.MaxExcerptLength))
	return opts
}

func printAnswer(w io.Writer, a labassist.Answer) error {
	if _, err := fmt.Fprintln(w, a.Text); err != nil {
		return err
	}
	if len(a.Rows) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTEST TYPE\tCOUNT\tSTATUS")
	for _, r := range a.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.Date, r.TestType, r.Count, r.Status)
	}
	fmt.Fprintf(tw, "\tTOTAL\t%d\t\n", a.TotalCount)
	return tw.Flush()
}
