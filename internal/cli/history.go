package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ppiankov/feedmerge/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent fetch runs from the fetch log",
	Args:  cobra.NoArgs,
	RunE:  historyAction,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

var errStorageDisabled = errors.New("fetch log is disabled (storage.path is empty)")

func historyAction(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Storage.Path == "" {
		return errStorageDisabled
	}

	db, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = db.Close() }()

	runs, err := db.RecentRuns(cmdContext(cmd), historyLimit)
	if err != nil {
		return fmt.Errorf("recent runs: %w", err)
	}

	if cfg.Output.Format == "json" {
		return printHistoryJSON(cmd.OutOrStdout(), runs)
	}
	printHistory(cmd.OutOrStdout(), runs, time.Now())
	return nil
}

type jsonRun struct {
	ID         string             `json:"id"`
	Label      string             `json:"label"`
	StartedAt  string             `json:"started_at"`
	DurationMS int64              `json:"duration_ms"`
	Items      int                `json:"items"`
	Skipped    int                `json:"skipped"`
	Failed     int                `json:"failed"`
	Error      string             `json:"error,omitempty"`
	Sources    []jsonSourceResult `json:"sources"`
}

type jsonSourceResult struct {
	Source     string `json:"source"`
	URL        string `json:"url"`
	Items      int    `json:"items"`
	Skipped    int    `json:"skipped"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

func printHistoryJSON(w io.Writer, runs []store.Run) error {
	out := make([]jsonRun, 0, len(runs))
	for _, r := range runs {
		jr := jsonRun{
			ID:         r.ID,
			Label:      r.Label,
			StartedAt:  r.StartedAt.UTC().Format(time.RFC3339),
			DurationMS: r.Duration.Milliseconds(),
			Items:      r.Items,
			Skipped:    r.Skipped,
			Failed:     r.Failed,
			Error:      r.Error,
			Sources:    make([]jsonSourceResult, 0, len(r.Sources)),
		}
		for _, sr := range r.Sources {
			jr.Sources = append(jr.Sources, jsonSourceResult{
				Source:     sr.Source,
				URL:        sr.URL,
				Items:      sr.Items,
				Skipped:    sr.Skipped,
				DurationMS: sr.Duration.Milliseconds(),
				Error:      sr.Error,
			})
		}
		out = append(out, jr)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printHistory(w io.Writer, runs []store.Run, now time.Time) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No fetch runs recorded. Run 'feedmerge aggregate' first.")
		return
	}

	for _, r := range runs {
		fmt.Fprintf(w, "%-14s %-20s %3d items  %s\n",
			humanize.RelTime(r.StartedAt, now, "ago", "from now"),
			r.Label,
			r.Items,
			r.Duration.Round(time.Millisecond),
		)
		for _, sr := range r.Sources {
			status := fmt.Sprintf("%d items", sr.Items)
			if sr.Skipped > 0 {
				status += fmt.Sprintf(", %d skipped", sr.Skipped)
			}
			if sr.Error != "" {
				status = "FAILED: " + sr.Error
			}
			fmt.Fprintf(w, "    %-18s %s\n", sr.Source, status)
		}
	}
}
