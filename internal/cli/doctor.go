package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ppiankov/feedmerge/internal/config"
	"github.com/ppiankov/feedmerge/internal/store"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration, sources and the fetch log",
	Args:  cobra.NoArgs,
	RunE:  doctorAction,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

const healthWindow = 7 * 24 * time.Hour

var errDoctorFailed = errors.New("doctor found problems")

func doctorAction(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	ok := true

	// Config dir
	if info, err := os.Stat(configDir); err != nil || !info.IsDir() {
		printCheck(w, false, "config directory %s (run 'feedmerge init')", configDir)
		ok = false
	} else {
		printCheck(w, true, "config directory %s", configDir)
	}

	// Config file
	cfg, err := config.Load(configDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		printCheck(w, true, "config.yaml not found, using defaults")
		cfg = config.Default()
	case err != nil:
		printCheck(w, false, "config.yaml: %v", err)
		return errDoctorFailed
	default:
		printCheck(w, true, "config.yaml (%d built-in sources, %d feeds)", len(cfg.Sources.Builtin), len(cfg.Sources.Feeds))
	}

	// Catalog
	reg, err := buildRegistry(cfg)
	if err != nil {
		printCheck(w, false, "sources: %v", err)
		ok = false
	} else {
		def, _ := reg.Default()
		printCheck(w, true, "sources: %d, default %s", reg.Len(), def.Name)
	}

	// Fetch log
	if cfg.Storage.Path == "" {
		printCheck(w, true, "fetch log disabled")
	} else {
		db, err := store.Open(cfg.Storage.Path)
		if err != nil {
			printCheck(w, false, "fetch log: %v", err)
			ok = false
		} else {
			defer func() { _ = db.Close() }()
			printCheck(w, true, "fetch log %s", cfg.Storage.Path)
			checkSourceHealth(cmd, w, db)
		}
	}

	if !ok {
		return errDoctorFailed
	}
	fmt.Fprintln(w, "\nAll checks passed.")
	return nil
}

// checkSourceHealth reports sources that failed on their latest fetches.
// Findings are informational and do not fail the doctor run.
func checkSourceHealth(cmd *cobra.Command, w io.Writer, db *store.Store) {
	now := time.Now()
	health, err := db.GetSourceHealth(cmdContext(cmd), now.Add(-healthWindow))
	if err != nil {
		printCheck(w, false, "source health: %v", err)
		return
	}
	if len(health) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Source health (last 7 days):")
	for _, h := range health {
		switch {
		case h.Failures == h.Fetches:
			fmt.Fprintf(w, "  [WARN] %s: all %d fetches failed, last error: %s\n", h.Source, h.Fetches, h.LastError)
		case h.Failures > 0:
			fmt.Fprintf(w, "  [INFO] %s: %d of %d fetches failed, last ok %s\n",
				h.Source, h.Failures, h.Fetches, humanize.RelTime(h.LastOK, now, "ago", "from now"))
		default:
			fmt.Fprintf(w, "  [OK]   %s: %d fetches, %d items\n", h.Source, h.Fetches, h.Items)
		}
	}
}

func printCheck(w io.Writer, pass bool, format string, args ...any) {
	mark := "OK"
	if !pass {
		mark = "FAIL"
	}
	fmt.Fprintf(w, "  [%s] %s\n", mark, fmt.Sprintf(format, args...))
}
