package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ppiankov/feedmerge/internal/config"
	"github.com/ppiankov/feedmerge/internal/source"
	"github.com/ppiankov/feedmerge/internal/transport"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the configured sources",
	Args:  cobra.NoArgs,
	RunE:  sourcesAction,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

type jsonSource struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Relay    bool   `json:"relay"`
	Default  bool   `json:"default"`
	FetchURL string `json:"fetch_url"`
}

func sourcesAction(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	if cfg.Output.Format == "json" {
		return printSourcesJSON(cmd.OutOrStdout(), cfg, reg)
	}
	printSources(cmd.OutOrStdout(), cfg, reg)
	return nil
}

func fetchURL(cfg *config.Config, d source.Descriptor) string {
	if d.RequiresRelay {
		return transport.RelayURL(cfg.Relay.URL, d.Endpoint)
	}
	return d.Endpoint
}

func printSourcesJSON(w io.Writer, cfg *config.Config, reg *source.Registry) error {
	out := make([]jsonSource, 0, reg.Len())
	for _, d := range reg.List() {
		out = append(out, jsonSource{
			Name:     d.Name,
			URL:      d.Endpoint,
			Relay:    d.RequiresRelay,
			Default:  d.IsDefault,
			FetchURL: fetchURL(cfg, d),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printSources(w io.Writer, cfg *config.Config, reg *source.Registry) {
	fmt.Fprintf(w, "%d sources\n\n", reg.Len())
	for _, d := range reg.List() {
		marker := " "
		if d.IsDefault {
			marker = "*"
		}
		relay := ""
		if d.RequiresRelay {
			relay = " (via relay)"
		}
		fmt.Fprintf(w, "  %s %-20s %s%s\n", marker, d.Name, d.Endpoint, relay)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  * default source")
	if cfg.Relay.URL != "" {
		fmt.Fprintf(w, "  relay: %s\n", cfg.Relay.URL)
	}
}
