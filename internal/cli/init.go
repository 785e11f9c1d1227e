package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ppiankov/feedmerge/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create config directory with an example config",
	Args:  cobra.NoArgs,
	RunE:  initAction,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func initAction(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	configPath := filepath.Join(configDir, config.DefaultConfigFile)
	wrote, err := writeIfNotExists(w, configPath, []byte(exampleConfig))
	if err != nil {
		return err
	}

	if wrote {
		fmt.Fprintf(w, "Initialized %s.\n", configDir)
	} else {
		fmt.Fprintf(w, "Config directory %s already initialized.\n", configDir)
	}
	return nil
}

// writeIfNotExists writes data to path if the file does not exist.
// Returns true if the file was created.
func writeIfNotExists(w io.Writer, path string, data []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(w, "  exists: %s\n", path)
		return false, nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(w, "  created: %s\n", path)
	return true, nil
}

const exampleConfig = `# feedmerge configuration

relay:
  # Sources marked relay are fetched as <relay url><endpoint>.
  url: https://accesscontrolalloworiginall.herokuapp.com/

http:
  timeout: 30s
  user_agent: feedmerge/1.0
  rate_limit: 0          # requests per second, 0 = unlimited

aggregate:
  on_failure: skip       # skip: merge what arrived; abort: fail if any source fails
  concurrency: 0         # 0 = fetch all sources at once

sources:
  builtin: [Reddit, Mashable, Digg]   # also available: "Hacker News"
  default: Reddit
  feeds: []
  # - name: Go Blog
  #   url: https://go.dev/blog/feed.atom
  #   relay: false

storage:
  path: .feedmerge/history.db   # empty disables the fetch log
  retain_days: 30               # 0 keeps every run
  redact: []                    # regexps masked in recorded URLs and errors, e.g. 'api_key=[^&]+'

logging:
  level: info
  format: text           # text | json

output:
  format: terminal       # terminal | json | markdown
  color: true
`
