package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/ppiankov/feedmerge/internal/engine"
	"github.com/ppiankov/feedmerge/internal/render"
	"github.com/ppiankov/feedmerge/internal/source"
)

var (
	aggregateQuery string
	showQuery      string
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Fetch every source and show the merged feed",
	Args:  cobra.NoArgs,
	RunE:  aggregateAction,
}

var showCmd = &cobra.Command{
	Use:   "show [NAME]",
	Short: "Fetch one source (the default when NAME is omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  showAction,
}

func init() {
	aggregateCmd.Flags().StringVarP(&aggregateQuery, "query", "q", "", "only show items whose title fuzzy-matches the query")
	showCmd.Flags().StringVarP(&showQuery, "query", "q", "", "only show items whose title fuzzy-matches the query")
	rootCmd.AddCommand(aggregateCmd)
	rootCmd.AddCommand(showCmd)
}

func aggregateAction(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	res, err := a.engine.FetchAggregate(cmdContext(cmd))
	if err != nil {
		return err
	}
	return a.renderer.Render(cmd.OutOrStdout(), viewOf(res, a.engine, aggregateQuery))
}

func showAction(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	name, err := sourceArg(a.reg, args)
	if err != nil {
		return err
	}

	res, err := a.engine.FetchSource(cmdContext(cmd), name)
	if err != nil {
		return describeFetchError(a.reg, err)
	}
	return a.renderer.Render(cmd.OutOrStdout(), viewOf(res, a.engine, showQuery))
}

// sourceArg resolves the optional NAME argument to a catalog name.
func sourceArg(reg *source.Registry, args []string) (string, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		d, err := reg.Default()
		if err != nil {
			return "", err
		}
		return d.Name, nil
	}
	return strings.TrimSpace(args[0]), nil
}

// viewOf builds the render view for the engine's active list.
func viewOf(res engine.Result, e *engine.Engine, query string) render.View {
	return render.View{
		Label: res.Label,
		Query: query,
		Items: e.Filter(query),
		Failed: lo.Map(res.Failed, func(f *engine.FetchError, _ int) render.Failure {
			return render.Failure{Source: f.Source, Error: f.Err.Error()}
		}),
		Skipped: len(res.Skipped),
		Total:   len(res.Items),
	}
}

// describeFetchError adds the known source names to a not-found error.
func describeFetchError(reg *source.Registry, err error) error {
	if errors.Is(err, source.ErrNotFound) {
		names := lo.Map(reg.List(), func(d source.Descriptor, _ int) string { return d.Name })
		return fmt.Errorf("%w (available: %s)", err, strings.Join(names, ", "))
	}
	return err
}
