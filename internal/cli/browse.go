package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/feedmerge/internal/engine"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactive session: switch sources and filter without refetching",
	Long: `browse starts with the merged feed and reads commands from stdin:

  all            fetch every source and show the merged feed
  show [NAME]    fetch one source (the default when NAME is omitted)
  filter Q, /Q   show only items whose title fuzzy-matches Q
  clear          drop the filter
  sources        list sources
  state          show what is loaded
  help           list commands
  quit           leave`,
	Args: cobra.NoArgs,
	RunE: browseAction,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func browseAction(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	b := &browser{app: a, out: cmd.OutOrStdout()}
	return b.run(cmdContext(cmd), cmd.InOrStdin())
}

// browser is one interactive session over an engine.
type browser struct {
	app  *app
	out  io.Writer
	last engine.Result
}

func (b *browser) run(ctx context.Context, in io.Reader) error {
	b.exec(ctx, "all")

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(b.out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(b.out)
			break
		}
		if quit := b.exec(ctx, sc.Text()); quit {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return sc.Err()
}

// exec runs one command line and reports whether the session should end.
func (b *browser) exec(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "/") {
		b.filter(line[1:])
		return false
	}

	verb, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(verb) {
	case "":
	case "all", "aggregate", "home":
		res, err := b.app.engine.FetchAggregate(ctx)
		if err != nil {
			b.fail(err)
			return false
		}
		b.last = res
		b.filter("")
	case "show":
		name, err := sourceArg(b.app.reg, []string{arg})
		if err != nil {
			b.fail(err)
			return false
		}
		res, err := b.app.engine.FetchSource(ctx, name)
		if err != nil {
			b.fail(describeFetchError(b.app.reg, err))
			return false
		}
		b.last = res
		b.filter("")
	case "filter":
		b.filter(arg)
	case "clear":
		b.filter("")
	case "sources":
		b.sources()
	case "state":
		b.state()
	case "help", "?":
		fmt.Fprintln(b.out, "commands: all, show [NAME], filter Q (or /Q), clear, sources, state, help, quit")
	case "quit", "exit", "q":
		return true
	default:
		fmt.Fprintf(b.out, "unknown command %q (type help)\n", verb)
	}
	return false
}

// filter renders the active list narrowed by query. It never refetches.
func (b *browser) filter(query string) {
	st := b.app.engine.State()
	if st.View == engine.ViewNone {
		fmt.Fprintln(b.out, "nothing loaded yet (try: all, show NAME)")
		return
	}

	v := viewOf(b.last, b.app.engine, query)
	v.Label = st.CurrentSource
	v.Total = len(st.Active())
	if err := b.app.renderer.Render(b.out, v); err != nil {
		b.fail(err)
	}
}

func (b *browser) sources() {
	current := b.app.engine.State().CurrentSource
	for _, d := range b.app.reg.List() {
		marker := " "
		if d.Name == current {
			marker = ">"
		}
		suffix := ""
		if d.IsDefault {
			suffix = " (default)"
		}
		fmt.Fprintf(b.out, " %s %s%s\n", marker, d.Name, suffix)
	}
}

func (b *browser) state() {
	st := b.app.engine.State()
	current := st.CurrentSource
	if current == "" {
		current = "-"
	}
	fmt.Fprintf(b.out, "view: %s, source: %s, aggregate items: %d, source items: %d\n",
		st.View, current, len(st.AllItems), len(st.CurrentItems))
}

func (b *browser) fail(err error) {
	fmt.Fprintf(b.out, "error: %v\n", err)
}
