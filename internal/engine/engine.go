// Package engine fetches sources, merges their items and owns the active
// view that filtering reads from.
package engine

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/feedmerge/internal/fuzzy"
	"github.com/ppiankov/feedmerge/internal/source"
	"github.com/ppiankov/feedmerge/internal/transport"
)

// AggregateLabel is the source name reported for the merged view.
const AggregateLabel = "Aggregate"

// Transport fetches a raw response body.
type Transport interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Recorder persists a summary of each completed fetch.
type Recorder interface {
	Record(ctx context.Context, r Result) error
}

// Policy decides what an aggregate fetch does when some sources fail.
type Policy int

const (
	// PolicySkipFailed drops failed sources and merges the rest. The fetch
	// fails only when every source fails.
	PolicySkipFailed Policy = iota
	// PolicyAbortOnFailure fails the whole fetch if any source fails.
	PolicyAbortOnFailure
)

func (p Policy) String() string {
	switch p {
	case PolicySkipFailed:
		return "skip"
	case PolicyAbortOnFailure:
		return "abort"
	default:
		return "unknown"
	}
}

// View identifies which list is active.
type View int

const (
	ViewNone View = iota
	ViewAggregate
	ViewSource
)

func (v View) String() string {
	switch v {
	case ViewAggregate:
		return "aggregate"
	case ViewSource:
		return "source"
	default:
		return "none"
	}
}

// State is an immutable snapshot of what the engine has loaded.
type State struct {
	View          View
	CurrentSource string        // source name, or AggregateLabel
	CurrentItems  []source.Item // backs the single-source view
	AllItems      []source.Item // backs the aggregate view, sorted by timestamp
}

// Active returns the list selected by the current view.
func (s State) Active() []source.Item {
	switch s.View {
	case ViewAggregate:
		return s.AllItems
	case ViewSource:
		return s.CurrentItems
	default:
		return nil
	}
}

// SourceReport summarizes one source within a fetch.
type SourceReport struct {
	Name     string
	URL      string
	Items    int
	Skipped  int
	Err      error
	Duration time.Duration
}

// Result is the outcome of one fetch.
type Result struct {
	Label     string
	Items     []source.Item
	Failed    []*FetchError
	Skipped   []*source.MalformedError
	Sources   []SourceReport
	StartedAt time.Time
	Duration  time.Duration
}

// Options configures an Engine.
type Options struct {
	RelayURL    string
	Policy      Policy
	Logger      logrus.FieldLogger
	Recorder    Recorder
	Concurrency int // 0 = one goroutine per source
}

// Engine fetches from a registry through a transport.
type Engine struct {
	reg   *source.Registry
	t     Transport
	opts  Options
	log   logrus.FieldLogger
	state atomic.Pointer[State]
	now   func() time.Time
}

// New creates an engine in the ViewNone state.
func New(reg *source.Registry, t Transport, opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	e := &Engine{reg: reg, t: t, opts: opts, log: log, now: time.Now}
	e.state.Store(&State{})
	return e
}

// State returns a copy of the current snapshot. Its slices do not share
// memory with the engine.
func (e *Engine) State() State {
	st := *e.state.Load()
	st.CurrentItems = slices.Clone(st.CurrentItems)
	st.AllItems = slices.Clone(st.AllItems)
	return st
}

// Filter returns the active items whose title matches query. An empty query
// returns a copy of the whole active list. Nothing is loaded in ViewNone, so the
// result is nil.
func (e *Engine) Filter(query string) []source.Item {
	st := e.state.Load()
	if st.View == ViewNone {
		return nil
	}
	if query == "" {
		return slices.Clone(st.Active())
	}
	return fuzzy.Filter(st.Active(), query, func(it source.Item) string {
		return it.Title
	})
}

// outcome is one source's slot in an aggregate fetch.
type outcome struct {
	batch  source.Batch
	report SourceReport
	err    *FetchError
}

// FetchAggregate fetches every source concurrently, waits for all of them
// and publishes the merged list sorted ascending by timestamp.
func (e *Engine) FetchAggregate(ctx context.Context) (Result, error) {
	started := e.now()
	descs := e.reg.List()
	slots := make([]outcome, len(descs))

	g, gctx := errgroup.WithContext(ctx)
	if e.opts.Concurrency > 0 {
		g.SetLimit(e.opts.Concurrency)
	}
	for i, d := range descs {
		g.Go(func() error {
			slots[i] = e.fetchOne(gctx, d)
			return nil
		})
	}
	_ = g.Wait()

	res := Result{Label: AggregateLabel, StartedAt: started}
	var items []source.Item
	for _, o := range slots {
		res.Sources = append(res.Sources, o.report)
		if o.err != nil {
			res.Failed = append(res.Failed, o.err)
			continue
		}
		items = append(items, o.batch.Items...)
		res.Skipped = append(res.Skipped, o.batch.Skipped...)
	}

	if len(res.Failed) > 0 && (e.opts.Policy == PolicyAbortOnFailure || len(res.Failed) == len(descs)) {
		res.Duration = e.now().Sub(started)
		err := &AggregateError{Failures: res.Failed}
		e.log.WithFields(logrus.Fields{
			"policy": e.opts.Policy.String(),
			"failed": len(res.Failed),
		}).Warn("aggregate fetch failed")
		e.record(ctx, res)
		return res, err
	}

	slices.SortStableFunc(items, func(a, b source.Item) int {
		switch {
		case a.Timestamp < b.Timestamp:
			return -1
		case a.Timestamp > b.Timestamp:
			return 1
		default:
			return 0
		}
	})
	res.Items = slices.Clone(items)
	res.Duration = e.now().Sub(started)

	prev := e.state.Load()
	e.state.Store(&State{
		View:          ViewAggregate,
		CurrentSource: AggregateLabel,
		CurrentItems:  prev.CurrentItems,
		AllItems:      items,
	})

	if len(res.Failed) > 0 {
		e.log.WithFields(logrus.Fields{
			"failed":  lo.Map(res.Failed, func(f *FetchError, _ int) string { return f.Source }),
			"sources": len(descs),
		}).Warn("aggregate is partial")
	}
	e.log.WithFields(logrus.Fields{
		"count":    len(items),
		"skipped":  len(res.Skipped),
		"duration": res.Duration,
	}).Info("aggregate fetched")

	e.record(ctx, res)
	return res, nil
}

// FetchSource fetches the named source and makes it the active view. On any
// failure the state is left as it was.
func (e *Engine) FetchSource(ctx context.Context, name string) (Result, error) {
	d, err := e.reg.FindByName(name)
	if err != nil {
		return Result{}, err
	}

	started := e.now()
	o := e.fetchOne(ctx, d)
	res := Result{
		Label:     d.Name,
		Sources:   []SourceReport{o.report},
		StartedAt: started,
		Duration:  e.now().Sub(started),
	}
	if o.err != nil {
		res.Failed = []*FetchError{o.err}
		e.record(ctx, res)
		return res, o.err
	}

	res.Items = slices.Clone(o.batch.Items)
	res.Skipped = o.batch.Skipped

	prev := e.state.Load()
	e.state.Store(&State{
		View:          ViewSource,
		CurrentSource: d.Name,
		CurrentItems:  o.batch.Items,
		AllItems:      prev.AllItems,
	})

	e.record(ctx, res)
	return res, nil
}

// fetchOne fetches and normalizes a single source, reporting failures in the
// returned outcome.
func (e *Engine) fetchOne(ctx context.Context, d source.Descriptor) outcome {
	url := d.Endpoint
	if d.RequiresRelay {
		url = transport.RelayURL(e.opts.RelayURL, d.Endpoint)
	}
	log := e.log.WithFields(logrus.Fields{"source": d.Name, "url": url})

	start := e.now()
	o := outcome{report: SourceReport{Name: d.Name, URL: url}}

	raw, err := e.t.Get(ctx, url)
	if err == nil {
		o.batch, err = source.Normalize(d, raw)
	}
	o.report.Duration = e.now().Sub(start)

	if err != nil {
		o.err = &FetchError{Source: d.Name, Err: err}
		o.report.Err = err
		log.WithError(err).Warn("source fetch failed")
		return o
	}

	for _, me := range o.batch.Skipped {
		log.WithFields(logrus.Fields{
			"index": me.Index,
			"path":  me.Path,
		}).WithError(me.Err).Warn("skipped malformed entry")
	}

	o.report.Items = len(o.batch.Items)
	o.report.Skipped = len(o.batch.Skipped)
	log.WithFields(logrus.Fields{
		"count":    o.report.Items,
		"duration": o.report.Duration,
	}).Debug("source fetched")
	return o
}

func (e *Engine) record(ctx context.Context, res Result) {
	if e.opts.Recorder == nil {
		return
	}
	if err := e.opts.Recorder.Record(ctx, res); err != nil && !errors.Is(err, context.Canceled) {
		e.log.WithError(err).Warn("failed to record fetch")
	}
}
