package cli

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/ppiankov/feedmerge/internal/engine"
	"github.com/ppiankov/feedmerge/internal/privacy"
	"github.com/ppiankov/feedmerge/internal/store"
)

// runRecorder writes engine results to the fetch log. URLs and error text
// pass through redact first.
type runRecorder struct {
	st     *store.Store
	redact *privacy.Redactor
}

func (r runRecorder) Record(ctx context.Context, res engine.Result) error {
	_, err := r.st.RecordRun(ctx, runFromResult(res, r.redact))
	return err
}

func runFromResult(res engine.Result, redact *privacy.Redactor) store.Run {
	run := store.Run{
		Label:     res.Label,
		StartedAt: res.StartedAt,
		Duration:  res.Duration,
		Items:     len(res.Items),
		Skipped:   len(res.Skipped),
		Failed:    len(res.Failed),
		Sources: lo.Map(res.Sources, func(sr engine.SourceReport, _ int) store.SourceResult {
			out := store.SourceResult{
				Source:   sr.Name,
				URL:      redact.Apply(sr.URL),
				Items:    sr.Items,
				Skipped:  sr.Skipped,
				Duration: sr.Duration,
			}
			if sr.Err != nil {
				out.Error = redact.Apply(sr.Err.Error())
			}
			return out
		}),
	}
	if run.Failed > 0 {
		run.Error = fmt.Sprintf("%d of %d sources failed", run.Failed, len(res.Sources))
	}
	return run
}
