package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/doctoc/internal/stats"
	"github.com/dgallion1/doctoc/internal/toc"
)

// Worker processes a single document job.
type Worker struct {
	latency *stats.Latency
	log     *slog.Logger
}

func NewWorker(latency *stats.Latency, log *slog.Logger) *Worker {
	return &Worker{
		latency: latency,
		log:     log,
	}
}

// Process runs extraction, tree building and rendering for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	if err := ctx.Err(); err != nil {
		job.Fail("cancelled", err.Error())
		return
	}

	start := time.Now()

	// Phase 1: Extract
	job.SetStatus(StatusExtracting, "extracting")
	headings, err := extractHeadings(job.FileData(), job.Filename, job.req.Extract)
	if err != nil {
		log.Error("extraction failed", "error", err)
		job.Fail("extracting", fmt.Sprintf("extract: %s", err))
		return
	}
	log.Debug("extracted headings", "count", len(headings))

	// Phase 2: Build
	job.SetStatus(StatusBuilding, "building")
	root := toc.Build(headings)

	// Phase 3: Render
	job.SetStatus(StatusRendering, "rendering")
	res := assemble(root, job.req)

	if w.latency != nil {
		w.latency.Record(time.Since(start))
	}
	job.Complete(res)
	log.Info("toc generated", "headings", res.Headings, "empty", res.HTML == "")
}
