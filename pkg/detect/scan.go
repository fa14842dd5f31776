package detect

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kasumigaseki/refmap/pkg/ref"
	"github.com/kasumigaseki/refmap/pkg/tracker"
)

// Document is one unit of text to scan, typically a single article of the
// host law.
type Document struct {
	ID      string
	LawID   string
	Article float64
	Text    string
}

// ScanResult pairs a document with its references.
type ScanResult struct {
	ScanID   string
	Document Document
	Refs     []ref.Reference
	Err      error
	Elapsed  time.Duration
}

// ScanAll detects references across documents with a worker pool. Results
// keep the input order. The context cancels outstanding work; cancelled
// documents carry the context error.
func (d *Detector) ScanAll(ctx context.Context, docs []Document) []ScanResult {
	results := make([]ScanResult, len(docs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < d.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = d.scanOne(ctx, docs[i])
			}
		}()
	}

	for i := range docs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			results[i] = ScanResult{Document: docs[i], Err: ctx.Err()}
		}
	}
	close(jobs)
	wg.Wait()

	return results
}

func (d *Detector) scanOne(ctx context.Context, doc Document) ScanResult {
	start := time.Now()
	scanID := uuid.NewString()

	seed := tracker.New(doc.LawID, doc.Article)
	refs, err := d.Detect(ctx, doc.Text, seed)

	res := ScanResult{
		ScanID:   scanID,
		Document: doc,
		Refs:     refs,
		Err:      err,
		Elapsed:  time.Since(start),
	}

	if err != nil {
		d.log.Error().Str("scan_id", scanID).Str("doc", doc.ID).Err(err).Msg("scan failed")
		return res
	}
	d.log.Info().
		Str("scan_id", scanID).
		Str("doc", doc.ID).
		Int("references", len(refs)).
		Dur("elapsed", res.Elapsed).
		Msg("scan complete")
	return res
}
