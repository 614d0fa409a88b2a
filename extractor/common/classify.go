package common

import (
	"context"

	"github.com/aqlanhadi/recon/logger"
)

// Extraction is the outcome of one classifier pass over a document.
type Extraction[T any] struct {
	Records []T
	Skipped int
	Stats   WalkStats
}

// Classify runs fn over the data rows of doc in document order and keeps the
// rows it accepts. Row 0 of each table is the header and counts as skipped
// without being offered to fn.
func Classify[T any](ctx context.Context, doc Document, fn func(RowRef) (T, bool)) (Extraction[T], error) {
	log := logger.FromContext(ctx)
	var out Extraction[T]

	skip := func(ref RowRef, reason string) {
		out.Skipped++
		log.Debug().
			Int("page", ref.Page).
			Int("table", ref.Table).
			Int("row", ref.Index).
			Str("reason", reason).
			Str("text", ref.Row.Text()).
			Msg("row skipped")
	}

	stats, err := WalkRows(doc, func(ref RowRef) {
		if ref.IsHeader {
			skip(ref, "header")
			return
		}
		record, ok := fn(ref)
		if !ok {
			skip(ref, "unclassified")
			return
		}
		out.Records = append(out.Records, record)
	})
	out.Stats = stats
	if err != nil {
		return out, err
	}

	log.Debug().
		Int("pages", stats.Pages).
		Int("tables", stats.Tables).
		Int("records", len(out.Records)).
		Int("skipped", out.Skipped).
		Msg("classification finished")
	return out, nil
}
