package groups

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"tgconsole/internal/domain"
)

// ErrEmptyInput is returned when the raw input contains no usable lines.
// It fails locally; no request is made.
var ErrEmptyInput = errors.New("no group identifiers in input")

// Submitter is the backend side of the pipeline.
type Submitter interface {
	BulkCreateGroups(ctx context.Context, identifiers []string) ([]domain.GroupTarget, error)
}

// Report is the outcome of one ingestion batch. RejectedOrDuplicate
// counts submitted identifiers the backend chose not to create; in-batch
// duplicates are dropped silently before submission and appear in
// neither count.
type Report struct {
	Accepted            int
	RejectedOrDuplicate int
}

// Pipeline ingests bulk operator input.
type Pipeline struct {
	backend Submitter
	logger  *zap.Logger
}

// NewPipeline creates a Pipeline. logger may be nil.
func NewPipeline(backend Submitter, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{backend: backend, logger: logger}
}

// ParseBatch splits raw multi-line or CSV input into classified,
// deduplicated references. For CSV lines only the first comma- or
// semicolon-separated column is taken. Dedup is by normalized identifier,
// first occurrence wins, input order preserved.
func ParseBatch(raw string) []domain.GroupReference {
	var refs []domain.GroupReference
	seen := make(map[string]struct{})

	for _, line := range strings.Split(raw, "\n") {
		line = firstColumn(line)
		if line == "" {
			continue
		}
		ref := Classify(line)
		if _, dup := seen[ref.Normalized]; dup {
			continue
		}
		seen[ref.Normalized] = struct{}{}
		refs = append(refs, ref)
	}
	return refs
}

func firstColumn(line string) string {
	if i := strings.IndexAny(line, ",;"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// Ingest parses, deduplicates, and submits one batch. The backend is the
// authority on cross-batch duplicates: it returns only the subset it
// created, and the remainder of the submitted batch is reported as
// rejected-or-duplicate.
func (p *Pipeline) Ingest(ctx context.Context, raw string) (Report, error) {
	refs := ParseBatch(raw)
	if len(refs) == 0 {
		return Report{}, ErrEmptyInput
	}

	identifiers := make([]string, len(refs))
	for i, ref := range refs {
		identifiers[i] = ref.RawInput
	}

	created, err := p.backend.BulkCreateGroups(ctx, identifiers)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		Accepted:            len(created),
		RejectedOrDuplicate: len(identifiers) - len(created),
	}
	p.logger.Info("bulk ingestion complete",
		zap.Int("submitted", len(identifiers)),
		zap.Int("accepted", report.Accepted),
		zap.Int("rejected_or_duplicate", report.RejectedOrDuplicate))
	return report, nil
}
