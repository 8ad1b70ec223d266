package groups_test

import (
	"context"
	"errors"
	"testing"

	"tgconsole/internal/domain"
	"tgconsole/internal/groups"
)

type stubBackend struct {
	submitted [][]string
	created   []domain.GroupTarget
	err       error
}

func (s *stubBackend) BulkCreateGroups(_ context.Context, ids []string) ([]domain.GroupTarget, error) {
	s.submitted = append(s.submitted, ids)
	return s.created, s.err
}

func TestParseBatch_Dedup(t *testing.T) {
	refs := groups.ParseBatch("@foo\n@foo\nhttps://t.me/foo")
	if len(refs) != 1 {
		t.Fatalf("len = %d, want 1 (all collapse to foo)", len(refs))
	}
	if refs[0].Normalized != "foo" {
		t.Errorf("Normalized = %q, want foo", refs[0].Normalized)
	}
	// First occurrence wins.
	if refs[0].RawInput != "@foo" {
		t.Errorf("RawInput = %q, want first occurrence @foo", refs[0].RawInput)
	}
}

func TestParseBatch_CSVFirstColumn(t *testing.T) {
	raw := "@alpha, Alpha Group, active\n@beta; Beta Group\n-100987, id entry"
	refs := groups.ParseBatch(raw)

	want := []string{"alpha", "beta", "-100987"}
	if len(refs) != len(want) {
		t.Fatalf("len = %d, want %d", len(refs), len(want))
	}
	for i, w := range want {
		if refs[i].Normalized != w {
			t.Errorf("refs[%d].Normalized = %q, want %q", i, refs[i].Normalized, w)
		}
	}
}

func TestParseBatch_SkipsBlankLines(t *testing.T) {
	refs := groups.ParseBatch("\n  \n@one\n\n\t\n@two\n")
	if len(refs) != 2 {
		t.Fatalf("len = %d, want 2", len(refs))
	}
}

func TestIngest_EmptyInputFailsLocally(t *testing.T) {
	backend := &stubBackend{}
	p := groups.NewPipeline(backend, nil)

	_, err := p.Ingest(context.Background(), "   \n\n  ")
	if !errors.Is(err, groups.ErrEmptyInput) {
		t.Fatalf("err = %v, want ErrEmptyInput", err)
	}
	if len(backend.submitted) != 0 {
		t.Error("empty input reached the backend")
	}
}

func TestIngest_ReportsBackendCounts(t *testing.T) {
	backend := &stubBackend{
		created: []domain.GroupTarget{
			{ID: "1", Identifier: "@foo"},
			{ID: "2", Identifier: "@bar"},
		},
	}
	p := groups.NewPipeline(backend, nil)

	report, err := p.Ingest(context.Background(), "@foo\n@bar\n@baz\n@foo")
	if err != nil {
		t.Fatalf("Ingest() error: %v", err)
	}

	// Four lines, one in-batch duplicate: three submitted.
	if len(backend.submitted) != 1 || len(backend.submitted[0]) != 3 {
		t.Fatalf("submitted = %v, want one batch of 3", backend.submitted)
	}
	if report.Accepted != 2 {
		t.Errorf("Accepted = %d, want 2", report.Accepted)
	}
	if report.RejectedOrDuplicate != 1 {
		t.Errorf("RejectedOrDuplicate = %d, want 1", report.RejectedOrDuplicate)
	}
}

func TestIngest_BackendError(t *testing.T) {
	backend := &stubBackend{err: errors.New("boom")}
	p := groups.NewPipeline(backend, nil)

	if _, err := p.Ingest(context.Background(), "@foo"); err == nil {
		t.Fatal("expected error")
	}
}
