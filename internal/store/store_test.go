package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/symkrypt/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "history", "symkrypt.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func testStats(mode model.Mode) model.TextStatistics {
	s := model.NewTextStatistics(mode)
	s.SymbolCounts[0xE1] = 1
	s.SymbolCounts[0xE0] = 3
	s.TotalSymbols = 4
	s.SymbolEntropy = 0.811278
	return s
}

func TestInsertAndListRuns(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var ids []int64
	for i := 0; i < 3; i++ {
		mode := model.AllModes[i%2]
		s := testStats(mode)
		rec := model.RunRecord{
			StartedAt:       base.Add(time.Duration(i) * time.Second),
			Tag:             "run",
			Input:           "in.txt",
			Mode:            mode,
			ReportPath:      "out" + mode.Suffix() + ".txt",
			TotalSymbols:    s.TotalSymbols,
			DistinctSymbols: s.DistinctSymbols(),
			SymbolEntropy:   s.SymbolEntropy,
		}
		id, err := st.InsertRun(ctx, rec, s)
		if err != nil {
			t.Fatalf("insert run: %v", err)
		}
		ids = append(ids, id)
	}

	runs, err := st.ListRuns(ctx, model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].ID != ids[0] || runs[2].ID != ids[2] {
		t.Fatalf("unexpected order: %+v", runs)
	}
	if !runs[1].StartedAt.Equal(base.Add(time.Second)) {
		t.Fatalf("unexpected timestamp %v", runs[1].StartedAt)
	}
	if runs[1].Mode != model.StripSpaces || runs[1].DistinctSymbols != 2 {
		t.Fatalf("unexpected record: %+v", runs[1])
	}

	last, err := st.ListRuns(ctx, model.HistoryConfig{Last: 2})
	if err != nil {
		t.Fatalf("list last runs: %v", err)
	}
	if len(last) != 2 || last[0].ID != ids[1] || last[1].ID != ids[2] {
		t.Fatalf("unexpected last runs: %+v", last)
	}

	mode := model.PreserveSpaces
	filtered, err := st.ListRuns(ctx, model.HistoryConfig{Mode: &mode, Input: "in.txt"})
	if err != nil {
		t.Fatalf("list filtered runs: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("expected 2 preserve-mode runs, got %d", len(filtered))
	}

	none, err := st.ListRuns(ctx, model.HistoryConfig{Input: "other.txt"})
	if err != nil {
		t.Fatalf("list other runs: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no runs, got %d", len(none))
	}
}

func TestSymbolCounts(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	s := testStats(model.StripSpaces)
	id, err := st.InsertRun(ctx, model.RunRecord{StartedAt: time.Now(), Mode: model.StripSpaces}, s)
	if err != nil {
		t.Fatalf("insert run: %v", err)
	}
	counts, err := st.SymbolCounts(ctx, id)
	if err != nil {
		t.Fatalf("symbol counts: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("expected 2 symbols, got %d", len(counts))
	}
	if counts[0].Symbol != string([]byte{0xE0}) || counts[0].Count != 3 {
		t.Fatalf("unexpected first symbol: %+v", counts[0])
	}
}
