package indexdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"botfield.ai/internal/observerproto"
)

func TestRecordHistoryRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	idx, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	for i, r := range []observerproto.Record{
		{HolderName: "alice", DurationSec: 5, StartEnergy: 10},
		{HolderName: "bob", DurationSec: 20, StartEnergy: 10},
		{HolderName: "carol", DurationSec: 12, StartEnergy: 10},
	} {
		r.Timestamp = base.Add(time.Duration(i) * time.Minute)
		if err := idx.RecordImproved(r); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}

	// Close drains the writer queue, then reopen to query.
	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	idx, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer idx.Close()

	got, err := idx.TopRecords(context.Background(), 2)
	if err != nil {
		t.Fatalf("top records: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("rows = %d, want 2", len(got))
	}
	if got[0].HolderName != "bob" || got[1].HolderName != "carol" {
		t.Fatalf("order = %q, %q", got[0].HolderName, got[1].HolderName)
	}
	if !got[0].Timestamp.Equal(base.Add(time.Minute)) {
		t.Fatalf("timestamp = %v", got[0].Timestamp)
	}
}

func TestTopRecordsOnEmptyDB(t *testing.T) {
	idx, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer idx.Close()

	got, err := idx.TopRecords(context.Background(), 10)
	if err != nil {
		t.Fatalf("top records: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("rows = %d, want 0", len(got))
	}
}

func TestRecordImprovedAfterCloseIsNoOp(t *testing.T) {
	idx, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_ = idx.Close()
	if err := idx.RecordImproved(observerproto.Record{HolderName: "late"}); err != nil {
		t.Fatalf("enqueue after close: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("double close: %v", err)
	}
}

func TestNilIndexIsSafe(t *testing.T) {
	var idx *SQLiteIndex
	if err := idx.RecordImproved(observerproto.Record{}); err != nil {
		t.Fatalf("nil index enqueue: %v", err)
	}
}
