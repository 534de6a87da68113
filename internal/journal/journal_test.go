package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Hara602/folderSentry/internal/model"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndRecent(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	at := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

	first := model.TickReport{Dir: "/data", TimeStamp: at, Notices: []model.Notice{
		model.UpdatedNotice("a.txt"),
		model.NewNotice("b.txt"),
	}}
	if err := j.Record(ctx, first); err != nil {
		t.Fatalf("Record: %v", err)
	}
	second := model.TickReport{Dir: "/data", TimeStamp: at.Add(time.Minute), Notices: []model.Notice{
		{Kind: model.NoticeNew, Name: "evil.txt", FileType: "exe", Suspicious: true},
	}}
	j.Notify(second)

	entries, err := j.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	newest := entries[0]
	if newest.Name != "evil.txt" || !newest.Suspicious || newest.FileType != "exe" {
		t.Errorf("newest = %+v", newest)
	}
	if !newest.ObservedAt.Equal(at.Add(time.Minute)) {
		t.Errorf("ObservedAt = %v, want %v", newest.ObservedAt, at.Add(time.Minute))
	}
	if entries[2].Name != "a.txt" || entries[2].Kind != model.NoticeUpdated {
		t.Errorf("oldest = %+v", entries[2])
	}
	if n := entries[1].Notice(); n != model.NewNotice("b.txt") {
		t.Errorf("Notice() = %+v", n)
	}
}

func TestRecentLimit(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	r := model.TickReport{Dir: "/d"}
	for _, name := range []string{"1", "2", "3", "4"} {
		r.Notices = append(r.Notices, model.NewNotice(name))
	}
	if err := j.Record(ctx, r); err != nil {
		t.Fatal(err)
	}

	entries, err := j.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Name != "4" {
		t.Fatalf("Recent(2) = %+v", entries)
	}
}

func TestRecordEmptyIsNoop(t *testing.T) {
	j := openTestJournal(t)
	if err := j.Record(context.Background(), model.TickReport{Dir: "/d"}); err != nil {
		t.Fatal(err)
	}
	entries, err := j.Recent(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty journal, got %d", len(entries))
	}
}
