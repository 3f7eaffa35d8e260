package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestHashIP(t *testing.T) {
	s := openTest(t)
	a, b := s.HashIP("10.0.0.1"), s.HashIP("10.0.0.2")
	if len(a) != 16 || a == b || a != s.HashIP("10.0.0.1") {
		t.Errorf("hashes %q %q", a, b)
	}
	if a == "10.0.0.1" {
		t.Error("ip stored in the clear")
	}
}

func TestVisitorsAndStats(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)

	visits := []struct {
		ip, path string
		at       time.Time
	}{
		{"1.1.1.1", "/", now.Add(-time.Hour)},
		{"1.1.1.1", "/api/sections", now.Add(-2 * time.Hour)},
		{"2.2.2.2", "/", now.AddDate(0, 0, -3)},
		{"3.3.3.3", "/", now.AddDate(0, 0, -30)},
	}
	for _, v := range visits {
		if err := s.RecordVisit(ctx, v.ip, "test-agent", v.path, v.at); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.SaveMessage(ctx, Message{Name: "Ada", Email: "ada@example.com", Body: "hi", Delivered: true, CreatedAt: now}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveMessage(ctx, Message{Name: "Bob", Email: "bob@example.com", Body: "yo", Error: "relay down", CreatedAt: now}); err != nil {
		t.Fatal(err)
	}

	st, err := s.Stats(ctx, now)
	if err != nil {
		t.Fatal(err)
	}
	want := Stats{TotalVisitors: 4, UniqueVisitors: 3, VisitorsToday: 2, VisitorsThisWeek: 3, TotalMessages: 2, FailedMessages: 1}
	got := Stats{
		TotalVisitors: st.TotalVisitors, UniqueVisitors: st.UniqueVisitors,
		VisitorsToday: st.VisitorsToday, VisitorsThisWeek: st.VisitorsThisWeek,
		TotalMessages: st.TotalMessages, FailedMessages: st.FailedMessages,
	}
	if got.TotalVisitors != want.TotalVisitors || got.UniqueVisitors != want.UniqueVisitors ||
		got.VisitorsToday != want.VisitorsToday || got.VisitorsThisWeek != want.VisitorsThisWeek ||
		got.TotalMessages != want.TotalMessages || got.FailedMessages != want.FailedMessages {
		t.Errorf("stats %+v, want %+v", got, want)
	}
	if len(st.TopPaths) != 2 || st.TopPaths[0].Path != "/" || st.TopPaths[0].Views != 3 {
		t.Errorf("top paths %+v", st.TopPaths)
	}
	if len(st.RecentVisitors) != 4 || st.RecentVisitors[0].Path != "/" || !st.RecentVisitors[0].Timestamp.Equal(now.Add(-time.Hour)) {
		t.Errorf("recent visitors %+v", st.RecentVisitors)
	}

	n, err := s.ForgetVisitor(ctx, "1.1.1.1")
	if err != nil || n != 2 {
		t.Errorf("forgot %d: %v", n, err)
	}
}

func TestMessages(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	id, err := s.SaveMessage(ctx, Message{Name: "Ada", Email: "ada@example.com", Body: "hi", Relay: "form", Delivered: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(id) != 36 {
		t.Errorf("id %q is not a uuid", id)
	}
	msgs, err := s.Messages(ctx, 10)
	if err != nil || len(msgs) != 1 || !msgs[0].Delivered || msgs[0].Relay != "form" {
		t.Fatalf("messages %+v: %v", msgs, err)
	}
	if err := s.DeleteMessage(ctx, id); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteMessage(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: %v", err)
	}
}

func TestCleanup(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	s.RecordVisit(ctx, "1.1.1.1", "", "/", now.AddDate(-1, -1, 0))
	s.RecordVisit(ctx, "1.1.1.1", "", "/", now.AddDate(0, -11, 0))
	s.SaveMessage(ctx, Message{Name: "old", Email: "o@example.com", Body: "x", CreatedAt: now.AddDate(-2, 0, 0)})

	cutoff := RetentionCutoff(now, 12)
	if !cutoff.Equal(time.Date(2025, 10, 19, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("cutoff %v", cutoff)
	}
	v, m, err := s.Cleanup(ctx, cutoff)
	if err != nil {
		t.Fatal(err)
	}
	if v != 1 || m != 1 {
		t.Errorf("removed %d visitors, %d messages", v, m)
	}
	left, _ := s.Visitors(ctx, 10)
	if len(left) != 1 {
		t.Errorf("%d visitors left", len(left))
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "portfolio.db")
	s, err := Open(path, "")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if s.Path() != path {
		t.Errorf("path %q", s.Path())
	}
	if err := s.RecordVisit(context.Background(), "::1", "", "/", time.Now()); err != nil {
		t.Fatal(err)
	}
}
