package store

import (
	"context"
	"fmt"
	"time"
)

// PathStat counts views of one path.
type PathStat struct {
	Path  string `json:"path"`
	Views int64  `json:"views"`
}

// Stats summarizes the store for the admin dashboard.
type Stats struct {
	TotalVisitors    int64      `json:"total_visitors"`
	UniqueVisitors   int64      `json:"unique_visitors"`
	VisitorsToday    int64      `json:"visitors_today"`
	VisitorsThisWeek int64      `json:"visitors_this_week"`
	TotalMessages    int64      `json:"total_messages"`
	FailedMessages   int64      `json:"failed_messages"`
	TopPaths         []PathStat `json:"top_paths"`
	RecentVisitors   []Visitor  `json:"recent_visitors"`
	RecentMessages   []Message  `json:"recent_messages"`
}

// Stats computes dashboard statistics as of now.
func (s *Store) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	stats := &Stats{}
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{today}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{now.AddDate(0, 0, -7)}},
		{&stats.TotalMessages, `SELECT COUNT(*) FROM contact_messages`, nil},
		{&stats.FailedMessages, `SELECT COUNT(*) FROM contact_messages WHERE delivered = 0`, nil},
	}
	for _, c := range counts {
		if err := s.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("computing stats: %w", err)
		}
	}

	rows, err := s.QueryContext(ctx, `
		SELECT path, COUNT(*) AS views
		FROM visitors
		GROUP BY path
		ORDER BY views DESC, path
		LIMIT 10
	`)
	if err != nil {
		return nil, fmt.Errorf("querying top paths: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p PathStat
		if err := rows.Scan(&p.Path, &p.Views); err != nil {
			return nil, fmt.Errorf("scanning path stat: %w", err)
		}
		stats.TopPaths = append(stats.TopPaths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if stats.RecentVisitors, err = s.Visitors(ctx, 50); err != nil {
		return nil, err
	}
	if stats.RecentMessages, err = s.Messages(ctx, 20); err != nil {
		return nil, err
	}
	return stats, nil
}
