// Package report implements the read-only aggregation layer: rankings,
// department rollups, time-bucketed summaries, point scoring, and the
// comprehensive multi-section report. It issues its own aggregate queries
// through the storage gateway so aggregation stays pushed down to the
// engine.
package report

import (
	"context"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/campuslabs/eventtrack/internal/storage"
)

// DefaultLimit bounds ranked reports when the caller does not choose one.
const DefaultLimit = 10

// StudentRank is a student ranked by participation count.
type StudentRank struct {
	USN                string
	Name               string
	Department         string
	Year               int
	ParticipationCount int
}

// DepartmentStats is one department's participation rollup.
type DepartmentStats struct {
	Department          string
	TotalStudents       int
	UniqueEvents        int
	TotalParticipations int
	AvgPerStudent       float64
}

// EventRank is an event ranked by participant count.
type EventRank struct {
	EventID          int
	Name             string
	Type             string
	Department       string
	Date             time.Time
	ParticipantCount int
}

// PerformanceRow counts performance classifications per department.
type PerformanceRow struct {
	Department   string
	Winners      int
	RunnersUp    int
	Participants int
}

// EventTypeStats is one event type's rollup.
type EventTypeStats struct {
	Type                string
	TotalEvents         int
	UniqueStudents      int
	TotalParticipations int
}

// MonthlyRow is one calendar month's event and participation summary.
type MonthlyRow struct {
	Month        int
	TotalEvents  int
	Participants int
	Winners      int
	RunnersUp    int
}

// PerformerRank is a student ranked by weighted points:
// 3 per Winner, 2 per Runner-up, 1 per Participant row.
type PerformerRank struct {
	USN                 string
	Name                string
	Department          string
	Year                int
	Wins                int
	RunnerUps           int
	TotalParticipations int
	Points              int
}

// Engine runs the aggregate queries.
type Engine struct {
	gw     *storage.Gateway
	logger *slog.Logger
}

// NewEngine returns a reporting engine backed by the given gateway.
func NewEngine(gw *storage.Gateway, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{gw: gw, logger: logger}
}

// TopParticipatingStudents ranks students by participation count,
// highest first. Students with no participation rows are excluded.
func (e *Engine) TopParticipatingStudents(ctx context.Context, limit int) ([]StudentRank, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	records, err := e.gw.FetchAll(ctx, `
		SELECT s.usn, s.name, s.department, s.year,
		       COUNT(p.id) AS participation_count
		FROM students s
		JOIN participation p ON s.usn = p.usn
		GROUP BY s.usn, s.name, s.department, s.year
		ORDER BY participation_count DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}

	ranks := make([]StudentRank, 0, len(records))
	for _, rec := range records {
		ranks = append(ranks, StudentRank{
			USN:                rec.String("usn"),
			Name:               rec.String("name"),
			Department:         rec.String("department"),
			Year:               rec.Int("year"),
			ParticipationCount: rec.Int("participation_count"),
		})
	}
	return ranks, nil
}

// DepartmentParticipation rolls participation up per department. A
// department with students but no participation rows reports average 0;
// the division is by distinct student count, which is at least 1 for any
// department that appears.
func (e *Engine) DepartmentParticipation(ctx context.Context) ([]DepartmentStats, error) {
	return e.departmentStats(ctx, Filters{})
}

// EventsByParticipation ranks events by participant count, highest first.
// Events with no participants are included and rank last.
func (e *Engine) EventsByParticipation(ctx context.Context, limit int) ([]EventRank, error) {
	return e.popularEvents(ctx, Filters{}, limit)
}

// PerformanceSummary counts Winner, Runner-up, and Participant rows per
// department. Departments with no participation rows are absent.
func (e *Engine) PerformanceSummary(ctx context.Context) ([]PerformanceRow, error) {
	records, err := e.gw.FetchAll(ctx, `
		SELECT s.department,
		       COUNT(CASE WHEN p.performance = 'Winner' THEN 1 END) AS winners,
		       COUNT(CASE WHEN p.performance = 'Runner-up' THEN 1 END) AS runners_up,
		       COUNT(CASE WHEN p.performance = 'Participant' THEN 1 END) AS participants
		FROM students s
		JOIN participation p ON s.usn = p.usn
		GROUP BY s.department
		ORDER BY winners DESC, runners_up DESC`)
	if err != nil {
		return nil, err
	}

	rows := make([]PerformanceRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, PerformanceRow{
			Department:   rec.String("department"),
			Winners:      rec.Int("winners"),
			RunnersUp:    rec.Int("runners_up"),
			Participants: rec.Int("participants"),
		})
	}
	return rows, nil
}

// EventTypeStatistics rolls events and participation up per event type.
// Types with no participation show zero counts.
func (e *Engine) EventTypeStatistics(ctx context.Context) ([]EventTypeStats, error) {
	return e.eventTypeStats(ctx, Filters{})
}

// MonthlySummary summarizes each calendar month of the given year. Only
// months with at least one event appear.
func (e *Engine) MonthlySummary(ctx context.Context, year int) ([]MonthlyRow, error) {
	records, err := e.gw.FetchAll(ctx, `
		SELECT MONTH(e.event_date) AS month,
		       COUNT(DISTINCT e.event_id) AS total_events,
		       COUNT(DISTINCT p.usn) AS total_participants,
		       COUNT(CASE WHEN p.performance = 'Winner' THEN 1 END) AS winners,
		       COUNT(CASE WHEN p.performance = 'Runner-up' THEN 1 END) AS runners_up
		FROM events e
		LEFT JOIN participation p ON e.event_id = p.event_id
		WHERE YEAR(e.event_date) = ?
		GROUP BY MONTH(e.event_date)
		ORDER BY month`, year)
	if err != nil {
		return nil, err
	}

	rows := make([]MonthlyRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, MonthlyRow{
			Month:        rec.Int("month"),
			TotalEvents:  rec.Int("total_events"),
			Participants: rec.Int("total_participants"),
			Winners:      rec.Int("winners"),
			RunnersUp:    rec.Int("runners_up"),
		})
	}
	return rows, nil
}

// TopPerformers ranks students by weighted points, highest first.
func (e *Engine) TopPerformers(ctx context.Context, limit int) ([]PerformerRank, error) {
	return e.topPerformers(ctx, Filters{}, limit)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
