package report

import (
	"context"
	"time"
)

// Filters narrows the comprehensive report. Zero values mean "all":
// Year restricts events to one calendar year, EventType to one category,
// and Department to students of one department.
type Filters struct {
	Year       int
	Department string
	EventType  string
}

func (f Filters) isZero() bool {
	return f.Year == 0 && f.Department == "" && f.EventType == ""
}

// eventConds returns WHERE fragments restricting the events table (aliased
// e) by year and type, with their bind arguments.
func (f Filters) eventConds() (string, []any) {
	cond := ""
	var args []any
	if f.Year != 0 {
		cond += " AND YEAR(e.event_date) = ?"
		args = append(args, f.Year)
	}
	if f.EventType != "" {
		cond += " AND e.event_type = ?"
		args = append(args, f.EventType)
	}
	return cond, args
}

// participationStudentCond restricts participation rows (aliased p) to
// students of the filtered department without disturbing a left join.
func (f Filters) participationStudentCond() (string, []any) {
	if f.Department == "" {
		return "", nil
	}
	return " AND p.usn IN (SELECT usn FROM students WHERE department = ?)",
		[]any{f.Department}
}

// participationEventCond restricts participation rows (aliased p) to
// events matching the year/type filters without disturbing a left join.
func (f Filters) participationEventCond() (string, []any) {
	if f.Year == 0 && f.EventType == "" {
		return "", nil
	}
	cond := " AND p.event_id IN (SELECT event_id FROM events WHERE 1=1"
	var args []any
	if f.Year != 0 {
		cond += " AND YEAR(event_date) = ?"
		args = append(args, f.Year)
	}
	if f.EventType != "" {
		cond += " AND event_type = ?"
		args = append(args, f.EventType)
	}
	cond += ")"
	return cond, args
}

// Totals are the headline counts of the comprehensive report.
type Totals struct {
	Students       int
	Events         int
	Participations int
	AvgPerStudent  float64
	AvgPerEvent    float64
}

// Comprehensive is the multi-section aggregate bundle.
type Comprehensive struct {
	GeneratedAt   time.Time
	Filters       Filters
	Totals        Totals
	Departments   []DepartmentStats
	EventTypes    []EventTypeStats
	TopPerformers []PerformerRank
	PopularEvents []EventRank
}

// Comprehensive composes the summary totals, department and event-type
// breakdowns, top-10 performers, and top-10 popular events, all computed
// over rows matching the filters.
func (e *Engine) Comprehensive(ctx context.Context, f Filters) (*Comprehensive, error) {
	totals, err := e.totals(ctx, f)
	if err != nil {
		return nil, err
	}
	departments, err := e.departmentStats(ctx, f)
	if err != nil {
		return nil, err
	}
	eventTypes, err := e.eventTypeStats(ctx, f)
	if err != nil {
		return nil, err
	}
	performers, err := e.topPerformers(ctx, f, DefaultLimit)
	if err != nil {
		return nil, err
	}
	popular, err := e.popularEvents(ctx, f, DefaultLimit)
	if err != nil {
		return nil, err
	}

	return &Comprehensive{
		GeneratedAt:   time.Now(),
		Filters:       f,
		Totals:        totals,
		Departments:   departments,
		EventTypes:    eventTypes,
		TopPerformers: performers,
		PopularEvents: popular,
	}, nil
}

func (e *Engine) totals(ctx context.Context, f Filters) (Totals, error) {
	var t Totals

	studentQuery := "SELECT COUNT(*) AS n FROM students"
	var studentArgs []any
	if f.Department != "" {
		studentQuery += " WHERE department = ?"
		studentArgs = append(studentArgs, f.Department)
	}
	rec, err := e.gw.FetchOne(ctx, studentQuery, studentArgs...)
	if err != nil {
		return t, err
	}
	t.Students = rec.Int("n")

	eventCond, eventArgs := f.eventConds()
	rec, err = e.gw.FetchOne(ctx,
		"SELECT COUNT(*) AS n FROM events e WHERE 1=1"+eventCond, eventArgs...)
	if err != nil {
		return t, err
	}
	t.Events = rec.Int("n")

	partQuery := `
		SELECT COUNT(p.id) AS n
		FROM participation p
		JOIN students s ON p.usn = s.usn
		JOIN events e ON p.event_id = e.event_id
		WHERE 1=1`
	var partArgs []any
	if f.Department != "" {
		partQuery += " AND s.department = ?"
		partArgs = append(partArgs, f.Department)
	}
	cond, args := f.eventConds()
	partQuery += cond
	partArgs = append(partArgs, args...)
	rec, err = e.gw.FetchOne(ctx, partQuery, partArgs...)
	if err != nil {
		return t, err
	}
	t.Participations = rec.Int("n")

	if t.Students > 0 {
		t.AvgPerStudent = round2(float64(t.Participations) / float64(t.Students))
	}
	if t.Events > 0 {
		t.AvgPerEvent = round2(float64(t.Participations) / float64(t.Events))
	}
	return t, nil
}

func (e *Engine) departmentStats(ctx context.Context, f Filters) ([]DepartmentStats, error) {
	query := `
		SELECT s.department,
		       COUNT(DISTINCT s.usn) AS total_students,
		       COUNT(DISTINCT p.event_id) AS unique_events_participated,
		       COUNT(p.id) AS total_participations,
		       ROUND(COUNT(p.id) / COUNT(DISTINCT s.usn), 2) AS avg_per_student
		FROM students s
		LEFT JOIN participation p ON s.usn = p.usn`
	joinCond, args := f.participationEventCond()
	query += joinCond
	if f.Department != "" {
		query += " WHERE s.department = ?"
		args = append(args, f.Department)
	}
	query += `
		GROUP BY s.department
		ORDER BY total_participations DESC`

	records, err := e.gw.FetchAll(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	stats := make([]DepartmentStats, 0, len(records))
	for _, rec := range records {
		stats = append(stats, DepartmentStats{
			Department:          rec.String("department"),
			TotalStudents:       rec.Int("total_students"),
			UniqueEvents:        rec.Int("unique_events_participated"),
			TotalParticipations: rec.Int("total_participations"),
			AvgPerStudent:       rec.Float("avg_per_student"),
		})
	}
	return stats, nil
}

func (e *Engine) eventTypeStats(ctx context.Context, f Filters) ([]EventTypeStats, error) {
	query := `
		SELECT e.event_type,
		       COUNT(DISTINCT e.event_id) AS total_events,
		       COUNT(DISTINCT p.usn) AS total_unique_students,
		       COUNT(p.id) AS total_participations
		FROM events e
		LEFT JOIN participation p ON e.event_id = p.event_id`
	joinCond, args := f.participationStudentCond()
	query += joinCond
	query += " WHERE 1=1"
	cond, condArgs := f.eventConds()
	query += cond
	args = append(args, condArgs...)
	query += `
		GROUP BY e.event_type
		ORDER BY total_participations DESC`

	records, err := e.gw.FetchAll(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	stats := make([]EventTypeStats, 0, len(records))
	for _, rec := range records {
		stats = append(stats, EventTypeStats{
			Type:                rec.String("event_type"),
			TotalEvents:         rec.Int("total_events"),
			UniqueStudents:      rec.Int("total_unique_students"),
			TotalParticipations: rec.Int("total_participations"),
		})
	}
	return stats, nil
}

func (e *Engine) topPerformers(ctx context.Context, f Filters, limit int) ([]PerformerRank, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	query := `
		SELECT s.usn, s.name, s.department, s.year,
		       COUNT(CASE WHEN p.performance = 'Winner' THEN 1 END) AS wins,
		       COUNT(CASE WHEN p.performance = 'Runner-up' THEN 1 END) AS runner_ups,
		       COUNT(p.id) AS total_participations,
		       (COUNT(CASE WHEN p.performance = 'Winner' THEN 1 END) * 3 +
		        COUNT(CASE WHEN p.performance = 'Runner-up' THEN 1 END) * 2 +
		        COUNT(CASE WHEN p.performance = 'Participant' THEN 1 END)) AS points
		FROM students s
		JOIN participation p ON s.usn = p.usn
		JOIN events e ON p.event_id = e.event_id
		WHERE 1=1`
	var args []any
	if f.Department != "" {
		query += " AND s.department = ?"
		args = append(args, f.Department)
	}
	cond, condArgs := f.eventConds()
	query += cond
	args = append(args, condArgs...)
	query += `
		GROUP BY s.usn, s.name, s.department, s.year
		ORDER BY points DESC
		LIMIT ?`
	args = append(args, limit)

	records, err := e.gw.FetchAll(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	ranks := make([]PerformerRank, 0, len(records))
	for _, rec := range records {
		ranks = append(ranks, PerformerRank{
			USN:                 rec.String("usn"),
			Name:                rec.String("name"),
			Department:          rec.String("department"),
			Year:                rec.Int("year"),
			Wins:                rec.Int("wins"),
			RunnerUps:           rec.Int("runner_ups"),
			TotalParticipations: rec.Int("total_participations"),
			Points:              rec.Int("points"),
		})
	}
	return ranks, nil
}

func (e *Engine) popularEvents(ctx context.Context, f Filters, limit int) ([]EventRank, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	query := `
		SELECT e.event_id, e.name, e.event_type, e.department,
		       e.event_date, COUNT(p.id) AS participant_count
		FROM events e
		LEFT JOIN participation p ON e.event_id = p.event_id`
	joinCond, args := f.participationStudentCond()
	query += joinCond
	query += " WHERE 1=1"
	cond, condArgs := f.eventConds()
	query += cond
	args = append(args, condArgs...)
	query += `
		GROUP BY e.event_id, e.name, e.event_type, e.department, e.event_date
		ORDER BY participant_count DESC
		LIMIT ?`
	args = append(args, limit)

	records, err := e.gw.FetchAll(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	ranks := make([]EventRank, 0, len(records))
	for _, rec := range records {
		ranks = append(ranks, EventRank{
			EventID:          rec.Int("event_id"),
			Name:             rec.String("name"),
			Type:             rec.String("event_type"),
			Department:       rec.String("department"),
			Date:             rec.Time("event_date"),
			ParticipantCount: rec.Int("participant_count"),
		})
	}
	return ranks, nil
}
