package report

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

const sectionRule = 80

// renderTable renders a titled grid table, or a placeholder when the
// section has no rows.
func renderTable(title string, header table.Row, rows []table.Row) string {
	if len(rows) == 0 {
		return fmt.Sprintf("\n%s\n\nNo data available for this report.\n", title)
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	t.AppendRows(rows)
	return fmt.Sprintf("\n%s\n\n%s\n", title, t.Render())
}

func rule() string {
	return strings.Repeat("=", sectionRule)
}

// FormatStudentRanks renders a top-participating-students section.
func FormatStudentRanks(title string, ranks []StudentRank) string {
	rows := make([]table.Row, 0, len(ranks))
	for _, r := range ranks {
		rows = append(rows, table.Row{r.USN, r.Name, r.Department, r.Year, r.ParticipationCount})
	}
	return renderTable(title,
		table.Row{"USN", "Name", "Department", "Year", "Participations"}, rows)
}

// FormatDepartmentStats renders a department rollup section.
func FormatDepartmentStats(title string, stats []DepartmentStats) string {
	rows := make([]table.Row, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, table.Row{
			s.Department, s.TotalStudents, s.UniqueEvents,
			s.TotalParticipations, fmt.Sprintf("%.2f", s.AvgPerStudent),
		})
	}
	return renderTable(title,
		table.Row{"Department", "Students", "Events Reached", "Participations", "Avg/Student"}, rows)
}

// FormatEventRanks renders an events-by-participation section.
func FormatEventRanks(title string, ranks []EventRank) string {
	rows := make([]table.Row, 0, len(ranks))
	for _, r := range ranks {
		rows = append(rows, table.Row{
			r.EventID, r.Name, r.Type, r.Department,
			r.Date.Format("2006-01-02"), r.ParticipantCount,
		})
	}
	return renderTable(title,
		table.Row{"ID", "Name", "Type", "Department", "Date", "Participants"}, rows)
}

// FormatPerformanceRows renders a per-department performance section.
func FormatPerformanceRows(title string, perf []PerformanceRow) string {
	rows := make([]table.Row, 0, len(perf))
	for _, p := range perf {
		rows = append(rows, table.Row{p.Department, p.Winners, p.RunnersUp, p.Participants})
	}
	return renderTable(title,
		table.Row{"Department", "Winners", "Runners-up", "Participants"}, rows)
}

// FormatEventTypeStats renders an event-type statistics section.
func FormatEventTypeStats(title string, stats []EventTypeStats) string {
	rows := make([]table.Row, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, table.Row{s.Type, s.TotalEvents, s.UniqueStudents, s.TotalParticipations})
	}
	return renderTable(title,
		table.Row{"Event Type", "Events", "Unique Students", "Participations"}, rows)
}

// FormatMonthlyRows renders a monthly summary section.
func FormatMonthlyRows(title string, months []MonthlyRow) string {
	rows := make([]table.Row, 0, len(months))
	for _, m := range months {
		rows = append(rows, table.Row{m.Month, m.TotalEvents, m.Participants, m.Winners, m.RunnersUp})
	}
	return renderTable(title,
		table.Row{"Month", "Events", "Participants", "Winners", "Runners-up"}, rows)
}

// FormatPerformerRanks renders a top-performers section.
func FormatPerformerRanks(title string, ranks []PerformerRank) string {
	rows := make([]table.Row, 0, len(ranks))
	for _, r := range ranks {
		rows = append(rows, table.Row{
			r.USN, r.Name, r.Department, r.Year,
			r.Wins, r.RunnerUps, r.TotalParticipations, r.Points,
		})
	}
	return renderTable(title,
		table.Row{"USN", "Name", "Department", "Year", "Wins", "Runner-ups", "Total", "Points"}, rows)
}

// FormatComprehensive renders the whole bundle as a plain-text report.
func FormatComprehensive(c *Comprehensive) string {
	var b strings.Builder

	b.WriteString("CAMPUS EVENT PARTICIPATION TRACKER - COMPREHENSIVE REPORT\n")
	b.WriteString(fmt.Sprintf("Generated on: %s\n", c.GeneratedAt.Format("2006-01-02 15:04:05")))
	if !c.Filters.isZero() {
		b.WriteString(fmt.Sprintf("Filters: %s\n", describeFilters(c.Filters)))
	}
	b.WriteString(rule() + "\n")

	b.WriteString(fmt.Sprintf("\nSUMMARY\n\n"+
		"  Students:            %d\n"+
		"  Events:              %d\n"+
		"  Participations:      %d\n"+
		"  Avg per student:     %.2f\n"+
		"  Avg per event:       %.2f\n",
		c.Totals.Students, c.Totals.Events, c.Totals.Participations,
		c.Totals.AvgPerStudent, c.Totals.AvgPerEvent))
	b.WriteString("\n" + rule() + "\n")

	b.WriteString(FormatDepartmentStats("DEPARTMENT-WISE PARTICIPATION", c.Departments))
	b.WriteString("\n" + rule() + "\n")

	b.WriteString(FormatEventTypeStats("EVENT TYPE STATISTICS", c.EventTypes))
	b.WriteString("\n" + rule() + "\n")

	b.WriteString(FormatPerformerRanks("TOP 10 PERFORMERS (BY POINTS)", c.TopPerformers))
	b.WriteString("\n" + rule() + "\n")

	b.WriteString(FormatEventRanks("TOP 10 EVENTS BY PARTICIPATION", c.PopularEvents))

	return b.String()
}

func describeFilters(f Filters) string {
	var parts []string
	if f.Year != 0 {
		parts = append(parts, fmt.Sprintf("year=%d", f.Year))
	}
	if f.Department != "" {
		parts = append(parts, "department="+f.Department)
	}
	if f.EventType != "" {
		parts = append(parts, "type="+f.EventType)
	}
	return strings.Join(parts, ", ")
}
