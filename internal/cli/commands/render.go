package commands

import (
	"github.com/campuslabs/eventtrack/internal/ledger"
	"github.com/campuslabs/eventtrack/internal/registry"
	"github.com/jedib0t/go-pretty/v6/table"
)

const dateLayout = "2006-01-02"

var studentHeader = table.Row{"USN", "Name", "Department", "Year"}

func studentRows(students []registry.Student) []table.Row {
	rows := make([]table.Row, 0, len(students))
	for _, s := range students {
		rows = append(rows, table.Row{s.USN, s.Name, s.Department, s.Year})
	}
	return rows
}

var studentSummaryHeader = table.Row{"USN", "Name", "Department", "Year", "Events"}

func studentSummaryRows(students []registry.StudentSummary) []table.Row {
	rows := make([]table.Row, 0, len(students))
	for _, s := range students {
		rows = append(rows, table.Row{s.USN, s.Name, s.Department, s.Year, s.ParticipationCount})
	}
	return rows
}

var studentEventHeader = table.Row{"ID", "Event", "Type", "Department", "Date", "Performance"}

func studentEventRows(events []registry.StudentEvent) []table.Row {
	rows := make([]table.Row, 0, len(events))
	for _, e := range events {
		rows = append(rows, table.Row{
			e.EventID, e.Name, e.Type, e.Department,
			e.Date.Format(dateLayout), e.Performance,
		})
	}
	return rows
}

var eventHeader = table.Row{"ID", "Name", "Type", "Department", "Date"}

func eventRows(events []registry.Event) []table.Row {
	rows := make([]table.Row, 0, len(events))
	for _, e := range events {
		rows = append(rows, table.Row{
			e.ID, e.Name, e.Type, e.Department, e.Date.Format(dateLayout),
		})
	}
	return rows
}

var eventSummaryHeader = table.Row{"ID", "Name", "Type", "Department", "Date", "Participants"}

func eventSummaryRows(events []registry.EventSummary) []table.Row {
	rows := make([]table.Row, 0, len(events))
	for _, e := range events {
		rows = append(rows, table.Row{
			e.ID, e.Name, e.Type, e.Department,
			e.Date.Format(dateLayout), e.ParticipantCount,
		})
	}
	return rows
}

var participantHeader = table.Row{"USN", "Name", "Department", "Year", "Performance"}

func participantRows(participants []registry.EventParticipant) []table.Row {
	rows := make([]table.Row, 0, len(participants))
	for _, p := range participants {
		rows = append(rows, table.Row{p.USN, p.Name, p.Department, p.Year, p.Performance})
	}
	return rows
}

var detailHeader = table.Row{"ID", "USN", "Student", "Event", "Type", "Date", "Performance"}

func detailRows(details []ledger.Detail) []table.Row {
	rows := make([]table.Row, 0, len(details))
	for _, d := range details {
		rows = append(rows, table.Row{
			d.ID, d.USN, d.StudentName, d.EventName, d.EventType,
			d.EventDate.Format(dateLayout), d.Performance,
		})
	}
	return rows
}

var winnerHeader = table.Row{"USN", "Name", "Department", "Year", "Performance"}

func winnerRows(winners []ledger.Winner) []table.Row {
	rows := make([]table.Row, 0, len(winners))
	for _, w := range winners {
		rows = append(rows, table.Row{w.USN, w.Name, w.Department, w.Year, w.Performance})
	}
	return rows
}

var achievementHeader = table.Row{"Event ID", "Event", "Type", "Department", "Date", "Performance"}

func achievementRows(achievements []ledger.Achievement) []table.Row {
	rows := make([]table.Row, 0, len(achievements))
	for _, a := range achievements {
		rows = append(rows, table.Row{
			a.EventID, a.EventName, a.EventType, a.Department,
			a.EventDate.Format(dateLayout), a.Performance,
		})
	}
	return rows
}
