package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/campuslabs/eventtrack/internal/ledger"
	"github.com/campuslabs/eventtrack/internal/report"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

// errMenuQuit unwinds the menu loops when the user quits.
var errMenuQuit = errors.New("quit")

const welcomeBanner = `
=====================================================
      COLLEGE EVENT PARTICIPATION TRACKER
=====================================================
A comprehensive system to track student participation
and performance in college events.
=====================================================
`

// NewMenuCommand creates the interactive menu command.
func NewMenuCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Run the interactive menu",
		Long:  `Drive the tracker through numbered menus instead of subcommands.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          "> ",
				InterruptPrompt: "^C",
				EOFPrompt:       "q",
				Stdin:           io.NopCloser(cmd.InOrStdin()),
				Stdout:          cmd.OutOrStdout(),
			})
			if err != nil {
				return fmt.Errorf("failed to initialize menu: %w", err)
			}
			defer func() { _ = rl.Close() }()

			m := &menu{ctx: ctx, rl: rl}
			ctx.Renderer.Printf("%s\n", welcomeBanner)

			if err := m.mainLoop(cmd.Context()); err != nil && !errors.Is(err, errMenuQuit) {
				return err
			}
			ctx.Renderer.Println("Goodbye!")
			return nil
		},
	}
}

type menuItem struct {
	key    string
	label  string
	action func(ctx context.Context) error
}

type menu struct {
	ctx *CommandContext
	rl  *readline.Instance
}

func (m *menu) mainLoop(ctx context.Context) error {
	items := []menuItem{
		{"1", "Student Management", m.studentLoop},
		{"2", "Event Management", m.eventLoop},
		{"3", "Participation Management", m.participationLoop},
		{"4", "Reports", m.reportsLoop},
	}
	for {
		if err := m.runMenu(ctx, "MAIN MENU", items); err != nil {
			return err
		}
	}
}

// runMenu shows one menu and dispatches a single choice. Returning nil
// after "b" lets the caller's loop continue or break as appropriate.
func (m *menu) runMenu(ctx context.Context, title string, items []menuItem) error {
	r := m.ctx.Renderer
	r.Println("")
	r.Header(title)
	r.Println(strings.Repeat("=", len(title)))
	for _, item := range items {
		r.Printf("%s. %s\n", item.key, item.label)
	}
	r.Println("")
	r.Muted("(Press 'b' to go back, 'q' to quit)")

	choice, err := m.prompt("Enter your choice: ")
	if err != nil {
		return err
	}
	choice = strings.ToLower(choice)

	switch choice {
	case "b":
		return nil
	case "q":
		return errMenuQuit
	}
	for _, item := range items {
		if item.key == choice {
			if err := item.action(ctx); err != nil {
				if errors.Is(err, errMenuQuit) {
					return err
				}
				r.Failure("%s", err.Error())
			}
			return nil
		}
	}
	r.Println("Invalid choice.")
	return nil
}

// subLoop repeats a submenu until the user picks "b" or quits.
func (m *menu) subLoop(ctx context.Context, title string, items []menuItem) error {
	for {
		r := m.ctx.Renderer
		r.Println("")
		r.Header(title)
		r.Println(strings.Repeat("=", len(title)))
		for _, item := range items {
			r.Printf("%s. %s\n", item.key, item.label)
		}
		r.Println("")
		r.Muted("(Press 'b' to go back, 'q' to quit)")

		choice, err := m.prompt("Enter your choice: ")
		if err != nil {
			return err
		}
		choice = strings.ToLower(choice)

		switch choice {
		case "b":
			return nil
		case "q":
			return errMenuQuit
		}

		matched := false
		for _, item := range items {
			if item.key == choice {
				matched = true
				if err := item.action(ctx); err != nil {
					if errors.Is(err, errMenuQuit) {
						return err
					}
					r.Failure("%s", err.Error())
				}
				break
			}
		}
		if !matched {
			r.Println("Invalid choice.")
		}
	}
}

func (m *menu) prompt(label string) (string, error) {
	m.rl.SetPrompt(label)
	line, err := m.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return "", errMenuQuit
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptDefault returns def when the user presses Enter.
func (m *menu) promptDefault(label, def string) (string, error) {
	line, err := m.prompt(fmt.Sprintf("%s [%s]: ", label, def))
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

func (m *menu) promptInt(label string) (int, error) {
	line, err := m.prompt(label)
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(line)
	if convErr != nil {
		return 0, fmt.Errorf("expected a number, got %q", line)
	}
	return n, nil
}

func (m *menu) confirm(label string) (bool, error) {
	line, err := m.prompt(label + " (y/n): ")
	if err != nil {
		return false, err
	}
	return strings.EqualFold(line, "y"), nil
}

// Student menu

func (m *menu) studentLoop(ctx context.Context) error {
	return m.subLoop(ctx, "STUDENT MANAGEMENT", []menuItem{
		{"1", "Add New Student", m.addStudent},
		{"2", "View All Students", m.viewAllStudents},
		{"3", "Search Students", m.searchStudents},
		{"4", "Update Student Details", m.updateStudent},
		{"5", "Delete Student", m.deleteStudent},
		{"6", "View Student Events", m.viewStudentEvents},
	})
}

func (m *menu) addStudent(ctx context.Context) error {
	usn, err := m.prompt("Enter USN (format: 1MS21CS001): ")
	if err != nil {
		return err
	}
	name, err := m.prompt("Enter Student Name: ")
	if err != nil {
		return err
	}
	department, err := m.prompt("Enter Department: ")
	if err != nil {
		return err
	}
	year, err := m.promptInt("Enter Year (1-5): ")
	if err != nil {
		return err
	}

	msg, err := m.ctx.Students.Add(ctx, strings.ToUpper(usn), name, department, year)
	if err != nil {
		return err
	}
	m.ctx.Renderer.Success("%s", msg)
	return nil
}

func (m *menu) viewAllStudents(ctx context.Context) error {
	students, err := m.ctx.Students.ListAll(ctx)
	if err != nil {
		return err
	}
	m.ctx.Renderer.Table(studentSummaryHeader, studentSummaryRows(students))
	return nil
}

func (m *menu) searchStudents(ctx context.Context) error {
	term, err := m.prompt("Enter search term (USN, Name, or Department): ")
	if err != nil {
		return err
	}
	students, err := m.ctx.Students.Search(ctx, term)
	if err != nil {
		return err
	}
	m.ctx.Renderer.Table(studentHeader, studentRows(students))
	return nil
}

func (m *menu) updateStudent(ctx context.Context) error {
	usn, err := m.prompt("Enter USN of student to update: ")
	if err != nil {
		return err
	}
	usn = strings.ToUpper(usn)

	s, err := m.ctx.Students.GetByUSN(ctx, usn)
	if err != nil {
		return err
	}

	m.ctx.Renderer.Println("\nEnter new details (press Enter to keep current value):")
	name, err := m.promptDefault("Name", s.Name)
	if err != nil {
		return err
	}
	department, err := m.promptDefault("Department", s.Department)
	if err != nil {
		return err
	}
	yearStr, err := m.promptDefault("Year", strconv.Itoa(s.Year))
	if err != nil {
		return err
	}
	year, convErr := strconv.Atoi(yearStr)
	if convErr != nil {
		return fmt.Errorf("expected a number, got %q", yearStr)
	}

	msg, err := m.ctx.Students.Update(ctx, usn, name, department, year)
	if err != nil {
		return err
	}
	m.ctx.Renderer.Success("%s", msg)
	return nil
}

func (m *menu) deleteStudent(ctx context.Context) error {
	usn, err := m.prompt("Enter USN of student to delete: ")
	if err != nil {
		return err
	}
	usn = strings.ToUpper(usn)

	s, err := m.ctx.Students.GetByUSN(ctx, usn)
	if err != nil {
		return err
	}

	m.ctx.Renderer.Printf("\nYou are about to delete: %s (%s)\n", s.Name, s.USN)
	ok, err := m.confirm("Are you sure? This action cannot be undone.")
	if err != nil {
		return err
	}
	if !ok {
		m.ctx.Renderer.Println("Deletion cancelled.")
		return nil
	}

	msg, err := m.ctx.Students.Delete(ctx, usn)
	if err != nil {
		return err
	}
	m.ctx.Renderer.Success("%s", msg)
	return nil
}

func (m *menu) viewStudentEvents(ctx context.Context) error {
	usn, err := m.prompt("Enter USN: ")
	if err != nil {
		return err
	}
	events, err := m.ctx.Students.EventsFor(ctx, strings.ToUpper(usn))
	if err != nil {
		return err
	}
	m.ctx.Renderer.Table(studentEventHeader, studentEventRows(events))
	return nil
}

// Event menu

func (m *menu) eventLoop(ctx context.Context) error {
	return m.subLoop(ctx, "EVENT MANAGEMENT", []menuItem{
		{"1", "Add New Event", m.addEvent},
		{"2", "View All Events", m.viewAllEvents},
		{"3", "Search Events", m.searchEvents},
		{"4", "Update Event Details", m.updateEvent},
		{"5", "Delete Event", m.deleteEvent},
		{"6", "View Event Participants", m.viewEventParticipants},
		{"7", "View Upcoming Events", m.viewUpcomingEvents},
		{"8", "View Past Events", m.viewPastEvents},
	})
}

func (m *menu) addEvent(ctx context.Context) error {
	name, err := m.prompt("Enter Event Name: ")
	if err != nil {
		return err
	}
	eventType, err := m.prompt("Enter Event Type (e.g., Technical, Cultural, Sports): ")
	if err != nil {
		return err
	}
	department, err := m.prompt("Enter Organizing Department: ")
	if err != nil {
		return err
	}
	date, err := m.prompt("Enter Event Date (YYYY-MM-DD): ")
	if err != nil {
		return err
	}

	msg, err := m.ctx.Events.Add(ctx, name, eventType, department, date)
	if err != nil {
		return err
	}
	m.ctx.Renderer.Success("%s", msg)
	return nil
}

func (m *menu) viewAllEvents(ctx context.Context) error {
	events, err := m.ctx.Events.ListAll(ctx)
	if err != nil {
		return err
	}
	m.ctx.Renderer.Table(eventSummaryHeader, eventSummaryRows(events))
	return nil
}

func (m *menu) searchEvents(ctx context.Context) error {
	term, err := m.prompt("Enter search term (Name, Type, or Department): ")
	if err != nil {
		return err
	}
	events, err := m.ctx.Events.Search(ctx, term)
	if err != nil {
		return err
	}
	m.ctx.Renderer.Table(eventHeader, eventRows(events))
	return nil
}

func (m *menu) updateEvent(ctx context.Context) error {
	id, err := m.promptInt("Enter Event ID to update: ")
	if err != nil {
		return err
	}

	e, err := m.ctx.Events.GetByID(ctx, id)
	if err != nil {
		return err
	}

	m.ctx.Renderer.Println("\nEnter new details (press Enter to keep current value):")
	name, err := m.promptDefault("Name", e.Name)
	if err != nil {
		return err
	}
	eventType, err := m.promptDefault("Type", e.Type)
	if err != nil {
		return err
	}
	department, err := m.promptDefault("Department", e.Department)
	if err != nil {
		return err
	}
	date, err := m.promptDefault("Date", e.Date.Format(dateLayout))
	if err != nil {
		return err
	}

	msg, err := m.ctx.Events.Update(ctx, id, name, eventType, department, date)
	if err != nil {
		return err
	}
	m.ctx.Renderer.Success("%s", msg)
	return nil
}

func (m *menu) deleteEvent(ctx context.Context) error {
	id, err := m.promptInt("Enter Event ID to delete: ")
	if err != nil {
		return err
	}

	e, err := m.ctx.Events.GetByID(ctx, id)
	if err != nil {
		return err
	}

	m.ctx.Renderer.Printf("\nYou are about to delete: %s (ID: %d)\n", e.Name, e.ID)
	m.ctx.Renderer.Println("This will also delete all participation records for this event.")
	ok, err := m.confirm("Are you sure? This action cannot be undone.")
	if err != nil {
		return err
	}
	if !ok {
		m.ctx.Renderer.Println("Deletion cancelled.")
		return nil
	}

	msg, err := m.ctx.Events.Delete(ctx, id)
	if err != nil {
		return err
	}
	m.ctx.Renderer.Success("%s", msg)
	return nil
}

func (m *menu) viewEventParticipants(ctx context.Context) error {
	id, err := m.promptInt("Enter Event ID: ")
	if err != nil {
		return err
	}
	participants, err := m.ctx.Events.Participants(ctx, id)
	if err != nil {
		return err
	}
	m.ctx.Renderer.Table(participantHeader, participantRows(participants))
	return nil
}

func (m *menu) viewUpcomingEvents(ctx context.Context) error {
	events, err := m.ctx.Events.Upcoming(ctx)
	if err != nil {
		return err
	}
	m.ctx.Renderer.Table(eventHeader, eventRows(events))
	return nil
}

func (m *menu) viewPastEvents(ctx context.Context) error {
	events, err := m.ctx.Events.Past(ctx)
	if err != nil {
		return err
	}
	m.ctx.Renderer.Table(eventHeader, eventRows(events))
	return nil
}

// Participation menu

func (m *menu) participationLoop(ctx context.Context) error {
	return m.subLoop(ctx, "PARTICIPATION MANAGEMENT", []menuItem{
		{"1", "Register Student for Event", m.registerParticipation},
		{"2", "View All Participations", m.viewAllParticipations},
		{"3", "Update Student Performance", m.updatePerformance},
		{"4", "Remove Participation", m.removeParticipation},
		{"5", "View Event Winners", m.viewEventWinners},
		{"6", "View Student Achievements", m.viewStudentAchievements},
	})
}

// promptPerformance maps a numeric choice to a classification,
// defaulting to Participant.
func (m *menu) promptPerformance() (string, error) {
	r := m.ctx.Renderer
	r.Println("\nPerformance Categories:")
	r.Println("1. Winner")
	r.Println("2. Runner-up")
	r.Println("3. Participant")

	choice, err := m.prompt("Select performance (default: Participant): ")
	if err != nil {
		return "", err
	}
	switch choice {
	case "1":
		return ledger.PerformanceWinner, nil
	case "2":
		return ledger.PerformanceRunnerUp, nil
	default:
		return ledger.PerformanceParticipant, nil
	}
}

func (m *menu) registerParticipation(ctx context.Context) error {
	usn, err := m.prompt("Enter Student USN: ")
	if err != nil {
		return err
	}
	eventID, err := m.promptInt("Enter Event ID: ")
	if err != nil {
		return err
	}
	performance, err := m.promptPerformance()
	if err != nil {
		return err
	}

	msg, err := m.ctx.Ledger.Register(ctx, strings.ToUpper(usn), eventID, performance)
	if err != nil {
		return err
	}
	m.ctx.Renderer.Success("%s", msg)
	return nil
}

func (m *menu) viewAllParticipations(ctx context.Context) error {
	details, err := m.ctx.Ledger.ListAll(ctx)
	if err != nil {
		return err
	}
	m.ctx.Renderer.Table(detailHeader, detailRows(details))
	return nil
}

func (m *menu) updatePerformance(ctx context.Context) error {
	usn, err := m.prompt("Enter Student USN: ")
	if err != nil {
		return err
	}
	eventID, err := m.promptInt("Enter Event ID: ")
	if err != nil {
		return err
	}
	performance, err := m.promptPerformance()
	if err != nil {
		return err
	}

	msg, err := m.ctx.Ledger.UpdatePerformance(ctx, strings.ToUpper(usn), eventID, performance)
	if err != nil {
		return err
	}
	m.ctx.Renderer.Success("%s", msg)
	return nil
}

func (m *menu) removeParticipation(ctx context.Context) error {
	usn, err := m.prompt("Enter Student USN: ")
	if err != nil {
		return err
	}
	eventID, err := m.promptInt("Enter Event ID: ")
	if err != nil {
		return err
	}

	ok, err := m.confirm("Are you sure?")
	if err != nil {
		return err
	}
	if !ok {
		m.ctx.Renderer.Println("Operation cancelled.")
		return nil
	}

	msg, err := m.ctx.Ledger.Delete(ctx, strings.ToUpper(usn), eventID)
	if err != nil {
		return err
	}
	m.ctx.Renderer.Success("%s", msg)
	return nil
}

func (m *menu) viewEventWinners(ctx context.Context) error {
	eventID, err := m.promptInt("Enter Event ID: ")
	if err != nil {
		return err
	}
	winners, err := m.ctx.Ledger.Winners(ctx, eventID)
	if err != nil {
		return err
	}
	m.ctx.Renderer.Table(winnerHeader, winnerRows(winners))
	return nil
}

func (m *menu) viewStudentAchievements(ctx context.Context) error {
	usn, err := m.prompt("Enter Student USN: ")
	if err != nil {
		return err
	}
	achievements, err := m.ctx.Ledger.Achievements(ctx, strings.ToUpper(usn))
	if err != nil {
		return err
	}
	m.ctx.Renderer.Table(achievementHeader, achievementRows(achievements))
	return nil
}

// Reports menu

func (m *menu) reportsLoop(ctx context.Context) error {
	return m.subLoop(ctx, "REPORTS", []menuItem{
		{"1", "Top Participating Students", m.showTopStudents},
		{"2", "Department-wise Participation", m.showDepartmentParticipation},
		{"3", "Events by Participation", m.showEventsByParticipation},
		{"4", "Performance Summary", m.showPerformanceSummary},
		{"5", "Event Type Statistics", m.showEventTypeStatistics},
		{"6", "Monthly Event Summary", m.showMonthlySummary},
		{"7", "Top Performers", m.showTopPerformers},
		{"8", "Generate Comprehensive Report", m.generateComprehensiveReport},
	})
}

func (m *menu) showTopStudents(ctx context.Context) error {
	ranks, err := m.ctx.Reports.TopParticipatingStudents(ctx, report.DefaultLimit)
	if err != nil {
		return err
	}
	m.ctx.Renderer.Println(report.FormatStudentRanks("Top Participating Students", ranks))
	return nil
}

func (m *menu) showDepartmentParticipation(ctx context.Context) error {
	stats, err := m.ctx.Reports.DepartmentParticipation(ctx)
	if err != nil {
		return err
	}
	m.ctx.Renderer.Println(report.FormatDepartmentStats("Department-wise Participation", stats))
	return nil
}

func (m *menu) showEventsByParticipation(ctx context.Context) error {
	ranks, err := m.ctx.Reports.EventsByParticipation(ctx, report.DefaultLimit)
	if err != nil {
		return err
	}
	m.ctx.Renderer.Println(report.FormatEventRanks("Most Popular Events", ranks))
	return nil
}

func (m *menu) showPerformanceSummary(ctx context.Context) error {
	perf, err := m.ctx.Reports.PerformanceSummary(ctx)
	if err != nil {
		return err
	}
	m.ctx.Renderer.Println(report.FormatPerformanceRows("Performance Summary by Department", perf))
	return nil
}

func (m *menu) showEventTypeStatistics(ctx context.Context) error {
	stats, err := m.ctx.Reports.EventTypeStatistics(ctx)
	if err != nil {
		return err
	}
	m.ctx.Renderer.Println(report.FormatEventTypeStats("Event Type Statistics", stats))
	return nil
}

func (m *menu) showMonthlySummary(ctx context.Context) error {
	year, err := m.promptInt("Enter year: ")
	if err != nil {
		return err
	}
	months, err := m.ctx.Reports.MonthlySummary(ctx, year)
	if err != nil {
		return err
	}
	m.ctx.Renderer.Println(report.FormatMonthlyRows("Monthly Summary", months))
	return nil
}

func (m *menu) showTopPerformers(ctx context.Context) error {
	ranks, err := m.ctx.Reports.TopPerformers(ctx, report.DefaultLimit)
	if err != nil {
		return err
	}
	m.ctx.Renderer.Println(report.FormatPerformerRanks("Top Performers", ranks))
	return nil
}

func (m *menu) generateComprehensiveReport(ctx context.Context) error {
	c, err := m.ctx.Reports.Comprehensive(ctx, report.Filters{})
	if err != nil {
		return err
	}
	content := report.FormatComprehensive(c)
	m.ctx.Renderer.Println(content)

	ok, err := m.confirm("Save this report to a file?")
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	path, err := report.Export(m.ctx.Cfg.ReportsDir, "", content)
	if err != nil {
		return err
	}
	m.ctx.Renderer.Success("Report saved to %s", path)
	return nil
}
