package registry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/campuslabs/eventtrack/internal/apperrors"
	"github.com/campuslabs/eventtrack/internal/storage"
)

// dateLayout is the calendar-date wire format for event dates.
const dateLayout = "2006-01-02"

// Event is a college event. The identifier is engine-assigned.
type Event struct {
	ID         int
	Name       string
	Type       string
	Department string
	Date       time.Time
}

// EventSummary is an event annotated with its participant count.
type EventSummary struct {
	Event
	ParticipantCount int
}

// EventParticipant is a student participating in a given event.
type EventParticipant struct {
	USN         string
	Name        string
	Department  string
	Year        int
	Performance string
}

// EventRegistry manages the events table.
type EventRegistry struct {
	gw     *storage.Gateway
	logger *slog.Logger
}

// NewEventRegistry returns a registry backed by the given gateway.
func NewEventRegistry(gw *storage.Gateway, logger *slog.Logger) *EventRegistry {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &EventRegistry{gw: gw, logger: logger}
}

// ParseDate validates a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, apperrors.Validationf("invalid date format, use YYYY-MM-DD")
	}
	return t, nil
}

// Add creates a new event. All fields are required and the date must be a
// well-formed calendar date.
func (r *EventRegistry) Add(ctx context.Context, name, eventType, department, date string) (string, error) {
	if name == "" || eventType == "" || department == "" || date == "" {
		return "", apperrors.Validationf("all fields are required")
	}
	if _, err := ParseDate(date); err != nil {
		return "", err
	}

	err := r.gw.Execute(ctx,
		"INSERT INTO events (name, event_type, department, event_date) VALUES (?, ?, ?, ?)",
		name, eventType, department, date)
	if err != nil {
		return "", apperrors.Storagef("failed to add event")
	}

	r.logger.Info("event added", "name", name)
	return fmt.Sprintf("Event '%s' added successfully", name), nil
}

// GetByID returns a single event, or a not-found error.
func (r *EventRegistry) GetByID(ctx context.Context, id int) (*Event, error) {
	rec, err := r.gw.FetchOne(ctx,
		"SELECT event_id, name, event_type, department, event_date FROM events WHERE event_id = ?", id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperrors.NotFoundf("event with ID %d not found", id)
	}
	return eventFromRecord(rec), nil
}

// Update overwrites every field of an existing event.
func (r *EventRegistry) Update(ctx context.Context, id int, name, eventType, department, date string) (string, error) {
	if name == "" || eventType == "" || department == "" || date == "" {
		return "", apperrors.Validationf("all fields are required")
	}
	if _, err := ParseDate(date); err != nil {
		return "", err
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return "", err
	}

	err := r.gw.Execute(ctx,
		"UPDATE events SET name = ?, event_type = ?, department = ?, event_date = ? WHERE event_id = ?",
		name, eventType, department, date, id)
	if err != nil {
		return "", apperrors.Storagef("failed to update event")
	}

	r.logger.Info("event updated", "event_id", id)
	return fmt.Sprintf("Event '%s' updated successfully", name), nil
}

// Delete removes an event. Participation rows referencing it are removed
// by the engine's cascade rule.
func (r *EventRegistry) Delete(ctx context.Context, id int) (string, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	if err := r.gw.Execute(ctx, "DELETE FROM events WHERE event_id = ?", id); err != nil {
		return "", apperrors.Storagef("failed to delete event")
	}

	r.logger.Info("event deleted", "event_id", id)
	return fmt.Sprintf("Event '%s' deleted successfully", existing.Name), nil
}

// Search matches term as a substring against name, type, and department.
func (r *EventRegistry) Search(ctx context.Context, term string) ([]Event, error) {
	pattern := "%" + term + "%"
	records, err := r.gw.FetchAll(ctx, `
		SELECT event_id, name, event_type, department, event_date FROM events
		WHERE name LIKE ? OR event_type LIKE ? OR department LIKE ?
		ORDER BY event_date DESC`,
		pattern, pattern, pattern)
	if err != nil {
		return nil, err
	}
	return eventsFromRecords(records), nil
}

// ListAll returns every event with its participant count, most recent
// first. Events with no participants count zero.
func (r *EventRegistry) ListAll(ctx context.Context) ([]EventSummary, error) {
	records, err := r.gw.FetchAll(ctx, `
		SELECT e.event_id, e.name, e.event_type, e.department,
		       e.event_date, COUNT(p.id) AS participant_count
		FROM events e
		LEFT JOIN participation p ON e.event_id = p.event_id
		GROUP BY e.event_id, e.name, e.event_type, e.department, e.event_date
		ORDER BY e.event_date DESC`)
	if err != nil {
		return nil, err
	}

	summaries := make([]EventSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, EventSummary{
			Event:            *eventFromRecord(rec),
			ParticipantCount: rec.Int("participant_count"),
		})
	}
	return summaries, nil
}

// Participants returns every student registered for the event, ordered by
// performance classification, then student name.
func (r *EventRegistry) Participants(ctx context.Context, eventID int) ([]EventParticipant, error) {
	records, err := r.gw.FetchAll(ctx, `
		SELECT s.usn, s.name, s.department, s.year, p.performance
		FROM students s
		JOIN participation p ON s.usn = p.usn
		WHERE p.event_id = ?
		ORDER BY p.performance, s.name`, eventID)
	if err != nil {
		return nil, err
	}

	participants := make([]EventParticipant, 0, len(records))
	for _, rec := range records {
		participants = append(participants, EventParticipant{
			USN:         rec.String("usn"),
			Name:        rec.String("name"),
			Department:  rec.String("department"),
			Year:        rec.Int("year"),
			Performance: rec.String("performance"),
		})
	}
	return participants, nil
}

// Upcoming returns events dated today or later, soonest first.
func (r *EventRegistry) Upcoming(ctx context.Context) ([]Event, error) {
	records, err := r.gw.FetchAll(ctx, `
		SELECT event_id, name, event_type, department, event_date FROM events
		WHERE event_date >= CURDATE()
		ORDER BY event_date ASC`)
	if err != nil {
		return nil, err
	}
	return eventsFromRecords(records), nil
}

// Past returns events dated before today, most recent first.
func (r *EventRegistry) Past(ctx context.Context) ([]Event, error) {
	records, err := r.gw.FetchAll(ctx, `
		SELECT event_id, name, event_type, department, event_date FROM events
		WHERE event_date < CURDATE()
		ORDER BY event_date DESC`)
	if err != nil {
		return nil, err
	}
	return eventsFromRecords(records), nil
}

// ByDepartment returns the events organized by one department, most recent
// first.
func (r *EventRegistry) ByDepartment(ctx context.Context, department string) ([]Event, error) {
	records, err := r.gw.FetchAll(ctx, `
		SELECT event_id, name, event_type, department, event_date FROM events
		WHERE department = ?
		ORDER BY event_date DESC`, department)
	if err != nil {
		return nil, err
	}
	return eventsFromRecords(records), nil
}

func eventFromRecord(rec storage.Record) *Event {
	return &Event{
		ID:         rec.Int("event_id"),
		Name:       rec.String("name"),
		Type:       rec.String("event_type"),
		Department: rec.String("department"),
		Date:       rec.Time("event_date"),
	}
}

func eventsFromRecords(records []storage.Record) []Event {
	events := make([]Event, 0, len(records))
	for _, rec := range records {
		events = append(events, *eventFromRecord(rec))
	}
	return events
}
