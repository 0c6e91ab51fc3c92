// Package ledger manages the many-to-many participation relation between
// students and events. Each link carries a performance classification;
// at most one link exists per (student, event) pair, and registering the
// same pair again updates the recorded performance in place.
package ledger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/campuslabs/eventtrack/internal/apperrors"
	"github.com/campuslabs/eventtrack/internal/storage"
)

// Performance classifications. The set is closed.
const (
	PerformanceWinner      = "Winner"
	PerformanceRunnerUp    = "Runner-up"
	PerformanceParticipant = "Participant"
)

// ValidPerformance reports whether p is one of the three classifications.
func ValidPerformance(p string) bool {
	return p == PerformanceWinner || p == PerformanceRunnerUp || p == PerformanceParticipant
}

// Participation is a single student-event link.
type Participation struct {
	ID          int
	USN         string
	EventID     int
	Performance string
}

// Detail is a participation row joined with its student and event display
// fields.
type Detail struct {
	ID          int
	USN         string
	StudentName string
	Department  string
	EventID     int
	EventName   string
	EventType   string
	EventDate   time.Time
	Performance string
}

// Winner is a Winner or Runner-up row for one event.
type Winner struct {
	USN         string
	Name        string
	Department  string
	Year        int
	Performance string
}

// Achievement is a Winner or Runner-up row for one student.
type Achievement struct {
	EventID     int
	EventName   string
	EventType   string
	Department  string
	EventDate   time.Time
	Performance string
}

// Ledger manages the participation table through the storage gateway.
type Ledger struct {
	gw     *storage.Gateway
	logger *slog.Logger
}

// New returns a ledger backed by the given gateway.
func New(gw *storage.Gateway, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Ledger{gw: gw, logger: logger}
}

// querier is satisfied by both the gateway and its transactions, so the
// existence checks can run inside the same transaction as the write.
type querier interface {
	Execute(ctx context.Context, query string, args ...any) error
	FetchOne(ctx context.Context, query string, args ...any) (storage.Record, error)
}

// Register records a student's participation in an event. If a row for the
// pair already exists its performance is overwritten rather than a second
// row inserted. The check and the write share one transaction.
func (l *Ledger) Register(ctx context.Context, usn string, eventID int, performance string) (string, error) {
	if usn == "" || eventID == 0 {
		return "", apperrors.Validationf("student USN and event ID are required")
	}
	if performance == "" {
		performance = PerformanceParticipant
	}
	if !ValidPerformance(performance) {
		return "", apperrors.Validationf("performance must be one of: %s, %s, %s",
			PerformanceWinner, PerformanceRunnerUp, PerformanceParticipant)
	}

	var msg string
	err := l.gw.WithTx(ctx, func(tx *storage.Tx) error {
		studentName, eventName, err := l.lookupNames(ctx, tx, usn, eventID)
		if err != nil {
			return err
		}

		existing, err := l.get(ctx, tx, usn, eventID)
		if err != nil {
			return err
		}
		if existing != nil {
			err := tx.Execute(ctx,
				"UPDATE participation SET performance = ? WHERE usn = ? AND event_id = ?",
				performance, usn, eventID)
			if err != nil {
				return apperrors.Storagef("failed to update participation")
			}
			l.logger.Info("participation updated", "usn", usn, "event_id", eventID, "performance", performance)
			msg = fmt.Sprintf("Updated %s's participation in %s", studentName, eventName)
			return nil
		}

		err = tx.Execute(ctx,
			"INSERT INTO participation (usn, event_id, performance) VALUES (?, ?, ?)",
			usn, eventID, performance)
		if err != nil {
			return apperrors.Storagef("failed to register participation")
		}
		l.logger.Info("participation registered", "usn", usn, "event_id", eventID, "performance", performance)
		msg = fmt.Sprintf("Registered %s for %s", studentName, eventName)
		return nil
	})
	if err != nil {
		return "", err
	}
	return msg, nil
}

// Get returns the participation row for a (student, event) pair, or
// (nil, nil) when absent.
func (l *Ledger) Get(ctx context.Context, usn string, eventID int) (*Participation, error) {
	return l.get(ctx, l.gw, usn, eventID)
}

func (l *Ledger) get(ctx context.Context, q querier, usn string, eventID int) (*Participation, error) {
	rec, err := q.FetchOne(ctx,
		"SELECT id, usn, event_id, performance FROM participation WHERE usn = ? AND event_id = ?",
		usn, eventID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	return &Participation{
		ID:          rec.Int("id"),
		USN:         rec.String("usn"),
		EventID:     rec.Int("event_id"),
		Performance: rec.String("performance"),
	}, nil
}

// UpdatePerformance changes the recorded performance of an existing link.
func (l *Ledger) UpdatePerformance(ctx context.Context, usn string, eventID int, performance string) (string, error) {
	if !ValidPerformance(performance) {
		return "", apperrors.Validationf("performance must be one of: %s, %s, %s",
			PerformanceWinner, PerformanceRunnerUp, PerformanceParticipant)
	}

	var msg string
	err := l.gw.WithTx(ctx, func(tx *storage.Tx) error {
		existing, err := l.get(ctx, tx, usn, eventID)
		if err != nil {
			return err
		}
		if existing == nil {
			return apperrors.NotFoundf("no participation record found for this student and event")
		}

		if err := tx.Execute(ctx,
			"UPDATE participation SET performance = ? WHERE usn = ? AND event_id = ?",
			performance, usn, eventID); err != nil {
			return apperrors.Storagef("failed to update performance")
		}

		studentName, eventName, err := l.lookupNames(ctx, tx, usn, eventID)
		if err != nil {
			return err
		}
		l.logger.Info("performance updated", "usn", usn, "event_id", eventID, "performance", performance)
		msg = fmt.Sprintf("Updated %s's performance in %s to %s", studentName, eventName, performance)
		return nil
	})
	if err != nil {
		return "", err
	}
	return msg, nil
}

// Delete removes the participation row for a (student, event) pair.
func (l *Ledger) Delete(ctx context.Context, usn string, eventID int) (string, error) {
	var msg string
	err := l.gw.WithTx(ctx, func(tx *storage.Tx) error {
		existing, err := l.get(ctx, tx, usn, eventID)
		if err != nil {
			return err
		}
		if existing == nil {
			return apperrors.NotFoundf("no participation record found for this student and event")
		}

		studentName, eventName, err := l.lookupNames(ctx, tx, usn, eventID)
		if err != nil {
			return err
		}

		if err := tx.Execute(ctx,
			"DELETE FROM participation WHERE usn = ? AND event_id = ?", usn, eventID); err != nil {
			return apperrors.Storagef("failed to remove participation")
		}

		l.logger.Info("participation deleted", "usn", usn, "event_id", eventID)
		msg = fmt.Sprintf("Removed %s from %s", studentName, eventName)
		return nil
	})
	if err != nil {
		return "", err
	}
	return msg, nil
}

// ListAll returns every participation row joined with student and event
// display fields, most recent event first, then student name.
func (l *Ledger) ListAll(ctx context.Context) ([]Detail, error) {
	records, err := l.gw.FetchAll(ctx, `
		SELECT p.id, p.usn, s.name AS student_name, s.department,
		       p.event_id, e.name AS event_name, e.event_type,
		       e.event_date, p.performance
		FROM participation p
		JOIN students s ON p.usn = s.usn
		JOIN events e ON p.event_id = e.event_id
		ORDER BY e.event_date DESC, s.name`)
	if err != nil {
		return nil, err
	}

	details := make([]Detail, 0, len(records))
	for _, rec := range records {
		details = append(details, Detail{
			ID:          rec.Int("id"),
			USN:         rec.String("usn"),
			StudentName: rec.String("student_name"),
			Department:  rec.String("department"),
			EventID:     rec.Int("event_id"),
			EventName:   rec.String("event_name"),
			EventType:   rec.String("event_type"),
			EventDate:   rec.Time("event_date"),
			Performance: rec.String("performance"),
		})
	}
	return details, nil
}

// Winners returns the Winner and Runner-up rows for one event, Winner
// strictly first.
func (l *Ledger) Winners(ctx context.Context, eventID int) ([]Winner, error) {
	records, err := l.gw.FetchAll(ctx, `
		SELECT s.usn, s.name, s.department, s.year, p.performance
		FROM students s
		JOIN participation p ON s.usn = p.usn
		WHERE p.event_id = ? AND p.performance IN ('Winner', 'Runner-up')
		ORDER BY
		    CASE
		        WHEN p.performance = 'Winner' THEN 1
		        WHEN p.performance = 'Runner-up' THEN 2
		        ELSE 3
		    END`, eventID)
	if err != nil {
		return nil, err
	}

	winners := make([]Winner, 0, len(records))
	for _, rec := range records {
		winners = append(winners, Winner{
			USN:         rec.String("usn"),
			Name:        rec.String("name"),
			Department:  rec.String("department"),
			Year:        rec.Int("year"),
			Performance: rec.String("performance"),
		})
	}
	return winners, nil
}

// Achievements returns one student's Winner and Runner-up rows, most
// recent event first.
func (l *Ledger) Achievements(ctx context.Context, usn string) ([]Achievement, error) {
	records, err := l.gw.FetchAll(ctx, `
		SELECT e.event_id, e.name, e.event_type, e.department,
		       e.event_date, p.performance
		FROM events e
		JOIN participation p ON e.event_id = p.event_id
		WHERE p.usn = ? AND p.performance IN ('Winner', 'Runner-up')
		ORDER BY e.event_date DESC`, usn)
	if err != nil {
		return nil, err
	}

	achievements := make([]Achievement, 0, len(records))
	for _, rec := range records {
		achievements = append(achievements, Achievement{
			EventID:     rec.Int("event_id"),
			EventName:   rec.String("name"),
			EventType:   rec.String("event_type"),
			Department:  rec.String("department"),
			EventDate:   rec.Time("event_date"),
			Performance: rec.String("performance"),
		})
	}
	return achievements, nil
}

// lookupNames resolves the display names for a (student, event) pair and
// reports not-found for whichever side is missing.
func (l *Ledger) lookupNames(ctx context.Context, q querier, usn string, eventID int) (string, string, error) {
	student, err := q.FetchOne(ctx, "SELECT name FROM students WHERE usn = ?", usn)
	if err != nil {
		return "", "", err
	}
	if student == nil {
		return "", "", apperrors.NotFoundf("student with USN %s not found", usn)
	}

	event, err := q.FetchOne(ctx, "SELECT name FROM events WHERE event_id = ?", eventID)
	if err != nil {
		return "", "", err
	}
	if event == nil {
		return "", "", apperrors.NotFoundf("event with ID %d not found", eventID)
	}

	return student.String("name"), event.String("name"), nil
}
