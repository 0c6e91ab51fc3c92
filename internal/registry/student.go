// Package registry implements CRUD and search over students and events.
// Both registries validate input before touching storage and depend on the
// storage gateway only.
package registry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"time"

	"github.com/campuslabs/eventtrack/internal/apperrors"
	"github.com/campuslabs/eventtrack/internal/storage"
)

// usnPattern is the fixed USN format: 1 digit, 2 letters, 2 digits,
// 2 letters, 3 digits (e.g. 1MS21CS001).
var usnPattern = regexp.MustCompile(`^\d[A-Z]{2}\d{2}[A-Z]{2}\d{3}$`)

// Student is a registered student. USN is immutable once created.
type Student struct {
	USN        string
	Name       string
	Department string
	Year       int
}

// StudentSummary is a student annotated with their participation count.
type StudentSummary struct {
	Student
	ParticipationCount int
}

// StudentEvent is an event a student participated in, with the recorded
// performance.
type StudentEvent struct {
	EventID     int
	Name        string
	Type        string
	Department  string
	Date        time.Time
	Performance string
}

// StudentRegistry manages the students table.
type StudentRegistry struct {
	gw     *storage.Gateway
	logger *slog.Logger
}

// NewStudentRegistry returns a registry backed by the given gateway.
func NewStudentRegistry(gw *storage.Gateway, logger *slog.Logger) *StudentRegistry {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &StudentRegistry{gw: gw, logger: logger}
}

// ValidUSN reports whether usn matches the fixed identifier format.
func ValidUSN(usn string) bool {
	return usnPattern.MatchString(usn)
}

func validYear(year int) bool {
	return year >= 1 && year <= 5
}

// Add registers a new student. The USN must match the fixed format, the
// year must be 1-5, and the USN must not already be present.
func (r *StudentRegistry) Add(ctx context.Context, usn, name, department string, year int) (string, error) {
	if usn == "" || name == "" || department == "" {
		return "", apperrors.Validationf("all fields are required")
	}
	if !ValidUSN(usn) {
		return "", apperrors.Validationf("invalid USN format, expected format: 1MS21CS001")
	}
	if !validYear(year) {
		return "", apperrors.Validationf("year must be between 1 and 5")
	}

	existing, err := r.gw.FetchOne(ctx, "SELECT usn FROM students WHERE usn = ?", usn)
	if err != nil {
		return "", apperrors.Storagef("failed to add student")
	}
	if existing != nil {
		return "", apperrors.Conflictf("student with USN %s already exists", usn)
	}

	err = r.gw.Execute(ctx,
		"INSERT INTO students (usn, name, department, year) VALUES (?, ?, ?, ?)",
		usn, name, department, year)
	if err != nil {
		return "", apperrors.Storagef("failed to add student")
	}

	r.logger.Info("student added", "usn", usn)
	return fmt.Sprintf("Student %s (%s) added successfully", name, usn), nil
}

// GetByUSN returns a single student, or a not-found error.
func (r *StudentRegistry) GetByUSN(ctx context.Context, usn string) (*Student, error) {
	rec, err := r.gw.FetchOne(ctx,
		"SELECT usn, name, department, year FROM students WHERE usn = ?", usn)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperrors.NotFoundf("student with USN %s not found", usn)
	}
	return studentFromRecord(rec), nil
}

// Update overwrites the mutable fields of an existing student.
func (r *StudentRegistry) Update(ctx context.Context, usn, name, department string, year int) (string, error) {
	if usn == "" || name == "" || department == "" {
		return "", apperrors.Validationf("all fields are required")
	}
	if !validYear(year) {
		return "", apperrors.Validationf("year must be between 1 and 5")
	}

	if _, err := r.GetByUSN(ctx, usn); err != nil {
		return "", err
	}

	err := r.gw.Execute(ctx,
		"UPDATE students SET name = ?, department = ?, year = ? WHERE usn = ?",
		name, department, year, usn)
	if err != nil {
		return "", apperrors.Storagef("failed to update student")
	}

	r.logger.Info("student updated", "usn", usn)
	return fmt.Sprintf("Student %s (%s) updated successfully", name, usn), nil
}

// Delete removes a student. Participation rows referencing the student are
// removed by the engine's cascade rule.
func (r *StudentRegistry) Delete(ctx context.Context, usn string) (string, error) {
	if _, err := r.GetByUSN(ctx, usn); err != nil {
		return "", err
	}

	if err := r.gw.Execute(ctx, "DELETE FROM students WHERE usn = ?", usn); err != nil {
		return "", apperrors.Storagef("failed to delete student")
	}

	r.logger.Info("student deleted", "usn", usn)
	return fmt.Sprintf("Student with USN %s deleted successfully", usn), nil
}

// Search matches term as a substring against USN, name, and department.
func (r *StudentRegistry) Search(ctx context.Context, term string) ([]Student, error) {
	pattern := "%" + term + "%"
	records, err := r.gw.FetchAll(ctx, `
		SELECT usn, name, department, year FROM students
		WHERE usn LIKE ? OR name LIKE ? OR department LIKE ?
		ORDER BY department, year, name`,
		pattern, pattern, pattern)
	if err != nil {
		return nil, err
	}

	students := make([]Student, 0, len(records))
	for _, rec := range records {
		students = append(students, *studentFromRecord(rec))
	}
	return students, nil
}

// ListAll returns every student with their participation count. Students
// with no participation rows count zero.
func (r *StudentRegistry) ListAll(ctx context.Context) ([]StudentSummary, error) {
	records, err := r.gw.FetchAll(ctx, `
		SELECT s.usn, s.name, s.department, s.year,
		       COUNT(p.id) AS participation_count
		FROM students s
		LEFT JOIN participation p ON s.usn = p.usn
		GROUP BY s.usn, s.name, s.department, s.year
		ORDER BY s.department, s.year, s.name`)
	if err != nil {
		return nil, err
	}

	summaries := make([]StudentSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, StudentSummary{
			Student:            *studentFromRecord(rec),
			ParticipationCount: rec.Int("participation_count"),
		})
	}
	return summaries, nil
}

// EventsFor returns every event the student has a participation row for,
// most recent first.
func (r *StudentRegistry) EventsFor(ctx context.Context, usn string) ([]StudentEvent, error) {
	records, err := r.gw.FetchAll(ctx, `
		SELECT e.event_id, e.name, e.event_type, e.department,
		       e.event_date, p.performance
		FROM events e
		JOIN participation p ON e.event_id = p.event_id
		WHERE p.usn = ?
		ORDER BY e.event_date DESC`, usn)
	if err != nil {
		return nil, err
	}

	events := make([]StudentEvent, 0, len(records))
	for _, rec := range records {
		events = append(events, StudentEvent{
			EventID:     rec.Int("event_id"),
			Name:        rec.String("name"),
			Type:        rec.String("event_type"),
			Department:  rec.String("department"),
			Date:        rec.Time("event_date"),
			Performance: rec.String("performance"),
		})
	}
	return events, nil
}

func studentFromRecord(rec storage.Record) *Student {
	return &Student{
		USN:        rec.String("usn"),
		Name:       rec.String("name"),
		Department: rec.String("department"),
		Year:       rec.Int("year"),
	}
}
