package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslabs/eventtrack/internal/apperrors"
	"github.com/campuslabs/eventtrack/internal/storage"
)

func newLedger(t *testing.T) (*Ledger, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(storage.NewWithDB(db, nil), nil), mock
}

func expectNameLookups(mock sqlmock.Sqlmock, usn, studentName string, eventID int, eventName string) {
	mock.ExpectQuery("SELECT name FROM students WHERE usn").
		WithArgs(usn).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow(studentName))
	mock.ExpectQuery("SELECT name FROM events WHERE event_id").
		WithArgs(eventID).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow(eventName))
}

func expectPairLookup(mock sqlmock.Sqlmock, usn string, eventID int, existing *Participation) {
	rows := sqlmock.NewRows([]string{"id", "usn", "event_id", "performance"})
	if existing != nil {
		rows.AddRow(int64(existing.ID), existing.USN, int64(existing.EventID), existing.Performance)
	}
	mock.ExpectQuery("SELECT id, usn, event_id, performance FROM participation").
		WithArgs(usn, eventID).
		WillReturnRows(rows)
}

func TestValidPerformance(t *testing.T) {
	assert.True(t, ValidPerformance("Winner"))
	assert.True(t, ValidPerformance("Runner-up"))
	assert.True(t, ValidPerformance("Participant"))
	assert.False(t, ValidPerformance("winner"))
	assert.False(t, ValidPerformance("First"))
	assert.False(t, ValidPerformance(""))
}

func TestLedger_Register_Insert(t *testing.T) {
	l, mock := newLedger(t)

	mock.ExpectBegin()
	expectNameLookups(mock, "1MS21CS001", "Asha", 1, "Hackathon")
	expectPairLookup(mock, "1MS21CS001", 1, nil)
	mock.ExpectExec("INSERT INTO participation").
		WithArgs("1MS21CS001", 1, "Participant").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	msg, err := l.Register(context.Background(), "1MS21CS001", 1, "Participant")
	require.NoError(t, err)
	assert.Equal(t, "Registered Asha for Hackathon", msg)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_Register_UpsertOverwritesPerformance(t *testing.T) {
	l, mock := newLedger(t)

	// Registering an existing pair issues an UPDATE, never a second INSERT.
	mock.ExpectBegin()
	expectNameLookups(mock, "1MS21CS001", "Asha", 1, "Hackathon")
	expectPairLookup(mock, "1MS21CS001", 1,
		&Participation{ID: 9, USN: "1MS21CS001", EventID: 1, Performance: "Participant"})
	mock.ExpectExec("UPDATE participation SET performance").
		WithArgs("Winner", "1MS21CS001", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	msg, err := l.Register(context.Background(), "1MS21CS001", 1, "Winner")
	require.NoError(t, err)
	assert.Equal(t, "Updated Asha's participation in Hackathon", msg)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_Register_DefaultsToParticipant(t *testing.T) {
	l, mock := newLedger(t)

	mock.ExpectBegin()
	expectNameLookups(mock, "1MS21CS001", "Asha", 1, "Hackathon")
	expectPairLookup(mock, "1MS21CS001", 1, nil)
	mock.ExpectExec("INSERT INTO participation").
		WithArgs("1MS21CS001", 1, "Participant").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	_, err := l.Register(context.Background(), "1MS21CS001", 1, "")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_Register_Failures(t *testing.T) {
	tests := []struct {
		name        string
		usn         string
		eventID     int
		performance string
		setupMock   func(mock sqlmock.Sqlmock)
		wantErr     error
	}{
		{
			name:    "missing usn",
			eventID: 1,
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "missing event id",
			usn:     "1MS21CS001",
			wantErr: apperrors.ErrValidation,
		},
		{
			name:        "unknown performance",
			usn:         "1MS21CS001",
			eventID:     1,
			performance: "Champion",
			wantErr:     apperrors.ErrValidation,
		},
		{
			name:        "student absent",
			usn:         "1MS21CS999",
			eventID:     1,
			performance: "Participant",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT name FROM students WHERE usn").
					WithArgs("1MS21CS999").
					WillReturnRows(sqlmock.NewRows([]string{"name"}))
				mock.ExpectRollback()
			},
			wantErr: apperrors.ErrNotFound,
		},
		{
			name:        "event absent",
			usn:         "1MS21CS001",
			eventID:     42,
			performance: "Participant",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT name FROM students WHERE usn").
					WithArgs("1MS21CS001").
					WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Asha"))
				mock.ExpectQuery("SELECT name FROM events WHERE event_id").
					WithArgs(42).
					WillReturnRows(sqlmock.NewRows([]string{"name"}))
				mock.ExpectRollback()
			},
			wantErr: apperrors.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, mock := newLedger(t)
			if tt.setupMock != nil {
				tt.setupMock(mock)
			}

			_, err := l.Register(context.Background(), tt.usn, tt.eventID, tt.performance)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLedger_Get_Absent(t *testing.T) {
	l, mock := newLedger(t)

	expectPairLookup(mock, "1MS21CS001", 1, nil)

	p, err := l.Get(context.Background(), "1MS21CS001", 1)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestLedger_UpdatePerformance(t *testing.T) {
	l, mock := newLedger(t)

	mock.ExpectBegin()
	expectPairLookup(mock, "1MS21CS001", 1,
		&Participation{ID: 9, USN: "1MS21CS001", EventID: 1, Performance: "Participant"})
	mock.ExpectExec("UPDATE participation SET performance").
		WithArgs("Runner-up", "1MS21CS001", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectNameLookups(mock, "1MS21CS001", "Asha", 1, "Hackathon")
	mock.ExpectCommit()

	msg, err := l.UpdatePerformance(context.Background(), "1MS21CS001", 1, "Runner-up")
	require.NoError(t, err)
	assert.Equal(t, "Updated Asha's performance in Hackathon to Runner-up", msg)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_UpdatePerformance_NotFound(t *testing.T) {
	l, mock := newLedger(t)

	mock.ExpectBegin()
	expectPairLookup(mock, "1MS21CS001", 1, nil)
	mock.ExpectRollback()

	_, err := l.UpdatePerformance(context.Background(), "1MS21CS001", 1, "Winner")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_Delete(t *testing.T) {
	l, mock := newLedger(t)

	mock.ExpectBegin()
	expectPairLookup(mock, "1MS21CS001", 1,
		&Participation{ID: 9, USN: "1MS21CS001", EventID: 1, Performance: "Winner"})
	expectNameLookups(mock, "1MS21CS001", "Asha", 1, "Hackathon")
	mock.ExpectExec("DELETE FROM participation").
		WithArgs("1MS21CS001", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	msg, err := l.Delete(context.Background(), "1MS21CS001", 1)
	require.NoError(t, err)
	assert.Equal(t, "Removed Asha from Hackathon", msg)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_Delete_NotFound(t *testing.T) {
	l, mock := newLedger(t)

	mock.ExpectBegin()
	expectPairLookup(mock, "1MS21CS001", 1, nil)
	mock.ExpectRollback()

	_, err := l.Delete(context.Background(), "1MS21CS001", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_CascadeLeavesNoPair(t *testing.T) {
	l, mock := newLedger(t)

	// After the owning student is deleted the engine cascade removes the
	// link; a subsequent pair lookup reports absent.
	expectPairLookup(mock, "1MS21CS001", 1, nil)

	p, err := l.Get(context.Background(), "1MS21CS001", 1)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestLedger_ListAll(t *testing.T) {
	l, mock := newLedger(t)

	mock.ExpectQuery("SELECT p.id, p.usn, s.name AS student_name").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "usn", "student_name", "department", "event_id",
				"event_name", "event_type", "event_date", "performance"}).
			AddRow(int64(2), "1MS21CS001", "Asha", "CSE", int64(2),
				"Hackathon", "Technical", []byte("2025-06-01"), "Winner").
			AddRow(int64(1), "1MS21CS002", "Ravi", "ECE", int64(1),
				"Debate", "Cultural", []byte("2025-03-10"), "Participant"))

	details, err := l.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, "Hackathon", details[0].EventName)
	assert.Equal(t, "2025-06-01", details[0].EventDate.Format("2006-01-02"))
}

func TestLedger_Winners_WinnerBeforeRunnerUp(t *testing.T) {
	l, mock := newLedger(t)

	// The CASE ordering puts Winner rows strictly before Runner-up rows
	// regardless of student name.
	mock.ExpectQuery("SELECT s.usn, s.name, s.department, s.year, p.performance").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(
			[]string{"usn", "name", "department", "year", "performance"}).
			AddRow("1MS21CS009", "Zara", "CSE", int64(3), "Winner").
			AddRow("1MS21CS001", "Asha", "CSE", int64(3), "Runner-up"))

	winners, err := l.Winners(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, winners, 2)
	assert.Equal(t, "Winner", winners[0].Performance)
	assert.Equal(t, "Runner-up", winners[1].Performance)
}

func TestLedger_Achievements(t *testing.T) {
	l, mock := newLedger(t)

	mock.ExpectQuery("SELECT e.event_id, e.name, e.event_type, e.department").
		WithArgs("1MS21CS001").
		WillReturnRows(sqlmock.NewRows(
			[]string{"event_id", "name", "event_type", "department", "event_date", "performance"}).
			AddRow(int64(2), "Hackathon", "Technical", "CSE", []byte("2025-06-01"), "Winner"))

	achievements, err := l.Achievements(context.Background(), "1MS21CS001")
	require.NoError(t, err)
	require.Len(t, achievements, 1)
	assert.Equal(t, "Winner", achievements[0].Performance)
}
