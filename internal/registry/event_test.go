package registry

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

func newEventRegistry(t *testing.T) (*EventRegistry, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewEventRegistry(storage.NewWithDB(db, nil), nil), mock
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"2025-06-01", false},
		{"2025-12-31", false},
		{"2025-13-01", true},
		{"01-06-2025", true},
		{"2025/06/01", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseDate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, apperrors.ErrValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEventRegistry_Add(t *testing.T) {
	tests := []struct {
		name      string
		event     string
		eventType string
		date      string
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   error
		wantMsg   string
	}{
		{
			name:      "valid event",
			event:     "Hack",
			eventType: "Technical",
			date:      "2025-06-01",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO events").
					WithArgs("Hack", "Technical", "CSE", "2025-06-01").
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
			wantMsg: "Event 'Hack' added successfully",
		},
		{
			name:      "empty name",
			event:     "",
			eventType: "Technical",
			date:      "2025-06-01",
			wantErr:   apperrors.ErrValidation,
		},
		{
			name:      "bad date",
			event:     "Hack",
			eventType: "Technical",
			date:      "June 1st",
			wantErr:   apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, mock := newEventRegistry(t)
			if tt.setupMock != nil {
				tt.setupMock(mock)
			}

			msg, err := reg.Add(context.Background(), tt.event, tt.eventType, "CSE", tt.date)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantMsg, msg)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRegistry_RoundTrip(t *testing.T) {
	reg, mock := newEventRegistry(t)

	// Add, then read back: the stored date round-trips unchanged.
	mock.ExpectExec("INSERT INTO events").
		WithArgs("Hack", "Technical", "CSE", "2025-06-01").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery("SELECT event_id, name, event_type, department, event_date FROM events WHERE event_id").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(
			[]string{"event_id", "name", "event_type", "department", "event_date"}).
			AddRow(int64(7), "Hack", "Technical", "CSE", []byte("2025-06-01")))

	_, err := reg.Add(context.Background(), "Hack", "Technical", "CSE", "2025-06-01")
	require.NoError(t, err)

	event, err := reg.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", event.Date.Format("2006-01-02"))
	assert.Equal(t, "Hack", event.Name)

	// Update only the date; the read reflects the new date and nothing else.
	mock.ExpectQuery("SELECT event_id, name, event_type, department, event_date FROM events WHERE event_id").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(
			[]string{"event_id", "name", "event_type", "department", "event_date"}).
			AddRow(int64(7), "Hack", "Technical", "CSE", []byte("2025-06-01")))
	mock.ExpectExec("UPDATE events SET").
		WithArgs("Hack", "Technical", "CSE", "2025-07-15", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT event_id, name, event_type, department, event_date FROM events WHERE event_id").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(
			[]string{"event_id", "name", "event_type", "department", "event_date"}).
			AddRow(int64(7), "Hack", "Technical", "CSE", []byte("2025-07-15")))

	_, err = reg.Update(context.Background(), 7, "Hack", "Technical", "CSE", "2025-07-15")
	require.NoError(t, err)

	event, err = reg.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "2025-07-15", event.Date.Format("2006-01-02"))
	assert.Equal(t, "Hack", event.Name)
	assert.Equal(t, "Technical", event.Type)
}

func TestEventRegistry_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   error
		wantMsg   string
	}{
		{
			name: "existing event",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT event_id, name, event_type, department, event_date FROM events WHERE event_id").
					WithArgs(3).
					WillReturnRows(sqlmock.NewRows(
						[]string{"event_id", "name", "event_type", "department", "event_date"}).
						AddRow(int64(3), "Debate", "Cultural", "HSS", []byte("2025-03-10")))
				mock.ExpectExec("DELETE FROM events WHERE event_id").
					WithArgs(3).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantMsg: "Event 'Debate' deleted successfully",
		},
		{
			name: "missing event",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT event_id, name, event_type, department, event_date FROM events WHERE event_id").
					WithArgs(3).
					WillReturnRows(sqlmock.NewRows(
						[]string{"event_id", "name", "event_type", "department", "event_date"}))
			},
			wantErr: apperrors.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, mock := newEventRegistry(t)
			tt.setupMock(mock)

			msg, err := reg.Delete(context.Background(), 3)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantMsg, msg)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRegistry_ListAll(t *testing.T) {
	reg, mock := newEventRegistry(t)

	mock.ExpectQuery("SELECT e.event_id, e.name, e.event_type, e.department").
		WillReturnRows(sqlmock.NewRows(
			[]string{"event_id", "name", "event_type", "department", "event_date", "participant_count"}).
			AddRow(int64(2), "Hackathon", "Technical", "CSE", []byte("2025-06-01"), int64(12)).
			AddRow(int64(1), "Debate", "Cultural", "HSS", []byte("2025-03-10"), int64(0)))

	summaries, err := reg.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, 12, summaries[0].ParticipantCount)
	assert.Equal(t, 0, summaries[1].ParticipantCount)
}

func TestEventRegistry_Participants(t *testing.T) {
	reg, mock := newEventRegistry(t)

	mock.ExpectQuery("SELECT s.usn, s.name, s.department, s.year, p.performance").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(
			[]string{"usn", "name", "department", "year", "performance"}).
			AddRow("1MS21CS001", "Asha", "CSE", int64(3), "Participant").
			AddRow("1MS21CS002", "Ravi", "CSE", int64(2), "Winner"))

	participants, err := reg.Participants(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, participants, 2)
	assert.Equal(t, "Asha", participants[0].Name)
}

func TestEventRegistry_UpcomingAndPast(t *testing.T) {
	reg, mock := newEventRegistry(t)

	mock.ExpectQuery("SELECT event_id, name, event_type, department, event_date FROM events").
		WillReturnRows(sqlmock.NewRows(
			[]string{"event_id", "name", "event_type", "department", "event_date"}).
			AddRow(int64(5), "TechFest", "Technical", "CSE", []byte("2027-01-15")))

	upcoming, err := reg.Upcoming(context.Background())
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "TechFest", upcoming[0].Name)

	mock.ExpectQuery("SELECT event_id, name, event_type, department, event_date FROM events").
		WillReturnRows(sqlmock.NewRows(
			[]string{"event_id", "name", "event_type", "department", "event_date"}))

	past, err := reg.Past(context.Background())
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestEventRegistry_ByDepartment(t *testing.T) {
	reg, mock := newEventRegistry(t)

	mock.ExpectQuery("SELECT event_id, name, event_type, department, event_date FROM events").
		WithArgs("CSE").
		WillReturnRows(sqlmock.NewRows(
			[]string{"event_id", "name", "event_type", "department", "event_date"}).
			AddRow(int64(2), "Hackathon", "Technical", "CSE", []byte("2025-06-01")))

	events, err := reg.ByDepartment(context.Background(), "CSE")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "CSE", events[0].Department)
}
