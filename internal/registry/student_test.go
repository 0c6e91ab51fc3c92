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

func newStudentRegistry(t *testing.T) (*StudentRegistry, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStudentRegistry(storage.NewWithDB(db, nil), nil), mock
}

func TestValidUSN(t *testing.T) {
	tests := []struct {
		usn   string
		valid bool
	}{
		{"1MS21CS001", true},
		{"2BG19EC045", true},
		{"MS21CS001", false},   // missing leading digit
		{"1ms21cs001", false},  // lowercase
		{"1MS21CS0011", false}, // extra digit
		{"1MS21C001", false},   // short letter group
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.usn, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidUSN(tt.usn))
		})
	}
}

func TestStudentRegistry_Add(t *testing.T) {
	tests := []struct {
		name       string
		usn        string
		student    string
		department string
		year       int
		setupMock  func(mock sqlmock.Sqlmock)
		wantErr    error
		wantMsg    string
	}{
		{
			name:       "valid student",
			usn:        "1MS21CS001",
			student:    "Asha",
			department: "CSE",
			year:       3,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT usn FROM students WHERE usn").
					WithArgs("1MS21CS001").
					WillReturnRows(sqlmock.NewRows([]string{"usn"}))
				mock.ExpectExec("INSERT INTO students").
					WithArgs("1MS21CS001", "Asha", "CSE", 3).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantMsg: "Student Asha (1MS21CS001) added successfully",
		},
		{
			name:       "year lower bound",
			usn:        "1MS21CS002",
			student:    "Ravi",
			department: "ECE",
			year:       1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT usn FROM students WHERE usn").
					WithArgs("1MS21CS002").
					WillReturnRows(sqlmock.NewRows([]string{"usn"}))
				mock.ExpectExec("INSERT INTO students").
					WithArgs("1MS21CS002", "Ravi", "ECE", 1).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantMsg: "Student Ravi (1MS21CS002) added successfully",
		},
		{
			name:       "year upper bound",
			usn:        "1MS21CS003",
			student:    "Meera",
			department: "ME",
			year:       5,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT usn FROM students WHERE usn").
					WithArgs("1MS21CS003").
					WillReturnRows(sqlmock.NewRows([]string{"usn"}))
				mock.ExpectExec("INSERT INTO students").
					WithArgs("1MS21CS003", "Meera", "ME", 5).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantMsg: "Student Meera (1MS21CS003) added successfully",
		},
		{
			name:       "empty name",
			usn:        "1MS21CS001",
			student:    "",
			department: "CSE",
			year:       3,
			wantErr:    apperrors.ErrValidation,
		},
		{
			name:       "bad USN missing leading digit",
			usn:        "MS21CS001",
			student:    "Asha",
			department: "CSE",
			year:       3,
			wantErr:    apperrors.ErrValidation,
		},
		{
			name:       "bad USN lowercase",
			usn:        "1ms21cs001",
			student:    "Asha",
			department: "CSE",
			year:       3,
			wantErr:    apperrors.ErrValidation,
		},
		{
			name:       "bad USN extra digit",
			usn:        "1MS21CS0011",
			student:    "Asha",
			department: "CSE",
			year:       3,
			wantErr:    apperrors.ErrValidation,
		},
		{
			name:       "year below range",
			usn:        "1MS21CS001",
			student:    "Asha",
			department: "CSE",
			year:       0,
			wantErr:    apperrors.ErrValidation,
		},
		{
			name:       "year above range",
			usn:        "1MS21CS001",
			student:    "Asha",
			department: "CSE",
			year:       6,
			wantErr:    apperrors.ErrValidation,
		},
		{
			name:       "duplicate USN",
			usn:        "1MS21CS001",
			student:    "Asha",
			department: "CSE",
			year:       3,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT usn FROM students WHERE usn").
					WithArgs("1MS21CS001").
					WillReturnRows(sqlmock.NewRows([]string{"usn"}).AddRow("1MS21CS001"))
			},
			wantErr: apperrors.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, mock := newStudentRegistry(t)
			if tt.setupMock != nil {
				tt.setupMock(mock)
			}

			msg, err := reg.Add(context.Background(), tt.usn, tt.student, tt.department, tt.year)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantMsg, msg)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStudentRegistry_GetByUSN(t *testing.T) {
	reg, mock := newStudentRegistry(t)

	mock.ExpectQuery("SELECT usn, name, department, year FROM students WHERE usn").
		WithArgs("1MS21CS001").
		WillReturnRows(sqlmock.NewRows([]string{"usn", "name", "department", "year"}).
			AddRow("1MS21CS001", "Asha", "CSE", int64(3)))

	s, err := reg.GetByUSN(context.Background(), "1MS21CS001")
	require.NoError(t, err)
	assert.Equal(t, &Student{USN: "1MS21CS001", Name: "Asha", Department: "CSE", Year: 3}, s)
}

func TestStudentRegistry_GetByUSN_NotFound(t *testing.T) {
	reg, mock := newStudentRegistry(t)

	mock.ExpectQuery("SELECT usn, name, department, year FROM students WHERE usn").
		WithArgs("1MS21CS999").
		WillReturnRows(sqlmock.NewRows([]string{"usn", "name", "department", "year"}))

	_, err := reg.GetByUSN(context.Background(), "1MS21CS999")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestStudentRegistry_Update(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   error
	}{
		{
			name: "existing student",
			year: 4,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT usn, name, department, year FROM students WHERE usn").
					WithArgs("1MS21CS001").
					WillReturnRows(sqlmock.NewRows([]string{"usn", "name", "department", "year"}).
						AddRow("1MS21CS001", "Asha", "CSE", int64(3)))
				mock.ExpectExec("UPDATE students SET").
					WithArgs("Asha N", "ISE", 4, "1MS21CS001").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "missing student",
			year: 4,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT usn, name, department, year FROM students WHERE usn").
					WithArgs("1MS21CS001").
					WillReturnRows(sqlmock.NewRows([]string{"usn", "name", "department", "year"}))
			},
			wantErr: apperrors.ErrNotFound,
		},
		{
			name:    "invalid year",
			year:    9,
			wantErr: apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, mock := newStudentRegistry(t)
			if tt.setupMock != nil {
				tt.setupMock(mock)
			}

			_, err := reg.Update(context.Background(), "1MS21CS001", "Asha N", "ISE", tt.year)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStudentRegistry_Delete(t *testing.T) {
	reg, mock := newStudentRegistry(t)

	mock.ExpectQuery("SELECT usn, name, department, year FROM students WHERE usn").
		WithArgs("1MS21CS001").
		WillReturnRows(sqlmock.NewRows([]string{"usn", "name", "department", "year"}).
			AddRow("1MS21CS001", "Asha", "CSE", int64(3)))
	mock.ExpectExec("DELETE FROM students WHERE usn").
		WithArgs("1MS21CS001").
		WillReturnResult(sqlmock.NewResult(0, 1))

	msg, err := reg.Delete(context.Background(), "1MS21CS001")
	require.NoError(t, err)
	assert.Equal(t, "Student with USN 1MS21CS001 deleted successfully", msg)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRegistry_Search(t *testing.T) {
	reg, mock := newStudentRegistry(t)

	mock.ExpectQuery("SELECT usn, name, department, year FROM students").
		WithArgs("%cs%", "%cs%", "%cs%").
		WillReturnRows(sqlmock.NewRows([]string{"usn", "name", "department", "year"}).
			AddRow("1MS21CS001", "Asha", "CSE", int64(3)).
			AddRow("1MS21CS002", "Ravi", "CSE", int64(2)))

	students, err := reg.Search(context.Background(), "cs")
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Asha", students[0].Name)
}

func TestStudentRegistry_ListAll(t *testing.T) {
	reg, mock := newStudentRegistry(t)

	mock.ExpectQuery("SELECT s.usn, s.name, s.department, s.year").
		WillReturnRows(sqlmock.NewRows(
			[]string{"usn", "name", "department", "year", "participation_count"}).
			AddRow("1MS21CS001", "Asha", "CSE", int64(3), int64(4)).
			AddRow("1MS21CS002", "Ravi", "CSE", int64(2), int64(0)))

	summaries, err := reg.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, 4, summaries[0].ParticipationCount)
	assert.Equal(t, 0, summaries[1].ParticipationCount)
}

func TestStudentRegistry_EventsFor(t *testing.T) {
	reg, mock := newStudentRegistry(t)

	mock.ExpectQuery("SELECT e.event_id, e.name, e.event_type, e.department").
		WithArgs("1MS21CS001").
		WillReturnRows(sqlmock.NewRows(
			[]string{"event_id", "name", "event_type", "department", "event_date", "performance"}).
			AddRow(int64(2), "Hackathon", "Technical", "CSE", []byte("2025-06-01"), "Winner").
			AddRow(int64(1), "Debate", "Cultural", "HSS", []byte("2025-03-10"), "Participant"))

	events, err := reg.EventsFor(context.Background(), "1MS21CS001")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Winner", events[0].Performance)
	assert.Equal(t, "2025-06-01", events[0].Date.Format("2006-01-02"))
}
