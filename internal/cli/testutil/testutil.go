// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/campuslabs/eventtrack/internal/cli/output"
	"github.com/campuslabs/eventtrack/internal/storage"
)

// TestRenderer wraps a Renderer with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a renderer whose output is captured in buffers
// for inspection.
func NewTestRenderer() *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRenderer(out, errOut),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewMockGateway returns a gateway over a sqlmock connection, plus the
// mock for setting expectations. Pings are monitored so connection
// checks can be asserted.
func NewMockGateway() (*storage.Gateway, sqlmock.Sqlmock, error) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		return nil, nil, err
	}
	return storage.NewWithDB(db, nil), mock, nil
}
