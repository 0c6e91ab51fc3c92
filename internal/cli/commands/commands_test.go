// Package commands_test provides tests for CLI command creation.
package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStudentCommand(t *testing.T) {
	cmd := NewStudentCommand()

	assert.Equal(t, "student", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")

	subs := map[string]bool{}
	for _, sub := range cmd.Commands() {
		subs[sub.Name()] = true
	}
	for _, name := range []string{"add", "get", "update", "delete", "search", "list", "events"} {
		assert.True(t, subs[name], "subcommand %q should exist", name)
	}

	add, _, err := cmd.Find([]string{"add"})
	assert.NoError(t, err)
	for _, flag := range []string{"name", "department", "year"} {
		assert.NotNil(t, add.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewEventCommand(t *testing.T) {
	cmd := NewEventCommand()

	assert.Equal(t, "event", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")

	subs := map[string]bool{}
	for _, sub := range cmd.Commands() {
		subs[sub.Name()] = true
	}
	for _, name := range []string{
		"add", "get", "update", "delete", "search", "list",
		"participants", "upcoming", "past", "by-department",
	} {
		assert.True(t, subs[name], "subcommand %q should exist", name)
	}

	add, _, err := cmd.Find([]string{"add"})
	assert.NoError(t, err)
	for _, flag := range []string{"type", "department", "date"} {
		assert.NotNil(t, add.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewParticipationCommand(t *testing.T) {
	cmd := NewParticipationCommand()

	assert.Equal(t, "participation", cmd.Use)
	assert.Contains(t, cmd.Aliases, "part")

	subs := map[string]bool{}
	for _, sub := range cmd.Commands() {
		subs[sub.Name()] = true
	}
	for _, name := range []string{
		"register", "get", "update", "delete", "list", "winners", "achievements",
	} {
		assert.True(t, subs[name], "subcommand %q should exist", name)
	}

	register, _, err := cmd.Find([]string{"register"})
	assert.NoError(t, err)
	assert.NotNil(t, register.Flags().Lookup("performance"), "flag performance should exist")
}

func TestNewReportCommand(t *testing.T) {
	cmd := NewReportCommand()

	assert.Equal(t, "report", cmd.Use)

	subs := map[string]bool{}
	for _, sub := range cmd.Commands() {
		subs[sub.Name()] = true
	}
	for _, name := range []string{
		"top-students", "departments", "popular-events", "performance",
		"event-types", "monthly", "top-performers", "comprehensive",
	} {
		assert.True(t, subs[name], "subcommand %q should exist", name)
	}

	comprehensive, _, err := cmd.Find([]string{"comprehensive"})
	assert.NoError(t, err)
	for _, flag := range []string{"year", "department", "event-type", "save", "filename"} {
		assert.NotNil(t, comprehensive.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewInitCommand(t *testing.T) {
	cmd := NewInitCommand()

	assert.Equal(t, "init", cmd.Use)
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("force"), "flag force should exist")
	assert.NotNil(t, cmd.Flags().Lookup("skip-bootstrap"), "flag skip-bootstrap should exist")
}

func TestNewDoctorCommand(t *testing.T) {
	cmd := NewDoctorCommand()

	assert.Equal(t, "doctor", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
}

func TestNewMenuCommand(t *testing.T) {
	cmd := NewMenuCommand()

	assert.Equal(t, "menu", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	assert.NoError(t, err)
	assert.Equal(t, 42, id)

	_, err = parseID("abc")
	assert.Error(t, err)
}
