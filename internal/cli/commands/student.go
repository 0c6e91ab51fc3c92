package commands

import (
	"strconv"

	"github.com/campuslabs/eventtrack/internal/apperrors"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewStudentCommand creates the student command group.
func NewStudentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "student",
		Short: "Manage student records",
		Long:  `Add, view, update, delete, and search students.`,
	}

	cmd.AddCommand(
		newStudentAddCommand(),
		newStudentGetCommand(),
		newStudentUpdateCommand(),
		newStudentDeleteCommand(),
		newStudentSearchCommand(),
		newStudentListCommand(),
		newStudentEventsCommand(),
	)

	return cmd
}

func newStudentAddCommand() *cobra.Command {
	var name, department string
	var year int

	cmd := &cobra.Command{
		Use:   "add <usn>",
		Short: "Add a new student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			msg, err := ctx.Students.Add(cmd.Context(), args[0], name, department, year)
			if err != nil {
				return err
			}
			ctx.Renderer.Success("%s", msg)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Student name (required)")
	cmd.Flags().StringVarP(&department, "department", "d", "", "Department (required)")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Year of study, 1-5 (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("department")
	_ = cmd.MarkFlagRequired("year")

	return cmd
}

func newStudentGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <usn>",
		Short: "Show one student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			s, err := ctx.Students.GetByUSN(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ctx.Renderer.Table(studentHeader, []table.Row{
				{s.USN, s.Name, s.Department, s.Year},
			})
			return nil
		},
	}
}

func newStudentUpdateCommand() *cobra.Command {
	var name, department string
	var year int

	cmd := &cobra.Command{
		Use:   "update <usn>",
		Short: "Update a student's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			msg, err := ctx.Students.Update(cmd.Context(), args[0], name, department, year)
			if err != nil {
				return err
			}
			ctx.Renderer.Success("%s", msg)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Student name (required)")
	cmd.Flags().StringVarP(&department, "department", "d", "", "Department (required)")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Year of study, 1-5 (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("department")
	_ = cmd.MarkFlagRequired("year")

	return cmd
}

func newStudentDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <usn>",
		Short: "Delete a student and their participation records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			msg, err := ctx.Students.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ctx.Renderer.Success("%s", msg)
			return nil
		},
	}
}

func newStudentSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Search students by USN, name, or department",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			students, err := ctx.Students.Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ctx.Renderer.Table(studentHeader, studentRows(students))
			return nil
		},
	}
}

func newStudentListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all students with participation counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			students, err := ctx.Students.ListAll(cmd.Context())
			if err != nil {
				return err
			}
			ctx.Renderer.Table(studentSummaryHeader, studentSummaryRows(students))
			return nil
		},
	}
}

func newStudentEventsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "events <usn>",
		Short: "List the events a student participated in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			events, err := ctx.Students.EventsFor(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ctx.Renderer.Table(studentEventHeader, studentEventRows(events))
			return nil
		},
	}
}

// parseID parses a positional numeric ID argument.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, apperrors.Validationf("invalid event ID: %s", arg)
	}
	return id, nil
}
