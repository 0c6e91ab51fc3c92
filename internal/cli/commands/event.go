package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewEventCommand creates the event command group.
func NewEventCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Manage events",
		Long:  `Add, view, update, delete, and search events.`,
	}

	cmd.AddCommand(
		newEventAddCommand(),
		newEventGetCommand(),
		newEventUpdateCommand(),
		newEventDeleteCommand(),
		newEventSearchCommand(),
		newEventListCommand(),
		newEventParticipantsCommand(),
		newEventUpcomingCommand(),
		newEventPastCommand(),
		newEventByDepartmentCommand(),
	)

	return cmd
}

func newEventAddCommand() *cobra.Command {
	var eventType, department, date string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			msg, err := ctx.Events.Add(cmd.Context(), args[0], eventType, department, date)
			if err != nil {
				return err
			}
			ctx.Renderer.Success("%s", msg)
			return nil
		},
	}

	cmd.Flags().StringVarP(&eventType, "type", "t", "", "Event type, e.g. Technical, Cultural, Sports (required)")
	cmd.Flags().StringVarP(&department, "department", "d", "", "Organizing department (required)")
	cmd.Flags().StringVar(&date, "date", "", "Event date in YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("department")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func newEventGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			e, err := ctx.Events.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			ctx.Renderer.Table(eventHeader, []table.Row{
				{e.ID, e.Name, e.Type, e.Department, e.Date.Format(dateLayout)},
			})
			return nil
		},
	}
}

func newEventUpdateCommand() *cobra.Command {
	var name, eventType, department, date string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an event's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			msg, err := ctx.Events.Update(cmd.Context(), id, name, eventType, department, date)
			if err != nil {
				return err
			}
			ctx.Renderer.Success("%s", msg)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Event name (required)")
	cmd.Flags().StringVarP(&eventType, "type", "t", "", "Event type (required)")
	cmd.Flags().StringVarP(&department, "department", "d", "", "Organizing department (required)")
	cmd.Flags().StringVar(&date, "date", "", "Event date in YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("department")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func newEventDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an event and its participation records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			msg, err := ctx.Events.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			ctx.Renderer.Success("%s", msg)
			return nil
		},
	}
}

func newEventSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Search events by name, type, or department",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			events, err := ctx.Events.Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ctx.Renderer.Table(eventHeader, eventRows(events))
			return nil
		},
	}
}

func newEventListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all events with participant counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			events, err := ctx.Events.ListAll(cmd.Context())
			if err != nil {
				return err
			}
			ctx.Renderer.Table(eventSummaryHeader, eventSummaryRows(events))
			return nil
		},
	}
}

func newEventParticipantsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "participants <id>",
		Short: "List the students registered for an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			participants, err := ctx.Events.Participants(cmd.Context(), id)
			if err != nil {
				return err
			}
			ctx.Renderer.Table(participantHeader, participantRows(participants))
			return nil
		},
	}
}

func newEventUpcomingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upcoming",
		Short: "List events scheduled from today onward",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			events, err := ctx.Events.Upcoming(cmd.Context())
			if err != nil {
				return err
			}
			ctx.Renderer.Table(eventHeader, eventRows(events))
			return nil
		},
	}
}

func newEventPastCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "past",
		Short: "List events that already took place",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			events, err := ctx.Events.Past(cmd.Context())
			if err != nil {
				return err
			}
			ctx.Renderer.Table(eventHeader, eventRows(events))
			return nil
		},
	}
}

func newEventByDepartmentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "by-department <department>",
		Short: "List events organized by a department",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			events, err := ctx.Events.ByDepartment(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ctx.Renderer.Table(eventHeader, eventRows(events))
			return nil
		},
	}
}
