package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewParticipationCommand creates the participation command group.
func NewParticipationCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "participation",
		Aliases: []string{"part"},
		Short:   "Manage event participation records",
		Long:    `Register students for events and track their performance.`,
	}

	cmd.AddCommand(
		newParticipationRegisterCommand(),
		newParticipationGetCommand(),
		newParticipationUpdateCommand(),
		newParticipationDeleteCommand(),
		newParticipationListCommand(),
		newParticipationWinnersCommand(),
		newParticipationAchievementsCommand(),
	)

	return cmd
}

func newParticipationRegisterCommand() *cobra.Command {
	var performance string

	cmd := &cobra.Command{
		Use:   "register <usn> <event-id>",
		Short: "Register a student for an event",
		Long: `Register a student for an event. Registering an existing pair again
updates the recorded performance instead of failing.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventID, err := parseID(args[1])
			if err != nil {
				return err
			}

			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			msg, err := ctx.Ledger.Register(cmd.Context(), args[0], eventID, performance)
			if err != nil {
				return err
			}
			ctx.Renderer.Success("%s", msg)
			return nil
		},
	}

	cmd.Flags().StringVarP(&performance, "performance", "p", "",
		"Performance: Winner, Runner-up, or Participant (default Participant)")

	return cmd
}

func newParticipationGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <usn> <event-id>",
		Short: "Show one participation record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventID, err := parseID(args[1])
			if err != nil {
				return err
			}

			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := ctx.Ledger.Get(cmd.Context(), args[0], eventID)
			if err != nil {
				return err
			}
			if p == nil {
				ctx.Renderer.Println("(0 rows)")
				return nil
			}
			ctx.Renderer.Table(
				table.Row{"ID", "USN", "Event ID", "Performance"},
				[]table.Row{{p.ID, p.USN, p.EventID, p.Performance}},
			)
			return nil
		},
	}
}

func newParticipationUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update <usn> <event-id> <performance>",
		Short: "Update the performance of a participation record",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventID, err := parseID(args[1])
			if err != nil {
				return err
			}

			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			msg, err := ctx.Ledger.UpdatePerformance(cmd.Context(), args[0], eventID, args[2])
			if err != nil {
				return err
			}
			ctx.Renderer.Success("%s", msg)
			return nil
		},
	}
}

func newParticipationDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <usn> <event-id>",
		Short: "Remove a student's registration for an event",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventID, err := parseID(args[1])
			if err != nil {
				return err
			}

			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			msg, err := ctx.Ledger.Delete(cmd.Context(), args[0], eventID)
			if err != nil {
				return err
			}
			ctx.Renderer.Success("%s", msg)
			return nil
		},
	}
}

func newParticipationListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all participation records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			details, err := ctx.Ledger.ListAll(cmd.Context())
			if err != nil {
				return err
			}
			ctx.Renderer.Table(detailHeader, detailRows(details))
			return nil
		},
	}
}

func newParticipationWinnersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "winners <event-id>",
		Short: "List the winners and runners-up of an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventID, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			winners, err := ctx.Ledger.Winners(cmd.Context(), eventID)
			if err != nil {
				return err
			}
			ctx.Renderer.Table(winnerHeader, winnerRows(winners))
			return nil
		},
	}
}

func newParticipationAchievementsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "achievements <usn>",
		Short: "List a student's wins and runner-up finishes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			achievements, err := ctx.Ledger.Achievements(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ctx.Renderer.Table(achievementHeader, achievementRows(achievements))
			return nil
		},
	}
}
