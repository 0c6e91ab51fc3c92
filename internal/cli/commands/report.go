package commands

import (
	"time"

	"github.com/campuslabs/eventtrack/internal/report"
	"github.com/spf13/cobra"
)

// NewReportCommand creates the report command group.
func NewReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate participation and performance reports",
	}

	cmd.AddCommand(
		newReportTopStudentsCommand(),
		newReportDepartmentsCommand(),
		newReportPopularEventsCommand(),
		newReportPerformanceCommand(),
		newReportEventTypesCommand(),
		newReportMonthlyCommand(),
		newReportTopPerformersCommand(),
		newReportComprehensiveCommand(),
	)

	return cmd
}

func newReportTopStudentsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "top-students",
		Short: "Rank students by participation count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ranks, err := ctx.Reports.TopParticipatingStudents(cmd.Context(), limit)
			if err != nil {
				return err
			}
			ctx.Renderer.Println(report.FormatStudentRanks("Top Participating Students", ranks))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", report.DefaultLimit, "Maximum rows to show")
	return cmd
}

func newReportDepartmentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "departments",
		Short: "Participation rollup per department",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			stats, err := ctx.Reports.DepartmentParticipation(cmd.Context())
			if err != nil {
				return err
			}
			ctx.Renderer.Println(report.FormatDepartmentStats("Department-wise Participation", stats))
			return nil
		},
	}
}

func newReportPopularEventsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "popular-events",
		Short: "Rank events by participant count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ranks, err := ctx.Reports.EventsByParticipation(cmd.Context(), limit)
			if err != nil {
				return err
			}
			ctx.Renderer.Println(report.FormatEventRanks("Most Popular Events", ranks))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", report.DefaultLimit, "Maximum rows to show")
	return cmd
}

func newReportPerformanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "performance",
		Short: "Performance classification counts per department",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			perf, err := ctx.Reports.PerformanceSummary(cmd.Context())
			if err != nil {
				return err
			}
			ctx.Renderer.Println(report.FormatPerformanceRows("Performance Summary by Department", perf))
			return nil
		},
	}
}

func newReportEventTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "event-types",
		Short: "Event and participation counts per event type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			stats, err := ctx.Reports.EventTypeStatistics(cmd.Context())
			if err != nil {
				return err
			}
			ctx.Renderer.Println(report.FormatEventTypeStats("Event Type Statistics", stats))
			return nil
		},
	}
}

func newReportMonthlyCommand() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Month-by-month event and participation summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if year == 0 {
				year = time.Now().Year()
			}

			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			months, err := ctx.Reports.MonthlySummary(cmd.Context(), year)
			if err != nil {
				return err
			}
			ctx.Renderer.Println(report.FormatMonthlyRows("Monthly Summary", months))
			return nil
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", 0, "Calendar year (default: current year)")
	return cmd
}

func newReportTopPerformersCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "top-performers",
		Short: "Rank students by weighted performance points",
		Long: `Rank students by points: 3 per win, 2 per runner-up finish,
and 1 per participation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ranks, err := ctx.Reports.TopPerformers(cmd.Context(), limit)
			if err != nil {
				return err
			}
			ctx.Renderer.Println(report.FormatPerformerRanks("Top Performers", ranks))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", report.DefaultLimit, "Maximum rows to show")
	return cmd
}

func newReportComprehensiveCommand() *cobra.Command {
	var (
		year       int
		department string
		eventType  string
		save       bool
		filename   string
	)

	cmd := &cobra.Command{
		Use:   "comprehensive",
		Short: "Full report with totals, breakdowns, and rankings",
		Long: `Generate the full report: headline totals, department and event type
breakdowns, top performers, and most popular events. Filters narrow
the report to one year, department, or event type.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			c, err := ctx.Reports.Comprehensive(cmd.Context(), report.Filters{
				Year:       year,
				Department: department,
				EventType:  eventType,
			})
			if err != nil {
				return err
			}

			content := report.FormatComprehensive(c)
			ctx.Renderer.Println(content)

			if save {
				path, err := report.Export(ctx.Cfg.ReportsDir, filename, content)
				if err != nil {
					return err
				}
				ctx.Renderer.Success("Report saved to %s", path)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", 0, "Restrict to events of one calendar year")
	cmd.Flags().StringVarP(&department, "department", "d", "", "Restrict to students of one department")
	cmd.Flags().StringVarP(&eventType, "event-type", "t", "", "Restrict to one event type")
	cmd.Flags().BoolVarP(&save, "save", "s", false, "Save the report to the reports directory")
	cmd.Flags().StringVarP(&filename, "filename", "f", "", "File name for --save (default: timestamped)")

	return cmd
}
