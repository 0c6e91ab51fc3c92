package commands

import (
	"context"
	"fmt"

	"github.com/campuslabs/eventtrack/internal/cli/config"
	"github.com/spf13/cobra"
)

// doctorCheck is one health check result.
type doctorCheck struct {
	Name   string
	OK     bool
	Detail string
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and database health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			checks := runDoctorChecks(cmd.Context(), ctx)

			r := ctx.Renderer
			styles := r.Styles()
			r.Println(styles.Header1.Render("Event Tracker Health Report"))
			r.Println("")

			failed := 0
			for _, check := range checks {
				icon := styles.StatusSuccess.String()
				if !check.OK {
					icon = styles.StatusFailed.String()
					failed++
				}
				r.Printf("  %s %s\n", icon, check.Name)
				if check.Detail != "" {
					r.Muted("      %s", check.Detail)
				}
			}

			r.Println("")
			if failed > 0 {
				return fmt.Errorf("%d of %d checks failed", failed, len(checks))
			}
			r.Success("All %d checks passed", len(checks))
			return nil
		},
	}
}

func runDoctorChecks(ctx context.Context, cc *CommandContext) []doctorCheck {
	var checks []doctorCheck

	cfgCheck := doctorCheck{Name: "Configuration", OK: true}
	if err := cc.Cfg.Validate(); err != nil {
		cfgCheck.OK = false
		cfgCheck.Detail = err.Error()
	} else if file := config.FileUsed(); file != "" {
		cfgCheck.Detail = "using " + file
	} else {
		cfgCheck.Detail = "using built-in defaults"
	}
	checks = append(checks, cfgCheck)

	pingCheck := doctorCheck{
		Name:   "Database connection",
		OK:     true,
		Detail: fmt.Sprintf("%s@%s", cc.Cfg.Database.User, cc.Cfg.StorageConfig().Addr()),
	}
	if err := cc.Gateway.Ping(ctx); err != nil {
		pingCheck.OK = false
		pingCheck.Detail = err.Error()
		checks = append(checks, pingCheck)
		return checks
	}
	checks = append(checks, pingCheck)

	for _, tbl := range []string{"students", "events", "participation"} {
		check := doctorCheck{Name: "Table " + tbl, OK: true}
		rec, err := cc.Gateway.FetchOne(ctx,
			"SELECT COUNT(*) AS n FROM "+tbl)
		switch {
		case err != nil:
			check.OK = false
			check.Detail = err.Error()
		case rec == nil:
			check.OK = false
			check.Detail = "no count returned"
		default:
			check.Detail = fmt.Sprintf("%d rows", rec.Int("n"))
		}
		checks = append(checks, check)
	}

	return checks
}
