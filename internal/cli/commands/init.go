package commands

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/campuslabs/eventtrack/internal/cli/config"
	"github.com/campuslabs/eventtrack/internal/cli/output"
	"github.com/campuslabs/eventtrack/internal/storage"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var skipBootstrap bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set up the tracker configuration and database",
		Long: `Interactively collect database connection settings, write them to
eventtrack.yaml, and create the database schema.`,
		Example: `  # First-run setup
  eventtrack init

  # Overwrite an existing configuration
  eventtrack init --force

  # Write the config without touching the database
  eventtrack init --skip-bootstrap`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr())
			return runInit(cmd, r, force, skipBootstrap)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&skipBootstrap, "skip-bootstrap", false, "Do not create the database and tables")

	return cmd
}

func runInit(cmd *cobra.Command, r *output.Renderer, force, skipBootstrap bool) error {
	if _, err := os.Stat(config.FileName); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", config.FileName)
	}

	r.Header("Event Tracker Setup")
	r.Println("")

	reader := bufio.NewReader(cmd.InOrStdin())

	host := promptDefault(cmd, reader, "Database host", config.DefaultHost)
	portStr := promptDefault(cmd, reader, "Database port", strconv.Itoa(config.DefaultPort))
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid port: %s", portStr)
	}
	user := promptDefault(cmd, reader, "Database user", config.DefaultUser)
	password, err := promptPassword(cmd, reader)
	if err != nil {
		return err
	}
	name := promptDefault(cmd, reader, "Database name", config.DefaultDatabase)
	reportsDir := promptDefault(cmd, reader, "Reports directory", config.DefaultReportsDir)

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Host:     host,
			Port:     port,
			User:     user,
			Password: password,
			Name:     name,
		},
		ReportsDir: reportsDir,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := config.Write(config.FileName, cfg); err != nil {
		return err
	}
	r.Println("")
	r.Success("Configuration written to %s", config.FileName)

	if skipBootstrap {
		return nil
	}

	gw := storage.New(cfg.StorageConfig(), newLogger(cfg))
	defer func() { _ = gw.Close() }()

	if err := gw.Bootstrap(cmd.Context()); err != nil {
		return err
	}
	r.Success("Database %s is ready", name)
	r.Println("")
	r.Println("Next steps:")
	r.Println("  eventtrack student add    Register students")
	r.Println("  eventtrack event add      Schedule events")
	r.Println("  eventtrack menu           Use the interactive menu")

	return nil
}

// promptDefault reads one line, returning def on empty input.
func promptDefault(cmd *cobra.Command, reader *bufio.Reader, label, def string) string {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s [%s]: ", label, def)
	line, err := reader.ReadString('\n')
	if err != nil {
		return def
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

// promptPassword reads the password without echo when stdin is a
// terminal, falling back to a plain line read otherwise.
func promptPassword(cmd *cobra.Command, reader *bufio.Reader) (string, error) {
	_, _ = fmt.Fprint(cmd.OutOrStdout(), "Database password: ")
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}
