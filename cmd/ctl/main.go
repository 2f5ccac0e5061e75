package main

import (
	"fmt"
	"os"
	"time"

	"subtracker-be/internal/bootstrap"
	"subtracker-be/internal/config"
	"subtracker-be/internal/pkg/logger"
	"subtracker-be/pkg/database"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	cfg     *config.Config
	verbose bool
	atFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "ctl",
	Short: "SubTracker operations tool",
	Long: `ctl runs the background jobs of the SubTracker backend by hand
and inspects the event bus.

Examples:
  ctl expire                 # expire subscriptions whose end date passed
  ctl remind --days 7        # mail renewal digests for the next week
  ctl seed                   # load the starter catalog
  ctl events subscription.>  # tail subscription events from NATS`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log SQL statements")
	rootCmd.PersistentFlags().StringVar(&atFlag, "at", "", "run as of this RFC 3339 time instead of now")

	rootCmd.AddCommand(expireCmd, remindCmd, seedCmd, eventsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

// openContainer wires the same services as the REST server, logging to the worker log.
func openContainer() (*bootstrap.Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var db *gorm.DB
	if !cfg.UsesMemoryStore() {
		conn, err := database.NewGormDBFromDSN(cfg.Database.Connection, verbose)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		db = conn
	} else {
		color.Yellow("DB_CONNECTION_STRING is not set, running against an empty in-memory store")
	}
	sysLogger := logger.NewZapLogger(cfg.App.WorkerLogFilePath, cfg.IsProduction())
	return bootstrap.NewContainerWithLogger(db, cfg, sysLogger), nil
}

func runTime() (time.Time, error) {
	if atFlag == "" {
		return time.Now(), nil
	}
	at, err := time.Parse(time.RFC3339, atFlag)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at: %w", err)
	}
	return at, nil
}
