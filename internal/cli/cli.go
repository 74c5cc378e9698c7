package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ewu-ics-cal/ewucal/internal/calendar"
	"github.com/ewu-ics-cal/ewucal/internal/config"
	"github.com/ewu-ics-cal/ewucal/internal/logger"
	"github.com/ewu-ics-cal/ewucal/internal/notifier"
	"github.com/ewu-ics-cal/ewucal/internal/scraper"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitChanges = 2
)

// rateBurst is the outbound request burst allowed on top of the configured rate
const rateBurst = 2

// app holds the state shared by all subcommands of one invocation
type app struct {
	configPath string
	verbose    bool

	cfg      *config.Config
	scraper  *scraper.Scraper
	emitter  *calendar.Emitter
	exitCode int

	// publisher replaces the SNS client built from the AWS default config
	publisher notifier.Publisher
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ewucal",
		Short: "Convert East West University academic calendars to iCalendar",
		Long: `A CLI tool that reads the published East West University academic calendars,
extracts their dated entries and exports them as iCalendar (.ics) files.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newCalendarsCmd(a),
		newEntriesCmd(a),
		newGenerateCmd(a),
		newServeCmd(a),
		newWatchCmd(a),
	)

	return cmd
}

// setup loads configuration and builds the shared clients
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if a.verbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	a.cfg = cfg
	a.scraper = scraper.New(
		scraper.WithBaseURL(cfg.BaseURL),
		scraper.WithTimeout(cfg.RequestTimeout),
		scraper.WithRateLimit(cfg.RatePerSecond, rateBurst),
	)
	a.emitter = calendar.NewEmitter(
		calendar.WithLocation(cfg.Location),
		calendar.WithTimezone(cfg.Timezone, cfg.UTCOffset),
	)

	logger.Debug("configuration loaded", logger.Fields{
		"config":   a.configPath,
		"base_url": cfg.BaseURL,
		"data_dir": cfg.DataDir,
	})
	return nil
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{}
	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(ExitError)
	}
	stop()
	os.Exit(a.exitCode)
}
