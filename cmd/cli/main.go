package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cdmasterk/orcafx/config"
	"github.com/cdmasterk/orcafx/internal/database"
	"github.com/cdmasterk/orcafx/internal/metrics"
	"github.com/cdmasterk/orcafx/internal/pricing"
	"github.com/cdmasterk/orcafx/internal/recalc"
)

// TriggeredByCLI names recalculation runs started from the command line.
const TriggeredByCLI = "cli"

var (
	cfgFile string
	cfg     *config.Config
	logger  *zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "orca-pricing",
	Short: "ORCA pricing CLI - jewelry price sheet tooling",
	Long: `A CLI tool for operating the ORCA pricing engine: applying migrations,
previewing which pricing rule applies, calculating and recalculating price
sheets, refreshing spot metal prices, and moving component prices and
current prices in and out of Excel workbooks.`,
	PersistentPreRunE: persistentPreRun,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		database.Close()
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
}

// persistentPreRun runs before each command and initializes dependencies
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	logger = initLogger()

	// migrate opens its own connection through goose
	if cmd.Name() == "migrate" {
		return nil
	}

	if cfg == nil {
		return fmt.Errorf("config required for %s command but not loaded", cmd.Name())
	}
	if err := initDatabase(cmd.Context()); err != nil {
		return fmt.Errorf("database initialization failed: %w", err)
	}
	logger.Debug().Msg("Database connected")

	return nil
}

func initLogger() *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if cfg != nil && cfg.Logging.Level != "" {
		if parsedLevel, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			level = parsedLevel
		}
	}

	var output io.Writer
	if cfg != nil && cfg.Logging.Format == "json" {
		output = os.Stderr
	} else {
		noColor := false
		if cfg != nil {
			noColor = cfg.Logging.NoColor
		}
		output = zerolog.ConsoleWriter{Out: os.Stderr, NoColor: noColor}
	}

	log := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return &log
}

func initDatabase(ctx context.Context) error {
	dbURL := config.GetDatabaseURL()
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL not set")
	}

	if err := database.Connect(
		ctx,
		dbURL,
		database.PoolOptions{
			MaxConns:           cfg.Database.MaxConnections,
			MinConns:           cfg.Database.MinConnections,
			MaxConnLifetime:    cfg.Database.MaxConnLifetime,
			MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
			SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
			Logger:             logger,
		},
	); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	return nil
}

// services wires the pricing engine over the connected database.
type services struct {
	store    *database.Store
	recorder *metrics.Recorder
	calc     *pricing.Calculator
	runner   *recalc.Runner
}

func newServices(concurrency int) *services {
	if concurrency < 1 {
		concurrency = cfg.Pricing.RecalcConcurrency
	}
	store := database.NewStore(database.Pool())
	recorder := metrics.NewRecorder()
	calc := pricing.NewCalculator(store, pricing.Config{DefaultTaxCountry: cfg.Pricing.DefaultTaxCountry}, recorder, logger)
	return &services{
		store:    store,
		recorder: recorder,
		calc:     calc,
		runner:   recalc.NewRunner(calc, store, concurrency, recorder, logger),
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
