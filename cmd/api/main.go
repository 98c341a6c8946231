package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/fitstack/weekfit/internal/envstruct"
	"github.com/fitstack/weekfit/internal/errors"
	"github.com/fitstack/weekfit/internal/logging"
	"github.com/fitstack/weekfit/internal/plan"
	"github.com/fitstack/weekfit/internal/pprofserver"
	"github.com/fitstack/weekfit/internal/sqlite"
)

type application struct {
	logger      *slog.Logger
	planService *plan.Service
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"WEEKFIT_ADDR" envDefault:"localhost:8080"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"WEEKFIT_SQLITE_URL" envDefault:"./weekfit.sqlite3"`
	// OpenAIAPIKey authenticates against the OpenAI API. With an empty key the
	// service serves placeholder workouts instead of generated ones.
	OpenAIAPIKey string `env:"WEEKFIT_OPENAI_API_KEY" envDefault:""`
	// PProfAddr is the optional address to listen on for the pprof server.
	PProfAddr string `env:"WEEKFIT_PPROF_ADDR" envDefault:""`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	if cfg.PProfAddr != "" {
		pprofserver.Launch(ctx, cfg.PProfAddr, logger)
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	planService, err := plan.NewService(db, logger, cfg.OpenAIAPIKey)
	if err != nil {
		return errors.Wrap(err, "initialize plan service")
	}
	if cfg.OpenAIAPIKey == "" {
		logger.LogAttrs(ctx, slog.LevelWarn, "no OpenAI API key configured, serving placeholder workouts")
	}

	app := application{
		logger:      logger,
		planService: planService,
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr, app.routes()); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

// logLevel maps WEEKFIT_LOG_LEVEL to a slog.Level. The logger exists before
// the config struct is populated, so this reads the environment directly.
func logLevel(lookupEnv func(string) (string, bool)) slog.Level {
	level, ok := lookupEnv("WEEKFIT_LOG_LEVEL")
	if !ok {
		return slog.LevelDebug
	}
	switch strings.ToLower(level) {
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       logLevel(os.LookupEnv),
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
