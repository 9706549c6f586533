// Command migrate applies, rolls back or lists schema migrations.
//
//	migrate [-config configs/config.yaml] up|down|status
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yigit/topicreg/internal/app/migrations"
	"github.com/yigit/topicreg/internal/config"
	"github.com/yigit/topicreg/internal/db"
	"github.com/yigit/topicreg/internal/pkg/logger"
)

func main() {
	os.Exit(run())
}

// run executes one verb and returns the process exit code, so deferred
// cleanup always happens before the process exits.
func run() int {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall timeout")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] up|down|status\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return 2
	}
	verb := flag.Arg(0)
	if verb != "up" && verb != "down" && verb != "status" {
		flag.Usage()
		return 2
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return 1
	}
	lgr := logger.Configure(logger.Config{
		Level:  logger.ParseLevel(cfg.Logging.Level),
		Pretty: strings.EqualFold(cfg.Logging.Format, "text"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return 1
	}
	defer pool.Close()

	migrator := migrations.NewMigrator(pool, logger.Component("migrations"))

	switch verb {
	case "up":
		applied, err := migrator.Up(ctx)
		if err != nil {
			lgr.Error().Err(err).Msg("Migration failed")
			return 1
		}
		lgr.Info().Strs("applied", applied).Msg("Migrations applied")
	case "down":
		reverted, err := migrator.Down(ctx)
		if err != nil {
			lgr.Error().Err(err).Msg("Rollback failed")
			return 1
		}
		if reverted == "" {
			lgr.Info().Msg("Nothing to roll back")
			return 0
		}
		lgr.Info().Str("migration", reverted).Msg("Migration rolled back")
	case "status":
		statuses, err := migrator.Status(ctx)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to read migration status")
			return 1
		}
		for _, st := range statuses {
			applied := "pending"
			if st.AppliedAt != nil {
				applied = st.AppliedAt.Format(time.RFC3339)
			}
			fmt.Printf("%-40s %s\n", st.Migration.ID(), applied)
		}
	}
	return 0
}
