// Command migrate manages the database schema outside the API process.
//
//	migrate up          apply all pending migrations
//	migrate down [N]    roll back N migrations (default 1)
//	migrate reset       roll back everything
//	migrate status      list migrations and whether they are applied
//	migrate version     print the current schema version
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"github.com/ovaphlow/pitchfork/service-adboard/pkg/database"
	"github.com/ovaphlow/pitchfork/service-adboard/pkg/utilities"
)

func main() {
	_ = godotenv.Load()

	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()
	sugar := lg.Sugar()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: migrate up|down [N]|reset|status|version")
		os.Exit(2)
	}

	cfg, err := database.ConfigFromEnv()
	if err != nil {
		sugar.Fatal(err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	p, err := database.NewMigrator(db)
	if err != nil {
		sugar.Fatal(err)
	}
	if err := run(context.Background(), p, os.Args[1], os.Args[2:]); err != nil {
		sugar.Fatalw("migrate failed", "command", os.Args[1], "err", err)
	}
}

func run(ctx context.Context, p *goose.Provider, cmd string, args []string) error {
	switch cmd {
	case "up":
		res, err := p.Up(ctx)
		report(res)
		return err
	case "down":
		n := 1
		if len(args) > 0 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 1 {
				return fmt.Errorf("down: invalid count %q", args[0])
			}
			n = v
		}
		for i := 0; i < n; i++ {
			res, err := p.Down(ctx)
			if res != nil {
				report([]*goose.MigrationResult{res})
			}
			if err != nil {
				return err
			}
		}
		return nil
	case "reset":
		res, err := p.DownTo(ctx, 0)
		report(res)
		return err
	case "status":
		statuses, err := p.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			applied := "pending"
			if s.State == goose.StateApplied {
				applied = "applied " + s.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Printf("%05d  %-40s %s\n", s.Source.Version, s.Source.Path, applied)
		}
		return nil
	case "version":
		v, err := p.GetDBVersion(ctx)
		if err != nil {
			return err
		}
		fmt.Println(v)
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func report(results []*goose.MigrationResult) {
	for _, r := range results {
		fmt.Println(r.String())
	}
}
