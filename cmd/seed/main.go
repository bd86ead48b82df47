// Command seed loads region definitions from a JSON file into the database.
// Inserts are idempotent by region name, so re-running against an already
// seeded database is safe.
//
// Usage:
//
//	DATABASE_URL=postgres://... go run ./cmd/seed -regions data/regions.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"

	"github.com/aegisflood/alert-service/internal/adapter/postgres"
)

type regionDef struct {
	Name       string `json:"name"`
	State      string `json:"state"`
	Population int64  `json:"population"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	regionsPath := flag.String("regions", "data/regions.json", "path to region definitions JSON")
	migrate := flag.Bool("migrate", true, "apply schema migrations before seeding")
	flag.Parse()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	data, err := os.ReadFile(*regionsPath)
	if err != nil {
		return fmt.Errorf("read regions file: %w", err)
	}
	var regions []regionDef
	if err := json.Unmarshal(data, &regions); err != nil {
		return fmt.Errorf("parse regions file: %w", err)
	}

	if *migrate {
		if err := postgres.Migrate(databaseURL); err != nil {
			return err
		}
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)

	inserted := 0
	for _, r := range regions {
		tag, err := conn.Exec(ctx, `
			INSERT INTO regions (name, state, population)
			VALUES ($1, NULLIF($2, ''), NULLIF($3, 0))
			ON CONFLICT (name) DO NOTHING
		`, r.Name, r.State, r.Population)
		if err != nil {
			return fmt.Errorf("insert region %q: %w", r.Name, err)
		}
		inserted += int(tag.RowsAffected())
	}

	log.Printf("seeded %d of %d regions (%d already present)", inserted, len(regions), len(regions)-inserted)
	return nil
}
