package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"itinerary-builder-service/internal/adapters/repositories"
	"itinerary-builder-service/internal/config"
	"itinerary-builder-service/internal/platform/db"
)

// dbtool prepares a database out of band: schema init plus scenario
// seeding, against whichever backend the configuration selects. Useful
// before first boot and for refreshing fixtures without a server restart.
func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()

	storage, backend, err := db.Open(cfg.Database.URL, cfg.Database.SQLitePath)
	if err != nil {
		fail("connect: %v", err)
	}
	defer storage.Close()

	color.Cyan("Initializing schema on %s...", backend)
	if err := repositories.InitSchema(storage); err != nil {
		fail("schema initialization failed: %v", err)
	}
	color.Green("Schema ready.")

	if cfg.Database.SeedPath == "" {
		color.Yellow("No seed path configured, skipping scenario seeding.")
		return
	}

	color.Cyan("Seeding scenarios from %s...", cfg.Database.SeedPath)
	n, err := repositories.SeedScenariosFromJSON(storage, cfg.Database.SeedPath)
	if err != nil {
		fail("seeding failed: %v", err)
	}
	color.Green("Seeded %d scenarios.", n)
}

func fail(format string, args ...any) {
	color.Red(format, args...)
	os.Exit(1)
}
