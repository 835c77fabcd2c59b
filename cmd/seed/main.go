// Command main runs the database seeder for Odbyte.
package main

import (
	"flag"
	"log"

	"odbyte/internal/config"
	"odbyte/internal/database"
	"odbyte/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numPrompts := flag.Int("prompts", 120, "Number of prompts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Odbyte database seeder")
	log.Printf("Target: %d users, %d prompts, clean=%v", *numUsers, *numPrompts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:    *numUsers,
		NumPrompts:  *numPrompts,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
