// cmd/seeder/main.go
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/spsmiles/outreach-backend/internal/config"
	"github.com/spsmiles/outreach-backend/internal/db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[Seeder] no .env file found, relying on OS environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Seeder] failed to load config: %v", err)
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		log.Fatal("[Seeder] failed to connect to DB:", err)
	}
	defer conn.Close()

	seedFiles := []string{
		"seed/schema.sql",
		"seed/organizations.sql",
		"seed/schools.sql",
		"seed/contacts.sql",
		"seed/campaigns.sql",
	}

	for _, file := range seedFiles {
		content, err := os.ReadFile(file)
		if err != nil {
			log.Fatalf("failed to read %s: %v", file, err)
		}

		if _, err = conn.Exec(string(content)); err != nil {
			log.Fatalf("failed to execute %s: %v", file, err)
		}
		fmt.Printf("Seeded: %s\n", file)
	}

	fmt.Println("Database seeding completed successfully!")
}
