package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var seedClear bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if seedClear {
			// Timesheets reference both other tables, so they go first.
			for _, table := range []string{"timesheets", "project_codes", "users"} {
				if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		users := []struct {
			Username string
			Role     string
		}{
			{"alice", "user"},
			{"dave", "user"},
			{"bob", "manager"},
		}

		for _, u := range users {
			var exists int
			if err := db.QueryRow("SELECT 1 FROM users WHERE username = $1", u.Username).Scan(&exists); err == nil {
				fmt.Printf("user %s already exists, skipping\n", u.Username)
				continue
			}

			if _, err := db.Exec(
				"INSERT INTO users (username, role, created_at, updated_at) VALUES ($1, $2, now(), now())",
				u.Username, u.Role,
			); err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Username, err)
			}
			fmt.Printf("Seeded user: %s (%s)\n", u.Username, u.Role)
		}

		projectCodes := []struct {
			Code string
			Desc string
		}{
			{"ENG-1", "Platform engineering"},
			{"ENG-2", "Internal tooling"},
			{"OPS-1", "Production support"},
			{"ADM-1", "Administration and meetings"},
		}

		for _, p := range projectCodes {
			var exists int
			if err := db.QueryRow("SELECT 1 FROM project_codes WHERE code = $1", p.Code).Scan(&exists); err == nil {
				fmt.Printf("project code %s already exists, skipping\n", p.Code)
				continue
			}

			if _, err := db.Exec(
				"INSERT INTO project_codes (code, description, created_at, updated_at) VALUES ($1, $2, now(), now())",
				p.Code, p.Desc,
			); err != nil {
				log.Fatalf("failed to insert project code %s: %v", p.Code, err)
			}
			fmt.Printf("Seeded project code: %s\n", p.Code)
		}

		fmt.Println("Seeding complete")
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedClear, "clear", false, "Clear existing data before seeding")
}
