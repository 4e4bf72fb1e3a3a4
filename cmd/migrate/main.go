package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/Varshinibhargav-17/ExampulseAI/internal/database"
)

func main() {
	var (
		host     = flag.String("host", "localhost", "Database host")
		port     = flag.Int("port", 5432, "Database port")
		username = flag.String("username", "postgres", "Database username")
		password = flag.String("password", "", "Database password")
		dbname   = flag.String("database", "exampulse", "Database name")
		sslmode  = flag.String("sslmode", "disable", "SSL mode")
		command  = flag.String("command", "migrate", "Command to run: migrate, status")
	)
	flag.Parse()

	if envHost := os.Getenv("DB_HOST"); envHost != "" {
		*host = envHost
	}
	if envPort := os.Getenv("DB_PORT"); envPort != "" {
		if p, err := strconv.Atoi(envPort); err == nil {
			*port = p
		}
	}
	if envUsername := os.Getenv("DB_USERNAME"); envUsername != "" {
		*username = envUsername
	}
	if envPassword := os.Getenv("DB_PASSWORD"); envPassword != "" {
		*password = envPassword
	}
	if envDatabase := os.Getenv("DB_DATABASE"); envDatabase != "" {
		*dbname = envDatabase
	}
	if envSSLMode := os.Getenv("DB_SSL_MODE"); envSSLMode != "" {
		*sslmode = envSSLMode
	}

	config := database.GetDefaultConfig()
	config.Host = *host
	config.Port = *port
	config.Username = *username
	config.Password = *password
	config.Database = *dbname
	config.SSLMode = *sslmode

	migrator, err := database.NewMigrator(config)
	if err != nil {
		log.Fatalf("Failed to create migrator: %v", err)
	}
	defer migrator.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch *command {
	case "migrate":
		if err := migrator.Migrate(ctx); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		fmt.Println("Migrations completed successfully")

	case "status":
		status, err := migrator.Status(ctx)
		if err != nil {
			log.Fatalf("Failed to get migration status: %v", err)
		}

		fmt.Println("Migration Status:")
		fmt.Println("=================")
		for _, migration := range status {
			state := "pending"
			if migration.Applied {
				state = fmt.Sprintf("applied at %s", migration.AppliedAt.Format("2006-01-02 15:04:05"))
			}
			fmt.Printf("Version %s: %s\n", migration.Version, state)
		}

	default:
		fmt.Printf("Unknown command: %s\n", *command)
		fmt.Println("Available commands: migrate, status")
		os.Exit(1)
	}
}
