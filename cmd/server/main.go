package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/Varshinibhargav-17/ExampulseAI/internal/database"
	"github.com/Varshinibhargav-17/ExampulseAI/internal/server"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/auth"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/logger"
)

func main() {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	var (
		host              = flag.String("host", envString("SERVER_HOST", "0.0.0.0"), "Server host")
		port              = flag.Int("port", envInt("SERVER_PORT", 8080), "Server port")
		dbHost            = flag.String("db-host", envString("DB_HOST", "localhost"), "Database host")
		dbPort            = flag.Int("db-port", envInt("DB_PORT", 5432), "Database port")
		dbUsername        = flag.String("db-username", envString("DB_USERNAME", "postgres"), "Database username")
		dbPassword        = flag.String("db-password", envString("DB_PASSWORD", ""), "Database password")
		dbName            = flag.String("db-name", envString("DB_DATABASE", "exampulse"), "Database name")
		dbSSLMode         = flag.String("db-ssl-mode", envString("DB_SSL_MODE", "disable"), "Database SSL mode")
		autoMigrate       = flag.Bool("auto-migrate", envBool("DB_AUTO_MIGRATE", true), "Run pending migrations on startup")
		jwtPrivateKeyFile = flag.String("jwt-private-key", envString("JWT_PRIVATE_KEY_FILE", ""), "PEM file with the RSA private key for token signing")
		jwtPublicKeyFile  = flag.String("jwt-public-key", envString("JWT_PUBLIC_KEY_FILE", ""), "PEM file with the RSA public key for token verification")
		cacheBackend      = flag.String("cache-backend", envString("CACHE_BACKEND", "memory"), "Baseline cache backend: memory or redis")
		redisAddr         = flag.String("redis-addr", envString("CACHE_REDIS_ADDR", "localhost:6379"), "Redis address for the redis cache backend")
		retentionSchedule = flag.String("retention-schedule", envString("EVENT_RETENTION_SCHEDULE", "@hourly"), "Cron schedule for the event retention sweep")
		logLevel          = flag.String("log-level", envString("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
		showVersion       = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("ExamPulse Server v%s\n", server.Version)
		os.Exit(0)
	}

	logConfig := logger.DefaultConfig()
	logConfig.Level = logger.ParseLevel(*logLevel)
	logConfig.Version = server.Version
	appLogger := logger.NewLogger(logConfig)
	logger.SetDefault(appLogger)

	config := server.GetDefaultConfig()
	config.Host = *host
	config.Port = *port
	config.Database.Host = *dbHost
	config.Database.Port = *dbPort
	config.Database.Username = *dbUsername
	config.Database.Password = *dbPassword
	config.Database.Database = *dbName
	config.Database.SSLMode = *dbSSLMode
	config.Database.AutoMigrate = *autoMigrate
	config.Cache.Backend = *cacheBackend
	config.Cache.Addr = *redisAddr

	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := database.New(config.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := db.Connect(ctx); err != nil {
		cancel()
		log.Fatalf("Failed to connect to database: %v", err)
	}
	cancel()
	appLogger.WithField("database", *dbName).Info("Database connected")

	jwtConfig := auth.DefaultJWTConfig()
	jwtConfig.Issuer = config.JWTIssuer
	jwtConfig.AccessTTL = config.AccessTokenTTL
	jwtConfig.RefreshTTL = config.RefreshTokenTTL
	if *jwtPrivateKeyFile != "" {
		pem, err := os.ReadFile(*jwtPrivateKeyFile)
		if err != nil {
			log.Fatalf("Failed to read JWT private key: %v", err)
		}
		jwtConfig.PrivateKeyPEM = string(pem)
	}
	if *jwtPublicKeyFile != "" {
		pem, err := os.ReadFile(*jwtPublicKeyFile)
		if err != nil {
			log.Fatalf("Failed to read JWT public key: %v", err)
		}
		jwtConfig.PublicKeyPEM = string(pem)
	}

	tokens, err := auth.NewJWTManager(jwtConfig)
	if err != nil {
		log.Fatalf("Failed to initialize token manager: %v", err)
	}
	defer tokens.Stop()

	sweeper := database.NewRetentionSweeper(db, appLogger)
	if err := sweeper.Start(*retentionSchedule); err != nil {
		log.Fatalf("Failed to start retention sweeper: %v", err)
	}
	defer sweeper.Stop()

	srv, err := server.New(config, db, tokens, appLogger)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	if err := srv.Start(context.Background()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
