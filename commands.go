package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rpupo63/blog-backend/api"
	"github.com/rpupo63/blog-backend/config"
	"github.com/rpupo63/blog-backend/database"
	"github.com/rpupo63/blog-backend/models"
)

var (
	envFiles []string
	cfg      map[string]string
)

// setup loads the environment and configures the global logger
func setup() {
	config.Load(envFiles...)
	cfg = config.New()

	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(cfg, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.GetString(cfg, "LOG_FORMAT", "json") == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Migrate(); err != nil {
				return fmt.Errorf("migrating database: %w", err)
			}
			log.Info().Msg("Database migrated")
			return nil
		},
	}
}

func generateCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate typed query helpers and print the column report",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			log.Info().Str("outPath", outPath).Msg("Generating models and query helpers...")
			return models.GenerateModels(db.GetDB(), outPath, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "./query", "output directory for generated code")
	return cmd
}

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Compare database columns with the models",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			mismatches, err := models.GenerateColumnMismatchReport(db.GetDB(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if mismatches > 0 {
				return fmt.Errorf("%d column mismatches found", mismatches)
			}
			return nil
		},
	}
}

func openDatabase() (database.Database, error) {
	log.Info().Str("dbType", config.GetString(cfg, "DB_TYPE", "postgres")).Msg("Connecting to database...")

	gormDB, err := database.Open(cfg)
	if err != nil {
		return database.Database{}, fmt.Errorf("connecting to database: %w", err)
	}
	return database.New(gormDB), nil
}

func runServe() error {
	log.Info().Msg("Initializing app...")

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if config.GetBool(cfg, "DB_AUTO_MIGRATE", false) {
		if err := db.Migrate(); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
		log.Info().Msg("Database migrated")
	}

	// Buffered so the losing sender does not block after shutdown
	errChannel := make(chan error, 2)

	server, err := api.NewServer(db, cfg)
	if err != nil {
		return fmt.Errorf("initializing server: %w", err)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
	return nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
