package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cardwise/coach_api/internal/config"
	"github.com/cardwise/coach_api/internal/database"
	"github.com/cardwise/coach_api/internal/generator"
	"github.com/cardwise/coach_api/internal/repository"
	"github.com/cardwise/coach_api/internal/service"
)

// main seeds the database with a synthetic dataset and, optionally, an
// admin user. Intended for local development and demo environments.
func main() {
	agents := flag.Int("agents", generator.DefaultConfig.Agents, "number of agents to generate")
	cards := flag.Int("cards", generator.DefaultConfig.Cards, "number of cards to generate")
	sales := flag.Int("sales", generator.DefaultConfig.Sales, "number of sales to generate")
	seed := flag.Int64("seed", generator.DefaultConfig.Seed, "random seed (non-positive uses current time)")
	adminEmail := flag.String("admin-email", "", "create an admin user with this email")
	adminPassword := flag.String("admin-password", "", "password for the admin user")
	adminName := flag.String("admin-name", "Administrator", "display name for the admin user")
	flag.Parse()

	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	db, err := database.Connect(&cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	agentRepo := repository.NewAgentRepository(db)
	cardRepo := repository.NewCardRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)

	datasetSvc := service.NewDatasetService(agentRepo, cardRepo, saleRepo, nil, nil)

	stats, err := datasetSvc.Generate(context.Background(), generator.Config{
		Agents: *agents,
		Cards:  *cards,
		Sales:  *sales,
		Seed:   *seed,
	})
	if err != nil {
		log.Error().Err(err).Msg("dataset generation failed")
		os.Exit(1)
	}

	log.Info().
		Int("agents", stats.Agents).
		Int("cards", stats.Cards).
		Int("sales", stats.Sales).
		Msg("dataset seeded")

	if *adminEmail != "" {
		if *adminPassword == "" {
			fmt.Fprintln(os.Stderr, "admin-password is required when admin-email is set")
			os.Exit(1)
		}
		adminAuthSvc := service.NewAdminAuthService(adminRepo)
		if err := adminAuthSvc.CreateAdmin(*adminEmail, *adminPassword, *adminName); err != nil {
			log.Error().Err(err).Msg("admin creation failed")
			os.Exit(1)
		}
		log.Info().Str("email", *adminEmail).Msg("admin user created")
	}
}
