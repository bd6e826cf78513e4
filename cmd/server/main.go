package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Sy5000/coursework.tafe-weatherstation-atm41-restapi/pkg/database"
)

var rootCmd = &cobra.Command{
	Use:   "atm41-api",
	Short: "ATM41 Weather Station REST API",
	Long: `REST API backing the ATM41 weather-station telemetry store:
sensor readings, aggregate and filtered queries, and the user registry
gating writes and deletes.`,
}

func main() {
	logger, err := newLogger()
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	dbManager, err := database.NewDatabaseManager(ctx, logger)
	if err != nil {
		logger.Errorf("Failed to initialize database: %v", err)
		os.Exit(1)
	}
	defer dbManager.Close(ctx)

	ctx = context.WithValue(ctx, "dbManager", dbManager)
	ctx = context.WithValue(ctx, "logger", logger)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func newLogger() (*zap.SugaredLogger, error) {
	if getEnv("DEBUG", "") != "" {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		return logger.Sugar(), nil
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
