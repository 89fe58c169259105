package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hotel-reviews/config"
	"hotel-reviews/models"
	"hotel-reviews/services"
	"hotel-reviews/storage"
	"hotel-reviews/utils"
)

var (
	configPath string
	sourceDSN  string
	debug      bool

	queryTopic string
	queryHotel string
	queryLimit int
)

var rootCmd = &cobra.Command{
	Use:   "hotel-reviews",
	Short: "Explore hotel reviews by topic and hotel",
	Long: `Loads the hotel reviews dataset once, parses every review's rating
mapping and compares each review's scores with the dataset-wide and
per-hotel averages.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML config file (default: $"+config.ConfigFileEnv+")")
	rootCmd.PersistentFlags().StringVar(&sourceDSN, "source", "", "Dataset source: URL, CSV path, postgres:// or sqlite:// DSN")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// session is one loaded dataset plus what the commands need around it
type session struct {
	cfg     *config.Config
	logger  *utils.Logger
	dataset *models.Dataset
	dash    *services.Dashboard
}

// bootstrap loads config and the dataset. A dataset that cannot be read
// is the one fatal error.
func bootstrap(ctx context.Context) (*session, error) {
	// ================== Bootstrap ====================
	logger := utils.NewLogger()
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("Invalid configuration: %v", err)
		return nil, err
	}
	if sourceDSN != "" {
		cfg.SourceDSN = sourceDSN
	}
	if debug {
		cfg.LogLevel = "debug"
	}
	logger.SetDebug(cfg.Debug())

	logger.Info("Hotel Reviews Explorer")
	logger.Debug("Timeout: %v | Retries: %d | Table: %s", cfg.FetchTimeout(), cfg.MaxRetries, cfg.SourceTable)

	// =================== Source ========================
	src, err := storage.Open(cfg, logger)
	if err != nil {
		logger.Error("Cannot open dataset source: %v", err)
		return nil, err
	}
	defer src.Close()

	// =========== Load, normalize, aggregate ======================
	dataset, err := services.LoadDataset(ctx, src, logger)
	if err != nil {
		logger.Error("Failed to load dataset: %v", err)
		return nil, err
	}
	if len(dataset.Reviews) == 0 {
		logger.Warn("Dataset is empty: nothing to compare")
	}

	return &session{
		cfg:     cfg,
		logger:  logger,
		dataset: dataset,
		dash:    services.NewDashboard(dataset),
	}, nil
}

// query builds the presentation filter from the common flags
func (s *session) query() models.Query {
	limit := queryLimit
	if limit == 0 {
		limit = s.cfg.MaxReviews
	}
	return s.dash.NormalizeQuery(models.Query{Topic: queryTopic, Hotel: queryHotel, Limit: limit})
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&queryTopic, "topic", "", "Topic to show (default: first topic in the dataset)")
	cmd.Flags().StringVar(&queryHotel, "hotel", models.AllHotels, fmt.Sprintf("Hotel to show, or %q for the first review of every hotel", models.AllHotels))
	cmd.Flags().IntVarP(&queryLimit, "limit", "n", 0, fmt.Sprintf("Maximum reviews to show (%d-%d, default from config)", models.MinLimit, models.MaxLimit))
}
