package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jimzijun/shechill-order-summary/internal/factories"
	"github.com/jimzijun/shechill-order-summary/internal/models"
	"github.com/jimzijun/shechill-order-summary/internal/output"
	"github.com/jimzijun/shechill-order-summary/internal/square"
	"github.com/jimzijun/shechill-order-summary/internal/summary"
	"github.com/jimzijun/shechill-order-summary/internal/timeutil"
	"github.com/joho/godotenv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "shechill-order-summary",
	Short: "Builds daily pickup schedules and kitchen production totals from Square orders",
	Long:  `shechill-order-summary pulls recent pickup orders from the Square Orders API, groups them by local pickup date, and exports a per-order pickup schedule and a per-item kitchen production table for each day.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return run(cmd.Context(), cfg)
	},
	SilenceUsage: true,
}

func run(ctx context.Context, cfg *models.Config) error {
	conv, err := timeutil.NewConverter(cfg.Timezone)
	if err != nil {
		return err
	}

	var source summary.OrderSource
	if cfg.Demo {
		source = factories.NewDemoSource(conv, cfg)
	} else {
		client := square.NewClient(cfg.AccessToken, cfg.Environment)
		source = square.NewFetcher(client, cfg)
	}

	svc := summary.NewService(source, conv, cfg)

	dest, err := output.ForConfig(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := dest.Close(); err != nil {
			log.Printf("Error closing output: %v", err)
		}
	}()

	if err := refresh(ctx, svc, dest); err != nil {
		return err
	}
	if !cfg.Continuous {
		return nil
	}

	ticker := time.NewTicker(cfg.CacheTTL)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// a failed refresh keeps the previous export; the next tick retries
			if err := refresh(ctx, svc, dest); err != nil {
				log.Printf("Refresh failed: %v", err)
			}
		}
	}
}

func refresh(ctx context.Context, svc *summary.Service, dest output.Destination) error {
	reports, err := svc.Reports(ctx, time.Now())
	if err != nil {
		return err
	}
	for _, report := range reports {
		if err := dest.WriteReport(report); err != nil {
			return fmt.Errorf("error writing report for %s: %w", report.Date, err)
		}
		log.Printf("Report for %s: %d orders, %d schedule rows, %d production rows",
			report.Date, len(report.Orders), len(report.Schedule), len(report.Production))
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.json)")

	rootCmd.Flags().String("location_id", "", "Square location to report on")
	rootCmd.Flags().String("environment", "production", "Square environment (production or sandbox)")
	rootCmd.Flags().String("timezone", "America/Los_Angeles", "Timezone pickup dates are bucketed in")
	rootCmd.Flags().Int("days_back", 14, "How many days back to search for updated orders")
	rootCmd.Flags().Int("days_ahead", 2, "How many pickup dates to report, today inclusive")
	rootCmd.Flags().Duration("cache_ttl", 2*time.Minute, "How long fetched reports stay fresh")
	rootCmd.Flags().String("output_format", "console", "Report output format (console, csv, json, parquet, postgres)")
	rootCmd.Flags().String("output_path", "", "Directory for file exports")
	rootCmd.Flags().String("output_folder", "", "Subfolder (or object prefix) for file exports")
	rootCmd.Flags().Bool("kafka_enabled", false, "Enable Kafka output")
	rootCmd.Flags().String("kafka_broker_list", "localhost:9092", "Kafka broker list")
	rootCmd.Flags().Bool("continuous", false, "Keep re-running the pipeline on the cache interval")
	rootCmd.Flags().Bool("demo", false, "Generate fake pickup orders instead of calling Square")
	rootCmd.Flags().Bool("show_progress", false, "Show a progress bar while fetching order pages")

	viper.BindPFlags(rootCmd.Flags())
}

func initConfig() {
	// credentials usually live in a .env file, as in the original deployment;
	// a missing file is fine
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
	viper.AutomaticEnv()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
