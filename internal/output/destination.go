package output

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jimzijun/shechill-order-summary/internal/cloudwriter"
	"github.com/jimzijun/shechill-order-summary/internal/models"
)

// Destination receives one finished day report at a time. Implementations
// are chosen from config and must tolerate being handed the same date again
// on the next refresh cycle.
type Destination interface {
	WriteReport(report models.DayReport) error
	Close() error
}

// ForConfig picks the report destination the way the config asks for it.
func ForConfig(ctx context.Context, cfg *models.Config) (Destination, error) {
	if cfg.KafkaEnabled {
		return NewKafkaOutput(cfg)
	}

	switch cfg.OutputFormat {
	case "", "console":
		return &ConsoleOutput{}, nil
	case "csv":
		return NewCSVOutput(cfg)
	case "json":
		return NewJSONOutput(cfg)
	case "parquet":
		return NewParquetOutput(cfg)
	case "postgres":
		return NewPostgresOutput(ctx, &cfg.Database)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", cfg.OutputFormat)
	}
}

func cloudFactoryFor(cfg *models.Config) (cloudwriter.CloudWriterFactory, error) {
	if cfg.OutputDestination == "local" || cfg.OutputDestination == "" {
		return nil, nil
	}
	switch cfg.CloudStorage.Provider {
	case "s3":
		return cloudwriter.NewS3WriterFactory(cfg.CloudStorage.Region)
	default:
		return nil, fmt.Errorf("unsupported cloud storage provider: %s", cfg.CloudStorage.Provider)
	}
}

// ConsoleOutput prints both tables to stdout.
type ConsoleOutput struct{}

func (c *ConsoleOutput) WriteReport(report models.DayReport) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "\nCustomer Order - %s\t\n", report.Date)
	writeTabbed(w, scheduleHeader)
	for _, row := range report.Schedule {
		writeTabbed(w, scheduleRecord(row))
	}

	fmt.Fprintf(w, "\nKitchen Production - %s\t\n", report.Date)
	writeTabbed(w, productionHeader)
	for _, row := range report.Production {
		writeTabbed(w, productionRecord(row))
	}

	return w.Flush()
}

func (c *ConsoleOutput) Close() error {
	return nil
}

func writeTabbed(w *tabwriter.Writer, record []string) {
	for _, field := range record {
		fmt.Fprintf(w, "%s\t", field)
	}
	fmt.Fprintln(w)
}
