package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/jimzijun/shechill-order-summary/internal/cloudwriter"
	"github.com/jimzijun/shechill-order-summary/internal/models"
)

// CSVOutput writes one pickup-schedule file and one kitchen-production file
// per report date, either to the local filesystem or through a cloud writer.
type CSVOutput struct {
	basePath     string
	folder       string
	cloudFactory cloudwriter.CloudWriterFactory
	cloudBucket  string
}

func NewCSVOutput(cfg *models.Config) (*CSVOutput, error) {
	factory, err := cloudFactoryFor(cfg)
	if err != nil {
		return nil, err
	}
	return &CSVOutput{
		basePath:     cfg.OutputPath,
		folder:       cfg.OutputFolder,
		cloudFactory: factory,
		cloudBucket:  cfg.CloudStorage.BucketName,
	}, nil
}

func (c *CSVOutput) WriteReport(report models.DayReport) error {
	schedule := [][]string{scheduleHeader}
	for _, row := range report.Schedule {
		schedule = append(schedule, scheduleRecord(row))
	}
	if err := c.writeFile(fmt.Sprintf("pickup-schedule-%s.csv", report.Date), schedule); err != nil {
		return err
	}

	production := [][]string{productionHeader}
	for _, row := range report.Production {
		production = append(production, productionRecord(row))
	}
	return c.writeFile(fmt.Sprintf("kitchen-production-%s.csv", report.Date), production)
}

func (c *CSVOutput) writeFile(name string, records [][]string) error {
	var w io.Writer
	var closer io.Closer

	if c.cloudFactory != nil {
		cw, err := c.cloudFactory.NewWriter(c.cloudBucket, path.Join(c.folder, name))
		if err != nil {
			return fmt.Errorf("failed to create cloud writer for %s: %w", name, err)
		}
		w, closer = cw, cw
	} else {
		dir := filepath.Join(c.basePath, c.folder)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
		file, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		w, closer = file, file
	}

	csvWriter := csv.NewWriter(w)
	if err := csvWriter.WriteAll(records); err != nil {
		closer.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return closer.Close()
}

func (c *CSVOutput) Close() error {
	return nil
}
