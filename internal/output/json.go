package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/jimzijun/shechill-order-summary/internal/cloudwriter"
	"github.com/jimzijun/shechill-order-summary/internal/models"
)

// JSONOutput writes line-delimited JSON, one file per report per date.
type JSONOutput struct {
	basePath     string
	folder       string
	cloudFactory cloudwriter.CloudWriterFactory
	cloudBucket  string
}

func NewJSONOutput(cfg *models.Config) (*JSONOutput, error) {
	factory, err := cloudFactoryFor(cfg)
	if err != nil {
		return nil, err
	}
	return &JSONOutput{
		basePath:     cfg.OutputPath,
		folder:       cfg.OutputFolder,
		cloudFactory: factory,
		cloudBucket:  cfg.CloudStorage.BucketName,
	}, nil
}

func (j *JSONOutput) WriteReport(report models.DayReport) error {
	schedule := scheduleRows(report)
	rows := make([]interface{}, 0, len(schedule))
	for _, row := range schedule {
		rows = append(rows, row)
	}
	if err := j.writeFile(fmt.Sprintf("pickup-schedule-%s.json", report.Date), rows); err != nil {
		return err
	}

	production := productionRows(report)
	rows = rows[:0]
	for _, row := range production {
		rows = append(rows, row)
	}
	return j.writeFile(fmt.Sprintf("kitchen-production-%s.json", report.Date), rows)
}

func (j *JSONOutput) writeFile(name string, rows []interface{}) error {
	var w io.Writer
	var closer io.Closer

	if j.cloudFactory != nil {
		cw, err := j.cloudFactory.NewWriter(j.cloudBucket, path.Join(j.folder, name))
		if err != nil {
			return fmt.Errorf("failed to create cloud writer for %s: %w", name, err)
		}
		w, closer = cw, cw
	} else {
		dir := filepath.Join(j.basePath, j.folder)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
		file, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		w, closer = file, file
	}

	enc := json.NewEncoder(w)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			closer.Close()
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return closer.Close()
}

func (j *JSONOutput) Close() error {
	return nil
}
