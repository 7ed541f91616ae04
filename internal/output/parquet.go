package output

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/jimzijun/shechill-order-summary/internal/cloudwriter"
	"github.com/jimzijun/shechill-order-summary/internal/models"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

type parquetScheduleRow struct {
	ReportDate      string   `parquet:"name=report_date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	FulfillmentTime *string  `parquet:"name=fulfillment_time, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	RecipientName   *string  `parquet:"name=recipient_name, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	RecipientEmail  *string  `parquet:"name=recipient_email, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	RecipientPhone  *string  `parquet:"name=recipient_phone, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	ItemName        *string  `parquet:"name=item_name, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	VariationName   *string  `parquet:"name=variation_name, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	ItemQuantity    *float64 `parquet:"name=item_quantity, type=DOUBLE, repetitiontype=OPTIONAL"`
}

type parquetProductionRow struct {
	ReportDate    string   `parquet:"name=report_date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	ItemName      string   `parquet:"name=item_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	VariationName *string  `parquet:"name=variation_name, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	ItemQuantity  *float64 `parquet:"name=item_quantity, type=DOUBLE, repetitiontype=OPTIONAL"`
}

// ParquetOutput writes one parquet file per report per date.
type ParquetOutput struct {
	basePath     string
	folder       string
	cloudFactory cloudwriter.CloudWriterFactory
	cloudBucket  string
}

func NewParquetOutput(cfg *models.Config) (*ParquetOutput, error) {
	factory, err := cloudFactoryFor(cfg)
	if err != nil {
		return nil, err
	}
	return &ParquetOutput{
		basePath:     cfg.OutputPath,
		folder:       cfg.OutputFolder,
		cloudFactory: factory,
		cloudBucket:  cfg.CloudStorage.BucketName,
	}, nil
}

func (p *ParquetOutput) WriteReport(report models.DayReport) error {
	scheduleName := fmt.Sprintf("pickup-schedule-%s.parquet", report.Date)
	err := p.writeFile(scheduleName, new(parquetScheduleRow), func(pw *writer.ParquetWriter) error {
		for _, row := range scheduleRows(report) {
			fulfillmentTime := row.FulfillmentTime
			rec := parquetScheduleRow{
				ReportDate:     row.ReportDate,
				RecipientName:  row.RecipientName,
				RecipientEmail: row.RecipientEmail,
				RecipientPhone: row.RecipientPhone,
				ItemName:       row.ItemName,
				VariationName:  row.VariationName,
				ItemQuantity:   row.ItemQuantity,
			}
			if fulfillmentTime != "" {
				rec.FulfillmentTime = &fulfillmentTime
			}
			if err := pw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	productionName := fmt.Sprintf("kitchen-production-%s.parquet", report.Date)
	return p.writeFile(productionName, new(parquetProductionRow), func(pw *writer.ParquetWriter) error {
		for _, row := range productionRows(report) {
			rec := parquetProductionRow{
				ReportDate:    row.ReportDate,
				ItemName:      row.ItemName,
				VariationName: row.VariationName,
				ItemQuantity:  row.ItemQuantity,
			}
			if err := pw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *ParquetOutput) writeFile(name string, schema interface{}, write func(*writer.ParquetWriter) error) error {
	fw, err := p.createFile(name)
	if err != nil {
		return err
	}

	pw, err := writer.NewParquetWriter(fw, schema, 4)
	if err != nil {
		fw.Close()
		return fmt.Errorf("failed to create parquet writer for %s: %w", name, err)
	}

	if err := write(pw); err != nil {
		fw.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return fmt.Errorf("failed to finalise %s: %w", name, err)
	}
	return fw.Close()
}

func (p *ParquetOutput) createFile(name string) (source.ParquetFile, error) {
	if p.cloudFactory != nil {
		cw, err := p.cloudFactory.NewWriter(p.cloudBucket, path.Join(p.folder, name))
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud writer for %s: %w", name, err)
		}
		return &cloudParquetFile{cloudWriter: cw}, nil
	}

	dir := filepath.Join(p.basePath, p.folder)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}
	return local.NewLocalFileWriter(filepath.Join(dir, name))
}

func (p *ParquetOutput) Close() error {
	return nil
}

// cloudParquetFile adapts a CloudWriter to the write side of the parquet
// source interface. Reads and end-relative seeks have no cloud counterpart.
type cloudParquetFile struct {
	cloudWriter cloudwriter.CloudWriter
	offset      int64
}

func (c *cloudParquetFile) Open(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *cloudParquetFile) Create(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *cloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	case io.SeekEnd:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *cloudParquetFile) Read(p []byte) (n int, err error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *cloudParquetFile) Write(p []byte) (n int, err error) {
	return c.cloudWriter.Write(p)
}

func (c *cloudParquetFile) Close() error {
	return c.cloudWriter.Close()
}
