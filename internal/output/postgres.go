package output

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimzijun/shechill-order-summary/internal/models"
)

// PostgresOutput persists both report tables keyed by report date. Each
// refresh replaces that date's rows wholesale so re-exports stay idempotent.
type PostgresOutput struct {
	pool *pgxpool.Pool
}

func NewPostgresOutput(ctx context.Context, config *models.DatabaseConfig) (*PostgresOutput, error) {
	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		config.User, config.Password, config.Host, config.Port, config.DBName, config.SSLMode,
	)

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	p := &PostgresOutput{pool: pool}
	if err := p.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

func (p *PostgresOutput) ensureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS pickup_schedule_rows (
			report_date date NOT NULL,
			fulfillment_time text,
			recipient_name text,
			recipient_email text,
			recipient_phone text,
			item_name text,
			variation_name text,
			item_quantity double precision
		)`,
		`CREATE TABLE IF NOT EXISTS kitchen_production_rows (
			report_date date NOT NULL,
			item_name text NOT NULL,
			variation_name text,
			item_quantity double precision
		)`,
	}
	for _, stmt := range statements {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("error creating report tables: %w", err)
		}
	}
	return nil
}

func (p *PostgresOutput) WriteReport(report models.DayReport) error {
	ctx := context.Background()

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	date := report.Date.String()
	for _, table := range []string{"pickup_schedule_rows", "kitchen_production_rows"} {
		if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE report_date = $1", table), date); err != nil {
			return fmt.Errorf("failed to clear %s for %s: %w", table, date, err)
		}
	}

	schedule := report.Schedule
	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"pickup_schedule_rows"},
		[]string{
			"report_date", "fulfillment_time", "recipient_name", "recipient_email",
			"recipient_phone", "item_name", "variation_name", "item_quantity",
		},
		pgx.CopyFromSlice(len(schedule), func(i int) ([]interface{}, error) {
			row := schedule[i]
			return []interface{}{
				date,
				row.FulfillmentTime(),
				row.RecipientName,
				row.RecipientEmail,
				row.RecipientPhone,
				row.ItemName,
				row.VariationName,
				row.Quantity.Ptr(),
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to insert schedule rows for %s: %w", date, err)
	}

	production := report.Production
	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"kitchen_production_rows"},
		[]string{"report_date", "item_name", "variation_name", "item_quantity"},
		pgx.CopyFromSlice(len(production), func(i int) ([]interface{}, error) {
			row := production[i]
			return []interface{}{
				date,
				row.ItemName,
				row.VariationName,
				row.Quantity.Ptr(),
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to insert production rows for %s: %w", date, err)
	}

	return tx.Commit(ctx)
}

func (p *PostgresOutput) Close() error {
	p.pool.Close()
	return nil
}
