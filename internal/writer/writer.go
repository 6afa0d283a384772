// Package writer persists emitted alerts to Postgres for history and
// later review. Persistence is optional; the engine runs without a
// database when no DSN is configured.
package writer

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mgreco/oddsedge/pkg/models"
)

// AlertWriter writes alert history to the alerts table
type AlertWriter struct {
	db *sql.DB
}

// NewAlertWriter creates a new alert writer
func NewAlertWriter(db *sql.DB) *AlertWriter {
	return &AlertWriter{
		db: db,
	}
}

// WriteAlert inserts a single alert
func (w *AlertWriter) WriteAlert(ctx context.Context, alert models.EVAlert) error {
	query := `
		INSERT INTO alerts (
			id, sport, event_key, home_team, away_team,
			market_type, period, side, line,
			fair_probability, comparison_price, comparison_decimal,
			ev_percent, suspect, description,
			data_age_seconds, evaluated_at, emitted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	var line sql.NullFloat64
	if alert.Line != nil {
		line = sql.NullFloat64{Float64: *alert.Line, Valid: true}
	}

	_, err := w.db.ExecContext(
		ctx,
		query,
		alert.ID,
		alert.Sport,
		alert.EventKey,
		alert.HomeTeam,
		alert.AwayTeam,
		string(alert.MarketType),
		string(alert.Period),
		string(alert.Side),
		line,
		alert.FairProbability,
		alert.ComparisonPrice,
		alert.ComparisonDecimal,
		alert.EVPercent,
		alert.Suspect,
		alert.Description,
		alert.DataAgeSeconds,
		alert.EvaluatedAt,
		alert.EmittedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}

	return nil
}

// WriteAlerts writes a batch of alerts in one transaction
func (w *AlertWriter) WriteAlerts(ctx context.Context, alerts []models.EVAlert) error {
	if len(alerts) == 0 {
		return nil
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if commit doesn't happen

	query := `
		INSERT INTO alerts (
			id, sport, event_key, home_team, away_team,
			market_type, period, side, line,
			fair_probability, comparison_price, comparison_decimal,
			ev_percent, suspect, description,
			data_age_seconds, evaluated_at, emitted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	for _, alert := range alerts {
		var line sql.NullFloat64
		if alert.Line != nil {
			line = sql.NullFloat64{Float64: *alert.Line, Valid: true}
		}

		_, err = tx.ExecContext(
			ctx,
			query,
			alert.ID,
			alert.Sport,
			alert.EventKey,
			alert.HomeTeam,
			alert.AwayTeam,
			string(alert.MarketType),
			string(alert.Period),
			string(alert.Side),
			line,
			alert.FairProbability,
			alert.ComparisonPrice,
			alert.ComparisonDecimal,
			alert.EVPercent,
			alert.Suspect,
			alert.Description,
			alert.DataAgeSeconds,
			alert.EvaluatedAt,
			alert.EmittedAt,
		)

		if err != nil {
			return fmt.Errorf("failed to insert alert: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RecentAlerts returns the most recent alerts for a sport, newest first
func (w *AlertWriter) RecentAlerts(ctx context.Context, sport string, limit int) ([]models.EVAlert, error) {
	query := `
		SELECT id, sport, event_key, home_team, away_team,
		       market_type, period, side, line,
		       fair_probability, comparison_price, comparison_decimal,
		       ev_percent, suspect, description,
		       data_age_seconds, evaluated_at, emitted_at
		FROM alerts
		WHERE sport = $1
		ORDER BY emitted_at DESC
		LIMIT $2
	`

	rows, err := w.db.QueryContext(ctx, query, sport, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.EVAlert
	for rows.Next() {
		var (
			alert      models.EVAlert
			id         string
			marketType string
			period     string
			side       string
			line       sql.NullFloat64
		)

		err := rows.Scan(
			&id,
			&alert.Sport,
			&alert.EventKey,
			&alert.HomeTeam,
			&alert.AwayTeam,
			&marketType,
			&period,
			&side,
			&line,
			&alert.FairProbability,
			&alert.ComparisonPrice,
			&alert.ComparisonDecimal,
			&alert.EVPercent,
			&alert.Suspect,
			&alert.Description,
			&alert.DataAgeSeconds,
			&alert.EvaluatedAt,
			&alert.EmittedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}

		alert.ID = id
		alert.MarketType = models.MarketType(marketType)
		alert.Period = models.Period(period)
		alert.Side = models.Side(side)
		if line.Valid {
			v := line.Float64
			alert.Line = &v
		}

		alerts = append(alerts, alert)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alerts: %w", err)
	}

	return alerts, nil
}

// PurgeOlderThan deletes alert history older than the cutoff
func (w *AlertWriter) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := w.db.ExecContext(ctx, `DELETE FROM alerts WHERE emitted_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge alerts: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
