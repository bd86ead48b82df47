// Package postgres implements the region directory, user directory, and
// transactional persistence store on PostgreSQL via pgx.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aegisflood/alert-service/internal/dispatch"
	"github.com/aegisflood/alert-service/internal/domain"
)

// Store wraps a pgx connection pool. It satisfies the directory, store, and
// dashboard ports of the dispatch, predict, and http packages.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pooled connection and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() { s.pool.Close() }

// CheckReadiness reports whether the database is reachable.
func (s *Store) CheckReadiness(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- RegionDirectory ---

// FindByName resolves free text to a region by case-insensitive substring
// match; the lowest-ID match wins. Returns nil when nothing matches.
func (s *Store) FindByName(ctx context.Context, text string) (*domain.Region, error) {
	var r domain.Region
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, COALESCE(state, ''), COALESCE(population, 0)
		FROM regions
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY id
		LIMIT 1
	`, text).Scan(&r.ID, &r.Name, &r.State, &r.Population)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Get fetches a region by ID. Returns nil when absent.
func (s *Store) Get(ctx context.Context, id int64) (*domain.Region, error) {
	var r domain.Region
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, COALESCE(state, ''), COALESCE(population, 0)
		FROM regions
		WHERE id = $1
	`, id).Scan(&r.ID, &r.Name, &r.State, &r.Population)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns regions in ID order, up to limit.
func (s *Store) List(ctx context.Context, limit int) ([]domain.Region, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, COALESCE(state, ''), COALESCE(population, 0)
		FROM regions
		ORDER BY id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Region
	for rows.Next() {
		var r domain.Region
		if err := rows.Scan(&r.ID, &r.Name, &r.State, &r.Population); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// --- RecipientDirectory ---

// ListActiveCitizens returns every active citizen with their channel
// preferences.
func (s *Store) ListActiveCitizens(ctx context.Context) ([]domain.Recipient, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, phone_number, sms_alerts, whatsapp_alerts
		FROM users
		WHERE role = 'citizen' AND is_active
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Recipient
	for rows.Next() {
		var r domain.Recipient
		if err := rows.Scan(&r.ID, &r.Phone, &r.SMSEnabled, &r.WhatsAppEnabled); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// --- AlertStore ---

// Begin opens an alert persistence transaction.
func (s *Store) Begin(ctx context.Context) (dispatch.AlertTx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &alertTx{tx: tx}, nil
}

type alertTx struct {
	tx pgx.Tx
}

func (t *alertTx) InsertAlert(ctx context.Context, alert domain.Alert) (domain.Alert, error) {
	err := t.tx.QueryRow(ctx, `
		INSERT INTO alerts (region, message, risk_level, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, alert.Region, alert.Message, alert.RiskLevel, alert.CreatedBy).Scan(&alert.ID, &alert.CreatedAt)
	if err != nil {
		return domain.Alert{}, err
	}
	return alert, nil
}

func (t *alertTx) InsertHistory(ctx context.Context, entry domain.AlertHistoryEntry) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO alert_history (region_id, message, risk_level, sent_to_count, created_by)
		VALUES ($1, $2, $3, $4, $5)
	`, entry.RegionID, entry.Message, entry.RiskLevel, entry.SentToCount, entry.CreatedBy)
	return err
}

func (t *alertTx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *alertTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

// ListRecentAlerts returns alerts newest-first, up to limit.
func (s *Store) ListRecentAlerts(ctx context.Context, limit int) ([]domain.Alert, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, region, message, risk_level, COALESCE(created_by, ''), created_at
		FROM alerts
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Alert
	for rows.Next() {
		var a domain.Alert
		if err := rows.Scan(&a.ID, &a.Region, &a.Message, &a.RiskLevel, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// --- PredictionStore ---

// SavePrediction appends an immutable assessment row.
func (s *Store) SavePrediction(ctx context.Context, a domain.RiskAssessment) error {
	factors, err := json.Marshal(a.Factors)
	if err != nil {
		return fmt.Errorf("encode factors: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO flood_predictions (region_id, risk_level, risk_score, factors, valid_until)
		VALUES ($1, $2, $3, $4, $5)
	`, a.RegionID, a.RiskLevel, a.RiskScore, factors, a.ValidUntil)
	return err
}

// --- Dashboard queries ---

// ListRegionSummaries returns regions with their most recent prediction.
func (s *Store) ListRegionSummaries(ctx context.Context, limit int) ([]domain.RegionSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r.id, r.name, COALESCE(r.state, ''), p.risk_level, p.risk_score
		FROM regions r
		LEFT JOIN LATERAL (
			SELECT risk_level, risk_score
			FROM flood_predictions
			WHERE region_id = r.id
			ORDER BY created_at DESC
			LIMIT 1
		) p ON true
		ORDER BY r.id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RegionSummary
	for rows.Next() {
		var (
			item  domain.RegionSummary
			level *string
			score *int
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.State, &level, &score); err != nil {
			return nil, err
		}
		if level != nil {
			rl := domain.RiskLevel(*level)
			item.LatestRiskLevel = &rl
		}
		item.LatestRiskScore = score
		out = append(out, item)
	}
	return out, rows.Err()
}

// Stats returns headline dashboard numbers. Alerts are counted over the
// trailing 24 hours of history entries.
func (s *Store) Stats(ctx context.Context) (domain.DashboardStats, error) {
	var stats domain.DashboardStats
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM users WHERE is_active),
			(SELECT count(*) FROM regions),
			(SELECT count(*) FROM alert_history WHERE sent_at >= now() - interval '24 hours')
	`).Scan(&stats.TotalUsers, &stats.TotalRegions, &stats.AlertsSent24h)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	return stats, nil
}
