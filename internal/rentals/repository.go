package rentals

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HistoryEntry is one rental row from the history store.
type HistoryEntry struct {
	RentalID  string     `json:"rental_id"`
	UserID    string     `json:"user_id"`
	VehicleID string     `json:"vehicle_id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Distance  float64    `json:"distance"`
	FinalCost *float64   `json:"final_cost,omitempty"`
	Status    string     `json:"status"`
}

// PostgresRepository persists rental history in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a repository over the given pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the rentals table when it does not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS rentals (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL,
			vehicle_id  TEXT NOT NULL,
			start_time  TIMESTAMPTZ NOT NULL,
			end_time    TIMESTAMPTZ,
			distance    DOUBLE PRECISION NOT NULL DEFAULT 0,
			final_cost  DOUBLE PRECISION,
			status      TEXT NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure rentals schema: %w", err)
	}
	return nil
}

// SaveRental upserts the rental's current state.
func (r *PostgresRepository) SaveRental(ctx context.Context, rental *Rental) error {
	query := `
		INSERT INTO rentals (id, user_id, vehicle_id, start_time, end_time, distance, final_cost, status, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (id) DO UPDATE SET
			end_time   = EXCLUDED.end_time,
			distance   = EXCLUDED.distance,
			final_cost = EXCLUDED.final_cost,
			status     = EXCLUDED.status,
			updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query,
		rental.ID,
		rental.User.ID,
		rental.Vehicle.ID,
		rental.StartTime,
		rental.EndTime,
		rental.Usage.Distance,
		rental.Usage.FinalCost,
		string(rental.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to save rental: %w", err)
	}
	return nil
}

// HistoryForUser returns the user's rentals, newest first.
func (r *PostgresRepository) HistoryForUser(ctx context.Context, userID string) ([]HistoryEntry, error) {
	query := `
		SELECT id, user_id, vehicle_id, start_time, end_time, distance, final_cost, status
		FROM rentals
		WHERE user_id = $1
		ORDER BY start_time DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rental history: %w", err)
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0)
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.RentalID, &e.UserID, &e.VehicleID, &e.StartTime, &e.EndTime, &e.Distance, &e.FinalCost, &e.Status); err != nil {
			return nil, fmt.Errorf("failed to scan rental row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// MemoryRepository keeps rental history in process for deployments
// without PostgreSQL. Guards itself: history reads arrive on request
// goroutines that do not hold the engine mutex.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]HistoryEntry
	order   []string
}

// NewMemoryRepository creates an empty in-memory history store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{entries: make(map[string]HistoryEntry)}
}

// SaveRental upserts the rental's current state.
func (r *MemoryRepository) SaveRental(_ context.Context, rental *Rental) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, seen := r.entries[rental.ID]; !seen {
		r.order = append(r.order, rental.ID)
	}
	r.entries[rental.ID] = HistoryEntry{
		RentalID:  rental.ID,
		UserID:    rental.User.ID,
		VehicleID: rental.Vehicle.ID,
		StartTime: rental.StartTime,
		EndTime:   rental.EndTime,
		Distance:  rental.Usage.Distance,
		FinalCost: rental.Usage.FinalCost,
		Status:    string(rental.Status),
	}
	return nil
}

// HistoryForUser returns the user's rentals, newest first.
func (r *MemoryRepository) HistoryForUser(_ context.Context, userID string) ([]HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]HistoryEntry, 0)
	for i := len(r.order) - 1; i >= 0; i-- {
		e := r.entries[r.order[i]]
		if e.UserID == userID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}
