package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/Veins19/MarketBridge/internal/types"
)

// CollaborationRecord is one persisted campaign collaboration run.
type CollaborationRecord struct {
	ID                 int64          `json:"id"`
	CollaborationID    string         `json:"collaboration_id"`
	Query              string         `json:"query"`
	Product            string         `json:"product"`
	Mode               string         `json:"collaboration_mode"`
	TotalRounds        int            `json:"total_rounds"`
	TotalInteractions  int            `json:"total_interactions"`
	FinalDecision      string         `json:"final_decision"`
	StrategicPriority  string         `json:"strategic_priority"`
	SuccessProbability float64        `json:"success_probability"`
	Metadata           map[string]any `json:"metadata,omitempty"`
	Duration           time.Duration  `json:"duration"`
	CreatedAt          time.Time      `json:"created_at"`
}

// ErrCollaborationNotFound is returned when no record matches a lookup.
var ErrCollaborationNotFound = errors.New("collaboration not found")

// CollaborationDAO provides database operations for collaboration records.
type CollaborationDAO interface {
	// Save inserts a new collaboration record.
	Save(ctx context.Context, rec *CollaborationRecord) error

	// GetByCollaborationID retrieves a record by its campaign identifier.
	GetByCollaborationID(ctx context.Context, id string) (*CollaborationRecord, error)

	// ListByProduct lists records for a product, newest first.
	ListByProduct(ctx context.Context, product string, limit int) ([]*CollaborationRecord, error)
}

// collaborationDAO implements CollaborationDAO against SQLite.
type collaborationDAO struct {
	db *DB
}

// NewCollaborationDAO creates a CollaborationDAO backed by db.
func NewCollaborationDAO(db *DB) CollaborationDAO {
	return &collaborationDAO{db: db}
}

func (d *collaborationDAO) Save(ctx context.Context, rec *CollaborationRecord) error {
	metadata := "{}"
	if rec.Metadata != nil {
		raw, err := json.Marshal(rec.Metadata)
		if err != nil {
			return types.WrapError(types.PERSISTENCE_FAILED, "marshalling metadata", err)
		}
		metadata = string(raw)
	}

	const query = `
		INSERT INTO collaborations (
			collaboration_id, query, product, collaboration_mode,
			total_rounds, total_interactions, final_decision,
			strategic_priority, success_probability, metadata, duration_seconds
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := d.db.conn.ExecContext(ctx, query,
		rec.CollaborationID, rec.Query, rec.Product, rec.Mode,
		rec.TotalRounds, rec.TotalInteractions, rec.FinalDecision,
		rec.StrategicPriority, rec.SuccessProbability, metadata,
		rec.Duration.Seconds(),
	)
	if err != nil {
		return types.WrapError(types.PERSISTENCE_FAILED, "inserting collaboration", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		rec.ID = id
	}
	return nil
}

func (d *collaborationDAO) GetByCollaborationID(ctx context.Context, id string) (*CollaborationRecord, error) {
	const query = `
		SELECT id, collaboration_id, query, product, collaboration_mode,
		       total_rounds, total_interactions, final_decision,
		       strategic_priority, success_probability, metadata,
		       duration_seconds, created_at
		FROM collaborations
		WHERE collaboration_id = ?`

	rec, err := scanCollaboration(d.db.conn.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCollaborationNotFound
	}
	return rec, err
}

func (d *collaborationDAO) ListByProduct(ctx context.Context, product string, limit int) ([]*CollaborationRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	const query = `
		SELECT id, collaboration_id, query, product, collaboration_mode,
		       total_rounds, total_interactions, final_decision,
		       strategic_priority, success_probability, metadata,
		       duration_seconds, created_at
		FROM collaborations
		WHERE product = ?
		ORDER BY created_at DESC
		LIMIT ?`

	rows, err := d.db.conn.QueryContext(ctx, query, product, limit)
	if err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "listing collaborations", err)
	}
	defer rows.Close()

	var records []*CollaborationRecord
	for rows.Next() {
		rec, err := scanCollaboration(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "iterating collaborations", err)
	}

	return records, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCollaboration(row rowScanner) (*CollaborationRecord, error) {
	var (
		rec      CollaborationRecord
		metadata string
		seconds  float64
	)

	err := row.Scan(
		&rec.ID, &rec.CollaborationID, &rec.Query, &rec.Product, &rec.Mode,
		&rec.TotalRounds, &rec.TotalInteractions, &rec.FinalDecision,
		&rec.StrategicPriority, &rec.SuccessProbability, &metadata,
		&seconds, &rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "scanning collaboration", err)
	}

	rec.Duration = time.Duration(seconds * float64(time.Second))
	if metadata != "" && metadata != "{}" {
		if err := json.Unmarshal([]byte(metadata), &rec.Metadata); err != nil {
			// Metadata is advisory; a corrupt blob should not hide the record.
			rec.Metadata = nil
		}
	}

	return &rec, nil
}
