package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SnapshotRow is the metadata of one stored snapshot.
type SnapshotRow struct {
	ID        uuid.UUID
	Name      string
	Digest    string
	Entities  int
	Size      int
	CreatedAt time.Time
}

// SnapshotRepo keeps every saved world as a new row; loads return the
// latest row for a name.
type SnapshotRepo struct {
	db *DB
}

func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

func (r *SnapshotRepo) SaveSnapshot(ctx context.Context, name string, data []byte, entities int) error {
	_, err := r.Save(ctx, name, data, entities)
	return err
}

// Save inserts a snapshot and returns its id.
func (r *SnapshotRepo) Save(ctx context.Context, name string, data []byte, entities int) (uuid.UUID, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return uuid.Nil, fmt.Errorf("snapshot id: %w", err)
	}
	_, err = r.db.Pool.Exec(ctx,
		`INSERT INTO world_snapshots (id, name, data, digest, entities, size)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, name, data, Digest(data), entities, len(data),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert snapshot %s: %w", name, err)
	}
	return id, nil
}

func (r *SnapshotRepo) LoadSnapshot(ctx context.Context, name string) ([]byte, error) {
	var (
		data   []byte
		digest string
	)
	err := r.db.Pool.QueryRow(ctx,
		`SELECT data, digest FROM world_snapshots
		 WHERE name = $1
		 ORDER BY created_at DESC
		 LIMIT 1`, name,
	).Scan(&data, &digest)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", name, ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", name, err)
	}
	if Digest(data) != digest {
		return nil, fmt.Errorf("%s: %w", name, ErrDigestMismatch)
	}
	return data, nil
}

// List returns the stored snapshots of name, newest first.
func (r *SnapshotRepo) List(ctx context.Context, name string) ([]SnapshotRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, name, digest, entities, size, created_at
		 FROM world_snapshots
		 WHERE name = $1
		 ORDER BY created_at DESC`, name,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []SnapshotRow
	for rows.Next() {
		var s SnapshotRow
		if err := rows.Scan(&s.ID, &s.Name, &s.Digest, &s.Entities, &s.Size, &s.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// Prune deletes all but the newest keep snapshots of name.
func (r *SnapshotRepo) Prune(ctx context.Context, name string, keep int) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM world_snapshots
		 WHERE name = $1 AND id NOT IN (
		     SELECT id FROM world_snapshots WHERE name = $1
		     ORDER BY created_at DESC LIMIT $2
		 )`, name, keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots %s: %w", name, err)
	}
	return tag.RowsAffected(), nil
}
