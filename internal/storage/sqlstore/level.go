package sqlstore

import (
	"context"
	"fmt"

	"copilot-ops/internal/operation"
)

func (s *Storage) ListLevels(ctx context.Context) ([]operation.Level, error) {
	const fn = "storage.sqlstore.ListLevels"

	rows, err := s.db.QueryContext(ctx, `SELECT level_id, name, cat_one, cat_two, cat_three, width, height
		FROM arknights_levels ORDER BY level_id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	defer rows.Close()

	var levels []operation.Level
	for rows.Next() {
		var l operation.Level
		if err := rows.Scan(&l.LevelID, &l.Name, &l.CatOne, &l.CatTwo, &l.CatThree, &l.Width, &l.Height); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", fn, err)
		}
		levels = append(levels, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", fn, err)
	}
	return levels, nil
}

// UpsertLevels inserts or replaces the given levels in one transaction.
func (s *Storage) UpsertLevels(ctx context.Context, levels []operation.Level) error {
	const fn = "storage.sqlstore.UpsertLevels"

	stmt := `INSERT INTO arknights_levels (level_id, name, cat_one, cat_two, cat_three, width, height)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	switch s.driver {
	case DriverMySQL:
		stmt += ` ON DUPLICATE KEY UPDATE name = VALUES(name), cat_one = VALUES(cat_one),
			cat_two = VALUES(cat_two), cat_three = VALUES(cat_three), width = VALUES(width), height = VALUES(height)`
	default:
		stmt += ` ON CONFLICT(level_id) DO UPDATE SET name = excluded.name, cat_one = excluded.cat_one,
			cat_two = excluded.cat_two, cat_three = excluded.cat_three, width = excluded.width, height = excluded.height`
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", fn, err)
	}
	defer tx.Rollback()

	prepared, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return fmt.Errorf("%s: prepare: %w", fn, err)
	}
	defer prepared.Close()

	for _, l := range levels {
		if _, err := prepared.ExecContext(ctx, l.LevelID, l.Name, l.CatOne, l.CatTwo, l.CatThree, l.Width, l.Height); err != nil {
			return fmt.Errorf("%s: level %q: %w", fn, l.LevelID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", fn, err)
	}
	return nil
}
