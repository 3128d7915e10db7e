package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"copilot-ops/internal/storage"
)

const operationColumns = `id, stage_name, title, details, minimum_required, content, uploader,
	views, hot_score, created_at, updated_at`

func (s *Storage) CreateOperation(ctx context.Context, op storage.StoredOperation) (int64, error) {
	const fn = "storage.sqlstore.CreateOperation"

	now := s.now().Unix()

	stmt := `INSERT INTO copilot_operations (stage_name, title, details, minimum_required, content,
		uploader, views, hot_score, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, 0, 0, ?, ?)`

	res, err := s.db.ExecContext(ctx, stmt, op.StageName, op.Title, op.Details, op.MinimumRequired,
		op.Content, op.Uploader, now, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", fn, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: last insert id: %w", fn, err)
	}
	return id, nil
}

func (s *Storage) UpdateOperation(ctx context.Context, id int64, op storage.StoredOperation) error {
	const fn = "storage.sqlstore.UpdateOperation"

	stmt := `UPDATE copilot_operations SET stage_name = ?, title = ?, details = ?, minimum_required = ?,
		content = ?, updated_at = ? WHERE id = ?`

	res, err := s.db.ExecContext(ctx, stmt, op.StageName, op.Title, op.Details, op.MinimumRequired,
		op.Content, s.now().Unix(), id)
	if err != nil {
		return fmt.Errorf("%s: %w", fn, err)
	}
	return expectRow(res, fn, id)
}

func (s *Storage) DeleteOperation(ctx context.Context, id int64) error {
	const fn = "storage.sqlstore.DeleteOperation"

	res, err := s.db.ExecContext(ctx, `DELETE FROM copilot_operations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", fn, err)
	}
	return expectRow(res, fn, id)
}

func expectRow(res sql.Result, fn string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", fn, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: id=%d: %w", fn, id, storage.ErrOperationNotFound)
	}
	return nil
}

func (s *Storage) GetOperation(ctx context.Context, id int64) (*storage.StoredOperation, error) {
	const fn = "storage.sqlstore.GetOperation"

	row := s.db.QueryRowContext(ctx, `SELECT `+operationColumns+` FROM copilot_operations WHERE id = ?`, id)

	op, err := scanOperation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: id=%d: %w", fn, id, storage.ErrOperationNotFound)
		}
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return op, nil
}

// IncrementViews bumps the view counter and recomputes the hot score.
func (s *Storage) IncrementViews(ctx context.Context, id int64) error {
	const fn = "storage.sqlstore.IncrementViews"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", fn, err)
	}
	defer tx.Rollback()

	var views, createdAt int64
	err = tx.QueryRowContext(ctx, `SELECT views, created_at FROM copilot_operations WHERE id = ?`, id).
		Scan(&views, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: id=%d: %w", fn, id, storage.ErrOperationNotFound)
		}
		return fmt.Errorf("%s: %w", fn, err)
	}

	views++
	score := storage.HotScore(views, time.Unix(createdAt, 0), s.now())

	if _, err := tx.ExecContext(ctx, `UPDATE copilot_operations SET views = ?, hot_score = ? WHERE id = ?`,
		views, score, id); err != nil {
		return fmt.Errorf("%s: %w", fn, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", fn, err)
	}
	return nil
}

func (s *Storage) QueryOperations(ctx context.Context, q storage.OperationQuery) ([]storage.StoredOperation, error) {
	const fn = "storage.sqlstore.QueryOperations"

	q = q.Normalize()
	where, args := keywordFilter(q.Keyword)

	stmt := `SELECT ` + operationColumns + ` FROM copilot_operations` + where +
		` ORDER BY ` + orderClause(q.OrderBy) + ` LIMIT ? OFFSET ?`
	args = append(args, q.Limit, q.Offset())

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	defer rows.Close()

	var ops []storage.StoredOperation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", fn, err)
		}
		ops = append(ops, *op)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", fn, err)
	}
	return ops, nil
}

func (s *Storage) CountOperations(ctx context.Context, q storage.OperationQuery) (int, error) {
	const fn = "storage.sqlstore.CountOperations"

	where, args := keywordFilter(q.Keyword)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM copilot_operations`+where, args...).
		Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", fn, err)
	}
	return total, nil
}

func keywordFilter(keyword string) (string, []any) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return "", nil
	}

	pattern := "%" + escapeLike(keyword) + "%"
	return ` WHERE title LIKE ? ESCAPE '!' OR details LIKE ? ESCAPE '!' OR stage_name LIKE ? ESCAPE '!'`,
		[]any{pattern, pattern, pattern}
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

func orderClause(orderBy string) string {
	switch orderBy {
	case storage.OrderByID:
		return "id DESC"
	case storage.OrderByViews:
		return "views DESC, id DESC"
	default:
		return "hot_score DESC, id DESC"
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOperation(row scanner) (*storage.StoredOperation, error) {
	var (
		op                   storage.StoredOperation
		createdAt, updatedAt int64
	)

	err := row.Scan(&op.ID, &op.StageName, &op.Title, &op.Details, &op.MinimumRequired, &op.Content,
		&op.Uploader, &op.Views, &op.HotScore, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	op.CreatedAt = time.Unix(createdAt, 0).UTC()
	op.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &op, nil
}
