package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"blockday/internal/model"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) GetSchedule(ctx context.Context, date string) (model.DaySchedule, error) {
	var out model.DaySchedule
	var updated string
	row := r.db.QueryRowContext(ctx, `
		SELECT date, template_id, updated_at FROM day_schedules WHERE date = ?`, date)
	if err := row.Scan(&out.Date, &out.TemplateID, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.DaySchedule{}, ErrNotFound
		}
		return model.DaySchedule{}, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, template_block_id, title, category_id, description, start_at, end_at, status, completed_at
		FROM time_blocks WHERE schedule_date = ? ORDER BY start_at ASC`, date)
	if err != nil {
		return model.DaySchedule{}, err
	}
	defer rows.Close()

	out.Blocks = make([]model.TimeBlock, 0)
	for rows.Next() {
		block, scanErr := scanBlock(rows)
		if scanErr != nil {
			return model.DaySchedule{}, scanErr
		}
		out.Blocks = append(out.Blocks, block)
	}
	return out, rows.Err()
}

// SaveSchedule stores the schedule as one document: the day row is
// upserted and its block set replaced inside a single transaction.
func (r *SQLiteRepository) SaveSchedule(ctx context.Context, sched model.DaySchedule) error {
	if err := sched.Validate(); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save schedule: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO day_schedules (date, template_id, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET template_id = excluded.template_id, updated_at = excluded.updated_at`,
		sched.Date, sched.TemplateID, mustTime(time.Now()),
	); err != nil {
		return fmt.Errorf("upsert schedule %s: %w", sched.Date, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM time_blocks WHERE schedule_date = ?`, sched.Date); err != nil {
		return fmt.Errorf("clear blocks %s: %w", sched.Date, err)
	}

	for _, b := range sched.Blocks {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO time_blocks (id, schedule_date, template_block_id, title, category_id, description, start_at, end_at, status, completed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.ID, sched.Date, b.TemplateBlockID, b.Title, b.CategoryID, b.Description,
			mustTime(b.Start), mustTime(b.End), string(b.Status), nullTime(b.CompletedAt),
		); err != nil {
			return fmt.Errorf("insert block %s: %w", b.ID, err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRepository) DeleteSchedule(ctx context.Context, date string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM day_schedules WHERE date = ?`, date)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListDates(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT date FROM day_schedules ORDER BY date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		out = append(out, date)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ReplaceIntents(ctx context.Context, date string, intents []model.NotificationIntent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace intents: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM notification_intents WHERE date = ?`, date); err != nil {
		return fmt.Errorf("clear intents %s: %w", date, err)
	}
	for _, intent := range intents {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO notification_intents (id, date, target_block_id, kind, scheduled_at, title, body)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			intent.ID, intent.Date, intent.TargetBlockID, string(intent.Kind),
			mustTime(intent.ScheduledAt), intent.Title, intent.Body,
		); err != nil {
			return fmt.Errorf("insert intent %s: %w", intent.ID, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepository) ListIntents(ctx context.Context, date string) ([]model.NotificationIntent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, target_block_id, kind, scheduled_at, title, body
		FROM notification_intents WHERE date = ? ORDER BY scheduled_at ASC`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.NotificationIntent, 0)
	for rows.Next() {
		intent, scanErr := scanIntent(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, intent)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ClearIntents(ctx context.Context, date string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notification_intents WHERE date = ?`, date)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBlock(s scanner) (model.TimeBlock, error) {
	var out model.TimeBlock
	var start, end, status string
	var completed sql.NullString
	if err := s.Scan(&out.ID, &out.TemplateBlockID, &out.Title, &out.CategoryID, &out.Description,
		&start, &end, &status, &completed); err != nil {
		return model.TimeBlock{}, err
	}
	var err error
	if out.Start, err = parseRequiredTime(start); err != nil {
		return model.TimeBlock{}, err
	}
	if out.End, err = parseRequiredTime(end); err != nil {
		return model.TimeBlock{}, err
	}
	if out.CompletedAt, err = parseNullableTime(completed); err != nil {
		return model.TimeBlock{}, err
	}
	out.Status = model.BlockStatus(status)
	return out, nil
}

func scanIntent(s scanner) (model.NotificationIntent, error) {
	var out model.NotificationIntent
	var kind, scheduled string
	if err := s.Scan(&out.ID, &out.Date, &out.TargetBlockID, &kind, &scheduled, &out.Title, &out.Body); err != nil {
		return model.NotificationIntent{}, err
	}
	at, err := parseRequiredTime(scheduled)
	if err != nil {
		return model.NotificationIntent{}, err
	}
	out.Kind = model.IntentKind(kind)
	out.ScheduledAt = at
	return out, nil
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC().Format(sqliteTimeLayout)
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := time.Parse(sqliteTimeLayout, v.String)
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func checkRowsAffected(res sql.Result) error {
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}
