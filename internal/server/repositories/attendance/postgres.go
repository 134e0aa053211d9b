package attendance

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/attendance/internal/common"
	"github.com/dmitrijs2005/attendance/internal/dbx"
	"github.com/dmitrijs2005/attendance/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rec *models.AttendanceRecord) (*models.AttendanceRecord, error) {

	query :=
		`INSERT INTO attendance (name, date, marked_by)
         VALUES ($1, $2, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, rec.Name, rec.Date, nullID(rec.MarkedBy)).Scan(&rec.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: db error: %w", common.ErrStoreUnavailable, err)
	}

	return rec, nil
}

func (r *PostgresRepository) ListByDate(ctx context.Context, date string) ([]models.AttendanceRecord, error) {
	query :=
		`SELECT id, name, to_char(date, 'YYYY-MM-DD'), marked_by FROM attendance
		 WHERE date = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("%w: db error: %w", common.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

func scanRecords(rows *sql.Rows) ([]models.AttendanceRecord, error) {
	result := make([]models.AttendanceRecord, 0)
	for rows.Next() {
		var (
			rec      models.AttendanceRecord
			markedBy sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Date, &markedBy); err != nil {
			return nil, fmt.Errorf("%w: failed to scan attendance row: %w", common.ErrStoreUnavailable, err)
		}
		rec.MarkedBy = markedBy.Int64
		result = append(result, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate attendance rows: %w", common.ErrStoreUnavailable, err)
	}

	return result, nil
}
