package attendance

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/attendance/internal/common"
	"github.com/dmitrijs2005/attendance/internal/dbx"
	"github.com/dmitrijs2005/attendance/internal/server/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, rec *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO attendance (name, date, marked_by) VALUES (?, ?, ?) RETURNING id`,
		rec.Name, rec.Date, nullID(rec.MarkedBy)).Scan(&rec.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to insert attendance: %w", common.ErrStoreUnavailable, err)
	}
	return rec, nil
}

func (r *SQLiteRepository) ListByDate(ctx context.Context, date string) ([]models.AttendanceRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, date, marked_by FROM attendance WHERE date = ? ORDER BY id`, date)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list attendance: %w", common.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	return scanRecords(rows)
}
