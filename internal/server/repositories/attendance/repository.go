// Package attendance stores attendance marks. Marks are keyed by the free-text
// name; repeated marks for the same name and date are kept as separate rows.
package attendance

import (
	"context"

	"github.com/dmitrijs2005/attendance/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, rec *models.AttendanceRecord) (*models.AttendanceRecord, error)
	ListByDate(ctx context.Context, date string) ([]models.AttendanceRecord, error)
}
