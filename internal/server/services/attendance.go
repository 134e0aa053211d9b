package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/attendance/internal/common"
	"github.com/dmitrijs2005/attendance/internal/dbx"
	"github.com/dmitrijs2005/attendance/internal/server/models"
	"github.com/dmitrijs2005/attendance/internal/server/repositories/repomanager"
)

var (
	ErrNameRequired = common.NewValidationError("Name is required")
	ErrInvalidDate  = common.NewValidationError("date must be in YYYY-MM-DD format")
)

// AttendanceService records and lists attendance marks. Any authenticated
// user may mark any name; repeated marks on the same day are all kept.
type AttendanceService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewAttendanceService(db dbx.DBTX, m repomanager.RepositoryManager) *AttendanceService {
	return &AttendanceService{db: db, repomanager: m, now: time.Now}
}

// Today returns the current server date in UTC.
func (s *AttendanceService) Today() string {
	return s.now().UTC().Format(common.DateLayout)
}

// MarkNow records name for the current server date.
func (s *AttendanceService) MarkNow(ctx context.Context, markedBy int64, name string) (*models.AttendanceRecord, error) {
	return s.Mark(ctx, markedBy, name, s.now())
}

// Mark records name for the UTC calendar date of asOf.
func (s *AttendanceService) Mark(ctx context.Context, markedBy int64, name string, asOf time.Time) (*models.AttendanceRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	rec := &models.AttendanceRecord{
		Name:     name,
		Date:     asOf.UTC().Format(common.DateLayout),
		MarkedBy: markedBy,
	}

	repo := s.repomanager.Attendance(s.db)
	rec, err := repo.Create(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("error recording attendance: %w", err)
	}
	return rec, nil
}

// List returns the marks recorded on date (YYYY-MM-DD).
func (s *AttendanceService) List(ctx context.Context, date string) ([]models.AttendanceRecord, error) {
	if _, err := time.Parse(common.DateLayout, date); err != nil {
		return nil, ErrInvalidDate
	}

	repo := s.repomanager.Attendance(s.db)
	recs, err := repo.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("error listing attendance: %w", err)
	}
	return recs, nil
}
