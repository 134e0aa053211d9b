package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/dmitrijs2005/attendance/internal/common"
	"github.com/dmitrijs2005/attendance/internal/dbx"
	"github.com/dmitrijs2005/attendance/internal/server/models"
	attendancerepo "github.com/dmitrijs2005/attendance/internal/server/repositories/attendance"
	usersrepo "github.com/dmitrijs2005/attendance/internal/server/repositories/users"
)

var errBoom = errors.New("boom")

type fakeUsersRepo struct {
	mu      sync.Mutex
	users   map[string]*models.User
	nextID  int64
	created int

	createErr error
	getErr    error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.users[u.UserName]; ok {
		return nil, common.ErrorAlreadyExists
	}
	f.nextID++
	f.created++
	u.ID = f.nextID
	cp := *u
	f.users[u.UserName] = &cp
	return u, nil
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[userName]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

type fakeAttendanceRepo struct {
	records []models.AttendanceRecord

	createErr error
	listErr   error
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, rec *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	rec.ID = int64(len(f.records) + 1)
	f.records = append(f.records, *rec)
	return rec, nil
}

func (f *fakeAttendanceRepo) ListByDate(ctx context.Context, date string) ([]models.AttendanceRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []models.AttendanceRecord{}
	for _, r := range f.records {
		if r.Date == date {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	a *fakeAttendanceRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository {
	return m.u
}

func (m *fakeRepoManager) Attendance(db dbx.DBTX) attendancerepo.Repository {
	return m.a
}

type fakeIssuer struct {
	err error
}

func (f fakeIssuer) Issue(userID int64, username string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-for-" + username, nil
}

// countingHasher records how many times Verify ran.
type countingHasher struct {
	mu       sync.Mutex
	verifies int
	hashErr  error
}

func (h *countingHasher) Hash(password string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + password, nil
}

func (h *countingHasher) Verify(password, hash string) bool {
	h.mu.Lock()
	h.verifies++
	h.mu.Unlock()
	return hash == "hashed:"+password
}
