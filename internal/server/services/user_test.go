package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/attendance/internal/common"
	"github.com/dmitrijs2005/attendance/internal/server/auth"
	"github.com/dmitrijs2005/attendance/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserService(t *testing.T, rm repomanager.RepositoryManager, h auth.PasswordHasher, issuer TokenIssuer) *UserService {
	t.Helper()
	s, err := NewUserService(nil, rm, h, issuer)
	require.NoError(t, err)
	return s
}

func TestSignup_Success(t *testing.T) {
	users := newFakeUsersRepo()
	s := newUserService(t, &fakeRepoManager{u: users}, &countingHasher{}, fakeIssuer{})

	u, err := s.Signup(context.Background(), "bob", "pw123")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "hashed:pw123", users.users["bob"].PasswordHash, "password must be stored hashed")
}

func TestSignup_MissingFields(t *testing.T) {
	users := newFakeUsersRepo()
	s := newUserService(t, &fakeRepoManager{u: users}, &countingHasher{}, fakeIssuer{})

	for _, c := range [][2]string{{"", ""}, {"bob", ""}, {"", "pw"}} {
		_, err := s.Signup(context.Background(), c[0], c[1])
		require.ErrorIs(t, err, common.ErrorValidation)
		require.ErrorIs(t, err, ErrMissingCredentials)
	}
	assert.Zero(t, users.created)
}

func TestSignup_PasswordTooLong(t *testing.T) {
	s := newUserService(t, &fakeRepoManager{u: newFakeUsersRepo()}, &countingHasher{}, fakeIssuer{})

	_, err := s.Signup(context.Background(), "bob", strings.Repeat("p", auth.MaxPasswordBytes+1))
	require.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestSignup_Duplicate(t *testing.T) {
	s := newUserService(t, &fakeRepoManager{u: newFakeUsersRepo()}, &countingHasher{}, fakeIssuer{})
	ctx := context.Background()

	_, err := s.Signup(ctx, "alice", "a")
	require.NoError(t, err)

	_, err = s.Signup(ctx, "alice", "b")
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
	assert.False(t, errors.Is(err, common.ErrorUnauthorized))
}

func TestSignup_HashError(t *testing.T) {
	users := newFakeUsersRepo()
	h := &countingHasher{}
	s := newUserService(t, &fakeRepoManager{u: users}, h, fakeIssuer{})
	h.hashErr = fmt.Errorf("%w: out of memory", common.ErrHashing)

	_, err := s.Signup(context.Background(), "bob", "pw")
	require.ErrorIs(t, err, common.ErrHashing)
	assert.Zero(t, users.created, "nothing is stored when hashing fails")
}

func TestSignup_StoreError(t *testing.T) {
	users := newFakeUsersRepo()
	users.createErr = fmt.Errorf("%w: %w", common.ErrStoreUnavailable, errBoom)
	s := newUserService(t, &fakeRepoManager{u: users}, &countingHasher{}, fakeIssuer{})

	_, err := s.Signup(context.Background(), "bob", "pw")
	require.ErrorIs(t, err, common.ErrStoreUnavailable)
	assert.Regexp(t, regexp.MustCompile(`error creating user: .*boom`), err.Error())
}

func TestNewUserService_HashError(t *testing.T) {
	_, err := NewUserService(nil, &fakeRepoManager{}, &countingHasher{hashErr: errBoom}, fakeIssuer{})
	require.ErrorIs(t, err, errBoom)
}

func TestLogin_Success(t *testing.T) {
	s := newUserService(t, &fakeRepoManager{u: newFakeUsersRepo()}, &countingHasher{}, fakeIssuer{})
	ctx := context.Background()

	_, err := s.Signup(ctx, "bob", "pw123")
	require.NoError(t, err)

	token, err := s.Login(ctx, "bob", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "token-for-bob", token)
}

func TestLogin_UnknownUserAndWrongPasswordLookAlike(t *testing.T) {
	h := &countingHasher{}
	s := newUserService(t, &fakeRepoManager{u: newFakeUsersRepo()}, h, fakeIssuer{})
	ctx := context.Background()

	_, err := s.Signup(ctx, "bob", "pw123")
	require.NoError(t, err)

	before := h.verifies
	_, errUnknown := s.Login(ctx, "nobody", "pw123")
	require.Equal(t, before+1, h.verifies, "a hash verification runs even for unknown users")

	_, errWrong := s.Login(ctx, "bob", "nope")

	require.ErrorIs(t, errUnknown, common.ErrorUnauthorized)
	require.ErrorIs(t, errWrong, common.ErrorUnauthorized)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestLogin_MissingFields(t *testing.T) {
	s := newUserService(t, &fakeRepoManager{u: newFakeUsersRepo()}, &countingHasher{}, fakeIssuer{})

	_, err := s.Login(context.Background(), "bob", "")
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestLogin_StoreError(t *testing.T) {
	users := newFakeUsersRepo()
	users.getErr = fmt.Errorf("%w: %w", common.ErrStoreUnavailable, errBoom)
	s := newUserService(t, &fakeRepoManager{u: users}, &countingHasher{}, fakeIssuer{})

	_, err := s.Login(context.Background(), "bob", "pw")
	require.ErrorIs(t, err, common.ErrStoreUnavailable)
	assert.False(t, errors.Is(err, common.ErrorUnauthorized))
}

func TestLogin_IssueError(t *testing.T) {
	s := newUserService(t, &fakeRepoManager{u: newFakeUsersRepo()}, &countingHasher{}, fakeIssuer{err: errBoom})
	ctx := context.Background()

	_, err := s.Signup(ctx, "bob", "pw")
	require.NoError(t, err)

	_, err = s.Login(ctx, "bob", "pw")
	require.ErrorIs(t, err, common.ErrorInternal)
}

// Runs against a real SQLite store so the UNIQUE constraint decides the race.
func TestSignup_ConcurrentSameUsername(t *testing.T) {
	ctx := context.Background()

	db, err := sql.Open(repomanager.DriverSQLite, filepath.Join(t.TempDir(), "signup.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	rm := &repomanager.SQLiteRepositoryManager{}
	require.NoError(t, rm.RunMigrations(ctx, db))

	tokens, err := auth.NewTokenManager([]byte("k"), time.Hour)
	require.NoError(t, err)
	s, err := NewUserService(db, rm, &auth.BcryptHasher{Cost: bcrypt.MinCost}, tokens)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Signup(ctx, "alice", fmt.Sprintf("pw-%d", i))
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, common.ErrorAlreadyExists):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, dup)
}

func TestSignup_UsernameIsTrimmed(t *testing.T) {
	users := newFakeUsersRepo()
	s := newUserService(t, &fakeRepoManager{u: users}, &countingHasher{}, fakeIssuer{})
	ctx := context.Background()

	_, err := s.Signup(ctx, "   ", "x")
	require.ErrorIs(t, err, ErrMissingCredentials)
	assert.Zero(t, users.created)

	_, err = s.Signup(ctx, "  bob ", "pw")
	require.NoError(t, err)
	assert.Contains(t, users.users, "bob")

	token, err := s.Login(ctx, "bob  ", "pw")
	require.NoError(t, err)
	assert.Equal(t, "token-for-bob", token)

	_, err = s.Signup(ctx, "bob", "other")
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}
