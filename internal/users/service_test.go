package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/biddergod/users-service/pkg/db/models"
	"github.com/biddergod/users-service/pkg/enums"
	pkgerrors "github.com/biddergod/users-service/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  cognito_sub TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  first_name TEXT,
  last_name TEXT,
  reputation_score INTEGER NOT NULL DEFAULT 0,
  average_rating REAL NOT NULL DEFAULT 0,
  total_reviews INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func seedUser(t *testing.T, repo *Repository, sub, email string) *models.User {
	t.Helper()
	user, err := repo.Create(context.Background(), &models.User{CognitoSub: sub, Email: email})
	require.NoError(t, err)
	return user
}

func TestNewServiceRequiresRepo(t *testing.T) {
	_, err := NewService(nil)
	if err == nil {
		t.Fatal("expected error creating service without repo")
	}
}

func TestServiceGetByID(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	svc, err := NewService(repo)
	require.NoError(t, err)

	seeded := seedUser(t, repo, "sub-1", "one@example.com")

	dto, err := svc.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	require.Equal(t, seeded.ID, dto.ID)
	require.Equal(t, "one@example.com", dto.Email)
	require.Equal(t, enums.TrustLevelNew, dto.TrustLevel)
}

func TestServiceGetByIDNotFound(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	svc, err := NewService(repo)
	require.NoError(t, err)

	_, gotErr := svc.GetByID(context.Background(), 9999)
	if gotErr == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", gotErr)
	}
}

func TestServiceGetByIDsSkipsUnknown(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	svc, err := NewService(repo)
	require.NoError(t, err)

	one := seedUser(t, repo, "sub-1", "one@example.com")
	two := seedUser(t, repo, "sub-2", "two@example.com")

	result, err := svc.GetByIDs(context.Background(), []int64{one.ID, two.ID, 9999})
	require.NoError(t, err)
	require.Equal(t, 3, result.Requested)
	require.Equal(t, 2, result.Found)
	require.Len(t, result.Users, 2)
}

func TestServiceGetByIDsDedupes(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	svc, err := NewService(repo)
	require.NoError(t, err)

	one := seedUser(t, repo, "sub-1", "one@example.com")

	result, err := svc.GetByIDs(context.Background(), []int64{one.ID, one.ID, one.ID})
	require.NoError(t, err)
	require.Equal(t, 3, result.Requested)
	require.Equal(t, 1, result.Found)
}

func TestServiceUpdateProfile(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	svc, err := NewService(repo)
	require.NoError(t, err)

	seeded := seedUser(t, repo, "sub-1", "one@example.com")

	first := "Dana"
	dto, err := svc.UpdateProfile(context.Background(), seeded.ID, UpdateProfileInput{FirstName: &first})
	require.NoError(t, err)
	require.NotNil(t, dto.FirstName)
	require.Equal(t, "Dana", *dto.FirstName)
	require.Equal(t, "one@example.com", dto.Email)
}

func TestServiceUpdateProfileEmailConflict(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	svc, err := NewService(repo)
	require.NoError(t, err)

	seedUser(t, repo, "sub-1", "one@example.com")
	second := seedUser(t, repo, "sub-2", "two@example.com")

	taken := "one@example.com"
	_, gotErr := svc.UpdateProfile(context.Background(), second.ID, UpdateProfileInput{Email: &taken})
	if gotErr == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %v", gotErr)
	}
}

func TestServiceUpdateProfileNotFound(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	svc, err := NewService(repo)
	require.NoError(t, err)

	email := "ghost@example.com"
	_, gotErr := svc.UpdateProfile(context.Background(), 4242, UpdateProfileInput{Email: &email})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", gotErr)
	}
}
