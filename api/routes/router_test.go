package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/biddergod/users-service/internal/feedback"
	"github.com/biddergod/users-service/internal/identity"
	"github.com/biddergod/users-service/internal/reputation"
	"github.com/biddergod/users-service/internal/users"
	pkgAuth "github.com/biddergod/users-service/pkg/auth"
	"github.com/biddergod/users-service/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const routerTestSecret = "router-secret"

type routerFixture struct {
	handler http.Handler
}

func setupRouterTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	usersDDL := `
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
	feedbackDDL := `
CREATE TABLE IF NOT EXISTS feedback (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  reviewer_id INTEGER NOT NULL,
  reviewee_id INTEGER NOT NULL,
  rating INTEGER NOT NULL,
  comment TEXT,
  transaction_id TEXT NOT NULL,
  feedback_type TEXT NOT NULL,
  verified INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  UNIQUE (reviewer_id, reviewee_id, transaction_id)
);`
	require.NoError(t, db.Exec(usersDDL).Error)
	require.NoError(t, db.Exec(feedbackDDL).Error)
	return db
}

func newRouterFixture(t *testing.T) routerFixture {
	t.Helper()

	db := setupRouterTestDB(t)
	userRepo := users.NewRepository(db)
	feedbackRepo := feedback.NewRepository(db)

	resolver, err := identity.NewResolver(userRepo, nil)
	require.NoError(t, err)

	userService, err := users.NewService(userRepo)
	require.NoError(t, err)

	reputationService, err := reputation.NewService(userRepo, feedbackRepo, nil, nil)
	require.NoError(t, err)

	feedbackService, err := feedback.NewService(feedbackRepo, userRepo, reputationService)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.Cognito.DevSecret = routerTestSecret

	handler := NewRouter(
		cfg,
		nil,
		nil,
		nil,
		&pkgAuth.HMACVerifier{Secret: []byte(routerTestSecret)},
		resolver,
		userService,
		feedbackService,
		reputationService,
		nil,
	)
	return routerFixture{handler: handler}
}

func (fx routerFixture) token(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(routerTestSecret))
	require.NoError(t, err)
	return raw
}

func (fx routerFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	fx.handler.ServeHTTP(rec, req)
	return rec
}

func TestPublicEndpoints(t *testing.T) {
	fx := newRouterFixture(t)

	rec := fx.do(t, "GET", "/health/live", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "test", rec.Header().Get("X-BidderGod-Env"))

	rec = fx.do(t, "GET", "/api/public/ping", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedEndpointsRequireAuth(t *testing.T) {
	fx := newRouterFixture(t)

	for _, path := range []string{
		"/api/v1/users/me",
		"/api/v1/feedback/given",
		"/api/v1/reputation/top-users",
	} {
		rec := fx.do(t, "GET", path, "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "path %s", path)
	}
}

func TestCurrentUserProvisionsOnFirstCall(t *testing.T) {
	fx := newRouterFixture(t)

	token := fx.token(t, jwt.MapClaims{
		"sub":       "sub-router",
		"token_use": "id",
		"email":     "router@example.com",
	})

	rec := fx.do(t, "GET", "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Data struct {
			ID    int64  `json:"id"`
			Email string `json:"email"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.NotZero(t, payload.Data.ID)
	require.Equal(t, "router@example.com", payload.Data.Email)
}

func TestFeedbackFlowThroughRouter(t *testing.T) {
	fx := newRouterFixture(t)

	reviewerToken := fx.token(t, jwt.MapClaims{"sub": "sub-reviewer", "token_use": "access"})
	revieweeToken := fx.token(t, jwt.MapClaims{"sub": "sub-reviewee", "token_use": "access"})

	// Provision both parties.
	require.Equal(t, http.StatusOK, fx.do(t, "GET", "/api/v1/users/me", reviewerToken, nil).Code)
	rec := fx.do(t, "GET", "/api/v1/users/me", revieweeToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var reviewee struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reviewee))

	canSubmitPath := fmt.Sprintf("/api/v1/feedback/can-submit?revieweeId=%d&transactionId=txn-router", reviewee.Data.ID)
	rec = fx.do(t, "GET", canSubmitPath, reviewerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var canSubmit struct {
		Data struct {
			CanSubmit bool `json:"can_submit"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &canSubmit))
	require.True(t, canSubmit.Data.CanSubmit)

	rec = fx.do(t, "POST", "/api/v1/feedback/", reviewerToken, map[string]any{
		"reviewee_id":    reviewee.Data.ID,
		"rating":         5,
		"transaction_id": "txn-router",
		"feedback_type":  "BUYER_TO_SELLER",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// The triple is now taken.
	rec = fx.do(t, "GET", canSubmitPath, reviewerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &canSubmit))
	require.False(t, canSubmit.Data.CanSubmit)

	rec = fx.do(t, "GET", fmt.Sprintf("/api/v1/reputation/user/%d", reviewee.Data.ID), reviewerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary struct {
		Data struct {
			ReputationScore int `json:"reputation_score"`
			TotalReviews    int `json:"total_reviews"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	require.Equal(t, 110, summary.Data.ReputationScore)
	require.Equal(t, 1, summary.Data.TotalReviews)
}

func TestAdminRoutesGated(t *testing.T) {
	fx := newRouterFixture(t)

	plainToken := fx.token(t, jwt.MapClaims{"sub": "sub-plain", "token_use": "access"})
	adminToken := fx.token(t, jwt.MapClaims{
		"sub":            "sub-admin",
		"token_use":      "access",
		"cognito:groups": []string{"admin"},
	})

	rec := fx.do(t, "POST", "/api/v1/reputation/recalculate-all", plainToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = fx.do(t, "POST", "/api/v1/reputation/recalculate-all", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
