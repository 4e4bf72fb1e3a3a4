package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()
	config := DefaultJWTConfig()
	config.KeySize = 1024 // small key keeps tests fast
	manager, err := NewJWTManager(config)
	require.NoError(t, err)
	t.Cleanup(manager.Stop)
	return manager
}

func TestCreateTokenPairAndValidate(t *testing.T) {
	manager := newTestManager(t)
	userID := uuid.New()

	pair, err := manager.CreateTokenPair(userID, "Ada Lovelace", "ada@example.com", RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := manager.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, RoleStudent, claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)

	refreshClaims, err := manager.ValidateToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, refreshClaims.TokenType)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	manager := newTestManager(t)

	_, err := manager.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshToken(t *testing.T) {
	manager := newTestManager(t)
	userID := uuid.New()

	pair, err := manager.CreateTokenPair(userID, "Ada Lovelace", "ada@example.com", RoleProctor)
	require.NoError(t, err)

	accessToken, err := manager.RefreshToken(pair.RefreshToken)
	require.NoError(t, err)

	claims, err := manager.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, RoleProctor, claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)

	// Access tokens must not be usable for refresh.
	_, err = manager.RefreshToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	manager := newTestManager(t)

	pair, err := manager.CreateTokenPair(uuid.New(), "Ada Lovelace", "ada@example.com", RoleStudent)
	require.NoError(t, err)

	claims, err := manager.ValidateToken(pair.AccessToken)
	require.NoError(t, err)

	manager.RevokeToken(claims.TokenID)

	_, err = manager.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestExpiredTokenRejected(t *testing.T) {
	config := DefaultJWTConfig()
	config.KeySize = 1024
	config.AccessTTL = -1 * time.Minute
	manager, err := NewJWTManager(config)
	require.NoError(t, err)
	defer manager.Stop()

	pair, err := manager.CreateTokenPair(uuid.New(), "Ada Lovelace", "ada@example.com", RoleStudent)
	require.NoError(t, err)

	_, err = manager.ValidateToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong password"))
}

func TestAuthenticateMiddleware(t *testing.T) {
	manager := newTestManager(t)
	middleware := NewMiddleware(manager)

	var gotClaims *Claims
	handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	// No token.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/sessions", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid token.
	pair, err := manager.CreateTokenPair(uuid.New(), "Ada Lovelace", "ada@example.com", RoleStudent)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotClaims)
	assert.Equal(t, RoleStudent, gotClaims.Role)

	// Refresh token is not accepted as an access token.
	req = httptest.NewRequest(http.MethodGet, "/v1/sessions", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireProctor(t *testing.T) {
	manager := newTestManager(t)
	middleware := NewMiddleware(manager)

	handler := middleware.RequireProctor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	studentCtx := ContextWithClaims(httptest.NewRequest(http.MethodGet, "/v1/alerts", nil).Context(), &Claims{Role: RoleStudent})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/alerts", nil).WithContext(studentCtx))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	proctorCtx := ContextWithClaims(httptest.NewRequest(http.MethodGet, "/v1/alerts", nil).Context(), &Claims{Role: RoleProctor})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/alerts", nil).WithContext(proctorCtx))
	assert.Equal(t, http.StatusOK, rec.Code)
}
