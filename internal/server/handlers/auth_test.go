package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tasklist/internal/models"
	"github.com/iudanet/tasklist/internal/password"
	"github.com/iudanet/tasklist/internal/server/storage"
	"github.com/iudanet/tasklist/internal/server/token"
	"github.com/iudanet/tasklist/pkg/api"
)

const testSecret = "handler-test-secret-with-32-byte"

// testCost keeps bcrypt fast in tests.
const testCost = 4

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// mockUserStorage is a mock implementation of UserStorage for testing
type mockUserStorage struct {
	users     map[string]*models.User // email -> User
	createErr error
	getErr    error
	updateErr error
}

func newMockUserStorage() *mockUserStorage {
	return &mockUserStorage{users: make(map[string]*models.User)}
}

func (m *mockUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.users[user.Email]; exists {
		return storage.ErrEmailExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	user, ok := m.users[email]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStorage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, user := range m.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) UpdateUser(ctx context.Context, user *models.User) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	for email, existing := range m.users {
		if existing.ID == user.ID {
			m.users[email] = user
			return nil
		}
	}
	return storage.ErrUserNotFound
}

func newTestAuthHandler(t *testing.T, users *mockUserStorage) (*AuthHandler, *token.Service) {
	t.Helper()

	tokens, err := token.NewService(testSecret, time.Hour)
	require.NoError(t, err)

	h, err := NewAuthHandler(testLogger(), users, tokens, password.NewHasher(testCost))
	require.NoError(t, err)

	return h, tokens
}

func registerBody(t *testing.T, email, name, pass string) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(api.RegisterRequest{Email: email, Name: name, Password: pass})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func loginBody(t *testing.T, email, pass string) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(api.LoginRequest{Email: email, Password: pass})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestAuthHandler_Register_Success(t *testing.T) {
	users := newMockUserStorage()
	h, tokens := newTestAuthHandler(t, users)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
		registerBody(t, "u1@example.com", "Ada", "Secret1!"))
	w := httptest.NewRecorder()

	h.Register(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp api.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.User)
	assert.Equal(t, "u1@example.com", resp.User.Email)
	assert.Equal(t, "Ada", resp.User.Name)
	assert.True(t, resp.User.IsActive)
	assert.NotEmpty(t, resp.User.ID)

	// The issued token's subject is the new account's id.
	claims, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID())
	assert.Equal(t, "u1@example.com", claims.Email)

	// The password hash never appears in the response.
	assert.NotContains(t, w.Body.String(), "password")
}

func TestAuthHandler_Register_NormalizesEmail(t *testing.T) {
	users := newMockUserStorage()
	h, _ := newTestAuthHandler(t, users)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
		registerBody(t, "  U1@Example.COM ", "Ada", "Secret1!"))
	w := httptest.NewRecorder()

	h.Register(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp api.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "u1@example.com", resp.User.Email)

	_, ok := users.users["u1@example.com"]
	assert.True(t, ok, "user should be stored under the normalized email")
}

func TestAuthHandler_Register_InvalidJSON(t *testing.T) {
	h, _ := newTestAuthHandler(t, newMockUserStorage())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
		bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()

	h.Register(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		userName string
		pass     string
	}{
		{name: "invalid email", email: "not-an-email", userName: "Ada", pass: "Secret1!"},
		{name: "empty email", email: "", userName: "Ada", pass: "Secret1!"},
		{name: "blank name", email: "u1@example.com", userName: "   ", pass: "Secret1!"},
		{name: "short password", email: "u1@example.com", userName: "Ada", pass: "S1!"},
		{name: "password without digit", email: "u1@example.com", userName: "Ada", pass: "Secrets!"},
		{name: "password without symbol", email: "u1@example.com", userName: "Ada", pass: "Secrets1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestAuthHandler(t, newMockUserStorage())

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
				registerBody(t, tt.email, tt.userName, tt.pass))
			w := httptest.NewRecorder()

			h.Register(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	users := newMockUserStorage()
	h, _ := newTestAuthHandler(t, users)

	first := httptest.NewRecorder()
	h.Register(first, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
		registerBody(t, "u1@example.com", "Ada", "Secret1!")))
	require.Equal(t, http.StatusCreated, first.Code)

	second := httptest.NewRecorder()
	h.Register(second, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
		registerBody(t, "u1@example.com", "Eve", "Other2$!")))

	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Contains(t, second.Body.String(), "Email already registered")
	assert.Len(t, users.users, 1)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	users := newMockUserStorage()
	h, tokens := newTestAuthHandler(t, users)

	w := httptest.NewRecorder()
	h.Register(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
		registerBody(t, "u1@example.com", "Ada", "Secret1!")))
	require.Equal(t, http.StatusCreated, w.Code)

	login := httptest.NewRecorder()
	h.Login(login, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		loginBody(t, "u1@example.com", "Secret1!")))

	require.Equal(t, http.StatusOK, login.Code)

	var resp api.AuthResponse
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &resp))
	assert.Equal(t, "u1@example.com", resp.User.Email)

	claims, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID())
}

func TestAuthHandler_Login_GenericFailureMessage(t *testing.T) {
	users := newMockUserStorage()
	h, _ := newTestAuthHandler(t, users)

	w := httptest.NewRecorder()
	h.Register(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
		registerBody(t, "u1@example.com", "Ada", "Secret1!")))
	require.Equal(t, http.StatusCreated, w.Code)

	wrongPass := httptest.NewRecorder()
	h.Login(wrongPass, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		loginBody(t, "u1@example.com", "WrongPass1!")))

	unknownEmail := httptest.NewRecorder()
	h.Login(unknownEmail, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		loginBody(t, "ghost@example.com", "Secret1!")))

	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)

	// Wrong password and unknown email are byte-for-byte identical, so
	// responses cannot be used to enumerate registered emails.
	assert.Equal(t, wrongPass.Body.String(), unknownEmail.Body.String())
	assert.Contains(t, wrongPass.Body.String(), MsgInvalidCredentials)
}

func TestAuthHandler_Login_InactiveUser(t *testing.T) {
	users := newMockUserStorage()
	h, _ := newTestAuthHandler(t, users)

	w := httptest.NewRecorder()
	h.Register(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
		registerBody(t, "u1@example.com", "Ada", "Secret1!")))
	require.Equal(t, http.StatusCreated, w.Code)

	users.users["u1@example.com"].IsActive = false

	login := httptest.NewRecorder()
	h.Login(login, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		loginBody(t, "u1@example.com", "Secret1!")))

	assert.Equal(t, http.StatusUnauthorized, login.Code)
	assert.Contains(t, login.Body.String(), MsgInvalidCredentials)
}

func TestAuthHandler_Logout(t *testing.T) {
	users := newMockUserStorage()
	h, tokens := newTestAuthHandler(t, users)

	validToken, err := tokens.Issue("user-123", "u1@example.com")
	require.NoError(t, err)

	expiredToken := issueExpiredToken(t, "user-123", "u1@example.com")

	tests := []struct {
		name        string
		authHeader  string
		wantCode    int
		wantMessage string
	}{
		{name: "valid token", authHeader: "Bearer " + validToken, wantCode: http.StatusOK, wantMessage: "Logged out successfully"},
		{name: "missing header", authHeader: "", wantCode: http.StatusUnauthorized, wantMessage: MsgMissingAuthHeader},
		{name: "expired token", authHeader: "Bearer " + expiredToken, wantCode: http.StatusUnauthorized, wantMessage: MsgTokenExpired},
		{name: "garbage token", authHeader: "Bearer garbage", wantCode: http.StatusUnauthorized, wantMessage: MsgTokenInvalid},
		{name: "bad scheme", authHeader: "Basic dXNlcjpwYXNz", wantCode: http.StatusUnauthorized, wantMessage: MsgTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			h.Logout(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantMessage)
		})
	}
}

// issueExpiredToken signs a token whose exp is already in the past.
func issueExpiredToken(t *testing.T, userID, email string) string {
	t.Helper()

	now := time.Now()
	claims := token.Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}
