package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mesut7942/my-gym-log/internal/auth"
	"github.com/mesut7942/my-gym-log/pkg"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func setupAuthHandler(t *testing.T) (*mux.Router, *MockusersRepo, *Mocksessions) {
	t.Helper()
	pkg.PasswordHashCost = bcrypt.MinCost

	ctrl := gomock.NewController(t)
	usersRepo := NewMockusersRepo(ctrl)
	sessions := NewMocksessions(ctrl)

	r := mux.NewRouter()
	auth.NewHandler(usersRepo, sessions).SetupRoutes(r)
	return r, usersRepo, sessions
}

func TestHandler_Register(t *testing.T) {
	r, usersRepo, sessions := setupAuthHandler(t)

	usersRepo.EXPECT().
		Add(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, user auth.User) (*auth.User, error) {
			assert.Equal(t, "lifter@example.com", user.Email)
			assert.Equal(t, "Lifter", user.DisplayName)
			assert.NotEmpty(t, user.ID)
			assert.True(t, pkg.CheckPasswordHash("strongpass", user.PasswordHash))
			return &user, nil
		})
	sessions.EXPECT().
		Login(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("new-token", nil)

	body := `{"email":" Lifter@Example.com ","password":"strongpass","displayName":"Lifter"}`
	req := httptest.NewRequest(http.MethodPost, "/a/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var resp auth.LoginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "new-token", resp.Token)
	assert.Equal(t, "lifter@example.com", resp.User.Email)
	assert.NotContains(t, rr.Body.String(), "$2a$")
}

func TestHandler_Register_Invalid(t *testing.T) {
	r, usersRepo, _ := setupAuthHandler(t)

	for _, body := range []string{
		`{"email":"not-an-email","password":"strongpass"}`,
		`{"email":"a@b.com","password":"short"}`,
		`{broken`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/a/register", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
	}

	usersRepo.EXPECT().Add(gomock.Any(), gomock.Any()).Return(nil, auth.ErrEmailTaken)
	req := httptest.NewRequest(http.MethodPost, "/a/register", strings.NewReader(`{"email":"a@b.com","password":"strongpass"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestHandler_Login(t *testing.T) {
	r, usersRepo, sessions := setupAuthHandler(t)

	hash, err := pkg.HashPassword("strongpass")
	require.NoError(t, err)
	user := &auth.User{
		ID:           "user-1",
		Email:        "lifter@example.com",
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	testCases := []struct {
		name           string
		form           string
		setup          func()
		expectedStatus int
	}{
		{
			name:           "MissingEmail",
			form:           "password=strongpass",
			setup:          func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "MissingPassword",
			form:           "email=lifter@example.com",
			setup:          func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "UnknownUser",
			form: "email=ghost@example.com&password=strongpass",
			setup: func() {
				usersRepo.EXPECT().GetByEmail(gomock.Any(), "ghost@example.com").Return(nil, auth.ErrUserNotFound)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "WrongPassword",
			form: "email=lifter@example.com&password=wrongpass",
			setup: func() {
				usersRepo.EXPECT().GetByEmail(gomock.Any(), "lifter@example.com").Return(user, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Success",
			form: "email=lifter@example.com&password=strongpass",
			setup: func() {
				usersRepo.EXPECT().GetByEmail(gomock.Any(), "lifter@example.com").Return(user, nil)
				sessions.EXPECT().Login(gomock.Any(), "user-1", gomock.Any()).Return("token-1", nil)
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setup()
			req := httptest.NewRequest(http.MethodPost, "/a/login", strings.NewReader(tc.form))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			assert.Equal(t, tc.expectedStatus, rr.Code, rr.Body.String())
			if tc.expectedStatus == http.StatusOK {
				assert.Contains(t, rr.Body.String(), `"token":"token-1"`)
			}
		})
	}
}

func TestHandler_Logout(t *testing.T) {
	r, _, sessions := setupAuthHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/a/logout", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	sessions.EXPECT().Logout(gomock.Any(), "token-1").Return(true, nil)
	req = httptest.NewRequest(http.MethodGet, "/a/logout", nil)
	req.Header.Set(auth.TokenHeader, "token-1")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "logged-out", rr.Body.String())

	sessions.EXPECT().Logout(gomock.Any(), "token-2").Return(false, nil)
	req = httptest.NewRequest(http.MethodGet, "/a/logout", nil)
	req.Header.Set(auth.TokenHeader, "token-2")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
