package login

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"seatwise/internal/config"
	"seatwise/internal/http-server/handlers/auth/login/mocks"
	"seatwise/internal/lib/logger/handlers/slogdiscard"
	"seatwise/internal/models"
	"seatwise/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoginHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	authCfg := config.Auth{
		Secret:     "test-secret",
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		ID:           7,
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}

	testCases := []struct {
		name           string
		requestBody    string
		mockSetup      func(m *mocks.UserProvider)
		expectedStatus int
		expectedBody   string
		checkBody      func(t *testing.T, body string)
	}{
		{
			name:        "Success",
			requestBody: `{"email": "alice@example.com", "password": "correct horse"}`,
			mockSetup: func(m *mocks.UserProvider) {
				m.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(user, nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				var resp LoginResponse
				require.NoError(t, json.Unmarshal([]byte(body), &resp))
				assert.Equal(t, "OK", resp.Status)
				assert.Equal(t, int64(7), resp.User.ID)
				assert.NotEmpty(t, resp.Token)

				token, err := jwt.Parse(resp.Token, func(t *jwt.Token) (interface{}, error) {
					return []byte(authCfg.Secret), nil
				})
				require.NoError(t, err)
				require.True(t, token.Valid)

				claims, ok := token.Claims.(jwt.MapClaims)
				require.True(t, ok)
				assert.Equal(t, float64(7), claims["sub"])
				assert.Equal(t, "user", claims["role"])
			},
		},
		{
			name:           "Invalid JSON",
			requestBody:    `invalid json`,
			mockSetup:      func(m *mocks.UserProvider) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"failed to decode request"}`,
		},
		{
			name:           "Invalid email format",
			requestBody:    `{"email": "not-an-email", "password": "correct horse"}`,
			mockSetup:      func(m *mocks.UserProvider) {},
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"status":"Error"`)
				assert.Contains(t, body, "Email")
			},
		},
		{
			name:        "Unknown email",
			requestBody: `{"email": "alice@example.com", "password": "correct horse"}`,
			mockSetup: func(m *mocks.UserProvider) {
				m.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(nil, storage.ErrUserNotFound)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","code":"unauthorized","error":"invalid credentials"}`,
		},
		{
			name:        "Wrong password",
			requestBody: `{"email": "alice@example.com", "password": "wrong horse"}`,
			mockSetup: func(m *mocks.UserProvider) {
				m.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(user, nil)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","code":"unauthorized","error":"invalid credentials"}`,
		},
		{
			name:        "Internal server error",
			requestBody: `{"email": "alice@example.com", "password": "correct horse"}`,
			mockSetup: func(m *mocks.UserProvider) {
				m.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(nil, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to log in"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockProvider := mocks.NewUserProvider(t)
			tc.mockSetup(mockProvider)

			handler := New(logger, mockProvider, authCfg)

			req, err := http.NewRequest("POST", "/auth/login", bytes.NewBufferString(tc.requestBody))
			require.NoError(t, err)

			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")

			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
			} else if tc.checkBody != nil {
				tc.checkBody(t, rr.Body.String())
			}

			mockProvider.AssertExpectations(t)
		})
	}
}
