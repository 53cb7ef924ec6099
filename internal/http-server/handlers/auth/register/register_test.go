package register

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"seatwise/internal/config"
	"seatwise/internal/http-server/handlers/auth/register/mocks"
	"seatwise/internal/lib/logger/handlers/slogdiscard"
	"seatwise/internal/models"
	"seatwise/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	authCfg := config.Auth{
		Secret:     "test-secret",
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	}

	newUser := func(role models.Role) *models.User {
		return &models.User{
			ID:    7,
			Name:  "Alice",
			Email: "alice@example.com",
			Role:  role,
		}
	}

	testCases := []struct {
		name           string
		requestBody    string
		mockSetup      func(m *mocks.UserSaver)
		expectedStatus int
		expectedBody   string
		checkBody      func(t *testing.T, body string)
	}{
		{
			name:        "Defaults to user role",
			requestBody: `{"name": "Alice", "email": "alice@example.com", "password": "secret1"}`,
			mockSetup: func(m *mocks.UserSaver) {
				m.On("CreateUser", mock.Anything, "Alice", "alice@example.com", mock.MatchedBy(func(hash string) bool {
					return bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret1")) == nil
				}), models.RoleUser).Return(newUser(models.RoleUser), nil)
			},
			expectedStatus: http.StatusCreated,
			checkBody: func(t *testing.T, body string) {
				var resp RegisterResponse
				require.NoError(t, json.Unmarshal([]byte(body), &resp))
				assert.Equal(t, "OK", resp.Status)
				assert.Equal(t, models.RoleUser, resp.User.Role)
				assert.NotEmpty(t, resp.Token)
			},
		},
		{
			name:        "Organizer self-registration",
			requestBody: `{"name": "Alice", "email": "alice@example.com", "password": "secret1", "role": "organizer"}`,
			mockSetup: func(m *mocks.UserSaver) {
				m.On("CreateUser", mock.Anything, "Alice", "alice@example.com", mock.Anything, models.RoleOrganizer).
					Return(newUser(models.RoleOrganizer), nil)
			},
			expectedStatus: http.StatusCreated,
			checkBody: func(t *testing.T, body string) {
				var resp RegisterResponse
				require.NoError(t, json.Unmarshal([]byte(body), &resp))
				assert.Equal(t, models.RoleOrganizer, resp.User.Role)
			},
		},
		{
			name:           "Admin role refused at registration",
			requestBody:    `{"name": "Alice", "email": "alice@example.com", "password": "secret1", "role": "admin"}`,
			mockSetup:      func(m *mocks.UserSaver) {},
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"status":"Error"`)
				assert.Contains(t, body, "Role")
			},
		},
		{
			name:           "Invalid JSON",
			requestBody:    `invalid json`,
			mockSetup:      func(m *mocks.UserSaver) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"failed to decode request"}`,
		},
		{
			name:           "Password too short",
			requestBody:    `{"name": "Alice", "email": "alice@example.com", "password": "abc"}`,
			mockSetup:      func(m *mocks.UserSaver) {},
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"status":"Error"`)
				assert.Contains(t, body, "Password")
			},
		},
		{
			name:           "Invalid email",
			requestBody:    `{"name": "Alice", "email": "not-an-email", "password": "secret1"}`,
			mockSetup:      func(m *mocks.UserSaver) {},
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"status":"Error"`)
				assert.Contains(t, body, "Email")
			},
		},
		{
			name:        "Email taken",
			requestBody: `{"name": "Alice", "email": "alice@example.com", "password": "secret1"}`,
			mockSetup: func(m *mocks.UserSaver) {
				m.On("CreateUser", mock.Anything, "Alice", "alice@example.com", mock.Anything, models.RoleUser).
					Return(nil, storage.ErrEmailTaken)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","code":"duplicate_email","error":"email already registered"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockSaver := mocks.NewUserSaver(t)
			tc.mockSetup(mockSaver)

			handler := New(logger, mockSaver, authCfg)

			req, err := http.NewRequest("POST", "/auth/register", bytes.NewBufferString(tc.requestBody))
			require.NoError(t, err)

			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")

			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
			} else if tc.checkBody != nil {
				tc.checkBody(t, rr.Body.String())
			}

			mockSaver.AssertExpectations(t)
		})
	}
}
