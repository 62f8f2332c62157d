package users

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	custom_error "github.com/luganzimathiasjoseph/ARPM/pkg/errors"
	"github.com/luganzimathiasjoseph/ARPM/pkg/models"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) PersistUser(req models.RegisterUserRequest, hashedPassword []byte) (int, error) {
	args := m.Called(req, hashedPassword)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) GetUser(id int) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUsers() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Exit(m.Run())
}

func setupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("userID", "1")
	c.Set("role", "admin")
	return c, w
}

func TestRegisterUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo, nil)

	tests := []struct {
		name           string
		payload        models.RegisterUserRequest
		setupMock      func()
		expectedStatus int
	}{
		{
			name: "successful registration",
			payload: models.RegisterUserRequest{
				Name:     "Test User",
				Email:    "test@example.com",
				Password: "password123",
			},
			setupMock: func() {
				mockRepo.On("PersistUser", mock.Anything, mock.Anything).Return(1, nil)
				mockRepo.On("GetUser", 1).Return(&models.User{
					ID:    1,
					Name:  "Test User",
					Email: "test@example.com",
					Role:  "staff",
				}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "duplicate email",
			payload: models.RegisterUserRequest{
				Name:     "Test User",
				Email:    "test@example.com",
				Password: "password123",
			},
			setupMock: func() {
				mockRepo.On("PersistUser", mock.Anything, mock.Anything).
					Return(0, custom_error.NewUniqueViolation("duplicate email", "email"))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "password too short",
			payload: models.RegisterUserRequest{
				Name:     "Test User",
				Email:    "test@example.com",
				Password: "123",
			},
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "repository error",
			payload: models.RegisterUserRequest{
				Name:     "Test User",
				Email:    "test@example.com",
				Password: "password123",
			},
			setupMock: func() {
				mockRepo.On("PersistUser", mock.Anything, mock.Anything).Return(0, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.ExpectedCalls = nil
			tt.setupMock()
			c, w := setupTestContext()

			body, _ := json.Marshal(tt.payload)
			c.Request = httptest.NewRequest("POST", "/auth/register", bytes.NewBuffer(body))

			handler.RegisterUser(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo, nil)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	tests := []struct {
		name           string
		payload        models.LoginRequest
		setupMock      func()
		expectedStatus int
	}{
		{
			name: "successful login",
			payload: models.LoginRequest{
				Email:    "test@example.com",
				Password: "password123",
			},
			setupMock: func() {
				mockRepo.On("GetUserByEmail", "test@example.com").Return(&models.User{
					ID:           1,
					Name:         "Test User",
					Email:        "test@example.com",
					PasswordHash: string(hash),
					Role:         "staff",
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "wrong password",
			payload: models.LoginRequest{
				Email:    "test@example.com",
				Password: "not-the-password",
			},
			setupMock: func() {
				mockRepo.On("GetUserByEmail", "test@example.com").Return(&models.User{
					ID:           1,
					Email:        "test@example.com",
					PasswordHash: string(hash),
				}, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "unknown email",
			payload: models.LoginRequest{
				Email:    "nobody@example.com",
				Password: "password123",
			},
			setupMock: func() {
				mockRepo.On("GetUserByEmail", "nobody@example.com").Return(nil, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.ExpectedCalls = nil
			tt.setupMock()
			c, w := setupTestContext()

			body, _ := json.Marshal(tt.payload)
			c.Request = httptest.NewRequest("POST", "/auth/login", bytes.NewBuffer(body))

			handler.Login(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestLoginDoesNotLeakPasswordHash(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo, nil)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	mockRepo.On("GetUserByEmail", "test@example.com").Return(&models.User{
		ID:           1,
		Email:        "test@example.com",
		PasswordHash: string(hash),
	}, nil)

	c, w := setupTestContext()
	body, _ := json.Marshal(models.LoginRequest{Email: "test@example.com", Password: "password123"})
	c.Request = httptest.NewRequest("POST", "/auth/login", bytes.NewBuffer(body))

	handler.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), string(hash))
}

func TestGetProfile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo, nil)

	tests := []struct {
		name           string
		setupMock      func()
		expectedStatus int
	}{
		{
			name: "profile found",
			setupMock: func() {
				mockRepo.On("GetUser", 1).Return(&models.User{ID: 1, Name: "Test User"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "profile missing",
			setupMock: func() {
				mockRepo.On("GetUser", 1).Return(nil, nil)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.ExpectedCalls = nil
			tt.setupMock()
			c, w := setupTestContext()
			c.Request = httptest.NewRequest("GET", "/auth/me", nil)

			handler.GetProfile(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockRepo.AssertExpectations(t)
		})
	}
}
