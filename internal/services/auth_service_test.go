package services_test

import (
	"fmt"
	"testing"
	"time"

	"socialfeed/internal/models"
	"socialfeed/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

const testJWTSecret = "test_jwt_secret"

func TestAuthService_Signup(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	// Successful signup hashes the password and normalizes the email
	mockRepo.On("GetByUsername", "testuser").Return(nil, fmt.Errorf("not found")).Once()
	mockRepo.On("GetByEmail", "test@example.com").Return(nil, fmt.Errorf("not found")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		user := args.Get(0).(*models.User)
		user.ID = "user-123"
		assert.Equal(t, "test@example.com", user.Email)
		assert.NotEqual(t, "password123", user.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	}).Return(nil).Once()

	creds, err := authService.Signup("testuser", "Test@Example.com", "password123")
	assert.NoError(t, err)
	assert.Equal(t, "user-123", creds.UserID)
	assert.Equal(t, "testuser", creds.Username)
	assert.Equal(t, "test@example.com", creds.Email)
	assert.NotEmpty(t, creds.Token)
	mockRepo.AssertExpectations(t)

	// Username already taken
	mockRepo.On("GetByUsername", "testuser").Return(&models.User{ID: "1"}, nil).Once()
	_, err = authService.Signup("testuser", "other@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrUsernameTaken)
	mockRepo.AssertExpectations(t)

	// Email already registered
	mockRepo.On("GetByUsername", "otheruser").Return(nil, fmt.Errorf("not found")).Once()
	mockRepo.On("GetByEmail", "test@example.com").Return(&models.User{ID: "1"}, nil).Once()
	_, err = authService.Signup("otheruser", "test@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrEmailTaken)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)
	user := &models.User{
		ID:       "user-123",
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}

	// Successful login returns credentials with a verifiable token
	mockRepo.On("GetByEmail", "test@example.com").Return(user, nil).Once()
	creds, err := authService.Login("test@example.com", "password123")
	assert.NoError(t, err)
	assert.Equal(t, "user-123", creds.UserID)

	parsedToken, err := jwt.Parse(creds.Token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, "user-123", claims["user_id"])
	assert.Equal(t, "testuser", claims["username"])
	assert.Equal(t, "test@example.com", claims["email"])
	mockRepo.AssertExpectations(t)

	// Wrong password
	mockRepo.On("GetByEmail", "test@example.com").Return(user, nil).Once()
	_, err = authService.Login("test@example.com", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// Unknown email fails with the same generic error
	mockRepo.On("GetByEmail", "nobody@example.com").Return(nil, fmt.Errorf("user with email nobody@example.com not found")).Once()
	_, err = authService.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_VerifyToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	validToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user-123",
		"username": "testuser",
		"email":    "test@example.com",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	validTokenString, _ := validToken.SignedString([]byte(testJWTSecret))

	identity, err := authService.VerifyToken(validTokenString)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", identity.UserID)
	assert.Equal(t, "testuser", identity.Username)
	assert.Equal(t, "test@example.com", identity.Email)

	// Garbage token
	_, err = authService.VerifyToken("invalid.token.string")
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Expired token
	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.VerifyToken(expiredTokenString)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Token signed with a different secret
	foreignToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	foreignTokenString, _ := foreignToken.SignedString([]byte("another_secret"))
	_, err = authService.VerifyToken(foreignTokenString)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}
