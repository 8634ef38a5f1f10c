package security

import (
	"testing"
	"time"

	"github.com/alchemorsel/foodgram/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// TokenServiceTestSuite provides a test suite for TokenService
type TokenServiceTestSuite struct {
	suite.Suite
	service *TokenService
	clock   time.Time
}

func (s *TokenServiceTestSuite) SetupTest() {
	s.clock = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s.service = NewTokenService(config.AuthConfig{
		JWTSecret:     "test-secret-key-for-testing-only-32-bytes",
		JWTIssuer:     "foodgram-test",
		JWTExpiration: time.Hour,
	})
	s.service.now = func() time.Time { return s.clock }
}

func (s *TokenServiceTestSuite) TestIssueAndVerify() {
	s.Run("ValidToken_ShouldReturnSubject", func() {
		// Arrange
		userID := uuid.New()
		token, expiresAt, err := s.service.Issue(userID, "cook@example.com")
		s.Require().NoError(err)

		// Act
		got, err := s.service.Verify(token)

		// Assert
		s.Require().NoError(err)
		s.Equal(userID, got)
		s.Equal(s.clock.Add(time.Hour), expiresAt)
	})

	s.Run("ExpiredToken_ShouldFail", func() {
		// Arrange
		token, _, err := s.service.Issue(uuid.New(), "")
		s.Require().NoError(err)
		s.clock = s.clock.Add(2 * time.Hour)

		// Act
		_, err = s.service.Verify(token)

		// Assert
		s.ErrorIs(err, ErrInvalidToken)
	})
}

func (s *TokenServiceTestSuite) TestVerify_Rejections() {
	s.Run("WrongSecret_ShouldFail", func() {
		// Arrange
		other := NewTokenService(config.AuthConfig{JWTSecret: "another-secret", JWTIssuer: "foodgram-test", JWTExpiration: time.Hour})
		other.now = s.service.now
		token, _, err := other.Issue(uuid.New(), "")
		s.Require().NoError(err)

		// Act
		_, err = s.service.Verify(token)

		// Assert
		s.ErrorIs(err, ErrInvalidToken)
	})

	s.Run("WrongIssuer_ShouldFail", func() {
		// Arrange
		other := NewTokenService(config.AuthConfig{JWTSecret: "test-secret-key-for-testing-only-32-bytes", JWTIssuer: "elsewhere", JWTExpiration: time.Hour})
		other.now = s.service.now
		token, _, err := other.Issue(uuid.New(), "")
		s.Require().NoError(err)

		// Act
		_, err = s.service.Verify(token)

		// Assert
		s.ErrorIs(err, ErrInvalidToken)
	})

	s.Run("NonUUIDSubject_ShouldFail", func() {
		// Arrange
		claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			Issuer:    "foodgram-test",
			ExpiresAt: jwt.NewNumericDate(s.clock.Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.service.secret)
		s.Require().NoError(err)

		// Act
		_, err = s.service.Verify(token)

		// Assert
		s.ErrorIs(err, ErrInvalidToken)
	})

	s.Run("Garbage_ShouldFail", func() {
		_, err := s.service.Verify("not-a-token")
		s.ErrorIs(err, ErrInvalidToken)
	})
}

func TestTokenServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceTestSuite))
}
