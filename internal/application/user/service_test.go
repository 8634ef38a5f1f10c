package user

import (
	"context"
	"testing"

	"github.com/alchemorsel/foodgram/internal/application/projection"
	"github.com/alchemorsel/foodgram/internal/domain/relation"
	gormrepo "github.com/alchemorsel/foodgram/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/foodgram/pkg/errors"
	"github.com/alchemorsel/foodgram/test/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	db      *gorm.DB
	service *UserService
}

func (s *UserServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutils.NewSQLiteDB(s.T())

	users := gormrepo.NewUserRepository(s.db)
	projector := projection.NewProjector(users, gormrepo.NewRecipeRepository(s.db), gormrepo.NewRelationRepository(s.db))
	s.service = NewUserService(users, projector, bcrypt.MinCost, zaptest.NewLogger(s.T()))
}

func (s *UserServiceTestSuite) command() RegisterCommand {
	return RegisterCommand{
		Email:     "Cook@Example.com",
		Username:  "cook",
		FirstName: "Home",
		LastName:  "Cook",
		Password:  "long-enough",
	}
}

func (s *UserServiceTestSuite) TestRegister() {
	s.Run("ValidCommand_ShouldStoreLowercasedEmail", func() {
		// Act
		view, err := s.service.Register(s.ctx, s.command())

		// Assert
		require.NoError(s.T(), err)
		s.Equal("cook@example.com", view.Email)
		s.Equal("cook", view.Username)
		s.False(view.IsSubscribed)
	})

	s.Run("SameEmail_ShouldReturnAlreadyExists", func() {
		// Act
		_, err := s.service.Register(s.ctx, s.command())

		// Assert
		testutils.AssertAppError(s.T(), err, errors.CodeAlreadyExists)
	})

	s.Run("ShortPassword_ShouldReturnBadRequest", func() {
		// Arrange
		cmd := s.command()
		cmd.Email = "other@example.com"
		cmd.Username = "other"
		cmd.Password = "short"

		// Act
		_, err := s.service.Register(s.ctx, cmd)

		// Assert
		testutils.AssertAppError(s.T(), err, errors.CodeBadRequest)
	})
}

func (s *UserServiceTestSuite) TestAuthenticate() {
	_, err := s.service.Register(s.ctx, s.command())
	require.NoError(s.T(), err)

	s.Run("CorrectPassword_ShouldReturnUser", func() {
		// Act
		u, err := s.service.Authenticate(s.ctx, "cook@example.com", "long-enough")

		// Assert
		require.NoError(s.T(), err)
		s.Equal("cook", u.Username())
	})

	s.Run("WrongPassword_ShouldReturnUnauthorized", func() {
		// Act
		_, err := s.service.Authenticate(s.ctx, "cook@example.com", "not-the-password")

		// Assert
		testutils.AssertAppError(s.T(), err, errors.CodeUnauthorized)
	})

	s.Run("UnknownEmail_ShouldReturnUnauthorized", func() {
		// Act
		_, err := s.service.Authenticate(s.ctx, "nobody@example.com", "long-enough")

		// Assert
		testutils.AssertAppError(s.T(), err, errors.CodeUnauthorized)
	})
}

func (s *UserServiceTestSuite) TestGetProfile() {
	f := testutils.NewFixtures(9)
	author := testutils.SeedUser(s.T(), s.db, f)
	follower := testutils.SeedUser(s.T(), s.db, f)
	followerID := follower.ID()

	rel, err := relation.New(relation.KindSubscription, followerID, author.ID())
	require.NoError(s.T(), err)
	require.NoError(s.T(), gormrepo.NewRelationRepository(s.db).Add(s.ctx, rel))

	s.Run("Follower_ShouldSeeSubscription", func() {
		// Act
		view, err := s.service.GetProfile(s.ctx, author.ID(), &followerID)

		// Assert
		require.NoError(s.T(), err)
		s.True(view.IsSubscribed)
	})

	s.Run("Anonymous_ShouldNotSeeSubscription", func() {
		// Act
		view, err := s.service.GetProfile(s.ctx, author.ID(), nil)

		// Assert
		require.NoError(s.T(), err)
		s.False(view.IsSubscribed)
	})

	s.Run("UnknownUser_ShouldReturnNotFound", func() {
		// Act
		_, err := s.service.GetProfile(s.ctx, uuid.New(), nil)

		// Assert
		testutils.AssertAppError(s.T(), err, errors.CodeNotFound)
	})
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
