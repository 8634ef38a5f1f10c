// Package recipe provides the application layer for recipe management
// This implements the use cases defined in the inbound ports
package recipe

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/alchemorsel/foodgram/internal/application/eventing"
	"github.com/alchemorsel/foodgram/internal/application/projection"
	"github.com/alchemorsel/foodgram/internal/domain/recipe"
	"github.com/alchemorsel/foodgram/internal/domain/user"
	"github.com/alchemorsel/foodgram/internal/ports/inbound"
	"github.com/alchemorsel/foodgram/internal/ports/outbound"
	"github.com/alchemorsel/foodgram/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecipeService implements the recipe use cases
type RecipeService struct {
	recipeRepo outbound.RecipeRepository
	userRepo   outbound.UserRepository
	validator  *Validator
	storage    outbound.StorageService
	projector  *projection.Projector
	cache      outbound.CacheRepository
	cacheTTL   time.Duration
	events     *eventing.Publisher
	logger     *zap.Logger
}

// NewRecipeService creates a new recipe service
func NewRecipeService(
	recipeRepo outbound.RecipeRepository,
	userRepo outbound.UserRepository,
	validator *Validator,
	storage outbound.StorageService,
	projector *projection.Projector,
	cache outbound.CacheRepository,
	cacheTTL time.Duration,
	events *eventing.Publisher,
	logger *zap.Logger,
) *RecipeService {
	return &RecipeService{
		recipeRepo: recipeRepo,
		userRepo:   userRepo,
		validator:  validator,
		storage:    storage,
		projector:  projector,
		cache:      cache,
		cacheTTL:   cacheTTL,
		events:     events,
		logger:     logger.Named("recipe-service"),
	}
}

var _ inbound.RecipeService = (*RecipeService)(nil)

// CreateRecipe validates, stores the image, writes the aggregate and returns
// the author's view of it.
func (s *RecipeService) CreateRecipe(ctx context.Context, cmd inbound.CreateRecipeCommand) (*inbound.RecipeView, error) {
	s.logger.Info("Creating new recipe",
		zap.String("name", cmd.Name),
		zap.String("author_id", cmd.AuthorID.String()),
	)

	exists, err := s.userRepo.Exists(ctx, cmd.AuthorID)
	if err != nil {
		return nil, errors.NewDatabaseError("check user existence", err)
	}
	if !exists {
		return nil, errors.NewNotFoundError(user.ErrUserNotFound.Error()).WithMetadata("user_id", cmd.AuthorID.String())
	}

	draft, err := s.validator.Validate(ctx, payloadOf(cmd.RecipeInput, cmd.Image != nil), ModeCreate)
	if err != nil {
		return nil, err
	}

	draft.Image, err = s.uploadImage(ctx, cmd.Image)
	if err != nil {
		return nil, err
	}

	recipeEntity, err := recipe.NewRecipe(cmd.AuthorID, draft)
	if err != nil {
		s.discardImage(ctx, draft.Image)
		return nil, errors.NewBadRequestError(err.Error())
	}

	if err := s.recipeRepo.Create(ctx, recipeEntity); err != nil {
		s.discardImage(ctx, draft.Image)
		return nil, s.writeError("create recipe", err)
	}

	s.events.Publish(ctx, recipeEntity.Events()...)

	s.logger.Info("Recipe created", zap.String("recipe_id", recipeEntity.ID().String()))

	return s.project(ctx, recipeEntity, &cmd.AuthorID)
}

// ReplaceRecipe swaps an existing recipe's contents for the command's. Only
// the author may do this.
func (s *RecipeService) ReplaceRecipe(ctx context.Context, cmd inbound.ReplaceRecipeCommand) (*inbound.RecipeView, error) {
	s.logger.Info("Replacing recipe",
		zap.String("recipe_id", cmd.RecipeID.String()),
		zap.String("actor_id", cmd.ActorID.String()),
	)

	recipeEntity, err := s.load(ctx, cmd.RecipeID)
	if err != nil {
		return nil, err
	}
	if !recipeEntity.IsOwnedBy(cmd.ActorID) {
		return nil, errors.NewForbiddenError(recipe.ErrNotRecipeOwner.Error())
	}

	hasImage := cmd.Image != nil || recipeEntity.Image() != ""
	draft, err := s.validator.Validate(ctx, payloadOf(cmd.RecipeInput, hasImage), ModeUpdate)
	if err != nil {
		return nil, err
	}

	previousImage := recipeEntity.Image()
	if cmd.Image != nil {
		if draft.Image, err = s.uploadImage(ctx, cmd.Image); err != nil {
			return nil, err
		}
	}

	expectedVersion := recipeEntity.Version()
	if err := recipeEntity.Replace(draft); err != nil {
		s.discardImage(ctx, draft.Image)
		return nil, errors.NewBadRequestError(err.Error())
	}

	if err := s.recipeRepo.Replace(ctx, recipeEntity, expectedVersion); err != nil {
		s.discardImage(ctx, draft.Image)
		return nil, s.writeError("replace recipe", err)
	}

	if draft.Image != "" && previousImage != draft.Image {
		s.discardImage(ctx, previousImage)
	}
	s.invalidateRecipeCache(ctx, cmd.RecipeID, expectedVersion)
	s.events.Publish(ctx, recipeEntity.Events()...)

	return s.project(ctx, recipeEntity, &cmd.ActorID)
}

// DeleteRecipe removes a recipe together with every relation pointing at it.
func (s *RecipeService) DeleteRecipe(ctx context.Context, recipeID, actorID uuid.UUID) error {
	s.logger.Info("Deleting recipe",
		zap.String("recipe_id", recipeID.String()),
		zap.String("actor_id", actorID.String()),
	)

	recipeEntity, err := s.load(ctx, recipeID)
	if err != nil {
		return err
	}
	if !recipeEntity.IsOwnedBy(actorID) {
		return errors.NewForbiddenError(recipe.ErrNotRecipeOwner.Error())
	}

	if err := s.recipeRepo.Delete(ctx, recipeID); err != nil {
		return s.writeError("delete recipe", err)
	}

	s.discardImage(ctx, recipeEntity.Image())
	s.invalidateRecipeCache(ctx, recipeID, recipeEntity.Version())
	recipeEntity.MarkDeleted()
	s.events.Publish(ctx, recipeEntity.Events()...)
	return nil
}

// GetRecipe returns the full view of a recipe for viewer, which may be nil.
// Cached views are keyed by version, so a view written by a reader that raced
// a replace or a delete is never served.
func (s *RecipeService) GetRecipe(ctx context.Context, recipeID uuid.UUID, viewer *uuid.UUID) (*inbound.RecipeView, error) {
	if s.cache != nil {
		version, err := s.recipeRepo.Version(ctx, recipeID)
		if err != nil {
			return nil, s.readError(recipeID, err)
		}
		if cached, err := s.getCachedRecipe(ctx, recipeID, version); err == nil && cached != nil {
			if err := s.projector.Personalize(ctx, cached, viewer); err != nil {
				return nil, errors.NewDatabaseError("personalize recipe", err)
			}
			return cached, nil
		}
	}

	recipeEntity, err := s.load(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return s.project(ctx, recipeEntity, viewer)
}

func (s *RecipeService) load(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	recipeEntity, err := s.recipeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, s.readError(id, err)
	}
	return recipeEntity, nil
}

func (s *RecipeService) readError(id uuid.UUID, err error) error {
	if stderrors.Is(err, recipe.ErrRecipeNotFound) {
		return errors.NewNotFoundError(recipe.ErrRecipeNotFound.Error()).WithMetadata("recipe_id", id.String())
	}
	return errors.NewDatabaseError("find recipe", err)
}

// project renders the view, caching its viewer-independent part.
func (s *RecipeService) project(ctx context.Context, recipeEntity *recipe.Recipe, viewer *uuid.UUID) (*inbound.RecipeView, error) {
	view, err := s.projector.BaseRecipe(ctx, recipeEntity)
	if err != nil {
		return nil, errors.NewDatabaseError("project recipe", err)
	}
	s.cacheRecipe(ctx, recipeEntity.Version(), view)

	if err := s.projector.Personalize(ctx, view, viewer); err != nil {
		return nil, errors.NewDatabaseError("personalize recipe", err)
	}
	return view, nil
}

func (s *RecipeService) writeError(operation string, err error) error {
	switch {
	case stderrors.Is(err, recipe.ErrRecipeNotFound):
		return errors.NewNotFoundError(recipe.ErrRecipeNotFound.Error())
	case stderrors.Is(err, recipe.ErrConcurrentUpdate), stderrors.Is(err, recipe.ErrReferenceConflict):
		return errors.NewConflictError(err.Error()).WithCause(err)
	default:
		return errors.NewDatabaseError(operation, err)
	}
}

func (s *RecipeService) uploadImage(ctx context.Context, img *inbound.ImageUpload) (string, error) {
	if img == nil {
		return "", nil
	}
	key := fmt.Sprintf("recipes/images/%s%s", uuid.NewString(), extensionFor(img.ContentType))
	ref, err := s.storage.Upload(ctx, key, img.Data, img.ContentType)
	if err != nil {
		return "", errors.NewExternalServiceError("image storage", err)
	}
	return ref, nil
}

// discardImage removes an image that is no longer referenced. Failures leave
// an orphan blob behind and are only logged.
func (s *RecipeService) discardImage(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := s.storage.Delete(ctx, ref); err != nil {
		s.logger.Warn("Failed to delete image", zap.String("image", ref), zap.Error(err))
	}
}

func (s *RecipeService) getCachedRecipe(ctx context.Context, recipeID uuid.UUID, version int64) (*inbound.RecipeView, error) {
	if s.cache == nil {
		return nil, nil
	}
	data, err := s.cache.Get(ctx, RecipeCacheKey(recipeID, version))
	if err != nil {
		return nil, err
	}
	var view inbound.RecipeView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *RecipeService) cacheRecipe(ctx context.Context, version int64, view *inbound.RecipeView) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, RecipeCacheKey(view.ID, version), data, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache recipe", zap.String("recipe_id", view.ID.String()), zap.Error(err))
	}
}

// invalidateRecipeCache drops the view of a superseded version. Stale keys
// are unreachable anyway; this only frees them before the TTL does.
func (s *RecipeService) invalidateRecipeCache(ctx context.Context, recipeID uuid.UUID, version int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, RecipeCacheKey(recipeID, version)); err != nil {
		s.logger.Warn("Failed to invalidate recipe cache", zap.String("recipe_id", recipeID.String()), zap.Error(err))
	}
}

// RecipeCacheKey is the cache key of the viewer-independent view of one
// version of a recipe.
func RecipeCacheKey(recipeID uuid.UUID, version int64) string {
	return fmt.Sprintf("recipe:%s:v%d", recipeID, version)
}

func payloadOf(in inbound.RecipeInput, hasImage bool) Payload {
	return Payload{
		Name:        in.Name,
		Text:        in.Text,
		CookingTime: in.CookingTime,
		Ingredients: in.Ingredients,
		Tags:        in.Tags,
		HasImage:    hasImage,
	}
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
