package relation

import (
	"context"
	stderrors "errors"

	"github.com/alchemorsel/foodgram/internal/application/eventing"
	"github.com/alchemorsel/foodgram/internal/application/projection"
	"github.com/alchemorsel/foodgram/internal/domain/recipe"
	"github.com/alchemorsel/foodgram/internal/domain/relation"
	"github.com/alchemorsel/foodgram/internal/domain/user"
	"github.com/alchemorsel/foodgram/internal/ports/inbound"
	"github.com/alchemorsel/foodgram/internal/ports/outbound"
	"github.com/alchemorsel/foodgram/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements inbound.RelationService on top of three Toggles.
type Service struct {
	favorites     *Toggle[*recipe.Recipe, inbound.RecipeShortView]
	cart          *Toggle[*recipe.Recipe, inbound.RecipeShortView]
	subscriptions *Toggle[*user.User, inbound.SubscriptionView]

	recipes   outbound.RecipeRepository
	users     outbound.UserRepository
	relations outbound.RelationRepository
	projector *projection.Projector
	logger    *zap.Logger
}

// NewService wires the favorite, shopping-cart and subscription toggles.
func NewService(
	recipes outbound.RecipeRepository,
	users outbound.UserRepository,
	relations outbound.RelationRepository,
	projector *projection.Projector,
	events *eventing.Publisher,
	logger *zap.Logger,
) *Service {
	s := &Service{
		recipes:   recipes,
		users:     users,
		relations: relations,
		projector: projector,
		logger:    logger.Named("relation-service"),
	}

	projectShort := func(_ context.Context, r *recipe.Recipe, _ uuid.UUID, _ Options) (inbound.RecipeShortView, error) {
		return projection.ProjectRecipeShort(r), nil
	}

	s.favorites = NewToggle(Descriptor[*recipe.Recipe, inbound.RecipeShortView]{
		Kind:             relation.KindFavorite,
		Resolve:          s.resolveRecipe,
		Project:          projectShort,
		DuplicateMessage: "recipe already added to favorites",
		MissingMessage:   "recipe is not in favorites",
	}, relations, events, s.logger)

	s.cart = NewToggle(Descriptor[*recipe.Recipe, inbound.RecipeShortView]{
		Kind:             relation.KindShoppingCart,
		Resolve:          s.resolveRecipe,
		Project:          projectShort,
		DuplicateMessage: "recipe already added to shopping cart",
		MissingMessage:   "recipe is not in shopping cart",
	}, relations, events, s.logger)

	s.subscriptions = NewToggle(Descriptor[*user.User, inbound.SubscriptionView]{
		Kind:             relation.KindSubscription,
		Resolve:          s.resolveUser,
		Project:          s.projectSubscription,
		DuplicateMessage: "already subscribed",
		MissingMessage:   "not subscribed",
	}, relations, events, s.logger)

	return s
}

var _ inbound.RelationService = (*Service)(nil)

// AddFavorite marks a recipe as a favorite of subjectID.
func (s *Service) AddFavorite(ctx context.Context, subjectID, recipeID uuid.UUID) (*inbound.RecipeShortView, error) {
	view, err := s.favorites.Add(ctx, subjectID, recipeID, Options{})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// RemoveFavorite unmarks a favorite.
func (s *Service) RemoveFavorite(ctx context.Context, subjectID, recipeID uuid.UUID) error {
	return s.favorites.Remove(ctx, subjectID, recipeID)
}

// AddToShoppingCart puts a recipe in subjectID's cart.
func (s *Service) AddToShoppingCart(ctx context.Context, subjectID, recipeID uuid.UUID) (*inbound.RecipeShortView, error) {
	view, err := s.cart.Add(ctx, subjectID, recipeID, Options{})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// RemoveFromShoppingCart takes a recipe out of the cart.
func (s *Service) RemoveFromShoppingCart(ctx context.Context, subjectID, recipeID uuid.UUID) error {
	return s.cart.Remove(ctx, subjectID, recipeID)
}

// ShoppingList sums ingredient amounts over every recipe in the cart.
func (s *Service) ShoppingList(ctx context.Context, subjectID uuid.UUID) ([]inbound.ShoppingListItem, error) {
	recipeIDs, err := s.relations.ListTargets(ctx, relation.KindShoppingCart, subjectID)
	if err != nil {
		return nil, errors.NewDatabaseError("list shopping cart", err)
	}
	items := []inbound.ShoppingListItem{}
	if len(recipeIDs) == 0 {
		return items, nil
	}

	totals, err := s.recipes.AggregateIngredients(ctx, recipeIDs)
	if err != nil {
		return nil, errors.NewDatabaseError("aggregate shopping list", err)
	}
	for _, t := range totals {
		items = append(items, inbound.ShoppingListItem{
			Name:            t.Ingredient.Name,
			MeasurementUnit: t.Ingredient.MeasurementUnit,
			Amount:          t.Amount,
		})
	}
	return items, nil
}

// Subscribe makes subjectID follow authorID.
func (s *Service) Subscribe(ctx context.Context, subjectID, authorID uuid.UUID, recipesLimit *int) (*inbound.SubscriptionView, error) {
	view, err := s.subscriptions.Add(ctx, subjectID, authorID, Options{RecipesLimit: recipesLimit})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// Unsubscribe stops following authorID.
func (s *Service) Unsubscribe(ctx context.Context, subjectID, authorID uuid.UUID) error {
	return s.subscriptions.Remove(ctx, subjectID, authorID)
}

// ListSubscriptions returns every author subjectID follows, most recently
// followed first.
func (s *Service) ListSubscriptions(ctx context.Context, subjectID uuid.UUID, recipesLimit *int) ([]inbound.SubscriptionView, error) {
	authorIDs, err := s.relations.ListTargets(ctx, relation.KindSubscription, subjectID)
	if err != nil {
		return nil, errors.NewDatabaseError("list subscriptions", err)
	}
	views := []inbound.SubscriptionView{}
	if len(authorIDs) == 0 {
		return views, nil
	}

	authors, err := s.users.FindByIDs(ctx, authorIDs)
	if err != nil {
		return nil, errors.NewDatabaseError("load subscribed authors", err)
	}
	for _, id := range authorIDs {
		author, ok := authors[id]
		if !ok {
			continue
		}
		view, err := s.projectSubscription(ctx, author, subjectID, Options{RecipesLimit: recipesLimit})
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *Service) resolveRecipe(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	r, err := s.recipes.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, recipe.ErrRecipeNotFound) {
			return nil, errors.NewNotFoundError(recipe.ErrRecipeNotFound.Error()).WithMetadata("recipe_id", id.String())
		}
		return nil, errors.NewDatabaseError("find recipe", err)
	}
	return r, nil
}

func (s *Service) resolveUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, user.ErrUserNotFound) {
			return nil, errors.NewNotFoundError(user.ErrUserNotFound.Error()).WithMetadata("user_id", id.String())
		}
		return nil, errors.NewDatabaseError("find user", err)
	}
	return u, nil
}

func (s *Service) projectSubscription(ctx context.Context, author *user.User, subject uuid.UUID, opts Options) (inbound.SubscriptionView, error) {
	view, err := s.projector.ProjectSubscribedUser(ctx, author, &subject, opts.RecipesLimit)
	if err != nil {
		return inbound.SubscriptionView{}, errors.NewDatabaseError("project subscription", err)
	}
	return *view, nil
}
