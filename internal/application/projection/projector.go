// Package projection renders persisted aggregates into the views returned to
// callers. Viewer-relative fields are always computed against an explicit
// viewer id; a nil viewer is anonymous.
package projection

import (
	"context"
	"fmt"

	"github.com/alchemorsel/foodgram/internal/domain/recipe"
	"github.com/alchemorsel/foodgram/internal/domain/relation"
	"github.com/alchemorsel/foodgram/internal/domain/user"
	"github.com/alchemorsel/foodgram/internal/ports/inbound"
	"github.com/alchemorsel/foodgram/internal/ports/outbound"
	"github.com/google/uuid"
)

// Projector builds RecipeView, RecipeShortView and SubscriptionView values.
type Projector struct {
	users     outbound.UserRepository
	recipes   outbound.RecipeRepository
	relations outbound.RelationRepository
}

// NewProjector creates a projector.
func NewProjector(users outbound.UserRepository, recipes outbound.RecipeRepository, relations outbound.RelationRepository) *Projector {
	return &Projector{users: users, recipes: recipes, relations: relations}
}

// ProjectRecipe returns the full view of r as seen by viewer.
func (p *Projector) ProjectRecipe(ctx context.Context, r *recipe.Recipe, viewer *uuid.UUID) (*inbound.RecipeView, error) {
	view, err := p.BaseRecipe(ctx, r)
	if err != nil {
		return nil, err
	}
	if err := p.Personalize(ctx, view, viewer); err != nil {
		return nil, err
	}
	return view, nil
}

// BaseRecipe returns the full view of r with every viewer-relative flag false.
// The result is the same for every caller and may be cached.
func (p *Projector) BaseRecipe(ctx context.Context, r *recipe.Recipe) (*inbound.RecipeView, error) {
	author, err := p.users.FindByID(ctx, r.AuthorID())
	if err != nil {
		return nil, fmt.Errorf("load author %s: %w", r.AuthorID(), err)
	}

	tags := r.Tags()
	tagViews := make([]inbound.TagView, len(tags))
	for i, t := range tags {
		tagViews[i] = inbound.TagView{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
	}

	lines := r.Ingredients()
	lineViews := make([]inbound.IngredientAmountView, len(lines))
	for i, l := range lines {
		lineViews[i] = inbound.IngredientAmountView{
			ID:              l.Ingredient.ID,
			Name:            l.Ingredient.Name,
			MeasurementUnit: l.Ingredient.MeasurementUnit,
			Amount:          l.Amount,
		}
	}

	return &inbound.RecipeView{
		ID:          r.ID(),
		Tags:        tagViews,
		Author:      UserBase(author),
		Ingredients: lineViews,
		Name:        r.Name(),
		Image:       r.Image(),
		Text:        r.Text(),
		CookingTime: r.CookingTime(),
	}, nil
}

// Personalize fills in isFavorited, isInShoppingCart and the author's
// isSubscribed for viewer. An anonymous viewer gets all three false.
func (p *Projector) Personalize(ctx context.Context, view *inbound.RecipeView, viewer *uuid.UUID) error {
	view.IsFavorited = false
	view.IsInShoppingCart = false
	view.Author.IsSubscribed = false
	if viewer == nil {
		return nil
	}

	var err error
	if view.IsFavorited, err = p.relations.Exists(ctx, relation.KindFavorite, *viewer, view.ID); err != nil {
		return fmt.Errorf("check favorite: %w", err)
	}
	if view.IsInShoppingCart, err = p.relations.Exists(ctx, relation.KindShoppingCart, *viewer, view.ID); err != nil {
		return fmt.Errorf("check shopping cart: %w", err)
	}
	if view.Author.IsSubscribed, err = p.relations.Exists(ctx, relation.KindSubscription, *viewer, view.Author.ID); err != nil {
		return fmt.Errorf("check subscription: %w", err)
	}
	return nil
}

// ProjectRecipeShort returns the summary view of r.
func ProjectRecipeShort(r *recipe.Recipe) inbound.RecipeShortView {
	return inbound.RecipeShortView{
		ID:          r.ID(),
		Name:        r.Name(),
		Image:       r.Image(),
		CookingTime: r.CookingTime(),
	}
}

// ProjectUser returns u as seen by viewer.
func (p *Projector) ProjectUser(ctx context.Context, u *user.User, viewer *uuid.UUID) (inbound.UserView, error) {
	view := UserBase(u)
	if viewer == nil {
		return view, nil
	}
	subscribed, err := p.relations.Exists(ctx, relation.KindSubscription, *viewer, u.ID())
	if err != nil {
		return inbound.UserView{}, fmt.Errorf("check subscription: %w", err)
	}
	view.IsSubscribed = subscribed
	return view, nil
}

// ProjectSubscribedUser returns author with a preview of their recipes,
// newest first. A nil recipesLimit includes every recipe; recipesCount is
// always the author's total.
func (p *Projector) ProjectSubscribedUser(ctx context.Context, author *user.User, viewer *uuid.UUID, recipesLimit *int) (*inbound.SubscriptionView, error) {
	userView, err := p.ProjectUser(ctx, author, viewer)
	if err != nil {
		return nil, err
	}

	count, err := p.recipes.CountByAuthor(ctx, author.ID())
	if err != nil {
		return nil, fmt.Errorf("count recipes of %s: %w", author.ID(), err)
	}

	previews := []inbound.RecipeShortView{}
	limit := 0
	if recipesLimit != nil {
		limit = *recipesLimit
	}
	if recipesLimit == nil || limit > 0 {
		recipes, err := p.recipes.FindByAuthor(ctx, author.ID(), limit)
		if err != nil {
			return nil, fmt.Errorf("list recipes of %s: %w", author.ID(), err)
		}
		for _, r := range recipes {
			previews = append(previews, ProjectRecipeShort(r))
		}
	}

	return &inbound.SubscriptionView{
		UserView:     userView,
		Recipes:      previews,
		RecipesCount: count,
	}, nil
}

// UserBase returns the viewer-independent part of a UserView.
func UserBase(u *user.User) inbound.UserView {
	return inbound.UserView{
		Email:     u.Email(),
		ID:        u.ID(),
		Username:  u.Username(),
		FirstName: u.FirstName(),
		LastName:  u.LastName(),
	}
}
