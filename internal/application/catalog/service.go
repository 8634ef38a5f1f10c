// Package catalog provides read access to tags and ingredients with a
// cache-aside layer; reference data never changes once written.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alchemorsel/foodgram/internal/domain/catalog"
	"github.com/alchemorsel/foodgram/internal/ports/inbound"
	"github.com/alchemorsel/foodgram/internal/ports/outbound"
	"github.com/alchemorsel/foodgram/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const searchLimit = 50

// Service implements inbound.CatalogService and the bulk lookups the recipe
// validator depends on.
type Service struct {
	repo   outbound.CatalogRepository
	cache  outbound.CacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewService creates a catalog service. A nil cache disables caching.
func NewService(repo outbound.CatalogRepository, cache outbound.CacheRepository, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger.Named("catalog-service"),
	}
}

var _ inbound.CatalogService = (*Service)(nil)

// ResolveTags looks up tags by id. Ids that do not exist are absent from the result.
func (s *Service) ResolveTags(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.Tag, error) {
	found := make(map[uuid.UUID]catalog.Tag, len(ids))
	misses := s.fromCache(ctx, "tag", ids, func(id uuid.UUID, data []byte) bool {
		var t catalog.Tag
		if json.Unmarshal(data, &t) != nil {
			return false
		}
		found[id] = t
		return true
	})
	if len(misses) == 0 {
		return found, nil
	}

	loaded, err := s.repo.FindTagsByIDs(ctx, misses)
	if err != nil {
		return nil, errors.NewDatabaseError("load tags", err)
	}
	for id, t := range loaded {
		found[id] = t
		s.store(ctx, cacheKey("tag", id), t)
	}
	return found, nil
}

// ResolveIngredients looks up ingredients by id. Ids that do not exist are absent from the result.
func (s *Service) ResolveIngredients(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.Ingredient, error) {
	found := make(map[uuid.UUID]catalog.Ingredient, len(ids))
	misses := s.fromCache(ctx, "ingredient", ids, func(id uuid.UUID, data []byte) bool {
		var in catalog.Ingredient
		if json.Unmarshal(data, &in) != nil {
			return false
		}
		found[id] = in
		return true
	})
	if len(misses) == 0 {
		return found, nil
	}

	loaded, err := s.repo.FindIngredientsByIDs(ctx, misses)
	if err != nil {
		return nil, errors.NewDatabaseError("load ingredients", err)
	}
	for id, in := range loaded {
		found[id] = in
		s.store(ctx, cacheKey("ingredient", id), in)
	}
	return found, nil
}

// ResolveTag returns one tag or NotFound.
func (s *Service) ResolveTag(ctx context.Context, id uuid.UUID) (*inbound.TagView, error) {
	tags, err := s.ResolveTags(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	t, ok := tags[id]
	if !ok {
		return nil, errors.NewNotFoundError(catalog.ErrTagNotFound.Error()).WithMetadata("tag_id", id.String())
	}
	view := TagToView(t)
	return &view, nil
}

// ResolveIngredient returns one ingredient or NotFound.
func (s *Service) ResolveIngredient(ctx context.Context, id uuid.UUID) (*inbound.IngredientView, error) {
	ingredients, err := s.ResolveIngredients(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	in, ok := ingredients[id]
	if !ok {
		return nil, errors.NewNotFoundError(catalog.ErrIngredientNotFound.Error()).WithMetadata("ingredient_id", id.String())
	}
	view := IngredientToView(in)
	return &view, nil
}

// ListTags returns every tag.
func (s *Service) ListTags(ctx context.Context) ([]inbound.TagView, error) {
	tags, err := s.repo.ListTags(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("list tags", err)
	}
	views := make([]inbound.TagView, len(tags))
	for i, t := range tags {
		views[i] = TagToView(t)
	}
	return views, nil
}

// SearchIngredients returns ingredients whose name starts with namePrefix.
func (s *Service) SearchIngredients(ctx context.Context, namePrefix string) ([]inbound.IngredientView, error) {
	ingredients, err := s.repo.SearchIngredients(ctx, namePrefix, searchLimit)
	if err != nil {
		return nil, errors.NewDatabaseError("search ingredients", err)
	}
	views := make([]inbound.IngredientView, len(ingredients))
	for i, in := range ingredients {
		views[i] = IngredientToView(in)
	}
	return views, nil
}

// TagToView converts a domain tag to its public shape.
func TagToView(t catalog.Tag) inbound.TagView {
	return inbound.TagView{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

// IngredientToView converts a domain ingredient to its public shape.
func IngredientToView(in catalog.Ingredient) inbound.IngredientView {
	return inbound.IngredientView{ID: in.ID, Name: in.Name, MeasurementUnit: in.MeasurementUnit}
}

// fromCache feeds cached entries to decode and returns the ids still missing.
func (s *Service) fromCache(ctx context.Context, kind string, ids []uuid.UUID, decode func(uuid.UUID, []byte) bool) []uuid.UUID {
	if s.cache == nil {
		return ids
	}
	var misses []uuid.UUID
	for _, id := range ids {
		data, err := s.cache.Get(ctx, cacheKey(kind, id))
		if err != nil || !decode(id, data) {
			misses = append(misses, id)
		}
	}
	return misses
}

func (s *Service) store(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Warn("Failed to cache catalog entry", zap.String("key", key), zap.Error(err))
	}
}

func cacheKey(kind string, id uuid.UUID) string {
	return fmt.Sprintf("catalog:%s:%s", kind, id)
}
