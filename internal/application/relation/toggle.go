// Package relation implements the add/remove protocol shared by favorites,
// the shopping cart and subscriptions.
package relation

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/alchemorsel/foodgram/internal/application/eventing"
	"github.com/alchemorsel/foodgram/internal/domain/relation"
	"github.com/alchemorsel/foodgram/internal/ports/outbound"
	"github.com/alchemorsel/foodgram/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options carries per-request projection settings.
type Options struct {
	// RecipesLimit truncates subscription recipe previews; nil means all.
	RecipesLimit *int
}

// Descriptor configures one relation kind: how its target is found, how the
// target is rendered, and the messages reported to callers. The
// self-reference rule comes from the kind itself.
type Descriptor[T, V any] struct {
	Kind relation.Kind
	// Resolve loads the target. It must return a NOT_FOUND AppError when the
	// target does not exist.
	Resolve func(ctx context.Context, id uuid.UUID) (T, error)
	Project func(ctx context.Context, target T, subject uuid.UUID, opts Options) (V, error)

	DuplicateMessage string
	MissingMessage   string
}

// Toggle runs the relation protocol for one Descriptor.
type Toggle[T, V any] struct {
	desc      Descriptor[T, V]
	relations outbound.RelationRepository
	events    *eventing.Publisher
	logger    *zap.Logger
}

// NewToggle binds a descriptor to storage.
func NewToggle[T, V any](desc Descriptor[T, V], relations outbound.RelationRepository, events *eventing.Publisher, logger *zap.Logger) *Toggle[T, V] {
	return &Toggle[T, V]{
		desc:      desc,
		relations: relations,
		events:    events,
		logger:    logger.With(zap.String("kind", string(desc.Kind))),
	}
}

// Add links subject to target. Checks run in this order: the target exists,
// the link is not a forbidden self-reference, the link is not already present.
// The last check and the insert are a single storage operation.
func (t *Toggle[T, V]) Add(ctx context.Context, subject, targetID uuid.UUID, opts Options) (V, error) {
	var zero V

	target, err := t.desc.Resolve(ctx, targetID)
	if err != nil {
		return zero, err
	}

	rel, err := relation.New(t.desc.Kind, subject, targetID)
	if err != nil {
		if stderrors.Is(err, relation.ErrSelfReference) {
			return zero, errors.NewSelfReferenceError(err.Error())
		}
		return zero, errors.NewBadRequestError(err.Error())
	}

	if err := t.relations.Add(ctx, rel); err != nil {
		switch {
		case stderrors.Is(err, relation.ErrAlreadyExists):
			return zero, errors.NewAlreadyExistsError(t.desc.DuplicateMessage)
		case stderrors.Is(err, relation.ErrTargetNotFound):
			// deleted after Resolve; report it the same way Resolve would
			if _, resolveErr := t.desc.Resolve(ctx, targetID); resolveErr != nil {
				return zero, resolveErr
			}
			return zero, errors.NewNotFoundError(err.Error())
		}
		return zero, errors.NewDatabaseError("add "+string(t.desc.Kind), err)
	}

	t.logger.Debug("Relation added",
		zap.String("subject_id", subject.String()),
		zap.String("target_id", targetID.String()),
	)
	t.events.Publish(ctx, relation.AddedEvent{Relation: rel})

	return t.desc.Project(ctx, target, subject, opts)
}

// Remove unlinks subject from target. It fails with NOT_FOUND when either the
// target or the link is absent.
func (t *Toggle[T, V]) Remove(ctx context.Context, subject, targetID uuid.UUID) error {
	if _, err := t.desc.Resolve(ctx, targetID); err != nil {
		return err
	}

	if err := t.relations.Remove(ctx, t.desc.Kind, subject, targetID); err != nil {
		if stderrors.Is(err, relation.ErrNotFound) {
			return errors.NewNotFoundError(t.desc.MissingMessage)
		}
		return errors.NewDatabaseError("remove "+string(t.desc.Kind), err)
	}

	t.logger.Debug("Relation removed",
		zap.String("subject_id", subject.String()),
		zap.String("target_id", targetID.String()),
	)
	t.events.Publish(ctx, relation.RemovedEvent{
		SubjectID: subject,
		TargetID:  targetID,
		Kind:      t.desc.Kind,
		RemovedAt: time.Now().UTC(),
	})
	return nil
}
