// Package relation models uniquely keyed links between a user and a target:
// favorites, shopping-cart entries and subscriptions.
package relation

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnknownKind    = errors.New("unknown relation kind")
	ErrSelfReference  = errors.New("relation subject and target are the same")
	ErrAlreadyExists  = errors.New("relation already exists")
	ErrNotFound       = errors.New("relation does not exist")
	ErrTargetNotFound = errors.New("relation target vanished before the write")
)

// Kind names a relation family.
type Kind string

const (
	KindFavorite     Kind = "favorite"
	KindShoppingCart Kind = "shopping_cart"
	KindSubscription Kind = "subscription"
)

// TargetType is the entity a relation points at.
type TargetType string

const (
	TargetRecipe TargetType = "recipe"
	TargetUser   TargetType = "user"
)

// Kinds lists every supported kind.
func Kinds() []Kind {
	return []Kind{KindFavorite, KindShoppingCart, KindSubscription}
}

// ParseKind converts a stored or routed value to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	switch k {
	case KindFavorite, KindShoppingCart, KindSubscription:
		return true
	}
	return false
}

// TargetType returns what the kind points at.
func (k Kind) TargetType() TargetType {
	if k == KindSubscription {
		return TargetUser
	}
	return TargetRecipe
}

// AllowsSelfReference reports whether subject and target may coincide.
func (k Kind) AllowsSelfReference() bool {
	return k != KindSubscription
}

// Relation is one row of the (subject, target, kind) set.
type Relation struct {
	SubjectID uuid.UUID
	TargetID  uuid.UUID
	Kind      Kind
	CreatedAt time.Time
}

// New builds a relation, applying the per-kind self-reference rule.
func New(kind Kind, subjectID, targetID uuid.UUID) (Relation, error) {
	if !kind.Valid() {
		return Relation{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if !kind.AllowsSelfReference() && subjectID == targetID {
		return Relation{}, ErrSelfReference
	}
	return Relation{
		SubjectID: subjectID,
		TargetID:  targetID,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// AddedEvent is raised after a relation row is inserted.
type AddedEvent struct {
	Relation Relation `json:"relation"`
}

func (e AddedEvent) EventName() string {
	return "relation." + string(e.Relation.Kind) + ".added"
}

func (e AddedEvent) OccurredAt() time.Time {
	return e.Relation.CreatedAt
}

// RemovedEvent is raised after a relation row is deleted.
type RemovedEvent struct {
	SubjectID uuid.UUID `json:"subject_id"`
	TargetID  uuid.UUID `json:"target_id"`
	Kind      Kind      `json:"kind"`
	RemovedAt time.Time `json:"removed_at"`
}

func (e RemovedEvent) EventName() string {
	return "relation." + string(e.Kind) + ".removed"
}

func (e RemovedEvent) OccurredAt() time.Time {
	return e.RemovedAt
}
