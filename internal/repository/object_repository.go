package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/placement-studio/internal/domain"
	"github.com/spec-kit/placement-studio/internal/persistence"
)

// ObjectKey is the gateway key suffix for placed objects.
const ObjectKey = "objects"

// ObjectRepository handles persistence for placed objects.
type ObjectRepository interface {
	List(ctx context.Context, fallback []domain.PlacedObject) (objects []domain.PlacedObject, ok bool)
	Save(ctx context.Context, objects []domain.PlacedObject)
	Seed(ctx context.Context, initial []domain.PlacedObject) bool
}

type objectRepository struct {
	collection *persistence.Collection[[]domain.PlacedObject]
}

// NewObjectRepository instantiates the repository under prefix+ObjectKey.
func NewObjectRepository(gw persistence.Gateway, prefix string, logger *zap.Logger) ObjectRepository {
	return &objectRepository{collection: persistence.NewCollection[[]domain.PlacedObject](gw, prefix+ObjectKey, logger)}
}

func (r *objectRepository) List(ctx context.Context, fallback []domain.PlacedObject) ([]domain.PlacedObject, bool) {
	loaded, ok := r.collection.Read(ctx, fallback)
	out := make([]domain.PlacedObject, len(loaded))
	copy(out, loaded)
	return out, ok
}

func (r *objectRepository) Save(ctx context.Context, objects []domain.PlacedObject) {
	if objects == nil {
		objects = []domain.PlacedObject{}
	}
	r.collection.Store(ctx, objects)
}

func (r *objectRepository) Seed(ctx context.Context, initial []domain.PlacedObject) bool {
	if initial == nil {
		initial = []domain.PlacedObject{}
	}
	return r.collection.Init(ctx, initial)
}
