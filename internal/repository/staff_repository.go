package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/placement-studio/internal/domain"
	"github.com/spec-kit/placement-studio/internal/persistence"
)

// StaffKey is the gateway key suffix for the staff roster.
const StaffKey = "staff"

// StaffRepository handles persistence for the staff roster.
type StaffRepository interface {
	// List returns the stored roster. ok is false when nothing could be
	// read, and the fallback is returned instead.
	List(ctx context.Context, fallback []domain.Staff) (staff []domain.Staff, ok bool)
	Save(ctx context.Context, staff []domain.Staff)
	// Seed stores initial only when no roster is stored yet.
	Seed(ctx context.Context, initial []domain.Staff) bool
}

type staffRepository struct {
	collection *persistence.Collection[[]domain.Staff]
}

// NewStaffRepository instantiates the repository under prefix+StaffKey.
func NewStaffRepository(gw persistence.Gateway, prefix string, logger *zap.Logger) StaffRepository {
	return &staffRepository{collection: persistence.NewCollection[[]domain.Staff](gw, prefix+StaffKey, logger)}
}

func (r *staffRepository) List(ctx context.Context, fallback []domain.Staff) ([]domain.Staff, bool) {
	staff, ok := r.collection.Read(ctx, fallback)
	return cloneStaff(staff), ok
}

func (r *staffRepository) Save(ctx context.Context, staff []domain.Staff) {
	if staff == nil {
		staff = []domain.Staff{}
	}
	r.collection.Store(ctx, staff)
}

func (r *staffRepository) Seed(ctx context.Context, initial []domain.Staff) bool {
	if initial == nil {
		initial = []domain.Staff{}
	}
	return r.collection.Init(ctx, initial)
}

func cloneStaff(in []domain.Staff) []domain.Staff {
	out := make([]domain.Staff, len(in))
	copy(out, in)
	return out
}
