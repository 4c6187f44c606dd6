package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/placement-studio/internal/domain"
	"github.com/spec-kit/placement-studio/internal/events"
	"github.com/spec-kit/placement-studio/internal/repository"
	apperrors "github.com/spec-kit/placement-studio/pkg/util/errorutil"
)

// EntityStore owns the staff roster and the placed objects. Staff reads
// always recompute AttachedObjectCount from the current objects.
//
// When a collection cannot be read the seed data stands in for it and the
// store answers from that view, but nothing derived from it is written back.
type EntityStore struct {
	mu         sync.Mutex
	staff      repository.StaffRepository
	objects    repository.ObjectRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	seed       SeedData
}

// SeedData is written, with a conditional write, when a collection key is absent.
type SeedData struct {
	Staff   []domain.Staff
	Objects []domain.PlacedObject
}

// StoreDependencies bundles repositories and collaborators.
type StoreDependencies struct {
	StaffRepo  repository.StaffRepository
	ObjectRepo repository.ObjectRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Seed       *SeedData
}

// NewEntityStore creates the store. A nil Seed starts from empty collections.
func NewEntityStore(deps StoreDependencies) *EntityStore {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &EntityStore{
		staff:      deps.StaffRepo,
		objects:    deps.ObjectRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
	if deps.Seed != nil {
		s.seed = *deps.Seed
	}
	return s
}

// ListStaff returns the roster with freshly computed ownership counts.
func (s *EntityStore) ListStaff(ctx context.Context) ([]domain.Staff, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	staff, objects, ok := s.loadLocked(ctx)
	counted := domain.CountOwnership(staff, objects)
	if ok {
		s.staff.Save(ctx, counted)
	}
	return counted, nil
}

// GetStaff returns one staff member with a fresh count.
func (s *EntityStore) GetStaff(ctx context.Context, id string) (*domain.Staff, error) {
	staff, err := s.ListStaff(ctx)
	if err != nil {
		return nil, err
	}
	for i := range staff {
		if staff[i].ID == id {
			return &staff[i], nil
		}
	}
	return nil, apperrors.NewNotFound("staff", map[string]any{"staff_id": id})
}

// CreateStaff appends a staff member.
func (s *EntityStore) CreateStaff(ctx context.Context, input domain.StaffInput) (*domain.Staff, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	staff, objects, ok := s.loadLocked(ctx)
	staff = append(staff, domain.Staff{
		ID:          uuid.NewString(),
		FullName:    input.FullName,
		WeeklyHours: input.WeeklyHours,
	})
	counted := domain.CountOwnership(staff, objects)
	if s.writable(ok, "create_staff") {
		s.staff.Save(ctx, counted)
	}
	created := counted[len(counted)-1]
	s.mu.Unlock()

	s.publish(ctx, events.NewEvent(events.EventStaffCreated, created.ID, created))
	return &created, nil
}

// UpdateStaff applies patch to the staff member with id.
func (s *EntityStore) UpdateStaff(ctx context.Context, id string, patch domain.StaffPatch) (*domain.Staff, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	staff, objects, ok := s.loadLocked(ctx)
	index := indexOfStaff(staff, id)
	if index < 0 {
		s.mu.Unlock()
		return nil, apperrors.NewNotFound("staff", map[string]any{"staff_id": id})
	}
	staff[index] = patch.Apply(staff[index])
	counted := domain.CountOwnership(staff, objects)
	if s.writable(ok, "update_staff") {
		s.staff.Save(ctx, counted)
	}
	updated := counted[index]
	s.mu.Unlock()

	s.publish(ctx, events.NewEvent(events.EventStaffUpdated, updated.ID, updated))
	return &updated, nil
}

// DeleteStaff removes a staff member. Objects owned by it are left untouched
// and keep the now dangling owner id.
func (s *EntityStore) DeleteStaff(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	staff, objects, ok := s.loadLocked(ctx)
	index := indexOfStaff(staff, id)
	if index < 0 {
		s.mu.Unlock()
		return apperrors.NewNotFound("staff", map[string]any{"staff_id": id})
	}
	staff = append(staff[:index], staff[index+1:]...)
	if s.writable(ok, "delete_staff") {
		s.staff.Save(ctx, staff)
	}
	orphaned := 0
	for _, object := range objects {
		if object.OwnerID == id {
			orphaned++
		}
	}
	s.mu.Unlock()

	if orphaned > 0 {
		s.logger.Info("staff deleted with attached objects", zap.String("staff_id", id), zap.Int("orphaned", orphaned))
	}
	s.publish(ctx, events.NewEvent(events.EventStaffDeleted, id, events.StaffDeletedPayload{OrphanedObjects: orphaned}))
	return nil
}

// ListObjects returns all placed objects.
func (s *EntityStore) ListObjects(ctx context.Context) ([]domain.PlacedObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	objects, _ := s.loadObjectsLocked(ctx)
	return objects, nil
}

// GetObject returns one placed object.
func (s *EntityStore) GetObject(ctx context.Context, id string) (*domain.PlacedObject, error) {
	objects, err := s.ListObjects(ctx)
	if err != nil {
		return nil, err
	}
	for i := range objects {
		if objects[i].ID == id {
			return &objects[i], nil
		}
	}
	return nil, apperrors.NewNotFound("object", map[string]any{"object_id": id})
}

// CreateObject appends an object. The owner id is not checked against the roster.
func (s *EntityStore) CreateObject(ctx context.Context, input domain.ObjectInput) (*domain.PlacedObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	staff, objects, ok := s.loadLocked(ctx)
	size := input.SizeClass
	if size == "" {
		size = domain.SizeNormal
	}
	created := domain.PlacedObject{
		ID:          uuid.NewString(),
		DisplayName: input.DisplayName,
		OwnerID:     input.OwnerID,
		ColorHex:    input.ColorHex,
		Position:    input.Position,
		SizeClass:   size,
	}
	s.saveObjectsLocked(ctx, ok, "create_object", staff, append(objects, created))
	s.mu.Unlock()

	s.publish(ctx, events.NewEvent(events.EventObjectCreated, created.ID, created))
	return &created, nil
}

// UpdateObject applies patch to the object with id.
func (s *EntityStore) UpdateObject(ctx context.Context, id string, patch domain.ObjectPatch) (*domain.PlacedObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	staff, objects, ok := s.loadLocked(ctx)
	index := indexOfObject(objects, id)
	if index < 0 {
		s.mu.Unlock()
		return nil, apperrors.NewNotFound("object", map[string]any{"object_id": id})
	}
	objects[index] = patch.Apply(objects[index])
	updated := objects[index]
	s.saveObjectsLocked(ctx, ok, "update_object", staff, objects)
	s.mu.Unlock()

	s.publish(ctx, events.NewEvent(events.EventObjectUpdated, updated.ID, updated))
	return &updated, nil
}

// DeleteObject removes the object with id.
func (s *EntityStore) DeleteObject(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	staff, objects, ok := s.loadLocked(ctx)
	index := indexOfObject(objects, id)
	if index < 0 {
		s.mu.Unlock()
		return apperrors.NewNotFound("object", map[string]any{"object_id": id})
	}
	removed := objects[index]
	s.saveObjectsLocked(ctx, ok, "delete_object", staff, append(objects[:index], objects[index+1:]...))
	s.mu.Unlock()

	s.publish(ctx, events.NewEvent(events.EventObjectDeleted, id, events.ObjectDeletedPayload{OwnerID: removed.OwnerID}))
	return nil
}

// loadLocked reads both collections. ok is false when either had to be
// replaced by its seed.
func (s *EntityStore) loadLocked(ctx context.Context) ([]domain.Staff, []domain.PlacedObject, bool) {
	s.staff.Seed(ctx, s.seed.Staff)
	staff, staffOK := s.staff.List(ctx, s.seed.Staff)
	objects, objectsOK := s.loadObjectsLocked(ctx)
	return staff, objects, staffOK && objectsOK
}

// loadObjectsLocked stores the seed only if the key is absent, then reads.
// It never writes a fallback over stored data.
func (s *EntityStore) loadObjectsLocked(ctx context.Context) ([]domain.PlacedObject, bool) {
	s.objects.Seed(ctx, s.seed.Objects)
	return s.objects.List(ctx, s.seed.Objects)
}

// saveObjectsLocked writes objects and the recounted roster.
func (s *EntityStore) saveObjectsLocked(ctx context.Context, ok bool, op string, staff []domain.Staff, objects []domain.PlacedObject) {
	if !s.writable(ok, op) {
		return
	}
	s.objects.Save(ctx, objects)
	s.staff.Save(ctx, domain.CountOwnership(staff, objects))
}

func (s *EntityStore) writable(ok bool, op string) bool {
	if !ok {
		s.logger.Warn("collections unreadable; change not persisted", zap.String("op", op))
	}
	return ok
}

func (s *EntityStore) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func indexOfStaff(staff []domain.Staff, id string) int {
	for i := range staff {
		if staff[i].ID == id {
			return i
		}
	}
	return -1
}

func indexOfObject(objects []domain.PlacedObject, id string) int {
	for i := range objects {
		if objects[i].ID == id {
			return i
		}
	}
	return -1
}
