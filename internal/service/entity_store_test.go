package service

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/placement-studio/internal/domain"
	"github.com/spec-kit/placement-studio/internal/events"
	"github.com/spec-kit/placement-studio/internal/persistence"
	"github.com/spec-kit/placement-studio/internal/repository"
	apperrors "github.com/spec-kit/placement-studio/pkg/util/errorutil"
)

func newTestStore(t *testing.T, seed *SeedData) (*EntityStore, *persistence.MemoryGateway, events.Dispatcher) {
	t.Helper()
	logger := zap.NewNop()
	gw := persistence.NewMemoryGateway(0, logger)
	dispatcher := events.NewInMemoryDispatcher()
	store := NewEntityStore(StoreDependencies{
		StaffRepo:  repository.NewStaffRepository(gw, "test:", logger),
		ObjectRepo: repository.NewObjectRepository(gw, "test:", logger),
		Dispatcher: dispatcher,
		Logger:     logger,
		Seed:       seed,
	})
	return store, gw, dispatcher
}

func objectInput(owner string) domain.ObjectInput {
	return domain.ObjectInput{
		DisplayName: "Cube",
		OwnerID:     owner,
		ColorHex:    "#f97316",
		Position:    domain.Position{X: 0, Y: domain.RestingHeight, Z: 0},
		SizeClass:   domain.SizeNormal,
	}
}

func assertCountsMatch(t *testing.T, store *EntityStore) {
	t.Helper()
	ctx := context.Background()
	staff, err := store.ListStaff(ctx)
	if err != nil {
		t.Fatalf("ListStaff: %v", err)
	}
	objects, err := store.ListObjects(ctx)
	if err != nil {
		t.Fatalf("ListObjects: %v", err)
	}
	for _, s := range staff {
		live := 0
		for _, o := range objects {
			if o.OwnerID == s.ID {
				live++
			}
		}
		if s.AttachedObjectCount != live {
			t.Fatalf("staff %s count %d, live %d", s.ID, s.AttachedObjectCount, live)
		}
	}
}

func TestEntityStore_CountsTrackObjectMutations(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore(t, nil)

	var staffIDs []string
	for _, name := range []string{"Ada", "Grace", "Linus"} {
		s, err := store.CreateStaff(ctx, domain.StaffInput{FullName: name, WeeklyHours: 40})
		if err != nil {
			t.Fatalf("CreateStaff: %v", err)
		}
		staffIDs = append(staffIDs, s.ID)
	}

	rng := rand.New(rand.NewSource(7))
	var objectIDs []string
	for step := 0; step < 200; step++ {
		switch op := rng.Intn(3); {
		case op == 0 || len(objectIDs) == 0:
			o, err := store.CreateObject(ctx, objectInput(staffIDs[rng.Intn(len(staffIDs))]))
			if err != nil {
				t.Fatalf("CreateObject: %v", err)
			}
			objectIDs = append(objectIDs, o.ID)
		case op == 1:
			id := objectIDs[rng.Intn(len(objectIDs))]
			owner := staffIDs[rng.Intn(len(staffIDs))]
			if _, err := store.UpdateObject(ctx, id, domain.ObjectPatch{OwnerID: &owner}); err != nil {
				t.Fatalf("UpdateObject: %v", err)
			}
		default:
			i := rng.Intn(len(objectIDs))
			if err := store.DeleteObject(ctx, objectIDs[i]); err != nil {
				t.Fatalf("DeleteObject: %v", err)
			}
			objectIDs = append(objectIDs[:i], objectIDs[i+1:]...)
		}
		assertCountsMatch(t, store)
	}
}

func TestEntityStore_DeleteStaffKeepsObjects(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore(t, nil)

	doomed, _ := store.CreateStaff(ctx, domain.StaffInput{FullName: "Ada", WeeklyHours: 40})
	keeper, _ := store.CreateStaff(ctx, domain.StaffInput{FullName: "Grace", WeeklyHours: 30})
	o1, _ := store.CreateObject(ctx, objectInput(doomed.ID))
	o2, _ := store.CreateObject(ctx, objectInput(keeper.ID))

	if err := store.DeleteStaff(ctx, doomed.ID); err != nil {
		t.Fatalf("DeleteStaff: %v", err)
	}

	objects, _ := store.ListObjects(ctx)
	if len(objects) != 2 {
		t.Fatalf("got %d objects, want 2", len(objects))
	}
	got, err := store.GetObject(ctx, o1.ID)
	if err != nil {
		t.Fatalf("GetObject: %v", err)
	}
	if *got != *o1 {
		t.Errorf("orphaned object changed: %+v, want %+v", *got, *o1)
	}

	staff, _ := store.ListStaff(ctx)
	if len(staff) != 1 || staff[0].ID != keeper.ID {
		t.Fatalf("roster %+v", staff)
	}
	if staff[0].AttachedObjectCount != 1 {
		t.Errorf("keeper count %d, want 1", staff[0].AttachedObjectCount)
	}
	_ = o2
}

func TestEntityStore_OrphanOwnerAccepted(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore(t, nil)

	o, err := store.CreateObject(ctx, objectInput("nobody"))
	if err != nil {
		t.Fatalf("CreateObject with unknown owner: %v", err)
	}
	ghost := "still-nobody"
	if _, err := store.UpdateObject(ctx, o.ID, domain.ObjectPatch{OwnerID: &ghost}); err != nil {
		t.Fatalf("UpdateObject with unknown owner: %v", err)
	}
}

func TestEntityStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore(t, nil)
	name := "x"

	if _, err := store.UpdateStaff(ctx, "missing", domain.StaffPatch{FullName: &name}); !apperrors.IsNotFound(err) {
		t.Errorf("UpdateStaff err %v, want NOT_FOUND", err)
	}
	if err := store.DeleteStaff(ctx, "missing"); !apperrors.IsNotFound(err) {
		t.Errorf("DeleteStaff err %v, want NOT_FOUND", err)
	}
	if _, err := store.UpdateObject(ctx, "missing", domain.ObjectPatch{DisplayName: &name}); !apperrors.IsNotFound(err) {
		t.Errorf("UpdateObject err %v, want NOT_FOUND", err)
	}
	if err := store.DeleteObject(ctx, "missing"); !apperrors.IsNotFound(err) {
		t.Errorf("DeleteObject err %v, want NOT_FOUND", err)
	}
	if _, err := store.GetStaff(ctx, "missing"); !apperrors.IsNotFound(err) {
		t.Errorf("GetStaff err %v, want NOT_FOUND", err)
	}
}

func TestEntityStore_UpdateStaffKeepsCount(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore(t, nil)

	s, _ := store.CreateStaff(ctx, domain.StaffInput{FullName: "Ada", WeeklyHours: 40})
	_, _ = store.CreateObject(ctx, objectInput(s.ID))

	hours := 20.0
	updated, err := store.UpdateStaff(ctx, s.ID, domain.StaffPatch{WeeklyHours: &hours})
	if err != nil {
		t.Fatalf("UpdateStaff: %v", err)
	}
	if updated.WeeklyHours != 20 || updated.FullName != "Ada" {
		t.Errorf("updated %+v", updated)
	}
	if updated.AttachedObjectCount != 1 {
		t.Errorf("count %d, want 1", updated.AttachedObjectCount)
	}
}

func TestEntityStore_SeedOnlyWhenAbsent(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore(t, DemoSeed())

	staff, _ := store.ListStaff(ctx)
	if len(staff) != 3 {
		t.Fatalf("seeded roster size %d, want 3", len(staff))
	}
	for _, s := range staff {
		if s.AttachedObjectCount != 1 {
			t.Errorf("%s count %d, want 1", s.FullName, s.AttachedObjectCount)
		}
	}

	objects, _ := store.ListObjects(ctx)
	for _, o := range objects {
		if err := store.DeleteObject(ctx, o.ID); err != nil {
			t.Fatalf("DeleteObject: %v", err)
		}
	}
	objects, _ = store.ListObjects(ctx)
	if len(objects) != 0 {
		t.Errorf("seed reapplied after deleting everything: %d objects", len(objects))
	}
}

func TestEntityStore_PublishesEvents(t *testing.T) {
	ctx := context.Background()
	store, _, dispatcher := newTestStore(t, nil)

	var got []events.EventType
	for _, eventType := range events.AllTypes {
		dispatcher.Subscribe(eventType, func(ctx context.Context, e events.Event) error {
			got = append(got, e.Type)
			return nil
		})
	}

	s, _ := store.CreateStaff(ctx, domain.StaffInput{FullName: "Ada", WeeklyHours: 40})
	o, _ := store.CreateObject(ctx, objectInput(s.ID))
	name := "Renamed"
	_, _ = store.UpdateObject(ctx, o.ID, domain.ObjectPatch{DisplayName: &name})
	_ = store.DeleteObject(ctx, o.ID)
	_ = store.DeleteStaff(ctx, s.ID)

	want := []events.EventType{
		events.EventStaffCreated,
		events.EventObjectCreated,
		events.EventObjectUpdated,
		events.EventObjectDeleted,
		events.EventStaffDeleted,
	}
	if len(got) != len(want) {
		t.Fatalf("events %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestEntityStore_CancelledContext(t *testing.T) {
	store, _, _ := newTestStore(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.CreateObject(ctx, objectInput("s")); err == nil {
		t.Fatal("expected context error")
	}
	objects, _ := store.ListObjects(context.Background())
	if len(objects) != 0 {
		t.Errorf("cancelled create wrote %d objects", len(objects))
	}
}

func TestEntityStore_GatewayOutageIsSwallowed(t *testing.T) {
	ctx := context.Background()
	store, gw, _ := newTestStore(t, nil)
	s, _ := store.CreateStaff(ctx, domain.StaffInput{FullName: "Ada", WeeklyHours: 40})

	gw.SetUnavailable(true)
	if _, err := store.CreateObject(ctx, objectInput(s.ID)); err != nil {
		t.Fatalf("CreateObject during outage returned %v", err)
	}
	gw.SetUnavailable(false)

	objects, _ := store.ListObjects(ctx)
	if len(objects) != 0 {
		t.Errorf("write during outage persisted %d objects", len(objects))
	}
	assertCountsMatch(t, store)
}

// flakyGateway reports nothing for the next few reads, the way a networked
// backend does during a short outage, while writes still go through.
type flakyGateway struct {
	*persistence.MemoryGateway
	mu       sync.Mutex
	failures int
}

func (g *flakyGateway) failNext(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures = n
}

func (g *flakyGateway) fail() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failures > 0 {
		g.failures--
		return true
	}
	return false
}

func (g *flakyGateway) Get(ctx context.Context, key string) ([]byte, bool) {
	if g.fail() {
		return nil, false
	}
	return g.MemoryGateway.Get(ctx, key)
}

func (g *flakyGateway) Has(ctx context.Context, key string) bool {
	if g.fail() {
		return false
	}
	return g.MemoryGateway.Has(ctx, key)
}

func TestEntityStore_FailedReadNeverOverwritesStoredData(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()
	gw := &flakyGateway{MemoryGateway: persistence.NewMemoryGateway(0, logger)}
	store := NewEntityStore(StoreDependencies{
		StaffRepo:  repository.NewStaffRepository(gw, "test:", logger),
		ObjectRepo: repository.NewObjectRepository(gw, "test:", logger),
		Logger:     logger,
	})

	owner, err := store.CreateStaff(ctx, domain.StaffInput{FullName: "Ada", WeeklyHours: 40})
	if err != nil {
		t.Fatalf("CreateStaff: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := store.CreateObject(ctx, objectInput(owner.ID)); err != nil {
			t.Fatalf("CreateObject: %v", err)
		}
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"list objects", func() error { _, err := store.ListObjects(ctx); return err }},
		{"list staff", func() error { _, err := store.ListStaff(ctx); return err }},
		{"create object", func() error { _, err := store.CreateObject(ctx, objectInput(owner.ID)); return err }},
		{"create staff", func() error {
			_, err := store.CreateStaff(ctx, domain.StaffInput{FullName: "Grace", WeeklyHours: 20})
			return err
		}},
	}
	for _, step := range steps {
		for failures := 1; failures <= 2; failures++ {
			gw.failNext(failures)
			if err := step.run(); err != nil {
				t.Fatalf("%s: %v", step.name, err)
			}
			gw.failNext(0)

			objects, _ := store.ListObjects(ctx)
			if len(objects) != 3 {
				t.Fatalf("%s with %d failed reads: %d objects stored, want 3", step.name, failures, len(objects))
			}
			staff, _ := store.ListStaff(ctx)
			if len(staff) != 1 || staff[0].AttachedObjectCount != 3 {
				t.Fatalf("%s with %d failed reads: roster %+v", step.name, failures, staff)
			}
		}
	}
}
