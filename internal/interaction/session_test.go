package interaction

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/spec-kit/placement-studio/internal/domain"
	"github.com/spec-kit/placement-studio/internal/events"
	"github.com/spec-kit/placement-studio/internal/observability"
	"github.com/spec-kit/placement-studio/internal/persistence"
	"github.com/spec-kit/placement-studio/internal/repository"
	"github.com/spec-kit/placement-studio/internal/scene"
	"github.com/spec-kit/placement-studio/internal/service"
	"github.com/spec-kit/placement-studio/internal/spatial"
	apperrors "github.com/spec-kit/placement-studio/pkg/util/errorutil"
)

var testViewport = spatial.Viewport{Width: 800, Height: 600}

// flakyStore fails updates on demand.
type flakyStore struct {
	*service.EntityStore
	failUpdates bool
}

func (f *flakyStore) UpdateObject(ctx context.Context, id string, patch domain.ObjectPatch) (*domain.PlacedObject, error) {
	if f.failUpdates {
		return nil, errors.New("write rejected")
	}
	return f.EntityStore.UpdateObject(ctx, id, patch)
}

type fixture struct {
	store   *flakyStore
	session *Session
	scene   *scene.Projection
	orbit   *spatial.Orbit
	metrics *observability.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()
	gw := persistence.NewMemoryGateway(0, logger)
	dispatcher := events.NewInMemoryDispatcher()
	store := &flakyStore{EntityStore: service.NewEntityStore(service.StoreDependencies{
		StaffRepo:  repository.NewStaffRepository(gw, "test:", logger),
		ObjectRepo: repository.NewObjectRepository(gw, "test:", logger),
		Dispatcher: dispatcher,
		Logger:     logger,
	})}
	projection := scene.NewProjection(spatial.NewRaycaster())
	orbit := spatial.NewOrbit(spatial.DefaultCameraPosition, mgl64.Vec3{}, spatial.DefaultFovY)
	metrics := observability.NewMetrics()
	session := NewSession(SessionDependencies{
		Store:    store,
		Scene:    projection,
		Orbit:    orbit,
		Viewport: testViewport,
		Rules:    Rules{DoubleActivationWindow: DefaultDoubleActivationWindow},
		Metrics:  metrics,
		Logger:   logger,
	})
	session.Subscribe(dispatcher)
	if err := session.Mount(context.Background()); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return &fixture{store: store, session: session, scene: projection, orbit: orbit, metrics: metrics}
}

// pixelOf returns the pixel at which the current camera shows world point p.
func (f *fixture) pixelOf(p mgl64.Vec3) (float64, float64) {
	cam := f.orbit.Camera(testViewport.Aspect())
	return testViewport.Pixel(cam.Project(p))
}

func (f *fixture) placeObject(t *testing.T, ownerID string, x, z float64) domain.PlacedObject {
	t.Helper()
	ctx := context.Background()
	if err := f.session.RequestPlacement(ctx, x, z); err != nil {
		t.Fatalf("RequestPlacement: %v", err)
	}
	if err := f.session.ResolvePlacement(ctx, ownerID); err != nil {
		t.Fatalf("ResolvePlacement: %v", err)
	}
	state := f.session.State()
	if state.Error != "" {
		t.Fatalf("placement failed: %s", state.Error)
	}
	object, err := f.store.GetObject(ctx, state.SelectedID)
	if err != nil {
		t.Fatalf("GetObject: %v", err)
	}
	return *object
}

func nearly(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestSession_DoubleClickPlacementEndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s1, err := f.store.CreateStaff(ctx, domain.StaffInput{FullName: "S1", WeeklyHours: 40})
	if err != nil {
		t.Fatalf("CreateStaff: %v", err)
	}

	px, py := f.pixelOf(mgl64.Vec3{1, 0, 2})
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	if err := f.session.PointerActivate(ctx, px, py, start); err != nil {
		t.Fatalf("PointerActivate: %v", err)
	}
	if err := f.session.PointerActivate(ctx, px, py, start.Add(120*time.Millisecond)); err != nil {
		t.Fatalf("PointerActivate: %v", err)
	}

	snap := f.session.Snapshot()
	if snap.Phase != PhaseAwaitingOwner {
		t.Fatalf("phase = %s, want %s", snap.Phase, PhaseAwaitingOwner)
	}
	if !nearly(snap.Pending.X, 1) || !nearly(snap.Pending.Z, 2) {
		t.Fatalf("pending = %+v, want (1,2)", *snap.Pending)
	}

	view, ok, err := f.session.Prompt(ctx)
	if err != nil || !ok {
		t.Fatalf("Prompt: %v %v", ok, err)
	}
	if len(view.Options) != 1 || view.Options[0].Detail != "40h/week" {
		t.Fatalf("options = %+v", view.Options)
	}
	if err := view.Choose(ctx, s1.ID, f.session); err != nil {
		t.Fatalf("Choose: %v", err)
	}

	objects, _ := f.store.ListObjects(ctx)
	if len(objects) != 1 {
		t.Fatalf("got %d objects, want 1", len(objects))
	}
	placed := objects[0]
	if !nearly(placed.Position.X, 1) || placed.Position.Y != 0.5 || !nearly(placed.Position.Z, 2) {
		t.Errorf("position = %+v, want (1,0.5,2)", placed.Position)
	}
	if placed.OwnerID != s1.ID {
		t.Errorf("owner = %q, want %q", placed.OwnerID, s1.ID)
	}
	staff, _ := f.store.GetStaff(ctx, s1.ID)
	if staff.AttachedObjectCount != 1 {
		t.Errorf("attached count = %d, want 1", staff.AttachedObjectCount)
	}

	snap = f.session.Snapshot()
	if snap.Phase != PhaseSelected || snap.SelectedID != placed.ID {
		t.Errorf("phase %s selected %q, want selected %q", snap.Phase, snap.SelectedID, placed.ID)
	}
	if !f.scene.Raycaster().Has(placed.ID) {
		t.Error("new body is not a raycast candidate")
	}
	if _, ok, _ := f.session.Prompt(ctx); ok {
		t.Error("prompt still open after resolve")
	}
}

func TestSession_SlowClicksDoNotPlace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	px, py := f.pixelOf(mgl64.Vec3{1, 0, 2})
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	f.session.PointerActivate(ctx, px, py, start)
	f.session.PointerActivate(ctx, px, py, start.Add(400*time.Millisecond))
	if phase := f.session.Snapshot().Phase; phase != PhaseIdle {
		t.Errorf("phase = %s, want idle", phase)
	}
}

func TestSession_PointerHoverAndSelect(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	object := f.placeObject(t, "s1", 0, 0)
	f.session.SelectObject(ctx, "")

	px, py := f.pixelOf(mgl64.Vec3{0, 0.5, 0})
	if err := f.session.PointerMove(ctx, px, py); err != nil {
		t.Fatalf("PointerMove: %v", err)
	}
	snap := f.session.Snapshot()
	if snap.HoveredID != object.ID || snap.Phase != PhaseHovering {
		t.Fatalf("hovered %q phase %s", snap.HoveredID, snap.Phase)
	}
	if snap.Visuals[0].Color != "#1f2937" {
		t.Errorf("hover color = %s", snap.Visuals[0].Color)
	}

	f.session.PointerActivate(ctx, px, py, time.Time{})
	snap = f.session.Snapshot()
	if snap.SelectedID != object.ID || snap.HoveredID != object.ID {
		t.Errorf("selected %q hovered %q", snap.SelectedID, snap.HoveredID)
	}
	if snap.Affordance == nil || snap.Affordance.ID != object.ID {
		t.Errorf("affordance = %+v", snap.Affordance)
	}

	// Empty ground far from the body clears the selection.
	gx, gy := f.pixelOf(mgl64.Vec3{-3, 0, 3})
	f.session.PointerActivate(ctx, gx, gy, time.Time{})
	if snap := f.session.Snapshot(); snap.SelectedID != "" || snap.Affordance != nil {
		t.Errorf("background activation kept selection %q", snap.SelectedID)
	}
}

func TestSession_PaletteRoundRobin(t *testing.T) {
	f := newFixture(t)
	first := f.placeObject(t, "s1", 0, 0)
	second := f.placeObject(t, "s1", 3, 0)
	if first.ColorHex != domain.Palette[0] || second.ColorHex != domain.Palette[1] {
		t.Errorf("colors %s %s", first.ColorHex, second.ColorHex)
	}
	if first.DisplayName != "Object 1" || second.DisplayName != "Object 2" {
		t.Errorf("names %q %q", first.DisplayName, second.DisplayName)
	}
}

func TestSession_AwaitingOwnerBlocksNewPlacements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.session.RequestPlacement(ctx, 1, 1)
	f.session.RequestPlacement(ctx, 4, 4)
	snap := f.session.Snapshot()
	if snap.Pending == nil || snap.Pending.X != 1 {
		t.Fatalf("pending = %+v, want (1,1)", snap.Pending)
	}
	if f.metrics.IntentCount("request_placement", false) != 1 {
		t.Error("second placement not recorded as ignored")
	}

	f.session.CancelPlacement(ctx)
	if snap := f.session.Snapshot(); snap.Phase != PhaseIdle || snap.Pending != nil {
		t.Errorf("phase after cancel = %s", snap.Phase)
	}
	objects, _ := f.store.ListObjects(ctx)
	if len(objects) != 0 {
		t.Errorf("cancel created %d objects", len(objects))
	}
}

func TestSession_CommitDragIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	object := f.placeObject(t, "s1", 0, 0)

	for i := 0; i < 2; i++ {
		if err := f.session.CommitDrag(ctx, object.ID, 2.5, -1); err != nil {
			t.Fatalf("CommitDrag: %v", err)
		}
		stored, _ := f.store.GetObject(ctx, object.ID)
		want := domain.Position{X: 2.5, Y: domain.RestingHeight, Z: -1}
		if stored.Position != want {
			t.Errorf("commit %d: position %+v, want %+v", i+1, stored.Position, want)
		}
	}
	if phase := f.session.Snapshot().Phase; phase != PhaseSelected {
		t.Errorf("phase = %s, want selected", phase)
	}
}

func TestSession_DragWithoutTranslation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	object := f.placeObject(t, "s1", 1, 1)

	if err := f.session.StartDrag(ctx, object.ID); err != nil {
		t.Fatalf("StartDrag: %v", err)
	}
	if f.orbit.Enabled() {
		t.Error("orbit enabled while dragging")
	}
	if f.session.OrbitCamera(0.3, 0, 0) {
		t.Error("orbit input applied while dragging")
	}
	if err := f.session.ReleaseDrag(ctx); err != nil {
		t.Fatalf("ReleaseDrag: %v", err)
	}

	stored, _ := f.store.GetObject(ctx, object.ID)
	if stored.Position != object.Position {
		t.Errorf("position %+v, want %+v", stored.Position, object.Position)
	}
	snap := f.session.Snapshot()
	if snap.Phase != PhaseSelected || !snap.Orbit.Enabled {
		t.Errorf("phase %s orbit %v", snap.Phase, snap.Orbit.Enabled)
	}
	if !f.session.OrbitCamera(0.3, 0, 0) {
		t.Error("orbit input ignored after release")
	}
}

func TestSession_DragCommitsXZOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	object := f.placeObject(t, "s1", 0, 0)

	f.session.StartDrag(ctx, object.ID)
	f.session.MoveDrag(ctx, 1, 1)
	f.session.MoveDrag(ctx, 2, -3)
	if aff := f.session.Snapshot().Affordance; aff == nil || aff.Position.X != 2 || aff.Position.Z != -3 {
		t.Errorf("affordance = %+v, want live position", aff)
	}
	f.session.ReleaseDrag(ctx)

	stored, _ := f.store.GetObject(ctx, object.ID)
	want := domain.Position{X: 2, Y: domain.RestingHeight, Z: -3}
	if stored.Position != want {
		t.Errorf("position %+v, want %+v", stored.Position, want)
	}
}

func TestSession_FailedCommitKeepsStoredPosition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	object := f.placeObject(t, "s1", 0, 0)

	f.store.failUpdates = true
	f.session.StartDrag(ctx, object.ID)
	f.session.MoveDrag(ctx, 3, 3)
	f.session.ReleaseDrag(ctx)

	snap := f.session.Snapshot()
	if !strings.HasPrefix(snap.Error, "unable to update object") {
		t.Errorf("error = %q", snap.Error)
	}
	if snap.Phase != PhaseSelected || snap.SelectedID != object.ID || !snap.Orbit.Enabled {
		t.Errorf("phase %s selected %q orbit %v", snap.Phase, snap.SelectedID, snap.Orbit.Enabled)
	}

	stored, _ := f.store.GetObject(ctx, object.ID)
	if stored.Position != object.Position {
		t.Errorf("store position %+v, want %+v", stored.Position, object.Position)
	}
	body, _ := f.scene.Body(object.ID)
	if body.Position.X != 3 || body.Position.Z != 3 {
		t.Errorf("body %+v, expected the dragged position until refresh", body.Position)
	}

	if err := f.session.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	body, _ = f.scene.Body(object.ID)
	if body.Position != object.Position {
		t.Errorf("body after refresh %+v, want %+v", body.Position, object.Position)
	}

	f.store.failUpdates = false
	f.session.CommitDrag(ctx, object.ID, 3, 3)
	if snap := f.session.Snapshot(); snap.Error != "" {
		t.Errorf("error not cleared by a successful retry: %q", snap.Error)
	}
}

func TestSession_DeleteSelected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	object := f.placeObject(t, "s1", 0, 0)

	if err := f.session.DeleteObject(ctx, object.ID); err != nil {
		t.Fatalf("DeleteObject: %v", err)
	}
	snap := f.session.Snapshot()
	if snap.Phase != PhaseIdle || snap.SelectedID != "" {
		t.Errorf("phase %s selected %q", snap.Phase, snap.SelectedID)
	}
	if f.scene.Raycaster().Len() != 0 {
		t.Error("deleted body left in the candidate set")
	}

	f.session.DeleteObject(ctx, object.ID)
	if snap := f.session.Snapshot(); !strings.HasPrefix(snap.Error, "unable to delete object: object not found") {
		t.Errorf("error = %q", snap.Error)
	}
}

func TestSession_ExternalDeleteClearsSelection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	object := f.placeObject(t, "s1", 0, 0)

	if err := f.store.DeleteObject(ctx, object.ID); err != nil {
		t.Fatalf("DeleteObject: %v", err)
	}
	if f.scene.Has(object.ID) {
		t.Fatal("store event did not remove the body")
	}
	if snap := f.session.Snapshot(); snap.SelectedID != "" || snap.Phase != PhaseIdle {
		t.Errorf("selected %q phase %s", snap.SelectedID, snap.Phase)
	}
}

func TestSession_FocusSelected(t *testing.T) {
	f := newFixture(t)

	if _, err := f.session.FocusSelected(0); err == nil {
		t.Error("focus without selection succeeded")
	}
	f.placeObject(t, "s1", 2, -2)
	if ok, err := f.session.FocusSelected(0.5); err != nil || !ok {
		t.Fatalf("FocusSelected: %v %v", ok, err)
	}
	f.session.Tick(0.6)
	target := f.session.Snapshot().Orbit.Target
	if math.Abs(target.X-2) > 1e-5 || math.Abs(target.Z+2) > 1e-5 {
		t.Errorf("target = %+v", target)
	}
}

func TestSession_RequiresMount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.placeObject(t, "s1", 0, 0)

	f.session.Unmount()
	if f.scene.Len() != 0 || f.scene.Raycaster().Len() != 0 {
		t.Error("unmount left bodies in the scene")
	}
	if err := f.session.RequestPlacement(ctx, 0, 0); err == nil {
		t.Error("intent accepted while unmounted")
	}
	if err := f.session.Mount(ctx); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if f.scene.Len() != 1 {
		t.Errorf("remount shows %d bodies, want 1", f.scene.Len())
	}
	if phase := f.session.Snapshot().Phase; phase != PhaseIdle {
		t.Errorf("phase after remount = %s", phase)
	}
}

func TestSession_PromptNeverTouchesStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.CreateStaff(ctx, domain.StaffInput{FullName: "S1", WeeklyHours: 10})
	f.session.RequestPlacement(ctx, 0, 0)

	view, _, _ := f.session.Prompt(ctx)
	if err := view.Cancel(ctx, f.session); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	objects, _ := f.store.ListObjects(ctx)
	if len(objects) != 0 {
		t.Errorf("got %d objects after cancel", len(objects))
	}
}

func TestSession_DragRacesExternalDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	object := f.placeObject(t, "s1", 1, 1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		time.Sleep(time.Millisecond)
		if err := f.store.DeleteObject(ctx, object.ID); err != nil {
			t.Errorf("DeleteObject: %v", err)
		}
	}()

	for i := 0; i < 200; i++ {
		for _, err := range []error{
			f.session.SelectObject(ctx, object.ID),
			f.session.StartDrag(ctx, object.ID),
			f.session.MoveDrag(ctx, float64(i%5), 1),
			f.session.ReleaseDrag(ctx),
		} {
			if err != nil && !apperrors.IsNotFound(err) {
				t.Fatalf("iteration %d: %v", i, err)
			}
		}
	}
	wg.Wait()

	if err := f.session.StartDrag(ctx, object.ID); !apperrors.IsNotFound(err) {
		t.Errorf("StartDrag on deleted object = %v, want not found", err)
	}
	if snap := f.session.Snapshot(); snap.Dragging || snap.SelectedID != "" {
		t.Errorf("dragging %v selected %q after delete", snap.Dragging, snap.SelectedID)
	}
}
