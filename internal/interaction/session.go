package interaction

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"github.com/spec-kit/placement-studio/internal/domain"
	"github.com/spec-kit/placement-studio/internal/events"
	"github.com/spec-kit/placement-studio/internal/observability"
	"github.com/spec-kit/placement-studio/internal/prompt"
	"github.com/spec-kit/placement-studio/internal/scene"
	"github.com/spec-kit/placement-studio/internal/spatial"
	apperrors "github.com/spec-kit/placement-studio/pkg/util/errorutil"
)

// DefaultFocusSeconds is the camera focus animation length.
const DefaultFocusSeconds = 0.6

// Store is the part of the entity store the session mutates through.
type Store interface {
	ListStaff(ctx context.Context) ([]domain.Staff, error)
	ListObjects(ctx context.Context) ([]domain.PlacedObject, error)
	GetObject(ctx context.Context, id string) (*domain.PlacedObject, error)
	CreateObject(ctx context.Context, input domain.ObjectInput) (*domain.PlacedObject, error)
	UpdateObject(ctx context.Context, id string, patch domain.ObjectPatch) (*domain.PlacedObject, error)
	DeleteObject(ctx context.Context, id string) error
}

// SessionDependencies bundles the collaborators of a session.
type SessionDependencies struct {
	Store    Store
	Scene    *scene.Projection
	Orbit    *spatial.Orbit
	Viewport spatial.Viewport
	Rules    Rules
	Metrics  *observability.Metrics
	Logger   *zap.Logger
	Now      func() time.Time
}

// OrbitView describes the camera controls.
type OrbitView struct {
	Enabled  bool            `json:"enabled"`
	Focusing bool            `json:"focusing"`
	Position domain.Position `json:"position"`
	Target   domain.Position `json:"target"`
}

// Snapshot is the read-only view handed to the UI shell.
type Snapshot struct {
	Mounted    bool              `json:"mounted"`
	Phase      Phase             `json:"phase"`
	HoveredID  string            `json:"hovered_id"`
	SelectedID string            `json:"selected_id"`
	Pending    *GroundPoint      `json:"pending"`
	Dragging   bool              `json:"dragging"`
	Busy       bool              `json:"busy"`
	Error      string            `json:"error"`
	Orbit      OrbitView         `json:"orbit"`
	Visuals    []scene.Visual    `json:"visuals"`
	Affordance *scene.Affordance `json:"affordance"`
	Viewport   spatial.Viewport  `json:"viewport"`
}

// Session is the single interactive client of the workspace. It runs every
// event and the effects it produces under one lock, so mutations issued by
// the session never overlap.
type Session struct {
	mu       sync.Mutex
	machine  *Machine
	store    Store
	scene    *scene.Projection
	orbit    *spatial.Orbit
	metrics  *observability.Metrics
	logger   *zap.Logger
	now      func() time.Time
	mounted  atomic.Bool
	defaults spatial.Viewport
}

// NewSession wires a session. The session starts unmounted.
func NewSession(deps SessionDependencies) *Session {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	projection := deps.Scene
	if projection == nil {
		projection = scene.NewProjection(nil)
	}
	orbit := deps.Orbit
	if orbit == nil {
		orbit = spatial.NewOrbit(spatial.DefaultCameraPosition, mgl64.Vec3{}, spatial.DefaultFovY)
	}
	return &Session{
		machine:  NewMachine(deps.Rules, projection.Raycaster(), orbit, deps.Viewport),
		store:    deps.Store,
		scene:    projection,
		orbit:    orbit,
		metrics:  deps.Metrics,
		logger:   logger,
		now:      now,
		defaults: deps.Viewport,
	}
}

var errNotMounted = apperrors.NewConflict("session is not mounted", nil)

var _ prompt.Resolver = (*Session)(nil)

// Subscribe keeps the scene in step with store changes made outside the
// session. Handlers only touch the scene, never the session lock.
func (s *Session) Subscribe(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventObjectCreated, s.onObjectChanged)
	dispatcher.Subscribe(events.EventObjectUpdated, s.onObjectChanged)
	dispatcher.Subscribe(events.EventObjectDeleted, func(_ context.Context, event events.Event) error {
		if s.mounted.Load() {
			s.scene.Remove(event.EntityID)
		}
		return nil
	})
}

func (s *Session) onObjectChanged(_ context.Context, event events.Event) error {
	if !s.mounted.Load() {
		return nil
	}
	if object, ok := event.Payload.(domain.PlacedObject); ok {
		s.scene.Upsert(object)
	}
	return nil
}

// Mount loads the objects into the scene and starts a fresh interaction state.
func (s *Session) Mount(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	objects, err := s.store.ListObjects(ctx)
	if err != nil {
		return err
	}
	s.machine.Reset()
	s.machine.SetViewport(s.defaults)
	s.orbit.SetEnabled(true)
	s.mounted.Store(true)
	s.scene.Sync(objects)
	s.logger.Info("session mounted", zap.Int("objects", len(objects)))
	return nil
}

// Unmount drops the interaction state and empties the scene.
func (s *Session) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mounted.Store(false)
	s.scene.Clear()
	s.machine.Reset()
	s.orbit.SetEnabled(true)
	s.logger.Info("session unmounted")
}

// Mounted reports whether the session is live.
func (s *Session) Mounted() bool {
	return s.mounted.Load()
}

// Refresh reloads the scene from the store, dropping any stale body
// positions left by a failed commit.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mounted.Load() {
		return errNotMounted
	}
	objects, err := s.store.ListObjects(ctx)
	if err != nil {
		return err
	}
	s.scene.Sync(objects)
	s.reconcileLocked(ctx)
	return nil
}

// SetViewport changes the canvas rectangle pointer events refer to.
func (s *Session) SetViewport(vp spatial.Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.machine.SetViewport(vp)
}

// PointerMove recomputes the hovered body.
func (s *Session) PointerMove(ctx context.Context, px, py float64) error {
	return s.dispatch(ctx, PointerMove{PX: px, PY: py})
}

// PointerActivate handles a primary activation at a pixel. A zero at uses
// the session clock.
func (s *Session) PointerActivate(ctx context.Context, px, py float64, at time.Time) error {
	if at.IsZero() {
		at = s.now()
	}
	return s.dispatch(ctx, PointerActivate{PX: px, PY: py, At: at})
}

// SelectObject selects id, or clears the selection when id is empty.
func (s *Session) SelectObject(ctx context.Context, id string) error {
	return s.dispatchWith(ctx, func() (Event, error) {
		if id != "" && !s.scene.Has(id) {
			return nil, apperrors.NewNotFound("object", map[string]any{"object_id": id})
		}
		return SelectObject{ID: id}, nil
	})
}

// RequestPlacement waits for an owner for a new object at (x, z).
func (s *Session) RequestPlacement(ctx context.Context, x, z float64) error {
	return s.dispatch(ctx, RequestPlacement{X: x, Z: z})
}

// ResolvePlacement creates the pending object owned by ownerID.
func (s *Session) ResolvePlacement(ctx context.Context, ownerID string) error {
	return s.dispatch(ctx, ResolvePlacement{OwnerID: ownerID})
}

// CancelPlacement discards the pending point.
func (s *Session) CancelPlacement(ctx context.Context) error {
	return s.dispatch(ctx, CancelPlacement{})
}

// StartDrag grabs the affordance of the selected body.
func (s *Session) StartDrag(ctx context.Context, id string) error {
	return s.dispatchWith(ctx, func() (Event, error) {
		body, ok := s.scene.Body(id)
		if !ok {
			return nil, apperrors.NewNotFound("object", map[string]any{"object_id": id})
		}
		return StartDrag{ID: id, X: body.Position.X, Z: body.Position.Z}, nil
	})
}

// MoveDrag moves the dragged body on the ground plane.
func (s *Session) MoveDrag(ctx context.Context, x, z float64) error {
	return s.dispatch(ctx, MoveDrag{X: x, Z: z})
}

// ReleaseDrag commits the dragged position.
func (s *Session) ReleaseDrag(ctx context.Context) error {
	return s.dispatch(ctx, ReleaseDrag{})
}

// CommitDrag stores (x, z) for id, keeping its height.
func (s *Session) CommitDrag(ctx context.Context, id string, x, z float64) error {
	return s.dispatch(ctx, CommitDrag{ID: id, X: x, Z: z})
}

// DeleteObject removes id from the store.
func (s *Session) DeleteObject(ctx context.Context, id string) error {
	return s.dispatch(ctx, DeleteObject{ID: id})
}

// OrbitCamera rotates and zooms the camera. Input is ignored while the
// controls are disabled; the result reports whether anything was applied.
func (s *Session) OrbitCamera(deltaAzimuth, deltaPolar, zoom float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	applied := false
	if deltaAzimuth != 0 || deltaPolar != 0 {
		applied = s.orbit.Rotate(deltaAzimuth, deltaPolar)
	}
	if zoom != 0 && zoom != 1 {
		applied = s.orbit.Zoom(zoom) || applied
	}
	s.metrics.RecordIntent("orbit_camera", applied)
	return applied
}

// FocusSelected animates the camera target to the selected body.
func (s *Session) FocusSelected(seconds float32) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	selected := s.machine.State().SelectedID
	body, ok := s.scene.Body(selected)
	if selected == "" || !ok {
		return false, apperrors.NewConflict("no object selected", nil)
	}
	if seconds < 0 {
		seconds = DefaultFocusSeconds
	}
	center := mgl64.Vec3{body.Position.X, body.Position.Y, body.Position.Z}
	applied := s.orbit.FocusOn(center, seconds, ease.OutCubic)
	s.metrics.RecordIntent("focus_camera", applied)
	return applied, nil
}

// Tick advances camera animations by dt seconds.
func (s *Session) Tick(dt float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orbit.Update(dt)
}

// State returns the current interaction state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconcileLocked(context.Background())
	return s.machine.State()
}

// Snapshot returns the view of the session for the UI shell.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconcileLocked(context.Background())

	state := s.machine.State()
	snap := Snapshot{
		Mounted:    s.mounted.Load(),
		Phase:      state.Phase(),
		HoveredID:  state.HoveredID,
		SelectedID: state.SelectedID,
		Dragging:   state.Dragging,
		Busy:       state.Busy,
		Error:      state.Error,
		Orbit: OrbitView{
			Enabled:  s.orbit.Enabled(),
			Focusing: s.orbit.Focusing(),
			Position: toPosition(s.orbit.Position()),
			Target:   toPosition(s.orbit.Target),
		},
		Visuals:  s.scene.Render(state.HoveredID, state.SelectedID),
		Viewport: s.machine.Viewport(),
	}
	if state.Pending != nil {
		pending := *state.Pending
		snap.Pending = &pending
	}
	if affordance, ok := s.scene.Affordance(state.SelectedID); ok {
		snap.Affordance = &affordance
	}
	return snap
}

// Prompt builds the owner choice for the pending placement. The second
// result is false when no placement is pending.
func (s *Session) Prompt(ctx context.Context) (prompt.View, bool, error) {
	s.mu.Lock()
	pending := s.machine.State().Pending
	s.mu.Unlock()
	if pending == nil {
		return prompt.View{}, false, nil
	}
	staff, err := s.store.ListStaff(ctx)
	if err != nil {
		return prompt.View{}, false, err
	}
	return prompt.Build(pending.X, pending.Z, staff), true, nil
}

func (s *Session) dispatch(ctx context.Context, e Event) error {
	return s.dispatchWith(ctx, func() (Event, error) { return e, nil })
}

// dispatchWith builds the event under the session lock, after vanished
// bodies are reconciled, so scene lookups match the state it runs against.
func (s *Session) dispatchWith(ctx context.Context, build func() (Event, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mounted.Load() {
		return errNotMounted
	}
	s.reconcileLocked(ctx)
	e, err := build()
	if err != nil {
		return err
	}

	before := s.machine.State()
	effects := s.machine.Dispatch(e)
	accepted := len(effects) > 0 || !reflect.DeepEqual(before, s.machine.State())
	s.metrics.RecordIntent(EventName(e), accepted)
	s.runLocked(ctx, effects)
	return nil
}

// runLocked executes effects in order, feeding store outcomes back into the
// machine and running whatever they produce.
func (s *Session) runLocked(ctx context.Context, effects []Effect) {
	queue := effects
	for len(queue) > 0 {
		effect := queue[0]
		queue = queue[1:]
		if outcome := s.execute(ctx, effect); outcome != nil {
			queue = append(queue, s.machine.Dispatch(outcome)...)
		}
	}
}

func (s *Session) execute(ctx context.Context, effect Effect) Event {
	switch eff := effect.(type) {
	case SetOrbitEffect:
		s.orbit.SetEnabled(eff.Enabled)
		return nil

	case MoveBodyEffect:
		s.scene.MoveBody(eff.ID, eff.X, eff.Z)
		return nil

	case CreateObjectEffect:
		created, err := s.store.CreateObject(ctx, eff.Input)
		if err != nil {
			return s.failed(OpCreate, "", err)
		}
		s.scene.Upsert(*created)
		s.logger.Info("object placed",
			zap.String("object_id", created.ID),
			zap.String("owner_id", created.OwnerID),
		)
		return ObjectCreated{Object: *created}

	case UpdatePositionEffect:
		current, err := s.store.GetObject(ctx, eff.ID)
		if err != nil {
			return s.failed(OpUpdate, eff.ID, err)
		}
		position := domain.Position{X: eff.X, Y: current.Position.Y, Z: eff.Z}
		updated, err := s.store.UpdateObject(ctx, eff.ID, domain.ObjectPatch{Position: &position})
		if err != nil {
			return s.failed(OpUpdate, eff.ID, err)
		}
		s.scene.Upsert(*updated)
		return ObjectUpdated{Object: *updated}

	case DeleteObjectEffect:
		if err := s.store.DeleteObject(ctx, eff.ID); err != nil {
			return s.failed(OpDelete, eff.ID, err)
		}
		s.scene.Remove(eff.ID)
		return ObjectDeleted{ID: eff.ID}
	}
	return nil
}

func (s *Session) failed(op, id string, err error) Event {
	message := "unable to " + op + " object: " + err.Error()
	s.logger.Warn("session mutation failed",
		zap.String("op", op),
		zap.String("object_id", id),
		zap.Error(err),
	)
	return MutationFailed{Op: op, ID: id, Message: message}
}

// reconcileLocked reports hovered or selected bodies that left the scene
// through changes made outside the session.
func (s *Session) reconcileLocked(ctx context.Context) {
	state := s.machine.State()
	for _, id := range []string{state.SelectedID, state.HoveredID} {
		if id == "" || s.scene.Has(id) {
			continue
		}
		s.runLocked(ctx, s.machine.Dispatch(ObjectVanished{ID: id}))
	}
}

func toPosition(v mgl64.Vec3) domain.Position {
	return domain.Position{X: v.X(), Y: v.Y(), Z: v.Z()}
}
