package interaction

import "github.com/spec-kit/placement-studio/internal/domain"

// Effect is work the session performs after a transition.
type Effect interface {
	effect()
}

// Mutation operation names used in MutationFailed.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

type (
	CreateObjectEffect struct {
		Input domain.ObjectInput
	}
	// UpdatePositionEffect stores x and z; the stored height is kept.
	UpdatePositionEffect struct {
		ID   string
		X, Z float64
	}
	DeleteObjectEffect struct {
		ID string
	}
	SetOrbitEffect struct {
		Enabled bool
	}
	MoveBodyEffect struct {
		ID   string
		X, Z float64
	}
)

func (CreateObjectEffect) effect()   {}
func (UpdatePositionEffect) effect() {}
func (DeleteObjectEffect) effect()   {}
func (SetOrbitEffect) effect()       {}
func (MoveBodyEffect) effect()       {}
