// Package prompt builds the owner choice shown while a placement waits for
// an owner. It never touches the entity store.
package prompt

import (
	"context"
	"strconv"

	"github.com/spec-kit/placement-studio/internal/domain"
	apperrors "github.com/spec-kit/placement-studio/pkg/util/errorutil"
)

const (
	Title   = "Place Object"
	Heading = "Select Designer"
)

// Resolver completes or discards a pending placement.
type Resolver interface {
	ResolvePlacement(ctx context.Context, ownerID string) error
	CancelPlacement(ctx context.Context) error
}

// Option is one selectable owner.
type Option struct {
	StaffID  string `json:"staff_id"`
	FullName string `json:"full_name"`
	Detail   string `json:"detail"`
}

// View is the prompt for one pending ground point.
type View struct {
	Title   string   `json:"title"`
	Heading string   `json:"heading"`
	X       float64  `json:"x"`
	Z       float64  `json:"z"`
	Options []Option `json:"options"`
}

// Build lists every staff member as an option for the point (x, z).
func Build(x, z float64, staff []domain.Staff) View {
	options := make([]Option, 0, len(staff))
	for _, member := range staff {
		options = append(options, Option{
			StaffID:  member.ID,
			FullName: member.FullName,
			Detail:   strconv.FormatFloat(member.WeeklyHours, 'f', -1, 64) + "h/week",
		})
	}
	return View{Title: Title, Heading: Heading, X: x, Z: z, Options: options}
}

// Has reports whether staffID is one of the listed options.
func (v View) Has(staffID string) bool {
	for _, option := range v.Options {
		if option.StaffID == staffID {
			return true
		}
	}
	return false
}

// Choose resolves the placement with a listed owner.
func (v View) Choose(ctx context.Context, staffID string, resolver Resolver) error {
	if !v.Has(staffID) {
		return apperrors.NewValidationError("owner is not listed in the prompt", map[string]any{"staff_id": staffID})
	}
	return resolver.ResolvePlacement(ctx, staffID)
}

// Cancel discards the pending placement.
func (v View) Cancel(ctx context.Context, resolver Resolver) error {
	return resolver.CancelPlacement(ctx)
}
