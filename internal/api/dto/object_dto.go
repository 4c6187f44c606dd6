package dto

import "github.com/spec-kit/placement-studio/internal/domain"

// PositionPayload is a point in the workspace.
type PositionPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ObjectCreateRequest payload. A missing position places the object at the
// origin on the ground; a missing size defaults to normal.
type ObjectCreateRequest struct {
	DisplayName string           `json:"display_name"`
	OwnerID     string           `json:"owner_id"`
	ColorHex    string           `json:"color_hex"`
	Position    *PositionPayload `json:"position"`
	SizeClass   string           `json:"size_class"`
}

// ObjectUpdateRequest payload. Omitted fields are left unchanged.
type ObjectUpdateRequest struct {
	DisplayName *string          `json:"display_name"`
	OwnerID     *string          `json:"owner_id"`
	ColorHex    *string          `json:"color_hex"`
	Position    *PositionPayload `json:"position"`
	SizeClass   *string          `json:"size_class"`
}

// ObjectResponse representation.
type ObjectResponse struct {
	ID          string          `json:"id"`
	DisplayName string          `json:"display_name"`
	OwnerID     string          `json:"owner_id"`
	ColorHex    string          `json:"color_hex"`
	Position    PositionPayload `json:"position"`
	SizeClass   string          `json:"size_class"`
}

// Input converts the request into a domain input.
func (r ObjectCreateRequest) Input() domain.ObjectInput {
	in := domain.ObjectInput{
		DisplayName: r.DisplayName,
		OwnerID:     r.OwnerID,
		ColorHex:    r.ColorHex,
		Position:    domain.Position{Y: domain.RestingHeight},
		SizeClass:   domain.SizeClass(r.SizeClass),
	}
	if r.Position != nil {
		in.Position = domain.Position{X: r.Position.X, Y: r.Position.Y, Z: r.Position.Z}
	}
	if in.SizeClass == "" {
		in.SizeClass = domain.SizeNormal
	}
	return in
}

// Patch converts the request into a domain patch.
func (r ObjectUpdateRequest) Patch() domain.ObjectPatch {
	patch := domain.ObjectPatch{
		DisplayName: r.DisplayName,
		OwnerID:     r.OwnerID,
		ColorHex:    r.ColorHex,
	}
	if r.Position != nil {
		patch.Position = &domain.Position{X: r.Position.X, Y: r.Position.Y, Z: r.Position.Z}
	}
	if r.SizeClass != nil {
		size := domain.SizeClass(*r.SizeClass)
		patch.SizeClass = &size
	}
	return patch
}

// NewObjectResponse maps a placed object.
func NewObjectResponse(o domain.PlacedObject) ObjectResponse {
	return ObjectResponse{
		ID:          o.ID,
		DisplayName: o.DisplayName,
		OwnerID:     o.OwnerID,
		ColorHex:    o.ColorHex,
		Position:    PositionPayload{X: o.Position.X, Y: o.Position.Y, Z: o.Position.Z},
		SizeClass:   string(o.SizeClass),
	}
}
