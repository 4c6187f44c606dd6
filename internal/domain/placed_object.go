package domain

// SizeClass is the semantic size of a placed object.
type SizeClass string

const (
	SizeSmall  SizeClass = "small"
	SizeNormal SizeClass = "normal"
	SizeLarge  SizeClass = "large"
)

// RestingHeight is the y coordinate placement logic puts objects at.
const RestingHeight = 0.5

// Scale returns the uniform visual scale factor for the size class.
func (s SizeClass) Scale() float64 {
	switch s {
	case SizeSmall:
		return 0.6
	case SizeLarge:
		return 1.5
	default:
		return 1.0
	}
}

// Valid reports whether s is a known size class.
func (s SizeClass) Valid() bool {
	switch s {
	case SizeSmall, SizeNormal, SizeLarge:
		return true
	}
	return false
}

// Position is a point in workspace coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// PlacedObject is a body placed in the workspace and owned by a staff member.
type PlacedObject struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	OwnerID     string    `json:"owner_id"`
	ColorHex    string    `json:"color_hex"`
	Position    Position  `json:"position"`
	SizeClass   SizeClass `json:"size_class"`
}

// ObjectInput carries the fields required to create a placed object.
type ObjectInput struct {
	DisplayName string    `json:"display_name"`
	OwnerID     string    `json:"owner_id"`
	ColorHex    string    `json:"color_hex"`
	Position    Position  `json:"position"`
	SizeClass   SizeClass `json:"size_class"`
}

// ObjectPatch carries optional object updates.
type ObjectPatch struct {
	DisplayName *string    `json:"display_name,omitempty"`
	OwnerID     *string    `json:"owner_id,omitempty"`
	ColorHex    *string    `json:"color_hex,omitempty"`
	Position    *Position  `json:"position,omitempty"`
	SizeClass   *SizeClass `json:"size_class,omitempty"`
}

// Apply returns o with the patch fields applied.
func (p ObjectPatch) Apply(o PlacedObject) PlacedObject {
	if p.DisplayName != nil {
		o.DisplayName = *p.DisplayName
	}
	if p.OwnerID != nil {
		o.OwnerID = *p.OwnerID
	}
	if p.ColorHex != nil {
		o.ColorHex = *p.ColorHex
	}
	if p.Position != nil {
		o.Position = *p.Position
	}
	if p.SizeClass != nil {
		o.SizeClass = *p.SizeClass
	}
	return o
}

// Palette is the fixed set of colors new placements cycle through.
var Palette = []string{"#f97316", "#0ea5e9", "#111827", "#22c55e", "#a855f7"}

// PaletteColor returns the palette entry for the n-th placement.
func PaletteColor(n int) string {
	if n < 0 {
		n = -n
	}
	return Palette[n%len(Palette)]
}
