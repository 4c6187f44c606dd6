package dto

// ViewportPayload is the canvas rectangle in pixels.
type ViewportPayload struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PointerRequest carries a pointer position in pixels. AtMs is an optional
// client timestamp in Unix milliseconds used for double activation.
type PointerRequest struct {
	X        float64          `json:"x"`
	Y        float64          `json:"y"`
	AtMs     int64            `json:"at_ms"`
	Viewport *ViewportPayload `json:"viewport"`
}

// SelectRequest selects an object; an empty id clears the selection.
type SelectRequest struct {
	ID string `json:"id"`
}

// GroundRequest is a point on the ground plane.
type GroundRequest struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// ResolvePlacementRequest names the owner of the pending placement.
type ResolvePlacementRequest struct {
	OwnerID string `json:"owner_id"`
}

// DragStartRequest grabs the affordance of a body.
type DragStartRequest struct {
	ID string `json:"id"`
}

// CommitDragRequest stores a position for a body.
type CommitDragRequest struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Z  float64 `json:"z"`
}

// OrbitRequest rotates (radians) and zooms (factor) the camera.
type OrbitRequest struct {
	Azimuth float64 `json:"azimuth"`
	Polar   float64 `json:"polar"`
	Zoom    float64 `json:"zoom"`
}

// FocusRequest frames the selected body. Seconds defaults when omitted.
type FocusRequest struct {
	Seconds *float32 `json:"seconds"`
}

// TickRequest advances camera animations.
type TickRequest struct {
	Dt float32 `json:"dt"`
}
