package domain

import (
	"math"
	"regexp"
	"strings"

	apperrors "github.com/spec-kit/placement-studio/pkg/util/errorutil"
)

const maxWeeklyHours = 168

var colorHexPattern = regexp.MustCompile(`(?i)^#[0-9A-F]{6}$`)

// ValidColorHex reports whether v is a 6-digit hex color such as #FF5733.
func ValidColorHex(v string) bool {
	return colorHexPattern.MatchString(v)
}

// ValidateStaffInput checks a staff creation payload.
func ValidateStaffInput(in StaffInput) error {
	details := map[string]any{}
	checkFullName(details, in.FullName)
	checkHours(details, in.WeeklyHours)
	return validationResult(details)
}

// ValidateStaffPatch checks the fields present in a staff patch.
func ValidateStaffPatch(p StaffPatch) error {
	details := map[string]any{}
	if p.FullName != nil {
		checkFullName(details, *p.FullName)
	}
	if p.WeeklyHours != nil {
		checkHours(details, *p.WeeklyHours)
	}
	return validationResult(details)
}

// ValidateObjectInput checks an object creation payload. The owner id is not
// resolved against the roster.
func ValidateObjectInput(in ObjectInput) error {
	details := map[string]any{}
	checkDisplayName(details, in.DisplayName)
	checkColor(details, in.ColorHex)
	if !in.SizeClass.Valid() {
		details["size_class"] = "size must be small, normal or large"
	}
	checkPosition(details, in.Position)
	return validationResult(details)
}

// ValidateObjectPatch checks the fields present in an object patch.
func ValidateObjectPatch(p ObjectPatch) error {
	details := map[string]any{}
	if p.DisplayName != nil {
		checkDisplayName(details, *p.DisplayName)
	}
	if p.ColorHex != nil {
		checkColor(details, *p.ColorHex)
	}
	if p.SizeClass != nil && !p.SizeClass.Valid() {
		details["size_class"] = "size must be small, normal or large"
	}
	if p.Position != nil {
		checkPosition(details, *p.Position)
	}
	return validationResult(details)
}

func checkFullName(details map[string]any, name string) {
	if strings.TrimSpace(name) == "" {
		details["full_name"] = "name is required"
	}
}

func checkHours(details map[string]any, hours float64) {
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		details["weekly_hours"] = "working hours must be a number"
		return
	}
	if hours < 0 || hours > maxWeeklyHours {
		details["weekly_hours"] = "working hours must be between 0 and 168"
	}
}

func checkDisplayName(details map[string]any, name string) {
	if strings.TrimSpace(name) == "" {
		details["display_name"] = "name is required"
	}
}

func checkColor(details map[string]any, color string) {
	if !ValidColorHex(color) {
		details["color_hex"] = "color must be a hex value like #FF5733"
	}
}

func checkPosition(details map[string]any, p Position) {
	for _, v := range []float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			details["position"] = "position must be finite"
			return
		}
	}
}

func validationResult(details map[string]any) error {
	if len(details) == 0 {
		return nil
	}
	return apperrors.NewValidationError("validation failed", details)
}
