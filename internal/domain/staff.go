package domain

// Staff is a roster member who can own placed objects.
type Staff struct {
	ID          string  `json:"id"`
	FullName    string  `json:"full_name"`
	WeeklyHours float64 `json:"weekly_hours"`
	// AttachedObjectCount is derived from the object collection on every read.
	AttachedObjectCount int `json:"attached_object_count"`
}

// StaffInput carries the fields required to create a staff member.
type StaffInput struct {
	FullName    string  `json:"full_name"`
	WeeklyHours float64 `json:"weekly_hours"`
}

// StaffPatch carries optional staff updates.
type StaffPatch struct {
	FullName    *string  `json:"full_name,omitempty"`
	WeeklyHours *float64 `json:"weekly_hours,omitempty"`
}

// Apply returns s with the patch fields applied.
func (p StaffPatch) Apply(s Staff) Staff {
	if p.FullName != nil {
		s.FullName = *p.FullName
	}
	if p.WeeklyHours != nil {
		s.WeeklyHours = *p.WeeklyHours
	}
	return s
}

// CountOwnership returns a copy of staff with AttachedObjectCount set to the
// number of objects referencing each member. Objects whose owner is not on
// the roster are ignored.
func CountOwnership(staff []Staff, objects []PlacedObject) []Staff {
	counts := make(map[string]int, len(staff))
	for _, object := range objects {
		counts[object.OwnerID]++
	}
	result := make([]Staff, len(staff))
	for i, member := range staff {
		member.AttachedObjectCount = counts[member.ID]
		result[i] = member
	}
	return result
}
