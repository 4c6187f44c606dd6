package dto

import "github.com/spec-kit/placement-studio/internal/domain"

// StaffCreateRequest payload.
type StaffCreateRequest struct {
	FullName    string  `json:"full_name"`
	WeeklyHours float64 `json:"weekly_hours"`
}

// StaffUpdateRequest payload. Omitted fields are left unchanged.
type StaffUpdateRequest struct {
	FullName    *string  `json:"full_name"`
	WeeklyHours *float64 `json:"weekly_hours"`
}

// StaffResponse representation.
type StaffResponse struct {
	ID                  string  `json:"id"`
	FullName            string  `json:"full_name"`
	WeeklyHours         float64 `json:"weekly_hours"`
	AttachedObjectCount int     `json:"attached_object_count"`
}

// Input converts the request into a domain input.
func (r StaffCreateRequest) Input() domain.StaffInput {
	return domain.StaffInput{FullName: r.FullName, WeeklyHours: r.WeeklyHours}
}

// Patch converts the request into a domain patch.
func (r StaffUpdateRequest) Patch() domain.StaffPatch {
	return domain.StaffPatch{FullName: r.FullName, WeeklyHours: r.WeeklyHours}
}

// NewStaffResponse maps a staff member.
func NewStaffResponse(s domain.Staff) StaffResponse {
	return StaffResponse{
		ID:                  s.ID,
		FullName:            s.FullName,
		WeeklyHours:         s.WeeklyHours,
		AttachedObjectCount: s.AttachedObjectCount,
	}
}
