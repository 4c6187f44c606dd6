package service

import "github.com/spec-kit/placement-studio/internal/domain"

// DemoSeed returns the starter roster and objects for a fresh workspace.
func DemoSeed() *SeedData {
	return &SeedData{
		Staff: []domain.Staff{
			{ID: "staff-joe-goldberg", FullName: "Joe Goldberg", WeeklyHours: 36},
			{ID: "staff-zayn-malik", FullName: "Zayn Malik", WeeklyHours: 40},
			{ID: "staff-harry-styles", FullName: "Harry Styles", WeeklyHours: 28},
		},
		Objects: []domain.PlacedObject{
			{
				ID:          "object-01",
				DisplayName: "Cube 1",
				OwnerID:     "staff-joe-goldberg",
				ColorHex:    "#f97316",
				Position:    domain.Position{X: -1.2, Y: domain.RestingHeight, Z: 0.4},
				SizeClass:   domain.SizeNormal,
			},
			{
				ID:          "object-02",
				DisplayName: "Cube 2",
				OwnerID:     "staff-zayn-malik",
				ColorHex:    "#0ea5e9",
				Position:    domain.Position{X: 0.9, Y: domain.RestingHeight, Z: -0.2},
				SizeClass:   domain.SizeLarge,
			},
			{
				ID:          "object-03",
				DisplayName: "Cube 3",
				OwnerID:     "staff-harry-styles",
				ColorHex:    "#111827",
				Position:    domain.Position{X: 0.1, Y: domain.RestingHeight, Z: 1.1},
				SizeClass:   domain.SizeSmall,
			},
		},
	}
}
