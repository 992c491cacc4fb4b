// Package salon implements the salon directory: salon records with their
// branding theme and navigation menu, owned by registered users.
package salon

import (
	"time"

	"github.com/google/uuid"
)

// FrameStyle is the visual frame applied to a salon's pages.
type FrameStyle string

const (
	FrameStyleGradient FrameStyle = "GRADIENT"
	FrameStyleGlass    FrameStyle = "GLASS"
)

// Valid reports whether the frame style is a known value.
func (f FrameStyle) Valid() bool {
	switch f {
	case FrameStyleGradient, FrameStyleGlass:
		return true
	}
	return false
}

// MenuKey identifies a slot in a salon's navigation menu. Owners relabel the
// slots but cannot invent new ones.
type MenuKey string

const (
	MenuKeyDashboard MenuKey = "DASHBOARD"
	MenuKeyProjects  MenuKey = "PROJECTS"
	MenuKeyTeams     MenuKey = "TEAMS"
	MenuKeyReports   MenuKey = "REPORTS"
	MenuKeySettings  MenuKey = "SETTINGS"
)

// Valid reports whether the menu key is a known slot.
func (k MenuKey) Valid() bool {
	switch k {
	case MenuKeyDashboard, MenuKeyProjects, MenuKeyTeams, MenuKeyReports, MenuKeySettings:
		return true
	}
	return false
}

// Salon is the aggregate root. Branding and menu items live and die with it.
type Salon struct {
	ID            uuid.UUID
	Code          string
	Name          string
	Description   string
	Address       string
	City          string
	ContactNumber string
	HeroImageURL  string
	OwnerID       uuid.UUID
	Branding      *Branding
	MenuItems     []MenuItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Branding holds a salon's visual theme.
type Branding struct {
	PrimaryColor      string
	AccentColor       string
	FrameStyle        FrameStyle
	BackgroundTexture string
	HeroImageURL      string
}

// MenuItem is one entry of a salon's navigation menu.
type MenuItem struct {
	Key          MenuKey
	Label        string
	Path         string
	Visible      bool
	DisplayOrder int
}

// AttachBranding replaces the salon's branding.
func (s *Salon) AttachBranding(b Branding) {
	s.Branding = &b
}

// AddMenuItem appends a menu entry. New entries start visible.
func (s *Salon) AddMenuItem(key MenuKey, label, path string, displayOrder int) {
	s.MenuItems = append(s.MenuItems, MenuItem{
		Key:          key,
		Label:        label,
		Path:         path,
		Visible:      true,
		DisplayOrder: displayOrder,
	})
}
