package preferences

import (
	"strings"

	"github.com/mesut7942/my-gym-log/internal/units"
)

const DeviceIDHeader = "X-Device-ID"

type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

func ParseTheme(s string) Theme {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight
	case ThemeDark:
		return ThemeDark
	default:
		return ThemeSystem
	}
}

// Preferences is the per-device preference container. Weights are always stored in kg,
// Unit only affects how they are presented.
type Preferences struct {
	Unit  units.Unit `json:"unit"`
	Theme Theme      `json:"theme"`
}

func Default() Preferences {
	return Preferences{
		Unit:  units.Kilograms,
		Theme: ThemeSystem,
	}
}

// Normalized replaces invalid values with the defaults.
func (p Preferences) Normalized() Preferences {
	return Preferences{
		Unit:  units.ParseUnit(string(p.Unit)),
		Theme: ParseTheme(string(p.Theme)),
	}
}

func (p Preferences) Converter() units.Converter {
	return units.NewConverter(p.Unit)
}

// Update is a partial change; nil fields are left as they are.
type Update struct {
	Unit  *string `json:"unit"`
	Theme *string `json:"theme"`
}

func (p Preferences) Apply(u Update) Preferences {
	if u.Unit != nil {
		p.Unit = units.ParseUnit(*u.Unit)
	}
	if u.Theme != nil {
		p.Theme = ParseTheme(*u.Theme)
	}
	return p.Normalized()
}
