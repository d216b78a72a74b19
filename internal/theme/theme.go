// Package theme holds the palettes and icons used by terminal output.
package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds all visual configuration for terminal output.
type Theme struct {
	Name   string
	Colors ColorPalette

	// Whether to use Nerd Font icons
	UseNerdFonts bool
}

// ColorPalette holds all color definitions.
type ColorPalette struct {
	Primary   lipgloss.Color
	Directory lipgloss.Color
	Repo      lipgloss.Color

	Staged    lipgloss.Color
	Modified  lipgloss.Color
	Untracked lipgloss.Color

	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color
	TextDim       lipgloss.Color
}

// DefaultTheme returns the default cyberpunk theme.
func DefaultTheme() *Theme {
	return &Theme{
		Name:         "Cyberpunk",
		UseNerdFonts: true,
		Colors: ColorPalette{
			Primary:       MagentaBlaze,
			Directory:     CyberCyan,
			Repo:          LaserPurple,
			Staged:        MatrixGreen,
			Modified:      ElectricYellow,
			Untracked:     NeonRed,
			TextPrimary:   PureWhite,
			TextSecondary: Silver,
			TextMuted:     MutedLavender,
			TextDim:       DimPurple,
		},
	}
}

// LobsterBoyTheme - Fresh from the seafood shack
func LobsterBoyTheme() *Theme {
	return &Theme{
		Name:         "Lobster Boy",
		UseNerdFonts: true,
		Colors: ColorPalette{
			Primary:       lipgloss.Color("#E63946"), // Cooked lobster
			Directory:     lipgloss.Color("#5CC8E4"), // Bright ocean
			Repo:          lipgloss.Color("#7EC8E3"), // Seafoam
			Staged:        lipgloss.Color("#2A9D8F"), // Seaweed
			Modified:      lipgloss.Color("#E9C46A"), // Lemon wedge
			Untracked:     lipgloss.Color("#9B2226"), // Old bay stain
			TextPrimary:   lipgloss.Color("#F1FAEE"),
			TextSecondary: lipgloss.Color("#A8DADC"),
			TextMuted:     lipgloss.Color("#6B8E9F"),
			TextDim:       lipgloss.Color("#3D5A6C"),
		},
	}
}

// VampireWeekendTheme - Gothic but make it indie
func VampireWeekendTheme() *Theme {
	return &Theme{
		Name:         "Vampire Weekend",
		UseNerdFonts: true,
		Colors: ColorPalette{
			Primary:       lipgloss.Color("#8B0000"), // Fresh blood
			Directory:     lipgloss.Color("#C0C0C0"), // Moonlight silver
			Repo:          lipgloss.Color("#9932CC"), // Dark orchid
			Staged:        lipgloss.Color("#228B22"), // Graveyard moss
			Modified:      lipgloss.Color("#FFD700"), // Candlelight
			Untracked:     lipgloss.Color("#FF0000"), // Arterial spray
			TextPrimary:   lipgloss.Color("#F5F5F5"),
			TextSecondary: lipgloss.Color("#B8B8B8"),
			TextMuted:     lipgloss.Color("#6E6E6E"),
			TextDim:       lipgloss.Color("#3D3D3D"),
		},
	}
}

// AllThemes returns all available themes.
func AllThemes() []*Theme {
	return []*Theme{DefaultTheme(), LobsterBoyTheme(), VampireWeekendTheme()}
}

// ByName returns the theme whose name matches case-insensitively, ignoring
// spaces and dashes. Unknown names return the default theme and false.
func ByName(name string) (*Theme, bool) {
	want := normalizeName(name)
	for _, t := range AllThemes() {
		if normalizeName(t.Name) == want {
			return t, true
		}
	}
	return DefaultTheme(), false
}

func normalizeName(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}

// GetFileIcon returns the icon for a file, respecting the UseNerdFonts setting.
func (t *Theme) GetFileIcon(ext string) string {
	if !t.UseNerdFonts {
		return IconFile
	}
	return GetFileIcon(ext)
}

// GetDirIcon returns the icon for a directory, respecting the UseNerdFonts setting.
func (t *Theme) GetDirIcon(name string, isRepo bool) string {
	if isRepo {
		if t.UseNerdFonts {
			return DirIcons[".git"]
		}
		return IconRepo
	}
	if !t.UseNerdFonts {
		return IconDir
	}
	if icon := GetDirIcon(name); icon != "" {
		return icon
	}
	return IconDir
}
