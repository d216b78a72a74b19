package theme

import "github.com/charmbracelet/lipgloss"

// Neon core colors of the default theme
var (
	MagentaBlaze   = lipgloss.Color("#FF00FF") // Primary accent
	CyberCyan      = lipgloss.Color("#00FFFF") // Directories
	MatrixGreen    = lipgloss.Color("#39FF14") // Staged
	NeonRed        = lipgloss.Color("#FF3131") // Untracked
	ElectricYellow = lipgloss.Color("#FFFF00") // Modified
	LaserPurple    = lipgloss.Color("#7B68EE") // Repository roots
)

// Text colors from bright to dim
var (
	PureWhite     = lipgloss.Color("#FFFFFF")
	Silver        = lipgloss.Color("#E0E0E0")
	MutedLavender = lipgloss.Color("#888899")
	DimPurple     = lipgloss.Color("#4A4A6A")
)
