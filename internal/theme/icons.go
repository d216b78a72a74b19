package theme

// Plain icons used without Nerd Fonts
const (
	IconDir     = "▸"
	IconRepo    = "◈"
	IconFile    = " "
	IconUnknown = "?"
)

// Git status markers
const (
	GitStaged    = "[+]"
	GitModified  = "[M]"
	GitUntracked = "[?]"
	GitClean     = "   "
)

// GitBranchIcon prefixes the branch name in headers.
const GitBranchIcon = "\ue725"

// Nerd Font glyphs shared by several extensions.
const (
	nerdGo       = "\U000f07d3"
	nerdModule   = "\U000f03d7"
	nerdMarkdown = "\U000f0354"
	nerdText     = "\uf15c"
	nerdData     = "\ue60b"
	nerdScript   = "\uf489"
	nerdImage    = "\uf1c5"
	nerdArchive  = "\uf410"
	nerdGit      = "\ue702"
	nerdPackage  = "\uf487"
	nerdBook     = "\uf02d"
	nerdCog      = "\uf013"
	nerdTest     = "\uf0c3"
	nerdFallback = "\uf15b"
)

var fileIconGroups = []struct {
	icon string
	exts []string
}{
	{nerdGo, []string{".go"}},
	{nerdModule, []string{".mod", ".sum", ".lock"}},
	{nerdMarkdown, []string{".md", ".mdx"}},
	{nerdText, []string{".txt", ".rst", ".log"}},
	{nerdData, []string{".json", ".yaml", ".yml", ".toml"}},
	{nerdScript, []string{".sh", ".bash", ".zsh"}},
	{nerdImage, []string{".png", ".jpg", ".jpeg", ".gif", ".svg"}},
	{nerdArchive, []string{".zip", ".tar", ".gz"}},
	{nerdGit, []string{".gitignore", ".gitattributes", ".gitmodules", ".patch", ".diff"}},
	{"\ue74e", []string{".js", ".mjs"}},
	{"\ue628", []string{".ts", ".tsx"}},
	{"\ue736", []string{".html", ".htm"}},
	{"\ue749", []string{".css", ".scss"}},
	{"\ue73c", []string{".py"}},
	{"\ue7a8", []string{".rs"}},
	{"\ue61e", []string{".c", ".h"}},
	{"\ue738", []string{".java"}},
	{"\ue739", []string{".rb"}},
}

// FileIcons maps file extensions to Nerd Font icons. The empty key holds
// the fallback.
var FileIcons = func() map[string]string {
	m := map[string]string{"": nerdFallback}
	for _, g := range fileIconGroups {
		for _, ext := range g.exts {
			m[ext] = g.icon
		}
	}
	return m
}()

// DirIcons maps well-known directory names to Nerd Font icons. The ".git"
// entry doubles as the repository marker.
var DirIcons = map[string]string{
	".git":         nerdGit,
	".github":      "\uf408",
	"node_modules": "\ue718",
	"vendor":       nerdPackage,
	"pkg":          nerdPackage,
	"src":          "\uf07c",
	"cmd":          "\uf120",
	"internal":     "\uf023",
	"test":         nerdTest,
	"tests":        nerdTest,
	"testdata":     nerdTest,
	"docs":         nerdBook,
	"config":       nerdCog,
	".config":      nerdCog,
}

// GetFileIcon returns the Nerd Font icon for a file extension.
func GetFileIcon(ext string) string {
	if icon, ok := FileIcons[ext]; ok {
		return icon
	}
	return FileIcons[""]
}

// GetDirIcon returns the Nerd Font icon for a directory name, or "" when
// the name is not special.
func GetDirIcon(name string) string {
	return DirIcons[name]
}
