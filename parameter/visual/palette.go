package visual

// Palettes are ordered young → old: a particle's color walks the list as it ages
// Stops are hex strings so configs can name or inline them interchangeably
var (
	PaletteFire    = []string{"#fffbe6", "#ffd36b", "#ff8c2b", "#e0401b", "#5a1208"}
	PaletteEmber   = []string{"#ffe9b0", "#ff9e3d", "#c8461f", "#3c0f08"}
	PaletteGold    = []string{"#ffffff", "#fff1a8", "#ffc845", "#b8741a"}
	PaletteRoyal   = []string{"#ffffff", "#c9b6ff", "#7a5cff", "#2b1a7a"}
	PaletteRainbow = []string{"#ff4d4d", "#ffb84d", "#fff24d", "#4dff88", "#4dd2ff", "#b84dff"}
	PaletteIce     = []string{"#ffffff", "#bff4ff", "#5cc8ff", "#1d4f9c"}
	PaletteStorm   = []string{"#ffffff", "#d9f1ff", "#8fc9ff", "#4a6cff"}
)

// Palettes indexes the built-in palettes by config name
var Palettes = map[string][]string{
	"fire":    PaletteFire,
	"ember":   PaletteEmber,
	"gold":    PaletteGold,
	"royal":   PaletteRoyal,
	"rainbow": PaletteRainbow,
	"ice":     PaletteIce,
	"storm":   PaletteStorm,
}

// DefaultPalette is used when a config names no palette or only invalid stops
const DefaultPalette = "fire"

// Stage and overlay colors
var (
	// StageBackground is the night-sky base the stage composites layers onto
	StageBackground = "#0c0c14"

	// AuraColor tints the pointer-following aura
	AuraColor = "#ff7a2e"

	// LightningColor is the bolt glyph color
	LightningColor = "#cfe8ff"
)
