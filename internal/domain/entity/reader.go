package entity

// ReaderState describes reading-mode availability for a single page.
// Unavailable and Available flip freely as page content is analyzed;
// only Active carries navigation-rewriting behavior.
type ReaderState int

const (
	// ReaderUnavailable means the page has no extractable article content.
	ReaderUnavailable ReaderState = iota
	// ReaderAvailable means reading mode can be entered for this page.
	ReaderAvailable
	// ReaderActive means the page currently displays extracted content.
	ReaderActive
)

// String returns the state name for logging.
func (s ReaderState) String() string {
	switch s {
	case ReaderUnavailable:
		return "unavailable"
	case ReaderAvailable:
		return "available"
	case ReaderActive:
		return "active"
	default:
		return "unknown"
	}
}

// Reader style bounds.
const (
	ReaderFontSizeDefault = 16
	ReaderFontSizeMin     = 10
	ReaderFontSizeMax     = 32
)

// ReaderTheme selects the reading-mode color scheme.
type ReaderTheme string

const (
	ReaderThemeLight ReaderTheme = "light"
	ReaderThemeDark  ReaderTheme = "dark"
	ReaderThemeSepia ReaderTheme = "sepia"
)

// ReaderStyle is the process-wide reading-mode presentation record.
// It applies to every page currently in reading mode and is persisted
// in user configuration.
type ReaderStyle struct {
	FontFamily string      `mapstructure:"font_family" yaml:"font_family"`
	FontSize   int         `mapstructure:"font_size" yaml:"font_size"`
	Theme      ReaderTheme `mapstructure:"theme" yaml:"theme"`
}

// DefaultReaderStyle returns the style used before the user customizes it.
func DefaultReaderStyle() ReaderStyle {
	return ReaderStyle{
		FontFamily: "serif",
		FontSize:   ReaderFontSizeDefault,
		Theme:      ReaderThemeLight,
	}
}

// Normalize clamps the style to valid bounds, replacing unknown values
// with defaults.
func (s ReaderStyle) Normalize() ReaderStyle {
	if s.FontFamily == "" {
		s.FontFamily = "serif"
	}
	if s.FontSize < ReaderFontSizeMin {
		s.FontSize = ReaderFontSizeMin
	} else if s.FontSize > ReaderFontSizeMax {
		s.FontSize = ReaderFontSizeMax
	}
	switch s.Theme {
	case ReaderThemeLight, ReaderThemeDark, ReaderThemeSepia:
	default:
		s.Theme = ReaderThemeLight
	}
	return s
}
