package config

import "github.com/bnema/chromekit/internal/domain/entity"

// Default chrome geometry, in points.
const (
	DefaultHeaderHeight    = 44.0
	DefaultFooterHeight    = 44.0
	DefaultStatusBarHeight = 20.0
	DefaultReaderBarHeight = 28.0
	DefaultSnackbarHeight  = 48.0
)

// DefaultCacheMaxAgeHours bounds how long persisted extractions stay
// usable.
const DefaultCacheMaxAgeHours = 24 * 7

func (m *Manager) setDefaults() {
	style := entity.DefaultReaderStyle()

	m.viper.SetDefault("logging.level", "info")
	m.viper.SetDefault("logging.format", "console")

	m.viper.SetDefault("chrome.header_height", DefaultHeaderHeight)
	m.viper.SetDefault("chrome.footer_height", DefaultFooterHeight)
	m.viper.SetDefault("chrome.status_bar_height", DefaultStatusBarHeight)
	m.viper.SetDefault("chrome.reader_bar_height", DefaultReaderBarHeight)
	m.viper.SetDefault("chrome.snackbar_height", DefaultSnackbarHeight)

	m.viper.SetDefault("reader.font_family", style.FontFamily)
	m.viper.SetDefault("reader.font_size", style.FontSize)
	m.viper.SetDefault("reader.theme", string(style.Theme))

	m.viper.SetDefault("cache.max_age_hours", DefaultCacheMaxAgeHours)

	m.viper.SetDefault("database.path", "")
}
