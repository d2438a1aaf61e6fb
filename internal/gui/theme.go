package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"codeberg.org/snonux/wordloop/internal/settings"
)

// variantTheme pins the default theme to one variant
type variantTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

func (t *variantTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(name, t.variant)
}

// themeFor maps the theme setting to a fyne theme. System follows the
// desktop preference.
func themeFor(t settings.Theme) fyne.Theme {
	switch t {
	case settings.ThemeLight:
		return &variantTheme{Theme: theme.DefaultTheme(), variant: theme.VariantLight}
	case settings.ThemeDark:
		return &variantTheme{Theme: theme.DefaultTheme(), variant: theme.VariantDark}
	default:
		return theme.DefaultTheme()
	}
}

func applyTheme(app fyne.App, t settings.Theme) {
	app.Settings().SetTheme(themeFor(t))
}
