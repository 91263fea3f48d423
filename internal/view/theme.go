package view

import "context"

const (
	ThemeCookieName = "theme"
	ThemeLight      = "light"
	ThemeDark       = "dark"
)

type themeKey struct{}

func WithTheme(ctx context.Context, theme string) context.Context {
	return context.WithValue(ctx, themeKey{}, theme)
}

// ThemeFrom returns the request theme, light when unset.
func ThemeFrom(ctx context.Context) string {
	if theme, ok := ctx.Value(themeKey{}).(string); ok && theme != "" {
		return theme
	}
	return ThemeLight
}

// ToggleTheme returns the opposite of theme.
func ToggleTheme(theme string) string {
	if theme == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
