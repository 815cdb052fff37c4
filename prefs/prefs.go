// Package prefs stores the locale and theme preferences in long-lived
// readable cookies, alongside the session cookies but with none of
// their lifecycle rules.
package prefs

import (
	"net/http"
	"time"
)

const (
	LocaleCookieName = "locale"
	ThemeCookieName  = "theme"
)

const cookieTTL = 365 * 24 * time.Hour

// Locale is a supported interface language.
type Locale string

const (
	LocaleFarsi   Locale = "fa"
	LocaleEnglish Locale = "en"

	DefaultLocale = LocaleFarsi
)

var supportedLocales = map[Locale]struct{}{
	LocaleFarsi:   {},
	LocaleEnglish: {},
}

// IsSupportedLocale reports whether code is a locale this app ships.
func IsSupportedLocale(code Locale) bool {
	_, ok := supportedLocales[code]
	return ok
}

// Direction returns the text direction for the locale.
func (l Locale) Direction() string {
	if l == LocaleFarsi {
		return "rtl"
	}
	return "ltr"
}

// Theme is a UI color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"

	DefaultTheme = ThemeLight
)

// IsSupportedTheme reports whether value is a known theme.
func IsSupportedTheme(value Theme) bool {
	return value == ThemeLight || value == ThemeDark
}

// Store reads and writes preference cookies for a single request.
// Reads fall back to defaults on absent or unknown values; writes set
// 1-year SameSite=Lax cookies readable by client scripts.
type Store struct {
	w http.ResponseWriter
	r *http.Request
}

func NewStore(w http.ResponseWriter, r *http.Request) *Store {
	return &Store{w: w, r: r}
}

func (s *Store) ReadLocale() Locale {
	if c, err := s.r.Cookie(LocaleCookieName); err == nil {
		if l := Locale(c.Value); IsSupportedLocale(l) {
			return l
		}
	}
	return DefaultLocale
}

func (s *Store) ReadTheme() Theme {
	if c, err := s.r.Cookie(ThemeCookieName); err == nil {
		if t := Theme(c.Value); IsSupportedTheme(t) {
			return t
		}
	}
	return DefaultTheme
}

func (s *Store) WriteLocale(l Locale) {
	s.write(LocaleCookieName, string(l))
}

func (s *Store) WriteTheme(t Theme) {
	s.write(ThemeCookieName, string(t))
}

func (s *Store) write(name, value string) {
	http.SetCookie(s.w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cookieTTL.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}
