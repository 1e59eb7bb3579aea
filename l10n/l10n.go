// Package l10n resolves display strings and date layouts for a locale.
package l10n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"time"

	"git.sr.ht/~whereswaldon/voicestats/chart"
	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// AllLocales is the locale filter meaning "no filter".
const AllLocales = "all"

const dateLayoutKey = "date-layout"

//go:embed locales/*.toml
var localeFiles embed.FS

var bundle = mustLoadBundle(localeFiles)

func loadBundle(fsys fs.FS) (*i18n.Bundle, error) {
	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	names, err := fs.Glob(fsys, "locales/*.toml")
	if err != nil {
		return nil, err
	}
	var errs []error
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, err := b.ParseMessageFileBytes(data, path.Base(name)); err != nil {
			errs = append(errs, fmt.Errorf("failed parsing %s: %w", name, err))
		}
	}
	return b, errors.Join(errs...)
}

func mustLoadBundle(fsys fs.FS) *i18n.Bundle {
	b, err := loadBundle(fsys)
	if err != nil {
		panic(err)
	}
	return b
}

// Locales lists the languages with translations, English first.
func Locales() []string {
	tags := bundle.LanguageTags()
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.String())
	}
	return out
}

// Localizer translates message keys for one locale.
type Localizer struct {
	locale string
	loc    *i18n.Localizer
}

// New returns a Localizer for locale, falling back to English for missing
// messages. AllLocales and the empty string select English.
func New(locale string) *Localizer {
	if locale == AllLocales {
		locale = ""
	}
	return &Localizer{
		locale: locale,
		loc:    i18n.NewLocalizer(bundle, locale, language.English.String()),
	}
}

// Locale returns the locale the Localizer was created for.
func (l *Localizer) Locale() string {
	return l.locale
}

// Text returns the message for key. Unknown keys are returned unchanged.
func (l *Localizer) Text(key string) string {
	return l.Textf(key, nil)
}

// Textf returns the message for key with its template filled from data.
func (l *Localizer) Textf(key string, data map[string]any) string {
	s, err := l.loc.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil || s == "" {
		return key
	}
	return s
}

// FormatDate renders t as a calendar date in the locale's conventions.
func (l *Localizer) FormatDate(t time.Time) string {
	layout := l.Text(dateLayoutKey)
	if layout == dateLayoutKey {
		layout = chart.DefaultDateLayout
	}
	return t.Format(layout)
}
