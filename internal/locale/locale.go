// Package locale loads the embedded message catalog and renders user-facing text.
package locale

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-jubileum/internal/config"
	"github.com/tartampluch/go-jubileum/internal/engine"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

const (
	localeDir    = "locales"
	localePrefix = "active."
	localeSuffix = ".json"
)

// Translator resolves catalog keys for one language.
// A nil or empty Translator returns keys unchanged.
type Translator struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	Languages []string
}

// New loads every embedded catalog and selects lang.
func New(lang string) *Translator {
	bundle := i18n.NewBundle(language.Dutch)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	t := &Translator{bundle: bundle}

	entries, err := localeFS.ReadDir(localeDir)
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return t
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, localePrefix) || !strings.HasSuffix(name, localeSuffix) {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, localePrefix), localeSuffix)
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, localeDir+"/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}

		t.Languages = append(t.Languages, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
		)
	}

	if lang == "" {
		lang = config.DefaultLanguage
	}
	t.localizer = i18n.NewLocalizer(bundle, lang)
	return t
}

// Msg translates a key without template data.
func (t *Translator) Msg(key string) string {
	return t.MsgWith(key, nil)
}

// MsgWith translates a key, filling its template with data.
// Unknown keys come back verbatim.
func (t *Translator) MsgWith(key string, data map[string]any) string {
	if t == nil || t.localizer == nil {
		return key
	}
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil || msg == "" {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}

// msgOr returns fallback when key has no translation.
func (t *Translator) msgOr(key string, data map[string]any, fallback string) string {
	if msg := t.MsgWith(key, data); msg != key {
		return msg
	}
	return fallback
}

// Error renders an error for the user. Known sentinels map to catalog
// messages, anything else is shown as the generic failure text.
func (t *Translator) Error(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, engine.ErrInvalidName):
		return t.msgOr(config.TKeyErrInvalidName, nil, config.ErrInvalidName)
	case errors.Is(err, engine.ErrInvalidDate):
		return t.msgOr(config.TKeyErrInvalidDate, nil, config.ErrInvalidDate)
	case errors.Is(err, engine.ErrEmptyRegistry):
		return t.msgOr(config.TKeyErrEmpty, nil, config.ErrEmptyRegistry)
	case errors.Is(err, engine.ErrNoJubileumFound):
		return t.msgOr(config.TKeyErrNoJubileum, nil, config.ErrNoJubileumFound)
	default:
		return t.msgOr(config.TKeyErrUnexpected, nil, err.Error())
	}
}

// ResultLine renders "<m> jaar op <date> (<ages>)".
func (t *Translator) ResultLine(r engine.JubileumResult) string {
	return t.msgOr(config.TKeyResultLine, map[string]any{
		"Milestone": r.Milestone,
		"Date":      engine.FormatDate(r.Date),
		"Ages":      engine.FormatAgeList(r),
	}, engine.FormatResultLine(r))
}

// Summary renders the calendar event title for a milestone.
func (t *Translator) Summary(milestone int) string {
	return t.msgOr(config.TKeyEvtSummary, map[string]any{"Milestone": milestone},
		fmt.Sprintf(config.FallbackSummary, milestone))
}

// ImportSummary reports how many imported participants were accepted.
func (t *Translator) ImportSummary(report engine.ImportReport) string {
	return t.msgOr(config.TKeyImportSummary, map[string]any{
		"Added":    report.Added,
		"Rejected": report.Rejected,
	}, fmt.Sprintf(config.FallbackImportDone, report.Added, report.Rejected))
}
