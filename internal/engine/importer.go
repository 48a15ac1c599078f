package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-jubileum/internal/config"
)

// SourceConfig describes where participants are imported from.
type SourceConfig struct {
	Mode      string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath string // Path to a .vcf file
	WebURL    string // CardDAV or WebDAV URL
	WebUser   string // HTTP Basic Auth Username
	WebPass   string // HTTP Basic Auth Password
}

// ImportStats summarises one import run.
type ImportStats struct {
	Processed int
	Imported  int
	Skipped   int
}

// Importer reads participants from vCard address books.
type Importer struct {
	Fetcher VCardFetcher
}

// Import returns the contacts that carry a usable name and a full birthdate,
// in address-book order. Cards that fail either check are skipped and counted.
func (im *Importer) Import(ctx context.Context, cfg SourceConfig) ([]Participant, ImportStats, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompImporter,
		config.LogKeyMode, cfg.Mode,
	)
	log.InfoContext(ctx, config.MsgImportStarted)

	reader, err := im.acquireStream(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ImportStats{}, ctx.Err()
		}
		return nil, ImportStats{}, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
	}
	defer func() { _ = reader.Close() }()

	if err := ctx.Err(); err != nil {
		return nil, ImportStats{}, err
	}

	participants, stats, err := decodeParticipants(ctx, reader)
	if err != nil {
		return nil, ImportStats{}, err
	}

	log.Info(config.MsgImportSuccess,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.Processed),
			slog.Int(config.LogKeyImported, stats.Imported),
			slog.Int(config.LogKeySkipped, stats.Skipped),
		),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return participants, stats, nil
}

// acquireStream opens the appropriate data source based on configuration.
func (im *Importer) acquireStream(ctx context.Context, cfg SourceConfig) (io.ReadCloser, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(cfg.LocalPath)
	case config.SourceModeWeb:
		if cfg.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if im.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return im.Fetcher.Fetch(ctx, cfg.WebURL, cfg.WebUser, cfg.WebPass)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}

// decodeParticipants walks the vCard stream. Cards without a usable name or
// birthdate are skipped; a syntax error ends the walk and keeps what was read.
func decodeParticipants(ctx context.Context, r io.Reader) ([]Participant, ImportStats, error) {
	decoder := vcard.NewDecoder(r)
	var stats ImportStats
	var participants []Participant

	for {
		if ctx.Err() != nil {
			return nil, ImportStats{}, ctx.Err()
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompImporter,
				config.LogKeyError, err)
			// The decoder cannot resync after a syntax error.
			break
		}
		stats.Processed++

		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			stats.Skipped++
			continue
		}
		birthdate, err := parseBirthday(bday.Value)
		if err != nil {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompImporter,
				config.LogKeyValue, bday.Value)
			stats.Skipped++
			continue
		}

		// Name Strategy: FN (Formatted) > N (Structured) > Fallback
		name := config.FallbackName
		if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
			name = fn.Value
		} else if n := card.Name(); n != nil {
			name = strings.TrimSpace(n.GivenName + " " + n.FamilyName)
		}
		name = strings.TrimSpace(name)

		if !IsNameValid(name) {
			slog.Debug(config.MsgSkippedName,
				config.LogKeyComponent, config.CompImporter,
				config.LogKeyName, name)
			stats.Skipped++
			continue
		}

		participants = append(participants, Participant{Name: name, Birthdate: birthdate})
		stats.Imported++
	}
	return participants, stats, nil
}

// parseBirthday accepts vCard dates that carry a year; yearless --MM-DD
// birthdays cannot take part in a jubilee.
func parseBirthday(value string) (time.Time, error) {
	formats := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, value); err == nil {
			return calendarDate(t), nil
		}
	}
	return time.Time{}, errors.New(config.ErrDateParse)
}
