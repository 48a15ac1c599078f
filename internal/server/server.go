package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-jubileum/internal/config"
	"github.com/tartampluch/go-jubileum/internal/engine"
)

// document is one rendered representation with its HTTP caching metadata.
type document struct {
	data        []byte
	etag        string
	contentType string
}

// feed is the complete state published by one Update call.
type feed struct {
	calendar     document
	results      document
	lastModified string // RFC1123 format required by HTTP headers
}

// ResultJSON is the wire form of a jubilee on the JSON route.
type ResultJSON struct {
	Milestone int       `json:"milestone"`
	Date      string    `json:"date"`
	Ages      []AgeJSON `json:"ages"`
}

// AgeJSON is one participant's age on a jubilee date.
type AgeJSON struct {
	Name  string  `json:"name"`
	Years float64 `json:"years"`
}

// FeedServer publishes the latest calculated jubilees on localhost, both as an
// iCalendar subscription and as JSON.
type FeedServer struct {
	// Readers never block writers: each Update swaps in a complete feed.
	cache atomic.Pointer[feed]
	Port  string
}

// NewFeedServer creates a server for the given port.
func NewFeedServer(port string) *FeedServer {
	return &FeedServer{Port: port}
}

// Address returns the host:port the server binds to.
func (s *FeedServer) Address() string {
	return config.LocalhostBindAddr + config.AddrSeparator + s.Port
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *FeedServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         s.Address(),
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Handler returns the routes served by the feed.
func (s *FeedServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteRoot, func(w http.ResponseWriter, r *http.Request) {
		s.serve(w, r, func(f *feed) document { return f.calendar })
	})
	mux.HandleFunc(config.RouteJSON, func(w http.ResponseWriter, r *http.Request) {
		s.serve(w, r, func(f *feed) document { return f.results })
	})
	return mux
}

// Update atomically replaces the published calendar and results.
func (s *FeedServer) Update(ics []byte, results []engine.JubileumResult) error {
	payload, err := json.Marshal(toJSON(results))
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrJSONEncode, err)
	}

	f := &feed{
		calendar:     newDocument(ics, config.MimeTextCalendar),
		results:      newDocument(payload, config.MimeJSON),
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	}
	s.cache.Store(f)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(ics),
		config.LogKeyResults, len(results),
		config.LogKeyETag, f.calendar.etag,
	)
	return nil
}

func newDocument(data []byte, contentType string) document {
	hash := sha256.Sum256(data)
	return document{
		data:        data,
		etag:        fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:])),
		contentType: contentType,
	}
}

func toJSON(results []engine.JubileumResult) []ResultJSON {
	out := make([]ResultJSON, 0, len(results))
	for _, r := range results {
		item := ResultJSON{
			Milestone: r.Milestone,
			Date:      engine.FormatDate(r.Date),
			Ages:      make([]AgeJSON, len(r.Ages)),
		}
		for i, a := range r.Ages {
			item.Ages[i] = AgeJSON{Name: a.Participant.Name, Years: a.Years}
		}
		out = append(out, item)
	}
	return out
}

// serve writes the selected document with conditional-request support.
func (s *FeedServer) serve(w http.ResponseWriter, r *http.Request, pick func(*feed) document) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	f := s.cache.Load()
	if f == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}
	doc := pick(f)

	w.Header().Set(config.HeaderContentType, doc.contentType)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, doc.etag)
	w.Header().Set(config.HeaderLastModified, f.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == doc.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		clientTime, err1 := time.Parse(http.TimeFormat, since)
		serverTime, err2 := time.Parse(http.TimeFormat, f.lastModified)
		if err1 == nil && err2 == nil && !serverTime.After(clientTime) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(doc.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}
