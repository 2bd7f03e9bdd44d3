// Package server exposes bundling and syncing over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/erraggy/oasrepo/bundler"
	"github.com/erraggy/oasrepo/document"
	"github.com/erraggy/oasrepo/internal/fragment"
	"github.com/erraggy/oasrepo/internal/metrics"
	"github.com/erraggy/oasrepo/logging"
	"github.com/erraggy/oasrepo/sourcetree"
	"github.com/erraggy/oasrepo/syncer"
)

// maxSyncBody bounds PUT bodies. Editor saves of large documents exceed the
// usual 100kB form limits.
const maxSyncBody = 10 << 20

// editorNote prefixes the editor view when the document is split over
// several files.
const editorNote = "# Note: This spec is defined in multiple files.\n" +
	"# All comments and formatting were lost during the bundle process.\n" +
	"# Existing files formatting may be not preserved on save.\n"

// Options configures a Server.
type Options struct {
	// BaseDir is the source tree directory. Ignored when Filesystem is set.
	BaseDir string
	// Filesystem overrides BaseDir.
	Filesystem billy.Filesystem
	// Layout names the parts of the source tree.
	Layout sourcetree.Layout

	SkipCodeSamples     bool
	SkipHeadersInlining bool
	SkipPlugins         bool

	// Logger defaults to a no-op logger.
	Logger logging.Logger
	// Metrics records every operation. When it is a
	// *metrics.PrometheusRecorder its registry is served on /metrics.
	Metrics metrics.Recorder
}

// Server serves a source tree.
type Server struct {
	opts Options
	fs   billy.Filesystem
	log  logging.Logger
	rec  metrics.Recorder
	mux  *http.ServeMux

	// mu lets bundles run concurrently while syncs hold the tree exclusively.
	mu sync.RWMutex
}

// New creates a Server.
func New(opts Options) *Server {
	fsys := opts.Filesystem
	if fsys == nil {
		dir := opts.BaseDir
		if dir == "" {
			dir = sourcetree.DefaultBaseDir
		}
		fsys = osfs.New(dir)
	}
	rec := opts.Metrics
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	s := &Server{
		opts: opts,
		fs:   fsys,
		log:  logging.OrNop(opts.Logger).With("component", "server"),
		rec:  rec,
		mux:  http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /openapi.json", s.handleBundle(document.MarshalJSON, "application/json"))
	s.mux.HandleFunc("GET /openapi.yaml", s.handleBundle(document.MarshalYAML, "application/yaml"))
	s.mux.HandleFunc("GET /swagger.yaml", s.handleEditorView)
	s.mux.HandleFunc("PUT /backend_swagger.yaml", s.handleSync)
	if pr, ok := rec.(*metrics.PrometheusRecorder); ok {
		s.mux.Handle("GET /metrics", pr.HTTPHandler())
	}
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) bundle(editor bool) (*bundler.BundleResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b := bundler.New()
	b.Filesystem = s.fs
	b.Layout = s.opts.Layout
	b.Logger = s.log
	if editor {
		b.SkipCodeSamples = true
		b.SkipHeadersInlining = true
		b.SkipPlugins = true
	} else {
		b.SkipCodeSamples = s.opts.SkipCodeSamples
		b.SkipHeadersInlining = s.opts.SkipHeadersInlining
		b.SkipPlugins = s.opts.SkipPlugins
	}

	start := time.Now()
	result, err := b.Bundle()
	s.rec.ObserveOperation(metrics.OpBundle, time.Since(start), err)
	return result, err
}

func (s *Server) handleBundle(marshal func(any) ([]byte, error), contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.bundle(false)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		data, err := marshal(result.Document)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(data)
	}
}

// handleEditorView returns the document for editing. When the tree is a
// single main file its text is returned as is, comments included.
func (s *Server) handleEditorView(w http.ResponseWriter, r *http.Request) {
	result, err := s.bundle(true)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	store := fragment.New(s.fs)
	mainFile := s.opts.Layout.WithDefaults().MainFile
	main, err := store.ReadMap(mainFile)
	if err == nil && document.Equal(result.Document, main) {
		text, err := store.ReadText(mainFile)
		if err == nil {
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = io.WriteString(w, text)
			return
		}
	}

	data, err := document.MarshalYAML(result.Document)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = io.WriteString(w, editorNote)
	_, _ = w.Write(data)
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSyncBody))
	if err != nil {
		s.writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}

	s.mu.Lock()
	sy := syncer.New()
	sy.Filesystem = s.fs
	sy.Layout = s.opts.Layout
	sy.Logger = s.log
	start := time.Now()
	result, err := sy.Sync(body)
	s.mu.Unlock()

	s.rec.ObserveOperation(metrics.OpSync, time.Since(start), err)
	if err != nil {
		s.log.Error("error while synchronizing spec", "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.rec.AddFragmentWrites(metrics.OpSync, result.Written+result.Removed)
	s.log.Info("synchronized spec", "written", result.Written, "removed", result.Removed)
	_, _ = io.WriteString(w, "ok")
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.log.Debug("request failed", "status", status, "error", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
