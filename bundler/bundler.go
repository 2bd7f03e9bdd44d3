package bundler

import (
	"fmt"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/erraggy/oasrepo/document"
	"github.com/erraggy/oasrepo/internal/aggregate"
	"github.com/erraggy/oasrepo/internal/fragment"
	"github.com/erraggy/oasrepo/internal/headers"
	"github.com/erraggy/oasrepo/logging"
	"github.com/erraggy/oasrepo/oaserrors"
	"github.com/erraggy/oasrepo/plugin"
	"github.com/erraggy/oasrepo/sourcetree"
)

const (
	fragmentPattern   = "**/*.yaml"
	codeSamplePattern = "*/*/*"
	codeSamplesKey    = "x-code-samples"
)

// Bundler composes a source tree into a single document.
type Bundler struct {
	// BaseDir is the directory holding the source tree. Ignored when
	// Filesystem is set. Defaults to sourcetree.DefaultBaseDir.
	BaseDir string
	// Filesystem, when set, is used as the source tree root instead of BaseDir.
	Filesystem billy.Filesystem
	// Layout names the parts of the source tree. Empty fields take defaults.
	Layout sourcetree.Layout
	// SkipCodeSamples leaves code samples out of the bundle.
	SkipCodeSamples bool
	// SkipHeadersInlining leaves #/headers references and the headers
	// section in place.
	SkipHeadersInlining bool
	// SkipPlugins disables both registered and plugins-dir plugins.
	SkipPlugins bool
	// Plugins are run before the plugins found in Layout.PluginsDir.
	Plugins *plugin.Registry
	// Verbose logs progress at info level instead of debug level.
	Verbose bool
	// Logger receives progress and warnings. Defaults to a no-op logger.
	Logger logging.Logger
}

// New creates a new Bundler with default settings.
func New() *Bundler {
	return &Bundler{BaseDir: sourcetree.DefaultBaseDir}
}

// BundleResult contains the bundled document and what went into it.
type BundleResult struct {
	// Document is the bundled document.
	Document *document.Map
	// Warnings holds non-fatal issues, such as $ref siblings dropped while
	// inlining headers.
	Warnings []string
	// Stats counts what was bundled.
	Stats Stats
}

// Stats counts the parts of a bundle.
type Stats struct {
	Paths       int
	Definitions int
	CodeSamples int
	Plugins     []plugin.Report
	Duration    time.Duration
}

// HasWarnings returns true if any warnings were generated.
func (r *BundleResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Bundle reads the source tree and returns the composed document.
func (b *Bundler) Bundle() (*BundleResult, error) {
	start := time.Now()
	layout := b.Layout.WithDefaults()
	log := logging.OrNop(b.Logger).With("component", "bundler")
	store := fragment.New(b.filesystem())

	doc, err := store.ReadMap(layout.MainFile)
	if err != nil {
		return nil, fmt.Errorf("bundler: reading main file: %w", err)
	}

	result := &BundleResult{Document: doc}

	if store.IsDir(layout.PathsDir) {
		b.progress(log, "adding paths to spec", "dir", layout.PathsDir)
		if authored(doc, "paths") {
			return nil, &oaserrors.AuthorshipError{Section: "paths", Dir: layout.PathsDir + "/"}
		}
		paths, err := aggregate.AggregateAndLoad(store, layout.PathsDir, fragmentPattern, aggregate.PathsKey)
		if err != nil {
			return nil, fmt.Errorf("bundler: %w", err)
		}
		doc.Set("paths", paths)
		result.Stats.Paths = paths.Len()
	}

	if store.IsDir(layout.DefinitionsDir) {
		b.progress(log, "adding definitions to spec", "dir", layout.DefinitionsDir)
		if authored(doc, "definitions") {
			return nil, &oaserrors.AuthorshipError{Section: "definitions", Dir: layout.DefinitionsDir + "/"}
		}
		defs, err := aggregate.AggregateAndLoad(store, layout.DefinitionsDir, fragmentPattern, aggregate.DefinitionsKey)
		if err != nil {
			return nil, fmt.Errorf("bundler: %w", err)
		}
		doc.Set("definitions", defs)
		result.Stats.Definitions = defs.Len()
	}

	if !b.SkipCodeSamples && store.IsDir(layout.CodeSamplesDir) {
		b.progress(log, "adding code samples to spec", "dir", layout.CodeSamplesDir)
		n, err := addCodeSamples(store, doc, layout.CodeSamplesDir)
		if err != nil {
			return nil, fmt.Errorf("bundler: %w", err)
		}
		result.Stats.CodeSamples = n
	}

	if !b.SkipHeadersInlining && document.Has(doc, headers.Section) {
		b.progress(log, "inlining headers")
		warnings, err := headers.Inline(doc)
		if err != nil {
			return nil, fmt.Errorf("bundler: %w", err)
		}
		for _, w := range warnings {
			log.Warn("dropping $ref siblings", "path", w.Path, "ref", w.Ref, "keys", w.Dropped)
			result.Warnings = append(result.Warnings, w.String())
		}
	}

	if !b.SkipPlugins {
		entries := b.Plugins.Entries()
		dirEntries, err := plugin.LoadDir(store.Filesystem(), layout.PluginsDir)
		if err != nil {
			return nil, fmt.Errorf("bundler: %w", err)
		}
		entries = append(entries, dirEntries...)
		if len(entries) > 0 {
			b.progress(log, "running plugins", "count", len(entries))
			reports, err := plugin.Run(doc, entries)
			if err != nil {
				return nil, fmt.Errorf("bundler: %w", err)
			}
			result.Stats.Plugins = reports
		}
	}

	result.Stats.Duration = time.Since(start)
	return result, nil
}

func (b *Bundler) filesystem() billy.Filesystem {
	if b.Filesystem != nil {
		return b.Filesystem
	}
	dir := b.BaseDir
	if dir == "" {
		dir = sourcetree.DefaultBaseDir
	}
	return osfs.New(dir)
}

func (b *Bundler) progress(log logging.Logger, msg string, attrs ...any) {
	if b.Verbose {
		log.Info(msg, attrs...)
		return
	}
	log.Debug(msg, attrs...)
}

// addCodeSamples attaches x-code-samples to every operation that has sample
// files and returns the number of samples added.
func addCodeSamples(store *fragment.Store, doc *document.Map, dir string) (int, error) {
	samples, err := aggregate.Aggregate(store, dir, codeSamplePattern, aggregate.CodeSampleKey)
	if err != nil {
		return 0, err
	}

	paths, _ := document.GetMap(doc, "paths")
	count := 0
	for p := samples.Oldest(); p != nil; p = p.Next() {
		verbs, _ := p.Value.(*document.Map)
		for v := verbs.Oldest(); v != nil; v = v.Next() {
			langs, _ := v.Value.(*document.Map)
			op, ok := operation(paths, p.Key, v.Key)
			if !ok {
				return 0, &oaserrors.MissingTargetError{Path: p.Key, Verb: v.Key, File: firstFile(langs)}
			}
			if authored(op, codeSamplesKey) {
				return 0, &oaserrors.AuthorshipError{
					Section:  codeSamplesKey,
					Location: document.Path{"paths", p.Key, v.Key}.Pointer(),
					Dir:      dir + "/",
				}
			}

			var entries []any
			for l := langs.Oldest(); l != nil; l = l.Next() {
				source, err := store.ReadText(l.Value.(string))
				if err != nil {
					return 0, err
				}
				entries = append(entries, document.MapOf("lang", l.Key, "source", source))
				count++
			}
			op.Set(codeSamplesKey, entries)
		}
	}
	return count, nil
}

// authored reports whether m already carries a non-null value for key. An
// empty "paths:" in the main file does not conflict with a paths directory.
func authored(m *document.Map, key string) bool {
	v, ok := m.Get(key)
	return ok && v != nil
}

func operation(paths *document.Map, path, verb string) (*document.Map, bool) {
	item, ok := document.GetMap(paths, path)
	if !ok {
		return nil, false
	}
	return document.GetMap(item, verb)
}

func firstFile(langs *document.Map) string {
	if langs == nil || langs.Len() == 0 {
		return ""
	}
	s, _ := langs.Oldest().Value.(string)
	return s
}
