package syncer

import (
	"fmt"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/erraggy/oasrepo/document"
	"github.com/erraggy/oasrepo/internal/aggregate"
	"github.com/erraggy/oasrepo/internal/fragment"
	"github.com/erraggy/oasrepo/internal/pathcodec"
	"github.com/erraggy/oasrepo/logging"
	"github.com/erraggy/oasrepo/sourcetree"
)

const fragmentPattern = "**/*.yaml"

// Syncer writes a bundled document back into a source tree.
type Syncer struct {
	// BaseDir is the directory holding the source tree. Ignored when
	// Filesystem is set. Defaults to sourcetree.DefaultBaseDir.
	BaseDir string
	// Filesystem, when set, is used as the source tree root instead of BaseDir.
	Filesystem billy.Filesystem
	// Layout names the parts of the source tree. Empty fields take defaults.
	Layout sourcetree.Layout
	// Verbose logs every changed file at info level instead of debug level.
	Verbose bool
	// Logger receives progress lines. Defaults to a no-op logger.
	Logger logging.Logger
}

// New creates a new Syncer with default settings.
func New() *Syncer {
	return &Syncer{BaseDir: sourcetree.DefaultBaseDir}
}

// SyncResult reports the files a sync touched.
type SyncResult struct {
	// Written is the number of files created or overwritten.
	Written int
	// Removed is the number of fragment files deleted.
	Removed int
	// Changed lists written and removed files, relative to the base
	// directory, in the order they were touched.
	Changed []string
}

// HasChanges returns true if any file was written or removed.
func (r *SyncResult) HasChanges() bool {
	return r.Written > 0 || r.Removed > 0
}

// Sync writes input into the source tree. input is the document as raw
// JSON or YAML text (string or []byte) or as a *document.Map, which is not
// modified. Files whose content is unchanged are not rewritten.
func (s *Syncer) Sync(input any) (*SyncResult, error) {
	layout := s.Layout.WithDefaults()
	log := logging.OrNop(s.Logger).With("component", "syncer")
	store := fragment.New(s.filesystem())
	result := &SyncResult{}

	hasPaths := store.IsDir(layout.PathsDir)
	hasDefs := store.IsDir(layout.DefinitionsDir)

	var doc *document.Map
	switch in := input.(type) {
	case *document.Map:
		if in == nil {
			return nil, fmt.Errorf("syncer: nil document")
		}
		doc = document.ShallowCopy(in)
	case string, []byte:
		text := toText(in)
		if !hasPaths && !hasDefs {
			written, err := store.WriteText(layout.MainFile, text)
			if err != nil {
				return nil, fmt.Errorf("syncer: %w", err)
			}
			if written {
				s.touched(log, result, layout.MainFile, false)
			}
			return result, nil
		}
		parsed, err := document.Parse([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("syncer: %w", err)
		}
		doc = parsed
	default:
		return nil, fmt.Errorf("syncer: unsupported input type %T", input)
	}

	if paths, ok := document.GetMap(doc, "paths"); ok && hasPaths {
		if err := s.syncSection(store, log, result, paths, layout.PathsDir, aggregate.PathsKey, pathcodec.PathToFilename); err != nil {
			return nil, err
		}
		doc.Delete("paths")
	}

	if defs, ok := document.GetMap(doc, "definitions"); ok && hasDefs {
		if err := s.syncSection(store, log, result, defs, layout.DefinitionsDir, aggregate.DefinitionsKey, pathcodec.DefinitionToFilename); err != nil {
			return nil, err
		}
		doc.Delete("definitions")
	}

	written, err := store.Update(layout.MainFile, doc)
	if err != nil {
		return nil, fmt.Errorf("syncer: %w", err)
	}
	if written {
		s.touched(log, result, layout.MainFile, false)
	}
	return result, nil
}

// syncSection writes every entry of section to its own fragment in dir and
// removes the fragments of entries that no longer exist. Existing files keep
// their location, new ones are created at the top of dir.
func (s *Syncer) syncSection(
	store *fragment.Store,
	log logging.Logger,
	result *SyncResult,
	section *document.Map,
	dir string,
	keyFn aggregate.KeyFunc,
	nameFn func(string) (string, error),
) error {
	known, err := aggregate.Aggregate(store, dir, fragmentPattern, keyFn)
	if err != nil {
		return fmt.Errorf("syncer: %w", err)
	}

	for pair := section.Oldest(); pair != nil; pair = pair.Next() {
		file, _ := known.Get(pair.Key)
		location, _ := file.(string)
		if location == "" {
			name, err := nameFn(pair.Key)
			if err != nil {
				return fmt.Errorf("syncer: %w", err)
			}
			location = path.Join(dir, name+".yaml")
		}

		written, err := store.Update(location, pair.Value)
		if err != nil {
			return fmt.Errorf("syncer: %w", err)
		}
		if written {
			s.touched(log, result, location, false)
		}
	}

	for pair := known.Oldest(); pair != nil; pair = pair.Next() {
		if document.Has(section, pair.Key) {
			continue
		}
		location, _ := pair.Value.(string)
		if err := store.Remove(location); err != nil {
			return fmt.Errorf("syncer: %w", err)
		}
		s.touched(log, result, location, true)
	}
	return nil
}

func (s *Syncer) touched(log logging.Logger, result *SyncResult, file string, removed bool) {
	msg := "wrote fragment"
	if removed {
		msg = "removed fragment"
		result.Removed++
	} else {
		result.Written++
	}
	result.Changed = append(result.Changed, file)
	if s.Verbose {
		log.Info(msg, "file", file)
		return
	}
	log.Debug(msg, "file", file)
}

func (s *Syncer) filesystem() billy.Filesystem {
	if s.Filesystem != nil {
		return s.Filesystem
	}
	dir := s.BaseDir
	if dir == "" {
		dir = sourcetree.DefaultBaseDir
	}
	return osfs.New(dir)
}

func toText(v any) string {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v.(string)
}
