// Package fragment reads and writes the YAML fragment files that make up a
// source tree.
//
// A Store works on a billy.Filesystem rooted at the source tree's base
// directory, so every path handed to it is slash-separated and relative to
// that root. Production code uses osfs, tests use memfs.
package fragment

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sync/atomic"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/erraggy/oasrepo/document"
	"github.com/erraggy/oasrepo/internal/fileutil"
	"github.com/erraggy/oasrepo/oaserrors"
)

// Store provides fragment file access with write accounting.
type Store struct {
	fs      billy.Filesystem
	writes  atomic.Int64
	removes atomic.Int64
}

// New returns a Store over fsys.
func New(fsys billy.Filesystem) *Store {
	return &Store{fs: fsys}
}

// NewOS returns a Store over the operating system directory baseDir.
func NewOS(baseDir string) *Store {
	return New(osfs.New(baseDir))
}

// Filesystem returns the underlying filesystem.
func (s *Store) Filesystem() billy.Filesystem {
	return s.fs
}

// Read parses the fragment at p. A missing file yields an error matching
// fs.ErrNotExist.
func (s *Store) Read(p string) (any, error) {
	data, err := util.ReadFile(s.fs, p)
	if err != nil {
		return nil, fmt.Errorf("fragment: %w", err)
	}
	v, err := document.ParseValue(data)
	if err != nil {
		var perr *oaserrors.ParseError
		if errors.As(err, &perr) && perr.Path == "" {
			perr.Path = p
		}
		return nil, fmt.Errorf("fragment: %w", err)
	}
	return v, nil
}

// ReadMap is Read for fragments whose root must be a mapping.
func (s *Store) ReadMap(p string) (*document.Map, error) {
	v, err := s.Read(p)
	if err != nil {
		return nil, err
	}
	m, ok := v.(*document.Map)
	if !ok || m == nil {
		return nil, fmt.Errorf("fragment: %w", &oaserrors.ParseError{Path: p, Message: "document root must be a mapping"})
	}
	return m, nil
}

// Write serializes value as YAML to p, creating parent directories.
func (s *Store) Write(p string, value any) error {
	data, err := document.MarshalYAML(value)
	if err != nil {
		return fmt.Errorf("fragment: encoding %s: %w", p, err)
	}
	return s.writeBytes(p, data)
}

// Update writes value to p only when it differs from the current content.
// A missing, unreadable or unparsable file counts as different. It reports
// whether a write happened.
func (s *Store) Update(p string, value any) (bool, error) {
	if current, err := s.Read(p); err == nil && document.Equal(current, value) {
		return false, nil
	}
	if err := s.Write(p, value); err != nil {
		return false, err
	}
	return true, nil
}

// ReadText returns the raw content of p.
func (s *Store) ReadText(p string) (string, error) {
	data, err := util.ReadFile(s.fs, p)
	if err != nil {
		return "", fmt.Errorf("fragment: %w", err)
	}
	return string(data), nil
}

// WriteText writes text to p verbatim unless the file already holds exactly
// those bytes. It reports whether a write happened.
func (s *Store) WriteText(p string, text string) (bool, error) {
	if current, err := util.ReadFile(s.fs, p); err == nil && bytes.Equal(current, []byte(text)) {
		return false, nil
	}
	if err := s.writeBytes(p, []byte(text)); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) writeBytes(p string, data []byte) error {
	if dir := path.Dir(p); dir != "." && dir != "/" {
		if err := s.fs.MkdirAll(dir, fileutil.DirMode); err != nil {
			return fmt.Errorf("fragment: creating %s: %w", dir, err)
		}
	}
	if err := util.WriteFile(s.fs, p, data, fileutil.ReadableByAll); err != nil {
		return fmt.Errorf("fragment: writing %s: %w", p, err)
	}
	s.writes.Add(1)
	return nil
}

// Exists reports whether p exists.
func (s *Store) Exists(p string) bool {
	_, err := s.fs.Stat(p)
	return err == nil
}

// IsDir reports whether p is an existing directory.
func (s *Store) IsDir(p string) bool {
	info, err := s.fs.Stat(p)
	return err == nil && info.IsDir()
}

// Remove deletes the file at p.
func (s *Store) Remove(p string) error {
	if err := s.fs.Remove(p); err != nil {
		return fmt.Errorf("fragment: removing %s: %w", p, err)
	}
	s.removes.Add(1)
	return nil
}

// List returns every regular file below dir as slash-separated paths
// relative to dir, in lexical order. A missing dir yields no files.
func (s *Store) List(dir string) ([]string, error) {
	var files []string
	err := util.Walk(s.fs, dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fragment: listing %s: %w", dir, err)
	}
	slices.Sort(files)
	return files, nil
}

// Writes returns the number of files written so far.
func (s *Store) Writes() int {
	return int(s.writes.Load())
}

// Removes returns the number of files removed so far.
func (s *Store) Removes() int {
	return int(s.removes.Load())
}
