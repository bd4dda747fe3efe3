// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/NVIDIA/infinitory/pkg/defaults"
	"github.com/NVIDIA/infinitory/pkg/errors"
)

const tempPrefix = ".tmp-"

var validKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Option configures a Store.
type Option func(*Store)

// WithMaxAge sets the age after which entries are evicted at open.
func WithMaxAge(d time.Duration) Option {
	return func(s *Store) {
		s.maxAge = d
	}
}

// WithClock replaces the clock used to compute the eviction threshold.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store is a flat directory of zstd-compressed JSON blobs keyed by report
// hash. Entries are written to a temporary file and renamed into place, so
// readers never observe a partial entry.
type Store struct {
	root    string
	maxAge  time.Duration
	now     func() time.Time
	evicted int
}

// DefaultRoot returns the cache directory under the user cache dir.
func DefaultRoot() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "failed to resolve user cache dir", err)
	}
	return filepath.Join(base, defaults.ReportCacheDirName), nil
}

// New creates root if needed and evicts every entry whose modification time
// is older than the max age relative to the clock at construction.
func New(root string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "cache root is required")
	}

	s := &Store{
		root:   root,
		maxAge: defaults.ReportCacheMaxAge,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInternal, "failed to create cache dir", err,
			map[string]any{"root": root})
	}

	n, err := s.evict()
	if err != nil {
		return nil, err
	}
	s.evicted = n
	return s, nil
}

// Root returns the cache directory.
func (s *Store) Root() string {
	return s.root
}

// Evicted returns how many entries were removed when the store was opened.
func (s *Store) Evicted() int {
	return s.evicted
}

func (s *Store) evict() (int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, errors.WrapWithContext(errors.ErrCodeInternal, "failed to list cache dir", err,
			map[string]any{"root": s.root})
	}

	threshold := s.now().Add(-s.maxAge)
	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				continue
			}
			return removed, errors.Wrap(errors.ErrCodeInternal, "failed to stat cache entry", err)
		}
		if !info.ModTime().Before(threshold) {
			continue
		}

		path := filepath.Join(s.root, e.Name())
		if err := os.Remove(path); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return removed, errors.WrapWithContext(errors.ErrCodeInternal, "failed to evict cache entry", err,
				map[string]any{"path": path})
		}
		slog.Debug("evicted cache entry", "path", path, "mtime", info.ModTime())
		removed++
	}

	cacheEvictions.Add(float64(removed))
	if removed > 0 {
		slog.Info("report cache evicted", "entries", removed, "root", s.root)
	}
	return removed, nil
}

// Path returns the file backing hash.
func (s *Store) Path(hash string) (string, error) {
	if !validKey.MatchString(hash) {
		return "", errors.NewWithContext(errors.ErrCodeInvalidRequest, "invalid cache key",
			map[string]any{"key": hash})
	}
	return filepath.Join(s.root, hash), nil
}

// Get decodes the entry for hash into v. It returns false without error on
// a miss. An entry that cannot be decoded yields ErrCodeCacheCorruption.
func (s *Store) Get(hash string, v any) (bool, error) {
	path, err := s.Path(hash)
	if err != nil {
		return false, err
	}

	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			cacheMisses.Inc()
			return false, nil
		}
		return false, errors.Wrap(errors.ErrCodeInternal, "failed to open cache entry", err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return false, corrupt(path, err)
	}
	defer zr.Close()

	if err := json.NewDecoder(zr).Decode(v); err != nil {
		return false, corrupt(path, err)
	}

	cacheHits.Inc()
	return true, nil
}

func corrupt(path string, err error) error {
	cacheCorruptions.Inc()
	return errors.WrapWithContext(errors.ErrCodeCacheCorruption, "cache entry is unreadable", err,
		map[string]any{"path": path})
}

// Put stores v under hash, replacing any existing entry.
func (s *Store) Put(hash string, v any) error {
	path, err := s.Path(hash)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.root, tempPrefix+hash+"-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to create cache entry", err)
	}
	tmpName := tmp.Name()
	ok := false
	defer func() {
		if !ok {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	zw, err := zstd.NewWriter(tmp)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to create zstd writer", err)
	}
	if err := json.NewEncoder(zw).Encode(v); err != nil {
		zw.Close()
		return errors.Wrap(errors.ErrCodeInternal, "failed to encode cache entry", err)
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to flush cache entry", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to close cache entry", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("failed to commit cache entry %s", hash), err)
	}
	ok = true
	cacheWrites.Inc()
	return nil
}
