/*
	Copyright 2023 Google Inc.
	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at
		https://www.apache.org/licenses/LICENSE-2.0
	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

// Package colormapstore persists colormap snapshots in a single JSON file
// mapping snapshot names to snapshots, and reads directories of read-only
// library colormaps.
package colormapstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ilhamster/meshviz/colormap"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a requested snapshot does not exist.
var ErrNotFound = errors.New("colormap not found")

// Store is a file-backed collection of named colormap snapshots.  The whole
// file is read at Open and rewritten on every Save.
type Store struct {
	path string
	log  *zap.Logger

	mu        sync.Mutex
	snapshots map[string]colormap.Snapshot
}

// Open returns a Store backed by the file at path.  A missing file yields an
// empty Store; so does a malformed one, with a warning.
func Open(path string, log *zap.Logger) *Store {
	s := &Store{
		path:      path,
		log:       log,
		snapshots: map[string]colormap.Snapshot{},
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn("failed to read saved colormaps", zap.String("path", path), zap.Error(err))
		}
		return s
	}
	snapshots := map[string]colormap.Snapshot{}
	if err := json.Unmarshal(data, &snapshots); err != nil {
		log.Warn("ignoring malformed saved colormaps", zap.String("path", path), zap.Error(err))
		return s
	}
	for name, snap := range snapshots {
		if err := snap.Validate(); err != nil {
			log.Warn("skipping invalid saved colormap", zap.String("path", path), zap.String("name", name), zap.Error(err))
			continue
		}
		s.snapshots[name] = snap
	}
	log.Debug("opened saved colormaps", zap.String("path", path), zap.Int("count", len(s.snapshots)))
	return s
}

// Names returns the names of all saved snapshots, sorted.
func (s *Store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ret := make([]string, 0, len(s.snapshots))
	for name := range s.snapshots {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// Get returns the snapshot with the specified name.
func (s *Store) Get(name string) (colormap.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snapshots[name]
	if !ok {
		return colormap.Snapshot{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return copySnapshot(snap), nil
}

// Save stores a copy of the provided snapshot as colormap_NN, where NN is
// one more than the number of saved snapshots, writes the whole collection
// back to the backing file, and returns the name.  A snapshot already saved
// under that name is overwritten.  If the write fails, the collection is
// left as it was.
func (s *Store) Save(snap colormap.Snapshot) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := fmt.Sprintf("colormap_%02d", len(s.snapshots)+1)
	prev, existed := s.snapshots[name]
	if existed {
		s.log.Warn("overwriting saved colormap", zap.String("name", name))
	}
	s.snapshots[name] = copySnapshot(snap)
	if err := s.write(); err != nil {
		if existed {
			s.snapshots[name] = prev
		} else {
			delete(s.snapshots, name)
		}
		return "", err
	}
	s.log.Info("saved colormap", zap.String("name", name), zap.Int("intervals", len(snap.Data)))
	return name, nil
}

// write rewrites the backing file.  The caller must hold s.mu.
func (s *Store) write() error {
	data, err := json.MarshalIndent(s.snapshots, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode saved colormaps: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write saved colormaps: %w", err)
	}
	return nil
}

func copySnapshot(snap colormap.Snapshot) colormap.Snapshot {
	ret := snap
	ret.Data = append([]colormap.Interval(nil), snap.Data...)
	return ret
}

// LoadLibrary reads every *.json file in dir as a read-only library
// colormap: a JSON array of intervals.  Colormaps are keyed by file name
// without extension.  Files that fail to read or decode are skipped with a
// warning, and a missing directory is an empty library.
func LoadLibrary(dir string, log *zap.Logger) (map[string][]colormap.Interval, error) {
	ret := map[string][]colormap.Interval{}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ret, nil
		}
		return nil, fmt.Errorf("failed to read colormap library %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn("skipping unreadable library colormap", zap.String("path", path), zap.Error(err))
			continue
		}
		var ivs []colormap.Interval
		if err := json.Unmarshal(data, &ivs); err != nil {
			log.Warn("skipping malformed library colormap", zap.String("path", path), zap.Error(err))
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		ret[name] = ivs
		log.Debug("loaded library colormap", zap.String("name", name), zap.String("path", path))
	}
	return ret, nil
}
