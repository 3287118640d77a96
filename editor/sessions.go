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

package editor

import (
	"fmt"
	"sync"

	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/ilhamster/meshviz/colormap"
	"go.uber.org/zap"
)

// session is a single editing session's state.
type session struct {
	mu    sync.Mutex
	state *colormap.State
}

// Sessions holds the colormap States of the most recently used editing
// sessions.  A session evicted from it, or never seen before, starts over
// from the default State.
type Sessions struct {
	mu  sync.Mutex
	lru *simplelru.LRU
	log *zap.Logger
}

// NewSessions returns a new Sessions retaining up to cap sessions.
func NewSessions(cap int, log *zap.Logger) (*Sessions, error) {
	lru, err := simplelru.NewLRU(cap, func(key, _ interface{}) {
		log.Debug("evicted editing session", zap.Any("session_id", key))
	})
	if err != nil {
		return nil, err
	}
	return &Sessions{
		lru: lru,
		log: log,
	}, nil
}

func (s *Sessions) get(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sessIf, ok := s.lru.Get(id); ok {
		sess, ok := sessIf.(*session)
		if !ok {
			return nil, fmt.Errorf("session '%s' didn't hold a colormap", id)
		}
		return sess, nil
	}
	sess := &session{state: colormap.Reset()}
	s.lru.Add(id, sess)
	s.log.Debug("started editing session", zap.String("session_id", id))
	return sess, nil
}

// With invokes fn with the State of the specified session.  Calls for the
// same session are serialized; calls for different sessions may run
// concurrently.
func (s *Sessions) With(id string, fn func(state *colormap.State) error) error {
	sess, err := s.get(id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.state)
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}
