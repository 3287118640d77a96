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
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ilhamster/meshviz/colormap"
	colormapstore "github.com/ilhamster/meshviz/colormap_store"
	"go.uber.org/zap/zaptest"
)

func newEditor(t *testing.T) *Editor {
	t.Helper()
	log := zaptest.NewLogger(t)
	return New(colormapstore.Open(filepath.Join(t.TempDir(), "saved.json"), log), log)
}

func TestParseOp(t *testing.T) {
	for _, test := range []struct {
		name    string
		want    Op
		wantErr bool
	}{
		{name: "insert", want: OpInsert},
		{name: "reclip", want: OpReclip},
		{name: "set_background", want: OpSetBackground},
		{name: "save", want: OpSave},
		{name: "load", want: OpLoad},
		{name: "reset", want: OpReset},
		{name: "delete", wantErr: true},
		{name: "", wantErr: true},
	} {
		got, err := ParseOp(test.name)
		if test.wantErr {
			if !errors.Is(err, ErrUnknownOp) {
				t.Errorf("ParseOp(%q) = %v, want ErrUnknownOp", test.name, err)
			}
			continue
		}
		if err != nil || got != test.want {
			t.Errorf("ParseOp(%q) = %v, %v, want %v", test.name, got, err, test.want)
		}
		if got.String() != test.name {
			t.Errorf("%v.String() = %q, want %q", got, got.String(), test.name)
		}
	}
}

func TestApply(t *testing.T) {
	for _, test := range []struct {
		description string
		cmds        []Command
		want        *colormap.State
		wantStatus  string
		wantErr     error
	}{{
		description: "insert canonicalizes rgb colors",
		cmds: []Command{
			{Op: OpInsert, Color: "rgb(255, 0, 0)", Min: 20, Max: 40},
		},
		want: &colormap.State{
			Intervals: []colormap.Interval{
				{Color: "white", Min: 0, Max: 20},
				{Color: "#ff0000", Min: 20, Max: 40},
				{Color: "white", Min: 40, Max: 100},
			},
			Background: "white",
			DomainMin:  0,
			DomainMax:  100,
		},
	}, {
		description: "reclip then background",
		cmds: []Command{
			{Op: OpInsert, Color: "red", Min: 20, Max: 40},
			{Op: OpReclip, Min: 10, Max: 50},
			{Op: OpSetBackground, Color: "black"},
		},
		want: &colormap.State{
			Intervals: []colormap.Interval{
				{Color: "black", Min: 10, Max: 20},
				{Color: "red", Min: 20, Max: 40},
				{Color: "black", Min: 40, Max: 50},
			},
			Background: "black",
			DomainMin:  10,
			DomainMax:  50,
		},
	}, {
		description: "reset restores the default",
		cmds: []Command{
			{Op: OpInsert, Color: "red", Min: 20, Max: 40},
			{Op: OpSetBackground, Color: "gray"},
			{Op: OpReset},
		},
		want:       colormap.Reset(),
		wantStatus: ResetStatus,
	}, {
		description: "reversed insert is rejected",
		cmds: []Command{
			{Op: OpInsert, Color: "red", Min: 40, Max: 20},
		},
		want:    colormap.Reset(),
		wantErr: colormap.ErrInvalidRange,
	}, {
		description: "insert without a color is rejected",
		cmds: []Command{
			{Op: OpInsert, Min: 20, Max: 40},
		},
		want:    colormap.Reset(),
		wantErr: colormap.ErrEmptyColor,
	}, {
		description: "loading an unknown snapshot is rejected",
		cmds: []Command{
			{Op: OpLoad, Name: "colormap_09"},
		},
		want:    colormap.Reset(),
		wantErr: colormapstore.ErrNotFound,
	}, {
		description: "unknown op",
		cmds: []Command{
			{Op: Op(99)},
		},
		want:    colormap.Reset(),
		wantErr: ErrUnknownOp,
	}} {
		t.Run(test.description, func(t *testing.T) {
			e := newEditor(t)
			state := colormap.Reset()
			var status string
			var err error
			for _, cmd := range test.cmds {
				status, err = e.Apply(context.Background(), state, cmd)
				if err != nil {
					break
				}
			}
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("Apply() error = %v, want %v", err, test.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Apply() failed: %s", err)
			}
			if status != test.wantStatus {
				t.Errorf("Apply() status = %q, want %q", status, test.wantStatus)
			}
			if diff := cmp.Diff(test.want, state); diff != "" {
				t.Errorf("state diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	e := newEditor(t)
	state := colormap.Reset()
	if _, err := e.Apply(ctx, state, Command{Op: OpInsert, Color: "blue", Min: 30, Max: 60}); err != nil {
		t.Fatalf("Apply(insert) failed: %s", err)
	}
	saved := state.Clone()
	status, err := e.Apply(ctx, state, Command{Op: OpSave})
	if err != nil {
		t.Fatalf("Apply(save) failed: %s", err)
	}
	if status != "colormap_01 saved" {
		t.Errorf("Apply(save) status = %q, want %q", status, "colormap_01 saved")
	}
	if _, err := e.Apply(ctx, state, Command{Op: OpReset}); err != nil {
		t.Fatalf("Apply(reset) failed: %s", err)
	}
	// The background in effect at load time is kept.
	if _, err := e.Apply(ctx, state, Command{Op: OpSetBackground, Color: "lightblue"}); err != nil {
		t.Fatalf("Apply(set_background) failed: %s", err)
	}
	if _, err := e.Apply(ctx, state, Command{Op: OpLoad, Name: "colormap_01"}); err != nil {
		t.Fatalf("Apply(load) failed: %s", err)
	}
	want := saved
	want.Background = "lightblue"
	if diff := cmp.Diff(want, state); diff != "" {
		t.Errorf("loaded state diff (-want +got):\n%s", diff)
	}
}

// fixedStore serves one snapshot under every name.
type fixedStore struct {
	snap colormap.Snapshot
}

func (fs fixedStore) Save(colormap.Snapshot) (string, error) {
	return "", errors.New("read-only store")
}

func (fs fixedStore) Get(string) (colormap.Snapshot, error) {
	return fs.snap, nil
}

func TestLoadInvalidSnapshot(t *testing.T) {
	e := New(fixedStore{snap: colormap.Snapshot{
		Data: []colormap.Interval{{Color: "red", Min: 50, Max: 10}},
		Min:  0,
		Max:  100,
	}}, zaptest.NewLogger(t))
	state := colormap.Reset()
	if _, err := e.Apply(context.Background(), state, Command{Op: OpLoad, Name: "bad"}); !errors.Is(err, colormap.ErrInvalidSnapshot) {
		t.Errorf("Apply(load) of an invalid snapshot = %v, want ErrInvalidSnapshot", err)
	}
	if diff := cmp.Diff(colormap.Reset(), state); diff != "" {
		t.Errorf("failed load changed the state (-want +got):\n%s", diff)
	}
}

func TestApplyCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	state := colormap.Reset()
	if _, err := newEditor(t).Apply(ctx, state, Command{Op: OpReset}); !errors.Is(err, context.Canceled) {
		t.Errorf("Apply() with a canceled context = %v, want context.Canceled", err)
	}
}

func TestSessions(t *testing.T) {
	sessions, err := NewSessions(2, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewSessions() failed: %s", err)
	}
	insert := func(id, color string) {
		t.Helper()
		if err := sessions.With(id, func(state *colormap.State) error {
			return state.Insert(color, 10, 20)
		}); err != nil {
			t.Fatalf("With(%q) failed: %s", id, err)
		}
	}
	colorAt15 := func(id string) string {
		t.Helper()
		var got string
		if err := sessions.With(id, func(state *colormap.State) error {
			got, _ = state.ColorAt(15)
			return nil
		}); err != nil {
			t.Fatalf("With(%q) failed: %s", id, err)
		}
		return got
	}
	insert("a", "red")
	insert("b", "blue")
	if got := colorAt15("a"); got != "red" {
		t.Errorf("session a color = %q, want red", got)
	}
	if got := colorAt15("b"); got != "blue" {
		t.Errorf("session b color = %q, want blue", got)
	}
	// Touching "c" evicts the least recently used session, "a".
	insert("c", "green")
	if got := sessions.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	if got := colorAt15("a"); got != colormap.DefaultBackground {
		t.Errorf("evicted session a color = %q, want %q", got, colormap.DefaultBackground)
	}
	if got := colorAt15("c"); got != "green" {
		t.Errorf("session c color = %q, want green", got)
	}
}

func TestSessionsConcurrent(t *testing.T) {
	sessions, err := NewSessions(4, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewSessions() failed: %s", err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions.With("shared", func(state *colormap.State) error {
				return state.Insert("red", float64(i), float64(i)+1)
			})
		}(i)
	}
	wg.Wait()
	if err := sessions.With("shared", func(state *colormap.State) error {
		for idx := 1; idx < len(state.Intervals); idx++ {
			if state.Intervals[idx-1].Max > state.Intervals[idx].Min {
				t.Errorf("intervals overlap after concurrent edits: %v", state.Intervals)
				break
			}
		}
		return nil
	}); err != nil {
		t.Fatalf("With() failed: %s", err)
	}
}

func TestNewSessionsInvalidCapacity(t *testing.T) {
	if _, err := NewSessions(0, zaptest.NewLogger(t)); err == nil {
		t.Errorf("NewSessions(0) unexpectedly succeeded")
	}
}
