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

// Package editor applies explicit editing commands to colormap States and
// keeps one State per editing session.
package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/ilhamster/meshviz/color"
	"github.com/ilhamster/meshviz/colormap"
	"go.uber.org/zap"
)

// Op is an editing operation.
type Op int

// Supported editing operations.
const (
	OpInsert Op = iota
	OpReclip
	OpSetBackground
	OpSave
	OpLoad
	OpReset
)

var opNames = map[Op]string{
	OpInsert:        "insert",
	OpReclip:        "reclip",
	OpSetBackground: "set_background",
	OpSave:          "save",
	OpLoad:          "load",
	OpReset:         "reset",
}

func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// ErrUnknownOp is returned for unrecognized operations.
var ErrUnknownOp = errors.New("unknown operation")

// ParseOp returns the Op with the provided wire name.
func ParseOp(name string) (Op, error) {
	for op, opName := range opNames {
		if opName == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("%w '%s'", ErrUnknownOp, name)
}

// Command is a single editing operation with its payload.  Only the fields
// its Op uses are consulted:
//
//	OpInsert:        Color, Min, Max
//	OpReclip:        Min, Max
//	OpSetBackground: Color
//	OpLoad:          Name
type Command struct {
	Op       Op
	Color    string
	Min, Max float64
	Name     string
}

// SnapshotStore describes types able to save and fetch colormap snapshots.
type SnapshotStore interface {
	Save(snap colormap.Snapshot) (string, error)
	Get(name string) (colormap.Snapshot, error)
}

// Editor applies Commands to colormap States.
type Editor struct {
	store SnapshotStore
	log   *zap.Logger
}

// New returns a new Editor persisting snapshots to the provided store.
func New(store SnapshotStore, log *zap.Logger) *Editor {
	return &Editor{
		store: store,
		log:   log,
	}
}

// ResetStatus is the status reported after an OpReset.
const ResetStatus = "Colormap reset to default"

// Apply applies the provided Command to state, returning a user-facing status
// message, which is empty for most operations.  If Apply returns an error,
// state is unchanged.
func (e *Editor) Apply(ctx context.Context, state *colormap.State, cmd Command) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var status string
	var err error
	switch cmd.Op {
	case OpInsert:
		var c string
		if c, err = color.Canonical(cmd.Color); err == nil {
			err = state.Insert(c, cmd.Min, cmd.Max)
		}
	case OpReclip:
		err = state.Reclip(cmd.Min, cmd.Max)
	case OpSetBackground:
		var c string
		if c, err = color.Canonical(cmd.Color); err == nil {
			err = state.SetBackground(c)
		}
	case OpSave:
		var name string
		if name, err = e.store.Save(state.Snapshot()); err == nil {
			status = name + " saved"
		}
	case OpLoad:
		var snap colormap.Snapshot
		if snap, err = e.store.Get(cmd.Name); err == nil {
			err = state.Restore(snap)
		}
	case OpReset:
		*state = *colormap.Reset()
		status = ResetStatus
	default:
		err = fmt.Errorf("%w %s", ErrUnknownOp, cmd.Op)
	}
	if err != nil {
		e.log.Debug("rejected colormap command",
			zap.Stringer("op", cmd.Op), zap.Error(err))
		return "", fmt.Errorf("%s failed: %w", cmd.Op, err)
	}
	e.log.Debug("applied colormap command",
		zap.Stringer("op", cmd.Op), zap.Int("intervals", len(state.Intervals)))
	return status, nil
}
