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

package colormap

import (
	"errors"
	"fmt"
)

// ErrInvalidSnapshot is returned when a Snapshot's contents could not have
// come from a State.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Snapshot is a persisted copy of a State's intervals and domain.  The
// background color is not part of a Snapshot.
type Snapshot struct {
	Data []Interval `json:"data"`
	Min  float64    `json:"mincolormap"`
	Max  float64    `json:"maxcolormap"`
}

// Snapshot returns a copy of the receiver's intervals and domain.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Data: cloneIntervals(s.Intervals),
		Min:  s.DomainMin,
		Max:  s.DomainMax,
	}
}

// Validate checks that snap has a finite, ordered domain and that its
// intervals are colored, finite, ordered, and sorted without overlaps.
// Intervals may extend past the domain, as edits can place them there.
func (snap Snapshot) Validate() error {
	if !finite(snap.Min, snap.Max) || snap.Min > snap.Max {
		return fmt.Errorf("%w: domain [%v, %v]", ErrInvalidSnapshot, snap.Min, snap.Max)
	}
	for idx, iv := range snap.Data {
		if iv.Color == "" {
			return fmt.Errorf("%w: interval %d has no color", ErrInvalidSnapshot, idx)
		}
		if !finite(iv.Min, iv.Max) || iv.Min > iv.Max {
			return fmt.Errorf("%w: interval %d spans [%v, %v]", ErrInvalidSnapshot, idx, iv.Min, iv.Max)
		}
		if idx > 0 && iv.Min < snap.Data[idx-1].Max {
			return fmt.Errorf("%w: interval %d overlaps or precedes interval %d", ErrInvalidSnapshot, idx, idx-1)
		}
	}
	return nil
}

// Restore replaces the receiver's intervals and domain with a copy of the
// provided Snapshot's.  The receiver's Background is kept.  An invalid
// Snapshot leaves the receiver unchanged.
func (s *State) Restore(snap Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	s.Intervals = cloneIntervals(snap.Data)
	s.DomainMin, s.DomainMax = snap.Min, snap.Max
	return nil
}
