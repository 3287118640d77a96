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
	"fmt"
	"sort"
)

// Insert paints an interval of the provided color over [min, max].  Existing
// intervals overlapping that range keep only the portions lying outside it;
// an interval strictly containing the range is split in two.
func (s *State) Insert(color string, min, max float64) error {
	if color == "" {
		return ErrEmptyColor
	}
	if !finite(min, max) || min >= max {
		return fmt.Errorf("%w: [%v, %v]", ErrInvalidRange, min, max)
	}
	ret := make([]Interval, 0, len(s.Intervals)+2)
	for _, iv := range s.Intervals {
		if iv.Max <= min || iv.Min >= max {
			ret = append(ret, iv)
			continue
		}
		if iv.Min < min {
			ret = append(ret, Interval{Color: iv.Color, Min: iv.Min, Max: min})
		}
		if iv.Max > max {
			ret = append(ret, Interval{Color: iv.Color, Min: max, Max: iv.Max})
		}
	}
	ret = append(ret, Interval{Color: color, Min: min, Max: max})
	sort.SliceStable(ret, func(a, b int) bool {
		return ret[a].Min < ret[b].Min
	})
	s.Intervals = ret
	return nil
}

// Reclip trims the receiver to the new outer bounds [min, max], dropping
// intervals outside them and clamping those straddling them, then fills any
// uncovered space with the background color.  Afterwards the intervals
// exactly tile [min, max].
func (s *State) Reclip(min, max float64) error {
	if !finite(min, max) || min > max {
		return fmt.Errorf("%w: [%v, %v]", ErrInvalidRange, min, max)
	}
	ret := make([]Interval, 0, len(s.Intervals)+2)
	for _, iv := range s.Intervals {
		// Intervals only touching the new domain at an endpoint would lie
		// outside it after clamping.
		if iv.Max < min || iv.Min > max ||
			(iv.Max == min && iv.Min < min) || (iv.Min == max && iv.Max > max) {
			continue
		}
		clipped := iv
		if iv.Min < min && min < iv.Max {
			clipped.Min = min
		}
		if iv.Min < max && max < iv.Max {
			clipped.Max = max
		}
		if n := len(ret); n > 0 && ret[n-1].Max < clipped.Min {
			ret = append(ret, Interval{Color: s.Background, Min: ret[n-1].Max, Max: clipped.Min})
		}
		ret = append(ret, clipped)
	}
	switch {
	case len(ret) == 0:
		ret = append(ret, Interval{Color: s.Background, Min: min, Max: max})
	case ret[0].Min > min:
		ret = append([]Interval{{Color: s.Background, Min: min, Max: ret[0].Min}}, ret...)
	}
	if last := ret[len(ret)-1]; last.Max < max {
		ret = append(ret, Interval{Color: s.Background, Min: last.Max, Max: max})
	}
	s.Intervals = ret
	s.DomainMin, s.DomainMax = min, max
	return nil
}

// SetBackground recolors every background-colored interval to the provided
// color, which becomes the new background.  Explicitly colored intervals are
// untouched.
func (s *State) SetBackground(color string) error {
	if color == "" {
		return ErrEmptyColor
	}
	if color == s.Background {
		return nil
	}
	for idx := range s.Intervals {
		if s.Intervals[idx].Color == s.Background {
			s.Intervals[idx].Color = color
		}
	}
	s.Background = color
	return nil
}
