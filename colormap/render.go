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
	"strconv"
)

// Stop is a single gradient stop: a color at a normalized position.
type Stop struct {
	Position float64
	Color    string
}

// Tick is a labeled axis position.
type Tick struct {
	Position float64
	Label    string
}

// Stops returns the receiver's flat-band gradient stops, normalized over
// [DomainMin, DomainMax].  Each interval yields two stops, at its minimum and
// at its maximum.
func (s *State) Stops() ([]Stop, error) {
	return normalize(s.Intervals, s.DomainMin, s.DomainMax)
}

// Ticks returns the receiver's axis ticks: the normalized positions of every
// interval minimum followed by those of every interval maximum, each labeled
// with its domain value to two decimal places.
func (s *State) Ticks() ([]Tick, error) {
	stops, err := s.Stops()
	if err != nil {
		return nil, err
	}
	width := s.DomainMax - s.DomainMin
	ret := make([]Tick, 0, len(stops))
	for _, offset := range []int{0, 1} {
		for idx := offset; idx < len(stops); idx += 2 {
			pos := stops[idx].Position
			ret = append(ret, Tick{
				Position: pos,
				Label:    fmt.Sprintf("%.2f", s.DomainMin+pos*width),
			})
		}
	}
	return ret, nil
}

// Describe returns a human-readable range-by-color line for each interval.
func (s *State) Describe() []string {
	ret := make([]string, len(s.Intervals))
	for idx, iv := range s.Intervals {
		ret[idx] = fmt.Sprintf("Color: %s, Range: [%s, %s]",
			iv.Color, formatValue(iv.Min), formatValue(iv.Max))
	}
	return ret
}

// SpanStops returns flat-band gradient stops for the provided intervals,
// normalized over the span from the first interval's minimum to the last
// interval's maximum.  It serves colormaps carrying no explicit domain.
func SpanStops(ivs []Interval) ([]Stop, error) {
	if len(ivs) == 0 {
		return nil, nil
	}
	return normalize(ivs, ivs[0].Min, ivs[len(ivs)-1].Max)
}

func normalize(ivs []Interval, min, max float64) ([]Stop, error) {
	width := max - min
	if !(width > 0) {
		return nil, fmt.Errorf("%w: [%v, %v]", ErrZeroWidthDomain, min, max)
	}
	ret := make([]Stop, 0, 2*len(ivs))
	for _, iv := range ivs {
		ret = append(ret,
			Stop{Position: (iv.Min - min) / width, Color: iv.Color},
			Stop{Position: (iv.Max - min) / width, Color: iv.Color},
		)
	}
	return ret, nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
