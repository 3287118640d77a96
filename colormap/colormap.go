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

// Package colormap implements piecewise, flat-band colormaps: an ordered
// set of colored intervals tiling a numeric domain.
//
// A State is edited in place.  New intervals are painted over whatever
// already occupies their range:
//
//	s := colormap.Reset()          // {white, 0, 100}
//	s.Insert("red", 20, 40)        // {white, 0, 20} {red, 20, 40} {white, 40, 100}
//	s.Insert("blue", 30, 50)       // ... {red, 20, 30} {blue, 30, 50} {white, 50, 100}
//
// and the whole set may be reclipped to new outer bounds, with gaps at either
// end filled with the background color:
//
//	s.Reclip(10, 90)               // {white, 10, 20} ... {white, 50, 90}
//
// For rendering, Stops maps each interval onto two stops in [0, 1], one at
// each end of the interval and both carrying its color, so that a renderer
// interpolating between consecutive stops draws constant-color bands with
// sharp boundaries.
package colormap

import (
	"errors"
	"math"
)

const (
	// DefaultBackground is the background color of a freshly reset State.
	DefaultBackground = "white"
	// DefaultDomainMin and DefaultDomainMax bound a freshly reset State.
	DefaultDomainMin = 0
	DefaultDomainMax = 100
)

var (
	// ErrInvalidRange is returned for reversed, degenerate, or non-finite
	// bounds.
	ErrInvalidRange = errors.New("invalid range")
	// ErrEmptyColor is returned when an operation is given no color.
	ErrEmptyColor = errors.New("empty color")
	// ErrZeroWidthDomain is returned when normalizing over a domain whose
	// maximum does not exceed its minimum.
	ErrZeroWidthDomain = errors.New("zero-width domain")
)

// Interval is a contiguous numeric range [Min, Max] tagged with one color.
type Interval struct {
	Color string  `json:"color"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// State is an editable colormap.
type State struct {
	// Intervals is sorted ascending by Min and non-overlapping.
	Intervals []Interval
	// Background is the color considered empty space.
	Background string
	// DomainMin and DomainMax are the colormap's outer bounds.
	DomainMin, DomainMax float64
}

// Reset returns the default State: a single background interval spanning
// the default domain.
func Reset() *State {
	return &State{
		Intervals: []Interval{{
			Color: DefaultBackground,
			Min:   DefaultDomainMin,
			Max:   DefaultDomainMax,
		}},
		Background: DefaultBackground,
		DomainMin:  DefaultDomainMin,
		DomainMax:  DefaultDomainMax,
	}
}

// Clone returns a deep copy of the receiver.
func (s *State) Clone() *State {
	return &State{
		Intervals:  cloneIntervals(s.Intervals),
		Background: s.Background,
		DomainMin:  s.DomainMin,
		DomainMax:  s.DomainMax,
	}
}

// ColorAt returns the color of the interval covering v.  An interval whose
// open interior contains v wins over one merely ending at v.  Returns false
// if no interval covers v.
func (s *State) ColorAt(v float64) (string, bool) {
	var edge string
	var onEdge bool
	for _, iv := range s.Intervals {
		if iv.Min < v && v < iv.Max {
			return iv.Color, true
		}
		if !onEdge && (iv.Min == v || iv.Max == v) {
			edge, onEdge = iv.Color, true
		}
	}
	return edge, onEdge
}

func cloneIntervals(ivs []Interval) []Interval {
	ret := make([]Interval, len(ivs))
	copy(ret, ivs)
	return ret
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
