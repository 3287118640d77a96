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

// Package color supports declaring color spaces, coloring renderable items,
// and canonicalizing color tokens.
//
// A color token is an HTML color representation: a color name, an
// `rgb(r, g, b)` specifier, or a hex color specifier.  Canonical rewrites
// rgb specifiers as hex and lowercases hex, so that two spellings of the same
// color compare equal:
//
//	color.Canonical("rgb(255, 0, 0)")  // "#ff0000"
//	color.Canonical("#FF0000")         // "#ff0000"
//	color.Canonical("lightblue")       // "lightblue"
//
// A color space is a sequence of color tokens, optionally pinned to
// positions in [0, 1].  Without positions the colors are spread evenly and
// linearly interpolated; with positions, each color sits at its position, so
// that a piecewise colormap's flat bands may be declared by repeating each
// band's color at both of its ends:
//
//	bands := color.NewPositionedSpace("bands", stops)
//	db.With(bands.Define())
//
// Individual items may be given a fixed color with Primary().
package color

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ilhamster/meshviz/colormap"
	"github.com/ilhamster/meshviz/util"
	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	// colorSpaceNamePrefix defines a color space.
	colorSpaceNamePrefix = "color_space_"
	// colorSpacePositionsPrefix defines a color space's stop positions.
	colorSpacePositionsPrefix = "color_space_positions_"
	// The primary color space and value, or raw color.
	primaryColorSpaceKey      = "primary_color_space"
	primaryColorSpaceValueKey = "primary_color_space_value"
	primaryColorKey           = "primary_color"
)

// Space represents a color space: a color continuum that can map double
// values to colors.
type Space struct {
	name      string
	colors    []string
	positions []float64
}

// NewSpace defines a new color space.  Colors in this space will be linearly
// interpolated between the specified, evenly spread, colors.
func NewSpace(name string, colors ...string) *Space {
	return &Space{
		name:   name,
		colors: colors,
	}
}

// NewPositionedSpace defines a new color space whose colors sit at the
// positions of the provided stops.
func NewPositionedSpace(name string, stops []colormap.Stop) *Space {
	s := &Space{
		name:      name,
		colors:    make([]string, len(stops)),
		positions: make([]float64, len(stops)),
	}
	for idx, stop := range stops {
		s.colors[idx] = stop.Color
		s.positions[idx] = stop.Position
	}
	return s
}

// Name returns the Space's name.
func (s *Space) Name() string {
	return s.name
}

// Define annotates with a definition of the receiving Space.
func (s *Space) Define() util.PropertyUpdate {
	return util.Chain(
		util.StringsProperty(colorSpaceNamePrefix+s.name, s.colors...),
		util.If(s.positions != nil,
			util.DoublesProperty(colorSpacePositionsPrefix+s.name, s.positions...)),
	)
}

// PrimaryColor annotates a Datum with a primary color along the receiving
// color space.
func (s *Space) PrimaryColor(colorValue float64) util.PropertyUpdate {
	return util.Chain(
		util.StringProperty(primaryColorSpaceKey, colorSpaceNamePrefix+s.name),
		util.DoubleProperty(primaryColorSpaceValueKey, colorValue),
	)
}

// Primary annotates a Datum with the specified primary color.
func Primary(colorValue string) util.PropertyUpdate {
	return util.StringProperty(primaryColorKey, colorValue)
}

// Canonical returns the canonical spelling of the provided color token.
// Tokens that look like rgb or hex specifiers but fail to parse are errors;
// any other token is returned trimmed.
func Canonical(token string) (string, error) {
	token = strings.TrimSpace(token)
	lower := strings.ToLower(token)
	switch {
	case strings.HasPrefix(lower, "rgb(") && strings.HasSuffix(lower, ")"):
		c, err := parseRGB(lower[len("rgb(") : len(lower)-1])
		if err != nil {
			return "", fmt.Errorf("bad color %q: %w", token, err)
		}
		return c.Hex(), nil
	case strings.HasPrefix(lower, "#"):
		c, err := colorful.Hex(lower)
		if err != nil {
			return "", fmt.Errorf("bad color %q: %w", token, err)
		}
		return c.Hex(), nil
	}
	return token, nil
}

func parseRGB(components string) (colorful.Color, error) {
	parts := strings.Split(components, ",")
	if len(parts) != 3 {
		return colorful.Color{}, fmt.Errorf("want 3 components, got %d", len(parts))
	}
	var channels [3]float64
	for idx, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return colorful.Color{}, err
		}
		if v < 0 || v > 255 {
			return colorful.Color{}, fmt.Errorf("component %d out of range", v)
		}
		channels[idx] = float64(v) / 255
	}
	return colorful.Color{R: channels[0], G: channels[1], B: channels[2]}, nil
}
