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

// Package continuousaxis provides decorator helpers for defining continuous
// double-valued axes, such as a colormap's value axis.  An axis has an ID, a
// label, and minimum and maximum points along its domain, and may carry
// labeled ticks.
package continuousaxis

import (
	"fmt"
	"math"

	"github.com/ilhamster/meshviz/colormap"
	"github.com/ilhamster/meshviz/util"
)

const (
	axisIDKey    = "axis_id"
	axisLabelKey = "axis_label"
	axisTypeKey  = "axis_type"
	axisMinKey   = "axis_min"
	axisMaxKey   = "axis_max"

	axisTickPositionsKey = "axis_tick_positions"
	axisTickLabelsKey    = "axis_tick_labels"

	doubleAxisType = "double"
)

// Axis is a continuous double-valued axis.
type Axis struct {
	id, label string
	min, max  float64
}

// NewDoubleAxis returns a new Axis with the specified ID and label.  The
// axis' minimum and maximum extents are initialized to the lowest and highest
// of the provided extents.
func NewDoubleAxis(id, label string, extents ...float64) *Axis {
	min, max := math.MaxFloat64, -math.MaxFloat64
	for _, extent := range extents {
		if min > extent {
			min = extent
		}
		if max < extent {
			max = extent
		}
	}
	return &Axis{
		id:    id,
		label: label,
		min:   min,
		max:   max,
	}
}

// Define annotates with a definition of the receiver.
func (a *Axis) Define() util.PropertyUpdate {
	return util.Chain(
		util.StringProperty(axisIDKey, a.id),
		util.StringProperty(axisLabelKey, a.label),
		util.StringProperty(axisTypeKey, doubleAxisType),
		util.DoubleProperty(axisMinKey, a.min),
		util.DoubleProperty(axisMaxKey, a.max),
	)
}

// ID returns the receiver's ID.
func (a *Axis) ID() string {
	return a.id
}

// Value annotates with a value along the receiver.
func (a *Axis) Value(v float64) util.PropertyUpdate {
	return util.DoubleProperty(a.id, v)
}

// Ticks annotates with the provided ticks, as parallel position and label
// lists.
func (a *Axis) Ticks(ticks []colormap.Tick) util.PropertyUpdate {
	positions := make([]float64, len(ticks))
	labels := make([]string, len(ticks))
	for idx, tick := range ticks {
		positions[idx] = tick.Position
		labels[idx] = tick.Label
	}
	return util.Chain(
		util.DoublesProperty(axisTickPositionsKey, positions...),
		util.StringsProperty(axisTickLabelsKey, labels...),
	)
}

// SliderMarks returns n evenly spaced marks from min to max inclusive, each
// positioned at its value and labeled to two decimal places.  Fewer than two
// marks yields just min.
func SliderMarks(min, max float64, n int) []colormap.Tick {
	if n < 2 {
		return []colormap.Tick{{Position: min, Label: fmt.Sprintf("%.2f", min)}}
	}
	ret := make([]colormap.Tick, n)
	step := (max - min) / float64(n-1)
	for idx := range ret {
		v := min + float64(idx)*step
		if idx == n-1 {
			v = max
		}
		ret[idx] = colormap.Tick{Position: v, Label: fmt.Sprintf("%.2f", v)}
	}
	return ret
}
