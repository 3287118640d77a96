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

package datasource

import (
	"github.com/ilhamster/meshviz/color"
	"github.com/ilhamster/meshviz/colormap"
	continuousaxis "github.com/ilhamster/meshviz/continuous_axis"
	"github.com/ilhamster/meshviz/util"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	bandsColorSpaceName = "bands"
	domainAxisID        = "value"
	domainAxisLabel     = "Value"
)

var (
	// The fixed background choices.  The current background is always
	// offered as well.
	standardBackgrounds = []string{"white", "black", "gray", "lightblue", "lightgreen"}

	// Colors offered for insertion.
	palette = []string{"red", "blue", "green", "orange", "purple", "yellow", "cyan", "magenta", "gray", "brown"}
)

func newBandsSpace(stops []colormap.Stop) *color.Space {
	return color.NewPositionedSpace(bandsColorSpaceName, stops)
}

func newDomainAxis(state *colormap.State) *continuousaxis.Axis {
	return continuousaxis.NewDoubleAxis(domainAxisID, domainAxisLabel, state.DomainMin, state.DomainMax)
}

func intervalProperties(iv colormap.Interval) util.PropertyUpdate {
	return util.Chain(
		color.Primary(iv.Color),
		util.DoubleProperty(minKey, iv.Min),
		util.DoubleProperty(maxKey, iv.Max),
	)
}

// backgroundChoices returns the standard backgrounds followed by current, if
// it isn't already among them.
func backgroundChoices(current string) []string {
	ret := append([]string{}, standardBackgrounds...)
	for _, c := range standardBackgrounds {
		if c == current {
			return ret
		}
	}
	if current != "" {
		ret = append(ret, current)
	}
	return ret
}

// choiceLabels returns display labels for the provided color choices.
func choiceLabels(choices []string) []string {
	// Casers hold state, so one is made per call.
	caser := cases.Title(language.English)
	ret := make([]string, len(choices))
	for idx, c := range choices {
		ret[idx] = caser.String(c)
	}
	return ret
}
