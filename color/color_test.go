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

package color

import (
	"testing"

	"github.com/ilhamster/meshviz/colormap"
	testutil "github.com/ilhamster/meshviz/test_util"
	"github.com/ilhamster/meshviz/util"
)

func TestColorSpaceDefinition(t *testing.T) {
	for _, test := range []struct {
		description string
		spaces      []*Space
		wantUpdates []util.PropertyUpdate
	}{{
		description: "single color space",
		spaces: []*Space{
			NewSpace("grey_space", "grey"),
		},
		wantUpdates: []util.PropertyUpdate{
			util.StringsProperty(colorSpaceNamePrefix+"grey_space", "grey"),
		},
	}, {
		description: "positioned color space",
		spaces: []*Space{
			NewPositionedSpace("bands", []colormap.Stop{
				{Position: 0, Color: "white"}, {Position: 0.2, Color: "white"},
				{Position: 0.2, Color: "red"}, {Position: 1, Color: "red"},
			}),
		},
		wantUpdates: []util.PropertyUpdate{
			util.StringsProperty(colorSpaceNamePrefix+"bands", "white", "white", "red", "red"),
			util.DoublesProperty(colorSpacePositionsPrefix+"bands", 0, 0.2, 0.2, 1),
		},
	}, {
		description: "color space redefinition overwrites previous",
		spaces: []*Space{
			NewSpace("royal", "blue", "purple"),
			NewSpace("royal", "purple", "blue"),
		},
		wantUpdates: []util.PropertyUpdate{
			util.StringsProperty(colorSpaceNamePrefix+"royal", "purple", "blue"),
		},
	}} {
		t.Run(test.description, func(t *testing.T) {
			testUpdates := []util.PropertyUpdate{}
			for _, space := range test.spaces {
				testUpdates = append(testUpdates, space.Define())
			}
			if msg, failed := testutil.NewUpdateComparator().
				WithTestUpdates(testUpdates...).
				WithWantUpdates(test.wantUpdates...).
				Compare(t); failed {
				t.Fatal(msg)
			}
		})
	}
}

func TestColorDeclarations(t *testing.T) {
	redToBlue := NewSpace("red_to_blue", "red", "#C0C0C0", "blue")
	for _, test := range []struct {
		description string
		update      util.PropertyUpdate
		wantUpdates []util.PropertyUpdate
	}{{
		description: "primary from color space",
		update:      redToBlue.PrimaryColor(.5),
		wantUpdates: []util.PropertyUpdate{
			util.StringProperty(primaryColorSpaceKey, colorSpaceNamePrefix+"red_to_blue"),
			util.DoubleProperty(primaryColorSpaceValueKey, .5),
		},
	}, {
		description: "fixed primary",
		update:      Primary("silver"),
		wantUpdates: []util.PropertyUpdate{
			util.StringProperty(primaryColorKey, "silver"),
		},
	}} {
		t.Run(test.description, func(t *testing.T) {
			if msg, failed := testutil.NewUpdateComparator().
				WithTestUpdates(test.update).
				WithWantUpdates(test.wantUpdates...).
				Compare(t); failed {
				t.Fatal(msg)
			}
		})
	}
}

func TestCanonical(t *testing.T) {
	for _, test := range []struct {
		description string
		token       string
		want        string
		wantErr     bool
	}{{
		description: "named color",
		token:       "lightblue",
		want:        "lightblue",
	}, {
		description: "named color is trimmed",
		token:       "  red ",
		want:        "red",
	}, {
		description: "rgb specifier",
		token:       "rgb(255, 0, 0)",
		want:        "#ff0000",
	}, {
		description: "uppercase rgb specifier",
		token:       "RGB(0,128,255)",
		want:        "#0080ff",
	}, {
		description: "uppercase hex",
		token:       "#C0C0C0",
		want:        "#c0c0c0",
	}, {
		description: "rgb with too few components",
		token:       "rgb(1, 2)",
		wantErr:     true,
	}, {
		description: "rgb out of range",
		token:       "rgb(256, 0, 0)",
		wantErr:     true,
	}, {
		description: "malformed hex",
		token:       "#nothex",
		wantErr:     true,
	}} {
		t.Run(test.description, func(t *testing.T) {
			got, err := Canonical(test.token)
			if test.wantErr != (err != nil) {
				t.Fatalf("Canonical(%q) error = %v, wantErr %t", test.token, err, test.wantErr)
			}
			if got != test.want {
				t.Errorf("Canonical(%q) = %q, want %q", test.token, got, test.want)
			}
		})
	}
}
