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

package testutil

import (
	"testing"

	"github.com/ilhamster/meshviz/util"
)

func TestUpdateComparator(t *testing.T) {
	for _, test := range []struct {
		description string
		comparator  *UpdateComparator
		different   bool
	}{{
		description: "equal simple updates",
		comparator: NewUpdateComparator().
			WithTestUpdates(util.StringProperty("color", "red")).
			WithWantUpdates(util.StringProperty("color", "red")),
	}, {
		description: "order independence",
		comparator: NewUpdateComparator().
			WithTestUpdates(
				util.StringProperty("color", "red"),
				util.DoubleProperty("min", 20),
			).
			WithWantUpdates(
				util.DoubleProperty("min", 20),
				util.StringProperty("color", "red"),
			),
	}, {
		description: "redefinition",
		comparator: NewUpdateComparator().
			WithTestUpdates(
				util.DoubleProperty("max", 40),
				util.DoubleProperty("max", 50),
			).
			WithWantUpdates(
				util.DoubleProperty("max", 50),
			),
	}, {
		description: "unequal strings",
		comparator: NewUpdateComparator().
			WithTestUpdates(util.StringProperty("color", "red")).
			WithWantUpdates(util.StringProperty("color", "blue")),
		different: true,
	}, {
		description: "unequal numeric types",
		comparator: NewUpdateComparator().
			WithTestUpdates(util.IntegerProperty("count", 10)).
			WithWantUpdates(util.DoubleProperty("count", 10)),
		different: true,
	}} {
		t.Run(test.description, func(t *testing.T) {
			gotMsg, different := test.comparator.Compare(t)
			if test.different != different {
				t.Errorf("Compare() yielded unexpected return message '%s'", gotMsg)
			}
		})
	}
}

func TestCompareResponses(t *testing.T) {
	err := CompareResponses(t,
		func(db util.DataBuilder) {
			db.With(util.StringProperty("background", "white")).
				Child().With(util.DoubleProperty("min", 0))
			db.Child().With(util.DoubleProperty("min", 20))
		},
		func(db TestDataBuilder) {
			db.With(util.StringProperty("background", "white")).
				Child().With(util.DoubleProperty("min", 0)).
				AndChild().With(util.DoubleProperty("min", 20))
		})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}
