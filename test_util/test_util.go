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

// Package testutil provides helpers for testing meshviz response
// construction.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ilhamster/meshviz/util"
)

// UpdateComparator checks that a 'got' set of PropertyUpdates yields the
// same Datum as a 'want' set.
type UpdateComparator struct {
	got  []util.PropertyUpdate
	want []util.PropertyUpdate
}

// NewUpdateComparator returns a new, empty UpdateComparator.
func NewUpdateComparator() *UpdateComparator {
	return &UpdateComparator{}
}

// WithTestUpdates specifies the receiver's PropertyUpdates-under-test.
func (uc *UpdateComparator) WithTestUpdates(got ...util.PropertyUpdate) *UpdateComparator {
	uc.got = got
	return uc
}

// WithWantUpdates specifies the PropertyUpdates the receiver's test updates
// should be equivalent to.
func (uc *UpdateComparator) WithWantUpdates(want ...util.PropertyUpdate) *UpdateComparator {
	uc.want = want
	return uc
}

// Compare applies the receiver's 'got' and 'want' PropertyUpdates to sibling
// Datums, returning a difference message and whether the two differ.
// String-table ordering is not considered.
func (uc *UpdateComparator) Compare(t *testing.T) (string, bool) {
	t.Helper()
	drb := util.NewDataResponseBuilder()
	resp := drb.DataSeries(&util.DataSeriesRequest{})
	resp.Child().With(uc.got...)
	resp.Child().With(uc.want...)
	data, err := drb.Data()
	if err != nil {
		t.Fatalf("failed to build data: %s", err)
	}
	children := data.DataSeries[0].Root.Children
	diff := cmp.Diff(
		children[1].PrettyPrint("", data.StringTable),
		children[0].PrettyPrint("", data.StringTable))
	if diff != "" {
		return fmt.Sprintf("Got series %s, diff (-want +got):\n%s",
			data.DataSeries[0].PrettyPrint("", data.StringTable), diff), true
	}
	return "", false
}

// TestDataBuilder is implemented by types that can assemble meshviz
// responses in tests.
type TestDataBuilder interface {
	With(updates ...util.PropertyUpdate) TestDataBuilder
	Child() TestDataBuilder
	AndChild() TestDataBuilder
	Parent() TestDataBuilder
}

type testDataBuilder struct {
	db     util.DataBuilder
	parent *testDataBuilder
}

func (tdb *testDataBuilder) With(updates ...util.PropertyUpdate) TestDataBuilder {
	tdb.db.With(updates...)
	return tdb
}

func (tdb *testDataBuilder) Child() TestDataBuilder {
	return &testDataBuilder{
		db:     tdb.db.Child(),
		parent: tdb,
	}
}

// AndChild adds a sibling of the receiver, or a child if the receiver has no
// parent.
func (tdb *testDataBuilder) AndChild() TestDataBuilder {
	if tdb.parent == nil {
		return tdb.Child()
	}
	return tdb.parent.Child()
}

func (tdb *testDataBuilder) Parent() TestDataBuilder {
	if tdb.parent == nil {
		return tdb
	}
	return tdb.parent
}

// CompareDataResponses reports on t any difference between the provided
// Data.
func CompareDataResponses(t *testing.T, got, want *util.Data) {
	t.Helper()
	if diff := cmp.Diff(want.PrettyPrint(), got.PrettyPrint()); diff != "" {
		t.Errorf("Got data %s, diff (-want +got):\n%s", got.PrettyPrint(), diff)
	}
}

// CompareResponses compares the series built by buildGot, which populates a
// util.DataBuilder as the code under test would, with that built by
// buildWant.
func CompareResponses(t *testing.T, buildGot func(util.DataBuilder), buildWant func(TestDataBuilder)) error {
	t.Helper()
	gotDrb := util.NewDataResponseBuilder()
	buildGot(gotDrb.DataSeries(&util.DataSeriesRequest{}))
	got, err := gotDrb.Data()
	if err != nil {
		return err
	}
	wantDrb := util.NewDataResponseBuilder()
	buildWant(&testDataBuilder{
		db: wantDrb.DataSeries(&util.DataSeriesRequest{}),
	})
	want, err := wantDrb.Data()
	if err != nil {
		return err
	}
	CompareDataResponses(t, got, want)
	return nil
}
