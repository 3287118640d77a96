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

// Package util defines the wire types and builders shared by meshviz data
// sources:
//
// DataResponseBuilder, for populating responses to DataRequests;
//
// {type}Value functions (type={String, Strings, Integer, Double, Doubles})
// for safely constructing Values of the specified type;
//
// Expect{type}Value functions, over the same types, for safely retrieving
// values of the specified types from Values, returning an error if there's a
// type mismatch;
//
// DataBuilder, for assembling response data programmatically.
package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
)

type valueType int

// Enumerated value types.
const (
	unsetValue valueType = iota
	StringValueType
	StringIndexValueType
	StringsValueType
	StringIndicesValueType
	IntegerValueType
	DoubleValueType
	DoublesValueType
)

// V represents a value in a meshviz request or response.
type V struct {
	V any
	T valueType
}

func formatDouble(d float64) string {
	return fmt.Sprintf("%.6f", d)
}

// PrettyPrint returns the receiver, deterministically prettyprinted.
// String-index-type values prettyprint the same as the corresponding
// literal-string-type values.  Only for use in tests.
func (v *V) PrettyPrint(st []string) string {
	var ret string
	var err error
	switch v.T {
	case unsetValue:
		ret = "unset"
	case StringValueType:
		ret, err = ExpectStringValue(v)
		ret = "'" + ret + "'"
	case StringIndexValueType:
		var strIdx int64
		strIdx, err = expectStringIndexValue(v)
		if err == nil {
			ret = "'" + st[strIdx] + "'"
		}
	case StringsValueType:
		var strs []string
		strs, err = ExpectStringsValue(v)
		ret = "[ '" + strings.Join(strs, "', '") + "' ]"
	case StringIndicesValueType:
		var strIdxs []int64
		strIdxs, err = expectStringIndicesValue(v)
		if err == nil {
			strs := make([]string, len(strIdxs))
			for idx, strIdx := range strIdxs {
				strs[idx] = st[strIdx]
			}
			ret = "[ '" + strings.Join(strs, "', '") + "' ]"
		}
	case IntegerValueType:
		var i int64
		i, err = ExpectIntegerValue(v)
		if err == nil {
			ret = strconv.FormatInt(i, 10)
		}
	case DoubleValueType:
		var d float64
		d, err = ExpectDoubleValue(v)
		if err == nil {
			ret = formatDouble(d)
		}
	case DoublesValueType:
		var ds []float64
		ds, err = ExpectDoublesValue(v)
		if err == nil {
			strs := make([]string, len(ds))
			for idx, d := range ds {
				strs[idx] = formatDouble(d)
			}
			ret = "[ " + strings.Join(strs, ", ") + " ]"
		}
	}
	if err != nil {
		return "error: " + err.Error()
	}
	return ret
}

// MarshalJSON encodes a V as the JS object `V`:
//
//	type V = [number,                 ; from valueType, above
//	  null     |                      ; if unset
//	  string   |                      ; if string
//	  number   |                      ; if integer, string index, or double
//	  string[] |                      ; if strings
//	  number[]                        ; if string indices or doubles
//	]
func (v *V) MarshalJSON() ([]byte, error) {
	ret := [2]any{v.T, v.V}
	return json.Marshal(ret)
}

func numbers(tv any) ([]json.Number, error) {
	items, ok := tv.([]any)
	if !ok {
		return nil, fmt.Errorf("expected an array of numbers")
	}
	ret := make([]json.Number, len(items))
	for idx, item := range items {
		num, ok := item.(json.Number)
		if !ok {
			return nil, fmt.Errorf("expected an array of numbers")
		}
		ret[idx] = num
	}
	return ret, nil
}

func (v *V) fromAny(got []any) error {
	if len(got) != 2 {
		return fmt.Errorf("Value must be a [type, value] pair")
	}
	typeNum, ok := got[0].(json.Number)
	if !ok {
		return fmt.Errorf("Value type must be a number")
	}
	t, err := typeNum.Int64()
	if err != nil {
		return err
	}
	v.T = valueType(t)
	tv := got[1]
	switch v.T {
	case StringIndexValueType, IntegerValueType:
		num, ok := tv.(json.Number)
		if !ok {
			return fmt.Errorf("expected a number")
		}
		if v.V, err = num.Int64(); err != nil {
			return err
		}
	case DoubleValueType:
		num, ok := tv.(json.Number)
		if !ok {
			return fmt.Errorf("expected a number")
		}
		if v.V, err = num.Float64(); err != nil {
			return err
		}
	case StringsValueType:
		strIfs, ok := tv.([]any)
		if !ok {
			return fmt.Errorf("expected an array of strings")
		}
		strs := make([]string, len(strIfs))
		for idx, strIf := range strIfs {
			s, ok := strIf.(string)
			if !ok {
				return fmt.Errorf("expected an array of strings")
			}
			if strs[idx], err = url.QueryUnescape(s); err != nil {
				return err
			}
		}
		v.V = strs
	case StringIndicesValueType:
		nums, err := numbers(tv)
		if err != nil {
			return err
		}
		ints := make([]int64, len(nums))
		for idx, num := range nums {
			if ints[idx], err = num.Int64(); err != nil {
				return err
			}
		}
		v.V = ints
	case DoublesValueType:
		nums, err := numbers(tv)
		if err != nil {
			return err
		}
		ds := make([]float64, len(nums))
		for idx, num := range nums {
			if ds[idx], err = num.Float64(); err != nil {
				return err
			}
		}
		v.V = ds
	default:
		v.V = tv
	}
	return nil
}

// UnmarshalJSON unmarshals the provided JSON bytes into the receiving V.
func (v *V) UnmarshalJSON(data []byte) error {
	var got []any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&got); err != nil {
		return err
	}
	return v.fromAny(got)
}

// Datum represents a single Datum in a meshviz data series response.
type Datum struct {
	Properties map[int64]*V
	Children   []*Datum
}

// PrettyPrint returns the receiver deterministically prettyprinted.
// Only for use in tests.
func (d *Datum) PrettyPrint(indent string, st []string) string {
	ret := []string{}
	// Emit properties in increasing alphabetic order.
	keys := make([]int64, 0, len(d.Properties))
	for k := range d.Properties {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		return st[keys[a]] < st[keys[b]]
	})
	for _, k := range keys {
		ret = append(ret,
			fmt.Sprintf("%sProp '%s': %s", indent, st[k], d.Properties[k].PrettyPrint(st)),
		)
	}
	for _, child := range d.Children {
		ret = append(ret,
			fmt.Sprintf("%sChild:", indent),
			child.PrettyPrint(indent+"  ", st),
		)
	}
	return strings.Join(ret, "\n")
}

// MarshalJSON encodes a Datum as the JS object `Datum`:
//
//	type V as defined above
//	type KV = [number, V]
//	type Datum = [
//	  KV[],                        ; its Properties
//	  Datum[],                     ; its Children
//	]
func (d *Datum) MarshalJSON() ([]byte, error) {
	keys := make([]int64, 0, len(d.Properties))
	for k := range d.Properties {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		return keys[a] < keys[b]
	})
	props := make([]any, len(keys))
	for idx, k := range keys {
		props[idx] = []any{k, d.Properties[k]}
	}
	children := make([]any, len(d.Children))
	for idx, child := range d.Children {
		children[idx] = child
	}
	return json.Marshal([]any{props, children})
}

// DataSeriesRequest is a request for a specific data series from a meshviz
// client.
type DataSeriesRequest struct {
	QueryName  string
	SeriesName string
	Options    map[string]*V
}

// DataSeries represents a complete meshviz data series response.
type DataSeries struct {
	SeriesName string
	Root       *Datum
}

// PrettyPrint returns the receiver deterministically prettyprinted.
// Only for use in tests.
func (ds *DataSeries) PrettyPrint(indent string, st []string) string {
	return strings.Join([]string{
		fmt.Sprintf("%sSeries %s", indent, ds.SeriesName),
		indent + "  " + "Root:",
		ds.Root.PrettyPrint(indent+"    ", st),
	}, "\n")
}

// DataRequest is a request for one or more data series from a meshviz
// client.
type DataRequest struct {
	GlobalFilters  map[string]*V
	SeriesRequests []*DataSeriesRequest
}

// DataRequestFromJSON attempts to construct a DataRequest from the provided
// JSON.
func DataRequestFromJSON(j []byte) (*DataRequest, error) {
	ret := &DataRequest{}
	err := json.Unmarshal(j, ret)
	return ret, err
}

// Data represents a complete meshviz data response.
type Data struct {
	StringTable []string
	DataSeries  []*DataSeries
}

// PrettyPrint returns the receiver deterministically prettyprinted.
// Only for use in tests.
func (d *Data) PrettyPrint() string {
	ret := []string{"Data:"}
	for _, series := range d.DataSeries {
		ret = append(ret, series.PrettyPrint("  ", d.StringTable))
	}
	return strings.Join(ret, "\n")
}

// stringTable associates strings with unique integers.  It is thread-safe.
type stringTable struct {
	stringsToIndices map[string]int64
	stringsByIndex   []string
	mu               sync.RWMutex
}

func newStringTable() *stringTable {
	return &stringTable{
		stringsToIndices: map[string]int64{},
	}
}

// stringIndex returns the index in the receiver for the provided string,
// adding it if necessary.
func (st *stringTable) stringIndex(str string) int64 {
	st.mu.RLock()
	idx, ok := st.stringsToIndices[str]
	st.mu.RUnlock()
	if ok {
		return idx
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	// An entry may have been inserted between the lookup above and acquiring
	// the write lock.
	if idx, ok := st.stringsToIndices[str]; ok {
		return idx
	}
	idx = int64(len(st.stringsByIndex))
	st.stringsByIndex = append(st.stringsByIndex, str)
	st.stringsToIndices[str] = idx
	return idx
}

func (st *stringTable) strings() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	ret := make([]string, len(st.stringsByIndex))
	copy(ret, st.stringsByIndex)
	return ret
}

// errs accumulates errors raised while building a response.
type errs struct {
	errs []error
	mu   sync.Mutex
}

func (e *errs) add(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errs = append(e.errs, err)
}

func (e *errs) hasError() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.errs) > 0
}

func (e *errs) toError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.errs) == 0 {
		return nil
	}
	msgs := make([]string, len(e.errs))
	for idx, err := range e.errs {
		msgs[idx] = err.Error()
	}
	return fmt.Errorf("%s", strings.Join(msgs, ", "))
}

// DataResponseBuilder streamlines assembling responses to DataRequests.
type DataResponseBuilder struct {
	st   *stringTable
	errs *errs
	d    *Data
	mu   sync.Mutex
}

// NewDataResponseBuilder returns a new, empty DataResponseBuilder.
func NewDataResponseBuilder() *DataResponseBuilder {
	return &DataResponseBuilder{
		st:   newStringTable(),
		errs: &errs{},
		d: &Data{
			StringTable: []string{},
			DataSeries:  []*DataSeries{},
		},
	}
}

// DataBuilder is implemented by types that can assemble meshviz responses.
type DataBuilder interface {
	With(updates ...PropertyUpdate) DataBuilder
	Child() DataBuilder
}

// DataSeries returns a new DataBuilder for assembling the response to the
// provided DataSeriesRequest.  DataSeries is safe for concurrent use.
func (drb *DataResponseBuilder) DataSeries(req *DataSeriesRequest) DataBuilder {
	ret := newDatumBuilder(drb.errs, drb.st)
	ds := &DataSeries{
		SeriesName: req.SeriesName,
		Root:       ret.d,
	}
	drb.mu.Lock()
	drb.d.DataSeries = append(drb.d.DataSeries, ds)
	drb.mu.Unlock()
	return ret
}

// Data completes and returns the Data under construction.
func (drb *DataResponseBuilder) Data() (*Data, error) {
	if err := drb.errs.toError(); err != nil {
		return nil, err
	}
	drb.d.StringTable = drb.st.strings()
	return drb.d, nil
}

// StringValue returns a new Value wrapping the provided string.
func StringValue(str string) *V {
	return &V{V: str, T: StringValueType}
}

// StringIndexValue returns a new Value wrapping the provided string index.
func StringIndexValue(strIdx int64) *V {
	return &V{V: strIdx, T: StringIndexValueType}
}

// StringsValue returns a new Value wrapping the provided strings.
func StringsValue(strs ...string) *V {
	return &V{V: strs, T: StringsValueType}
}

// StringIndicesValue returns a new Value wrapping the provided string
// indices.
func StringIndicesValue(strIdxs ...int64) *V {
	return &V{V: strIdxs, T: StringIndicesValueType}
}

// IntegerValue returns a new Value wrapping the provided int64.
func IntegerValue(i int64) *V {
	return &V{V: i, T: IntegerValueType}
}

// DoubleValue returns a new Value wrapping the provided float64.
func DoubleValue(f float64) *V {
	return &V{V: f, T: DoubleValueType}
}

// DoublesValue returns a new Value wrapping the provided float64s.
func DoublesValue(fs ...float64) *V {
	return &V{V: fs, T: DoublesValueType}
}

// ExpectStringValue expects the provided Value to be a string, returning
// that string or an error if it isn't.
func ExpectStringValue(val *V) (string, error) {
	if val.T != StringValueType {
		return "", fmt.Errorf("expected value type 'str'")
	}
	return url.QueryUnescape(val.V.(string))
}

func expectStringIndexValue(val *V) (int64, error) {
	if val.T != StringIndexValueType {
		return 0, fmt.Errorf("expected value type 'str_idx'")
	}
	return val.V.(int64), nil
}

// ExpectStringsValue expects the provided Value to be a Strings, returning
// that Strings' contained string slice, or an error if it isn't.
func ExpectStringsValue(val *V) ([]string, error) {
	if val.T != StringsValueType {
		return nil, fmt.Errorf("expected value type 'strs'")
	}
	return val.V.([]string), nil
}

func expectStringIndicesValue(val *V) ([]int64, error) {
	if val.T != StringIndicesValueType {
		return nil, fmt.Errorf("expected value type 'str_idxs'")
	}
	return val.V.([]int64), nil
}

// ExpectIntegerValue expects the provided Value to be an integer, returning
// that integer or an error if it isn't.
func ExpectIntegerValue(val *V) (int64, error) {
	if val.T != IntegerValueType {
		return 0, fmt.Errorf("expected value type 'int'")
	}
	return val.V.(int64), nil
}

// ExpectDoubleValue expects the provided Value to be a float64, returning
// that float or an error if it isn't.  Integer values are widened.
func ExpectDoubleValue(val *V) (float64, error) {
	switch val.T {
	case DoubleValueType:
		return val.V.(float64), nil
	case IntegerValueType:
		return float64(val.V.(int64)), nil
	}
	return 0, fmt.Errorf("expected value type 'dbl'")
}

// ExpectDoublesValue expects the provided Value to be a Doubles, returning
// its contained float64 slice or an error if it isn't.
func ExpectDoublesValue(val *V) ([]float64, error) {
	if val.T != DoublesValueType {
		return nil, fmt.Errorf("expected value type 'dbls'")
	}
	return val.V.([]float64), nil
}

// PropertyUpdate is a function that updates a provided datumBuilder.  A nil
// PropertyUpdate does nothing.
type PropertyUpdate func(db *datumBuilder) error

// EmptyUpdate is a PropertyUpdate that does nothing.
var EmptyUpdate PropertyUpdate = nil

// ErrorProperty injects an error into the Data response under construction.
func ErrorProperty(err error) PropertyUpdate {
	return func(db *datumBuilder) error {
		return err
	}
}

type datumBuilder struct {
	errs      *errs
	st        *stringTable
	valsByKey map[int64]*V
	d         *Datum
}

func newDatumBuilder(e *errs, st *stringTable) *datumBuilder {
	valsByKey := map[int64]*V{}
	return &datumBuilder{
		errs:      e,
		st:        st,
		valsByKey: valsByKey,
		d: &Datum{
			Properties: valsByKey,
			Children:   []*Datum{},
		},
	}
}

// With applies the provided PropertyUpdates to the receiver in order,
// stopping at the first error.
func (db *datumBuilder) With(updates ...PropertyUpdate) DataBuilder {
	if db.errs.hasError() {
		return db
	}
	for _, update := range updates {
		if update == nil {
			continue
		}
		if err := update(db); err != nil {
			db.errs.add(err)
			break
		}
	}
	return db
}

func (db *datumBuilder) Child() DataBuilder {
	child := newDatumBuilder(db.errs, db.st)
	db.d.Children = append(db.d.Children, child.d)
	return child
}

// set stores v under key.  The key is interned before any string value
// which v references.
func (db *datumBuilder) set(key string, v func() *V) {
	keyIdx := db.st.stringIndex(key)
	db.valsByKey[keyIdx] = v()
}

// If applies the provided PropertyUpdate if the provided predicate is true.
func If(predicate bool, du PropertyUpdate) PropertyUpdate {
	if predicate {
		return du
	}
	return EmptyUpdate
}

// Chain applies the provided PropertyUpdates in order.
func Chain(updates ...PropertyUpdate) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.With(updates...)
		return nil
	}
}

// StringProperty returns a PropertyUpdate adding the specified string property.
func StringProperty(key, value string) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.set(key, func() *V {
			return StringIndexValue(db.st.stringIndex(value))
		})
		return nil
	}
}

// StringsProperty returns a PropertyUpdate adding the specified string slice
// property.
func StringsProperty(key string, values ...string) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.set(key, func() *V {
			idxs := make([]int64, len(values))
			for idx, val := range values {
				idxs[idx] = db.st.stringIndex(val)
			}
			return StringIndicesValue(idxs...)
		})
		return nil
	}
}

// IntegerProperty returns a PropertyUpdate adding the specified integer
// property.
func IntegerProperty(key string, value int64) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.set(key, func() *V { return IntegerValue(value) })
		return nil
	}
}

// DoubleProperty returns a PropertyUpdate adding the specified double
// property.
func DoubleProperty(key string, value float64) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.set(key, func() *V { return DoubleValue(value) })
		return nil
	}
}

// DoublesProperty returns a PropertyUpdate adding the specified double slice
// property.
func DoublesProperty(key string, values ...float64) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.set(key, func() *V { return DoublesValue(values...) })
		return nil
	}
}
