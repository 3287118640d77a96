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

// Package datasource provides a data source for editing and rendering
// piecewise colormaps.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ilhamster/meshviz/colormap"
	continuousaxis "github.com/ilhamster/meshviz/continuous_axis"
	"github.com/ilhamster/meshviz/editor"
	"github.com/ilhamster/meshviz/util"
	"go.uber.org/zap"
)

const (
	editQuery        = "colormap.edit"
	bandsQuery       = "colormap.bands"
	infoQuery        = "colormap.info"
	optionsQuery     = "colormap.options"
	libraryQuery     = "colormap.library"
	boundsMarksQuery = "colormap.bounds_marks"

	sessionIDKey = "session_id"

	// Request option keys.
	opKey    = "op"
	colorKey = "color"
	minKey   = "min"
	maxKey   = "max"
	nameKey  = "name"
	countKey = "count"

	// Response property keys.
	statusKey         = "status"
	backgroundKey     = "background"
	descriptionKey    = "description"
	savedNamesKey     = "saved_names"
	bgChoicesKey      = "background_choices"
	bgChoiceLabelsKey = "background_choice_labels"
	paletteKey        = "palette"
	libraryNameKey    = "library_name"
	domainMinKey      = "domain_min"
	domainMaxKey      = "domain_max"

	defaultBoundsMarks = 10
	maxBoundsMarks     = 1000
)

// ErrInvalidCount is returned for a bounds marks count outside
// [2, maxBoundsMarks].
var ErrInvalidCount = errors.New("invalid mark count")

// NameLister describes types that can list saved colormap names.
type NameLister interface {
	Names() []string
}

// DataSource implements querydispatcher.dataSource for colormap editing.
// Each DataRequest acts on the session named by its session_id global
// filter.
type DataSource struct {
	editor   *editor.Editor
	sessions *editor.Sessions
	saved    NameLister
	library  map[string][]colormap.Interval
	log      *zap.Logger
}

// New returns a new DataSource applying edits with the provided Editor to
// the States in sessions, listing saved snapshots from saved, and offering
// the provided library colormaps.
func New(ed *editor.Editor, sessions *editor.Sessions, saved NameLister, library map[string][]colormap.Interval, log *zap.Logger) *DataSource {
	return &DataSource{
		editor:   ed,
		sessions: sessions,
		saved:    saved,
		library:  library,
		log:      log,
	}
}

// SupportedDataSeriesQueries returns the DataSeriesRequest query names
// supported by DataSource.
func (ds *DataSource) SupportedDataSeriesQueries() []string {
	return []string{
		editQuery,
		bandsQuery,
		infoQuery,
		optionsQuery,
		libraryQuery,
		boundsMarksQuery,
	}
}

// HandleDataSeriesRequests handles the provided set of DataSeriesRequests,
// in order, against the session named in the global filters, so that an
// edit is visible to the requests following it.  It assembles its responses
// in the provided DataResponseBuilder.
func (ds *DataSource) HandleDataSeriesRequests(ctx context.Context, globalFilters map[string]*util.V, drb *util.DataResponseBuilder, reqs []*util.DataSeriesRequest) error {
	sessionIDVal, ok := globalFilters[sessionIDKey]
	if !ok {
		return fmt.Errorf("missing required filter option '%s'", sessionIDKey)
	}
	sessionID, err := util.ExpectStringValue(sessionIDVal)
	if err != nil {
		return fmt.Errorf("required filter option '%s' must be a string", sessionIDKey)
	}
	return ds.sessions.With(sessionID, func(state *colormap.State) error {
		for _, req := range reqs {
			series := drb.DataSeries(req)
			var err error
			switch req.QueryName {
			case editQuery:
				err = ds.handleEditQuery(ctx, state, series, req.Options)
			case bandsQuery:
				err = handleBandsQuery(state, series)
			case infoQuery:
				err = handleInfoQuery(state, series)
			case optionsQuery:
				err = ds.handleOptionsQuery(state, series)
			case libraryQuery:
				err = ds.handleLibraryQuery(series)
			case boundsMarksQuery:
				err = handleBoundsMarksQuery(state, series, req.Options)
			default:
				err = fmt.Errorf("unsupported data query")
			}
			if err != nil {
				return fmt.Errorf("error handling data query %s: %w", req.QueryName, err)
			}
		}
		return nil
	})
}

// commandFromOptions builds an editor.Command from edit request options.
// Numeric bounds may be sent as integers or doubles.
func commandFromOptions(opts map[string]*util.V) (editor.Command, error) {
	var cmd editor.Command
	opVal, ok := opts[opKey]
	if !ok {
		return cmd, fmt.Errorf("missing required option '%s'", opKey)
	}
	opName, err := util.ExpectStringValue(opVal)
	if err != nil {
		return cmd, fmt.Errorf("option '%s': %w", opKey, err)
	}
	if cmd.Op, err = editor.ParseOp(opName); err != nil {
		return cmd, err
	}
	stringOpt := func(key string, dst *string) error {
		if v, ok := opts[key]; ok {
			s, err := util.ExpectStringValue(v)
			if err != nil {
				return fmt.Errorf("option '%s': %w", key, err)
			}
			*dst = s
		}
		return nil
	}
	doubleOpt := func(key string, dst *float64) error {
		v, ok := opts[key]
		if !ok {
			return fmt.Errorf("missing required option '%s'", key)
		}
		d, err := util.ExpectDoubleValue(v)
		if err != nil {
			return fmt.Errorf("option '%s': %w", key, err)
		}
		*dst = d
		return nil
	}
	if err := stringOpt(colorKey, &cmd.Color); err != nil {
		return cmd, err
	}
	if err := stringOpt(nameKey, &cmd.Name); err != nil {
		return cmd, err
	}
	switch cmd.Op {
	case editor.OpInsert, editor.OpReclip:
		if err := doubleOpt(minKey, &cmd.Min); err != nil {
			return cmd, err
		}
		if err := doubleOpt(maxKey, &cmd.Max); err != nil {
			return cmd, err
		}
	}
	return cmd, nil
}

func (ds *DataSource) handleEditQuery(ctx context.Context, state *colormap.State, series util.DataBuilder, opts map[string]*util.V) error {
	cmd, err := commandFromOptions(opts)
	if err != nil {
		return err
	}
	status, err := ds.editor.Apply(ctx, state, cmd)
	if err != nil {
		return err
	}
	series.With(util.StringProperty(statusKey, status))
	return nil
}

// handleBandsQuery emits the current colormap: its flat-band color space,
// domain axis, ticks, and background at the root, and one child per
// interval.
func handleBandsQuery(state *colormap.State, series util.DataBuilder) error {
	stops, err := state.Stops()
	if err != nil {
		return err
	}
	ticks, err := state.Ticks()
	if err != nil {
		return err
	}
	axis := newDomainAxis(state)
	series.With(
		newBandsSpace(stops).Define(),
		axis.Define(),
		axis.Ticks(ticks),
		util.StringProperty(backgroundKey, state.Background),
	)
	for _, iv := range state.Intervals {
		series.Child().With(intervalProperties(iv))
	}
	return nil
}

func handleInfoQuery(state *colormap.State, series util.DataBuilder) error {
	for _, desc := range state.Describe() {
		series.Child().With(util.StringProperty(descriptionKey, desc))
	}
	return nil
}

func (ds *DataSource) handleOptionsQuery(state *colormap.State, series util.DataBuilder) error {
	choices := backgroundChoices(state.Background)
	series.With(
		util.StringsProperty(savedNamesKey, ds.saved.Names()...),
		util.StringsProperty(bgChoicesKey, choices...),
		util.StringsProperty(bgChoiceLabelsKey, choiceLabels(choices)...),
		util.StringsProperty(paletteKey, palette...),
	)
	return nil
}

// handleLibraryQuery emits one child per library colormap, in name order,
// normalized over its own span.
func (ds *DataSource) handleLibraryQuery(series util.DataBuilder) error {
	names := make([]string, 0, len(ds.library))
	for name := range ds.library {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ivs := ds.library[name]
		stops, err := colormap.SpanStops(ivs)
		if err != nil {
			ds.log.Debug("skipping unrenderable library colormap",
				zap.String("name", name), zap.Error(err))
			continue
		}
		child := series.Child().With(
			util.StringProperty(libraryNameKey, name),
			newBandsSpace(stops).Define(),
		)
		if len(ivs) > 0 {
			child.With(
				util.DoubleProperty(domainMinKey, ivs[0].Min),
				util.DoubleProperty(domainMaxKey, ivs[len(ivs)-1].Max),
			)
		}
	}
	return nil
}

func handleBoundsMarksQuery(state *colormap.State, series util.DataBuilder, opts map[string]*util.V) error {
	count := int64(defaultBoundsMarks)
	if v, ok := opts[countKey]; ok {
		var err error
		if count, err = util.ExpectIntegerValue(v); err != nil {
			return fmt.Errorf("option '%s': %w", countKey, err)
		}
	}
	if count < 2 || count > maxBoundsMarks {
		return fmt.Errorf("option '%s': %w: %d not in [2, %d]", countKey, ErrInvalidCount, count, maxBoundsMarks)
	}
	marks := continuousaxis.SliderMarks(state.DomainMin, state.DomainMax, int(count))
	series.With(newDomainAxis(state).Ticks(marks))
	return nil
}
