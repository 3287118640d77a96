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

// Package querydispatcher provides QueryDispatcher, a type for multiplexing
// DataRequests across several backend data sources.
package querydispatcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ilhamster/meshviz/util"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrUnsupportedQuery is returned for DataSeriesRequests no data source
// handles.
var ErrUnsupportedQuery = errors.New("unsupported data query")

// dataSource represents a single data source.  dataSource instances must
// support concurrent HandleDataSeriesRequests calls.
type dataSource interface {
	// SupportedDataSeriesQueries returns the list of DataSeriesRequest
	// QueryNames this dataSource is able to handle.  Query names should be
	// unique to their dataSource, e.g. by sharing a prefix.
	SupportedDataSeriesQueries() []string
	// HandleDataSeriesRequests handles a set of DataSeriesRequests, in order,
	// with the supplied global filters.  Implementations should use the
	// provided DataResponseBuilder to add and populate a new DataSeries per
	// request.  Any returned error cancels the entire DataRequest and surfaces
	// to the client.
	HandleDataSeriesRequests(ctx context.Context, globalFilters map[string]*util.V, drb *util.DataResponseBuilder, reqs []*util.DataSeriesRequest) error
}

// QueryDispatcher multiplexes multiple data sources.  The DataSeriesRequests
// of one DataRequest that share a data source are handed to it together, in
// request order; different data sources run concurrently.
type QueryDispatcher struct {
	log         *zap.Logger
	dataSources []dataSource
	// Maps data series query names to indices (in dataSources) of the
	// dataSources that handle those queries.
	dataSeriesQueryHandlers map[string]int
}

// New returns a *QueryDispatcher wrapping the provided dataSources.
func New(log *zap.Logger, dss ...dataSource) (*QueryDispatcher, error) {
	qd := &QueryDispatcher{
		log:                     log,
		dataSeriesQueryHandlers: map[string]int{},
	}
	for dsIdx, ds := range dss {
		qd.dataSources = append(qd.dataSources, ds)
		for _, queryName := range ds.SupportedDataSeriesQueries() {
			if _, ok := qd.dataSeriesQueryHandlers[queryName]; ok {
				return nil, fmt.Errorf(
					"multiple dataSources handle data query `%s`", queryName)
			}
			qd.dataSeriesQueryHandlers[queryName] = dsIdx
		}
	}
	return qd, nil
}

// HandleDataRequest distributes the provided DataRequest's constituent
// DataSeriesRequests to their dataSources for processing, then assembles the
// populated DataSeries into a Data response.
func (qd *QueryDispatcher) HandleDataRequest(ctx context.Context, req *util.DataRequest) (*util.Data, error) {
	start := time.Now()
	drb := util.NewDataResponseBuilder()
	// A mapping from dataSource index to the DataSeriesRequests that source
	// handles, in request order.
	groupedReqs := map[int][]*util.DataSeriesRequest{}
	queryNames := make([]string, 0, len(req.SeriesRequests))
	for _, seriesReq := range req.SeriesRequests {
		dsIdx, ok := qd.dataSeriesQueryHandlers[seriesReq.QueryName]
		if !ok {
			return nil, fmt.Errorf("%w `%s`", ErrUnsupportedQuery, seriesReq.QueryName)
		}
		groupedReqs[dsIdx] = append(groupedReqs[dsIdx], seriesReq)
		queryNames = append(queryNames, seriesReq.QueryName)
	}
	errg, ctx := errgroup.WithContext(ctx)
	for dsIdx, seriesReqs := range groupedReqs {
		ds := qd.dataSources[dsIdx]
		errg.Go(func() error {
			return ds.HandleDataSeriesRequests(ctx, req.GlobalFilters, drb, seriesReqs)
		})
	}
	if err := errg.Wait(); err != nil {
		qd.log.Warn("data request failed", zap.Strings("queries", queryNames), zap.Error(err))
		return nil, err
	}
	qd.log.Debug("handled data request",
		zap.Strings("queries", queryNames), zap.Duration("elapsed", time.Since(start)))
	return drb.Data()
}
