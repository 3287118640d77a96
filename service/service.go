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

// Package service assembles the meshviz colormap service from its
// configuration.
package service

import (
	"net/http"

	colormapstore "github.com/ilhamster/meshviz/colormap_store"
	"github.com/ilhamster/meshviz/config"
	datasource "github.com/ilhamster/meshviz/data_source"
	"github.com/ilhamster/meshviz/editor"
	"github.com/ilhamster/meshviz/handlers"
	querydispatcher "github.com/ilhamster/meshviz/query_dispatcher"
	"go.uber.org/zap"
)

// Service serves colormap data queries and color info fragments.
type Service struct {
	handlers []handlers.Handler
}

// New returns a new Service configured by cfg.
func New(cfg *config.Config, log *zap.Logger) (*Service, error) {
	store := colormapstore.Open(cfg.Storage.SnapshotFile, log.Named("store"))
	library, err := colormapstore.LoadLibrary(cfg.Storage.LibraryDir, log.Named("library"))
	if err != nil {
		return nil, err
	}
	sessions, err := editor.NewSessions(cfg.Sessions.Capacity, log.Named("sessions"))
	if err != nil {
		return nil, err
	}
	ds := datasource.New(
		editor.New(store, log.Named("editor")),
		sessions,
		store,
		library,
		log.Named("data_source"),
	)
	qd, err := querydispatcher.New(log.Named("dispatcher"), ds)
	if err != nil {
		return nil, err
	}
	log.Info("colormap service ready",
		zap.Int("saved_colormaps", len(store.Names())),
		zap.Int("library_colormaps", len(library)))
	return &Service{
		handlers: []handlers.Handler{
			handlers.NewQueryHandler(qd, log.Named("query_handler")),
			handlers.NewColorInfoHandler(sessions, log.Named("color_info")),
		},
	}, nil
}

// RegisterHandlers registers the receiver's handlers on mux.
func (s *Service) RegisterHandlers(mux *http.ServeMux) {
	for _, h := range s.handlers {
		for path, handler := range h.HandlersByPath() {
			mux.HandleFunc(path, handler)
		}
	}
}
