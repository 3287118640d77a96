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

package handlers

import (
	"net/http"

	"github.com/google/safehtml/template"
	"github.com/ilhamster/meshviz/colormap"
	"go.uber.org/zap"
)

const (
	colorInfoMethod = "/ColorInfo"
	sessionIDParam  = "session_id"
)

var colorInfoTemplate = template.Must(template.New("color_info").Parse(
	`<div class="colormap-info">{{range .}}<div class="colormap-range">{{.}}</div>{{end}}</div>`,
))

// sessionStates describes types providing access to per-session colormap
// States, such as *editor.Sessions.
type sessionStates interface {
	With(id string, fn func(state *colormap.State) error) error
}

// ColorInfoHandler serves a session's range-by-color descriptions as an HTML
// fragment.
type ColorInfoHandler struct {
	sessions sessionStates
	log      *zap.Logger
}

// NewColorInfoHandler returns a new ColorInfoHandler describing the States
// in the provided sessions.
func NewColorInfoHandler(sessions sessionStates, log *zap.Logger) *ColorInfoHandler {
	return &ColorInfoHandler{
		sessions: sessions,
		log:      log,
	}
}

// HandlersByPath returns a mapping of HTTP request path to HTTP handler for
// this Handler.
func (cih *ColorInfoHandler) HandlersByPath() map[string]func(http.ResponseWriter, *http.Request) {
	return map[string]func(http.ResponseWriter, *http.Request){
		colorInfoMethod: cih.colorInfoHandler,
	}
}

func (cih *ColorInfoHandler) colorInfoHandler(w http.ResponseWriter, req *http.Request) {
	sessionID := req.URL.Query().Get(sessionIDParam)
	if sessionID == "" {
		http.Error(w, "Missing required parameter '"+sessionIDParam+"'", http.StatusBadRequest)
		return
	}
	var descs []string
	if err := cih.sessions.With(sessionID, func(state *colormap.State) error {
		descs = state.Describe()
		return nil
	}); err != nil {
		http.Error(w, "Failed to fetch session: "+err.Error(), http.StatusInternalServerError)
		return
	}
	html, err := colorInfoTemplate.ExecuteToHTML(descs)
	if err != nil {
		cih.log.Warn("failed to render color info", zap.Error(err))
		http.Error(w, "Failed to render color info: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Add("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html.String()))
}
