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

package service

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ilhamster/meshviz/colormap"
	"github.com/ilhamster/meshviz/config"
	"go.uber.org/zap/zaptest"
)

func newTestServer(t *testing.T) (*httptest.Server, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Storage.SnapshotFile = filepath.Join(dir, "saved_colormaps.json")
	cfg.Storage.LibraryDir = filepath.Join(dir, "library")
	svc, err := New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New() failed: %s", err)
	}
	mux := http.NewServeMux()
	svc.RegisterHandlers(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, cfg
}

func get(t *testing.T, target string) (int, string) {
	t.Helper()
	resp, err := http.Get(target)
	if err != nil {
		t.Fatalf("GET %s failed: %s", target, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %s", err)
	}
	return resp.StatusCode, string(body)
}

func TestEditSaveAndDescribe(t *testing.T) {
	srv, cfg := newTestServer(t)
	reqJSON := `{
		"GlobalFilters": {"session_id": [1, "s1"]},
		"SeriesRequests": [
			{"QueryName": "colormap.edit", "SeriesName": "insert", "Options": {
				"op": [1, "insert"], "color": [1, "red"], "min": [5, 20], "max": [5, 40]
			}},
			{"QueryName": "colormap.edit", "SeriesName": "save", "Options": {
				"op": [1, "save"]
			}}
		]
	}`
	code, body := get(t, srv.URL+"/GetData?req="+url.QueryEscape(reqJSON))
	if code != http.StatusOK {
		t.Fatalf("GetData status %d: %s", code, body)
	}
	if !strings.Contains(body, "colormap_01 saved") {
		t.Errorf("GetData response lacks save status: %s", body)
	}
	data, err := os.ReadFile(cfg.Storage.SnapshotFile)
	if err != nil {
		t.Fatalf("failed to read snapshot file: %s", err)
	}
	var saved map[string]colormap.Snapshot
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("snapshot file is malformed: %s", err)
	}
	if got := len(saved["colormap_01"].Data); got != 3 {
		t.Errorf("saved colormap has %d intervals, want 3", got)
	}
	code, body = get(t, srv.URL+"/ColorInfo?session_id=s1")
	if code != http.StatusOK {
		t.Fatalf("ColorInfo status %d: %s", code, body)
	}
	if !strings.Contains(body, "Color: red, Range: [20, 40]") {
		t.Errorf("ColorInfo response lacks the inserted range: %s", body)
	}
}

func TestUnknownQuery(t *testing.T) {
	srv, _ := newTestServer(t)
	reqJSON := `{"GlobalFilters": {"session_id": [1, "s1"]}, "SeriesRequests": [{"QueryName": "mesh.render", "SeriesName": "1"}]}`
	if code, body := get(t, srv.URL+"/GetData?req="+url.QueryEscape(reqJSON)); code != http.StatusInternalServerError {
		t.Errorf("GetData status %d, want %d: %s", code, http.StatusInternalServerError, body)
	}
}

func TestInvalidSessionCapacity(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.SnapshotFile = filepath.Join(t.TempDir(), "saved.json")
	cfg.Sessions.Capacity = 0
	if _, err := New(cfg, zaptest.NewLogger(t)); err == nil {
		t.Errorf("New() with zero session capacity unexpectedly succeeded")
	}
}
