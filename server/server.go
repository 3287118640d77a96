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

package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/ilhamster/meshviz/config"
	"github.com/ilhamster/meshviz/logger"
	"github.com/ilhamster/meshviz/service"
	"go.uber.org/zap"
)

func main() {
	var flags config.Flags
	flags.RegisterFlags(flag.CommandLine)
	flag.Parse()

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load meshviz config: %s\n", err)
		os.Exit(1)
	}
	log := logger.NewServerLogger(cfg.Logging.Level, cfg.Logging.LogFile)
	defer log.Sync()

	svc, err := service.New(cfg, log)
	if err != nil {
		log.Fatal("failed to create meshviz service", zap.Error(err))
	}

	mux := http.NewServeMux()
	svc.RegisterHandlers(mux)
	if cfg.Server.ResourceRoot != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.Server.ResourceRoot)))
	}
	hostname, err := os.Hostname()
	if err != nil {
		log.Fatal("failed to get hostname", zap.Error(err))
	}

	// Provide OSC 8 (https://en.wikipedia.org/wiki/ANSI_escape_code#OSC) link for
	// compatible terminals.
	fmt.Printf("Serving meshviz at \x1B]8;;http://%[1]s:%[2]d\x07http://%[1]s:%[2]d\x1B]8;;\x07\n", hostname, cfg.Server.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.Server.Port), mux); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
