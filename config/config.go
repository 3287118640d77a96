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

// Package config handles meshviz server configuration.  Settings are taken,
// in increasing priority, from defaults, a YAML file, and command-line flags.
package config

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all server settings.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Sessions SessionsConfig `yaml:"sessions"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP serving settings.
type ServerConfig struct {
	Port         int    `yaml:"port"`
	ResourceRoot string `yaml:"resource_root"` // Client resources, served at /
}

// StorageConfig holds colormap persistence settings.
type StorageConfig struct {
	SnapshotFile string `yaml:"snapshot_file"` // Saved colormap snapshots
	LibraryDir   string `yaml:"library_dir"`   // Directory of read-only *.json colormaps
}

// SessionsConfig holds editing session settings.
type SessionsConfig struct {
	Capacity int `yaml:"capacity"` // Live sessions kept before evicting the least recent
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 7420,
		},
		Storage: StorageConfig{
			SnapshotFile: "saved_colormaps.json",
			LibraryDir:   "custom_colormap",
		},
		Sessions: SessionsConfig{
			Capacity: 64,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Flags holds command-line overrides.  Zero values leave the configuration
// untouched.
type Flags struct {
	ConfigPath   string
	Port         int
	ResourceRoot string
	SnapshotFile string
	Debug        bool
}

// RegisterFlags registers the receiver's fields on fs.
func (f *Flags) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&f.ConfigPath, "config", "", "Path to a YAML config file")
	fs.IntVar(&f.Port, "port", 0, "Port to serve meshviz clients on")
	fs.StringVar(&f.ResourceRoot, "resource_root", "", "The path to the meshviz client resources")
	fs.StringVar(&f.SnapshotFile, "snapshot_file", "", "The file saved colormaps are stored in")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
}

// Load returns the configuration built from defaults, the file named by
// flags.ConfigPath if any, and the flag overrides.
func Load(flags Flags) (*Config, error) {
	cfg := Default()
	if flags.ConfigPath != "" {
		if err := cfg.loadFromFile(flags.ConfigPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", flags.ConfigPath, err)
		}
	}
	cfg.applyFlags(flags)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile merges the YAML file at path into the receiver.
func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyFlags(flags Flags) {
	if flags.Port > 0 {
		c.Server.Port = flags.Port
	}
	if flags.ResourceRoot != "" {
		c.Server.ResourceRoot = flags.ResourceRoot
	}
	if flags.SnapshotFile != "" {
		c.Storage.SnapshotFile = flags.SnapshotFile
	}
	if flags.Debug {
		c.Logging.Level = "debug"
	}
}

// Validate reports configuration values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Storage.SnapshotFile == "" {
		return fmt.Errorf("no snapshot file configured")
	}
	if c.Sessions.Capacity <= 0 {
		return fmt.Errorf("invalid session capacity %d", c.Sessions.Capacity)
	}
	return nil
}

// SaveTo writes the receiver as YAML to path.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
