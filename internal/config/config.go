// Package config parses the daemon's startup arguments: the local AS
// number, the ordered list of neighbor tokens, and an optional YAML
// topology file mapping neighbor handles to socket paths.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/perrottam/networks-proj3/internal/addr"
	"github.com/perrottam/networks-proj3/internal/neighbor"
)

const (
	defaultSocketDir = "/var/run/bgprouted"
	defaultDebugSock = defaultSocketDir + "/ctl.sock"
)

// ConfigError wraps a startup parsing failure with the offending input,
// so a caller can report exactly which token or file was malformed.
type ConfigError struct {
	Input string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %v", e.Input, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Topology is the optional YAML file naming the socket path for each
// neighbor and for the debug server. Fields are tagged for yaml.v3,
// matching this codebase's existing config format.
type Topology struct {
	DebugSocket string            `yaml:"debugSocket"`
	Sockets     map[string]string `yaml:"sockets"`
}

// Config is the fully parsed, validated startup configuration.
type Config struct {
	LocalAS     int
	Neighbors   *neighbor.Table
	DebugSocket string
	Sockets     map[addr.Addr]string
}

// Parse builds a Config from the local AS number, the ordered neighbor
// tokens given on the command line, and an optional topology file path
// (empty string to use the defaults for every socket).
func Parse(localAS int, tokens []string, topologyPath string) (*Config, error) {
	neighbors, err := neighbor.ParseTokens(tokens)
	if err != nil {
		return nil, &ConfigError{Input: "neighbor tokens", Err: err}
	}

	sockets := defaultSockets(neighbors.Handles())
	debugSocket := defaultDebugSock

	if topologyPath != "" {
		top, err := loadTopology(topologyPath)
		if err != nil {
			return nil, &ConfigError{Input: topologyPath, Err: err}
		}

		for tok, path := range top.Sockets {
			h, err := addr.Parse(tok)
			if err != nil {
				return nil, &ConfigError{Input: tok, Err: err}
			}
			if !neighbors.Known(h) {
				return nil, &ConfigError{Input: tok, Err: fmt.Errorf("not a configured neighbor")}
			}
			sockets[h] = path
		}

		if top.DebugSocket != "" {
			debugSocket = top.DebugSocket
		}
	}

	return &Config{
		LocalAS:     localAS,
		Neighbors:   neighbors,
		DebugSocket: debugSocket,
		Sockets:     sockets,
	}, nil
}

func defaultSockets(handles []addr.Addr) map[addr.Addr]string {
	sockets := make(map[addr.Addr]string, len(handles))
	for _, h := range handles {
		sockets[h] = fmt.Sprintf("%s/%s.sock", defaultSocketDir, h)
	}
	return sockets
}

func loadTopology(path string) (*Topology, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var top Topology
	if err := yaml.Unmarshal(b, &top); err != nil {
		return nil, err
	}

	return &top, nil
}
