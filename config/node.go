package config

import (
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/xerrors"

	"go.dedis.ch/mesh/node"
)

// NodeConfig is a node's bootstrap configuration: its own identity and any
// timer overrides, read from a TOML file merged with command-line flags
// via a SourceHub (cli flags take priority over the file).
type NodeConfig struct {
	Self               node.Node
	SearchRoundTimeout time.Duration
	LeaderTickInterval time.Duration
}

// defaultSearchRoundTimeout and defaultLeaderTickInterval mirror the
// protocol engine's own constants so a config file that omits timers
// still yields a fully-specified NodeConfig.
const (
	defaultSearchRoundTimeout = time.Second
	defaultLeaderTickInterval = 3 * time.Second
)

// LoadNodeConfig resolves a NodeConfig out of hub, requiring "node.mac" to
// be present and well-formed.
func LoadNodeConfig(hub *SourceHub) (NodeConfig, error) {
	mac := hub.String("node.mac")
	self, err := ParseMAC(mac)
	if err != nil {
		return NodeConfig{}, xerrors.Errorf("node.mac %q: %w", mac, err)
	}
	return NodeConfig{
		Self:               self,
		SearchRoundTimeout: hub.DurationOrDefault("timers.search_round", defaultSearchRoundTimeout),
		LeaderTickInterval: hub.DurationOrDefault("timers.leader_tick", defaultLeaderTickInterval),
	}, nil
}

// ParseMAC parses a colon-separated hex MAC string ("aa:bb:cc:dd:ee:ff")
// into a node.Node, the shape used both by a NodeConfig's own identity
// and a mock roster file's node/link lists.
func ParseMAC(s string) (node.Node, error) {
	parts := strings.Split(s, ":")
	if len(parts) != node.Size {
		return node.Node{}, xerrors.New("expected 6 colon-separated hex octets")
	}
	var n node.Node
	for i, p := range parts {
		b, err := hex.DecodeString(p)
		if err != nil || len(b) != 1 {
			return node.Node{}, xerrors.Errorf("octet %q: %w", p, err)
		}
		n[i] = b[0]
	}
	return n, nil
}
