package main

import (
	"github.com/BurntSushi/toml"
	"golang.org/x/xerrors"

	"go.dedis.ch/mesh/config"
	"go.dedis.ch/mesh/node"
)

// rosterFile is the local-simulation input: a fixed set of nodes and the
// pairwise radio links between them, used by `meshnode run` to
// exercise the whole protocol engine in one process without real
// hardware (spec.md's Transport collaborator is out of scope).
type rosterFile struct {
	Nodes []struct {
		Mac string `toml:"mac"`
	} `toml:"nodes"`
	Links []struct {
		A    string `toml:"a"`
		B    string `toml:"b"`
		Rssi int32  `toml:"rssi"`
	} `toml:"links"`
}

type roster struct {
	nodes []node.Node
	links []rosterLink
}

type rosterLink struct {
	a, b node.Node
	rssi int32
}

func loadRoster(path string) (*roster, error) {
	var rf rosterFile
	if _, err := toml.DecodeFile(path, &rf); err != nil {
		return nil, xerrors.Errorf("decoding roster %s: %w", path, err)
	}
	r := &roster{}
	for _, n := range rf.Nodes {
		parsed, err := config.ParseMAC(n.Mac)
		if err != nil {
			return nil, xerrors.Errorf("node mac %q: %w", n.Mac, err)
		}
		r.nodes = append(r.nodes, parsed)
	}
	for _, l := range rf.Links {
		a, err := config.ParseMAC(l.A)
		if err != nil {
			return nil, xerrors.Errorf("link endpoint %q: %w", l.A, err)
		}
		b, err := config.ParseMAC(l.B)
		if err != nil {
			return nil, xerrors.Errorf("link endpoint %q: %w", l.B, err)
		}
		r.links = append(r.links, rosterLink{a: a, b: b, rssi: l.Rssi})
	}
	return r, nil
}
