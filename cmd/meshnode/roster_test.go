package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"go.dedis.ch/mesh/node"
)

func TestLoadRoster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.toml")
	body := []byte(`
[[nodes]]
mac = "00:00:00:00:00:01"

[[nodes]]
mac = "00:00:00:00:00:02"

[[links]]
a = "00:00:00:00:00:01"
b = "00:00:00:00:00:02"
rssi = -40
`)
	require.NoError(t, os.WriteFile(path, body, 0o600))

	r, err := loadRoster(path)
	require.NoError(t, err)
	require.Len(t, r.nodes, 2)
	require.Equal(t, node.Node{0, 0, 0, 0, 0, 1}, r.nodes[0])
	require.Len(t, r.links, 1)
	require.Equal(t, int32(-40), r.links[0].rssi)
}
