package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go.dedis.ch/mesh/node"
)

func TestLoadNodeConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "node.toml")
	body := []byte(`
[node]
mac = "aa:bb:cc:dd:ee:ff"

[timers]
search_round = "250ms"
`)
	require.NoError(t, os.WriteFile(path, body, 0o600))

	toml, err := NewTomlSource(path)
	require.NoError(t, err)
	hub := NewSourceHub(toml)

	cfg, err := LoadNodeConfig(hub)
	require.NoError(t, err)
	require.Equal(t, node.Node{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}, cfg.Self)
	require.Equal(t, 250*time.Millisecond, cfg.SearchRoundTimeout)
	require.Equal(t, defaultLeaderTickInterval, cfg.LeaderTickInterval)
}

func TestLoadNodeConfigMissingMAC(t *testing.T) {
	hub := NewSourceHub(&TomlSource{data: map[string]interface{}{}})
	_, err := LoadNodeConfig(hub)
	require.Error(t, err)
}
