package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTomlSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "node.toml")
	body := []byte(`
[node]
mac = "aa:bb:cc:dd:ee:ff"

[timers]
search_round = "1s"
`)
	require.NoError(t, os.WriteFile(path, body, 0o600))

	s, err := NewTomlSource(path)
	require.NoError(t, err)

	require.True(t, s.Defined("node.mac"))
	require.Equal(t, "aa:bb:cc:dd:ee:ff", s.String("node.mac"))
	require.False(t, s.Defined("node.missing"))

	timers := s.Sub("timers")
	require.True(t, timers.Defined("search_round"))
	require.Equal(t, "1s", timers.String("search_round"))
	require.False(t, timers.Defined("node.mac"))
}

func TestEmptySource(t *testing.T) {
	s := EmptySource()
	require.False(t, s.Defined("node.mac"))
	require.Equal(t, "", s.String("node.mac"))
	require.False(t, s.Sub("timers").Defined("search_round"))
}
