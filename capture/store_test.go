package capture

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go.dedis.ch/mesh/link"
	"go.dedis.ch/mesh/node"
)

func TestStoreCaptureAndAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	data := link.RecvData{
		Data:        []byte{1, 2, 3},
		Source:      node.Node{1},
		Destination: node.Node{2},
		Rssi:        -42,
	}
	require.NoError(t, s.Capture(data, time.Unix(0, 1000)))

	frames, err := s.All()
	require.NoError(t, err)
	require.Len(t, frames, 1)
	require.Equal(t, []byte{1, 2, 3}, frames[0].Payload)
	require.Equal(t, int32(-42), frames[0].Rssi)
	require.NotEmpty(t, frames[0].ID)
}
