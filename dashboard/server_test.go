package dashboard

import (
	"compress/flate"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDeflateRoundTrips(t *testing.T) {
	original := []byte(`{"self":"aa:bb:cc:dd:ee:ff","role":"leader","height":2,"tree":"self\n"}`)
	compressed, err := deflate(original)
	require.NoError(t, err)

	r := flate.NewReader(strings.NewReader(string(compressed)))
	defer r.Close()
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, original, out)
}

func TestNewRegistersHandlers(t *testing.T) {
	s := New(func() Snapshot { return Snapshot{Self: "aa:bb:cc:dd:ee:ff"} }, time.Second)
	require.NotNil(t, s.mux)
}
