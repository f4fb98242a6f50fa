// Package dashboard serves a node's live role and routing tree over a
// websocket, read by the "meshnode dump" and "meshnode doctor" debug
// commands. It is purely
// observational: nothing here feeds back into the protocol engine.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/flate"
	graceful "gopkg.in/tylerb/graceful.v1"

	"go.dedis.ch/mesh/log"
)

// Snapshot is one point-in-time view of a node, sent to every connected
// dashboard client.
type Snapshot struct {
	Self   string `json:"self"`
	Role   string `json:"role"`
	Height int    `json:"height"`
	Tree   string `json:"tree"`
}

// SnapshotFunc produces the current Snapshot on demand.
type SnapshotFunc func() Snapshot

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Server streams Snapshots to connected websocket clients at a fixed
// interval, compressing each payload with DEFLATE before writing it.
type Server struct {
	snapshot SnapshotFunc
	interval time.Duration
	mux      *http.ServeMux
}

// New builds a Server that polls snapshot every interval.
func New(snapshot SnapshotFunc, interval time.Duration) *Server {
	s := &Server{snapshot: snapshot, interval: interval, mux: http.NewServeMux()}
	s.mux.HandleFunc("/ws", s.handleWS)
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return s
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("dashboard: upgrade: %v", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for range ticker.C {
		payload, err := json.Marshal(s.snapshot())
		if err != nil {
			log.Errorf("dashboard: marshaling snapshot: %v", err)
			continue
		}
		compressed, err := deflate(payload)
		if err != nil {
			log.Errorf("dashboard: compressing snapshot: %v", err)
			continue
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, compressed); err != nil {
			return
		}
	}
}

func deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestSpeed)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Run serves the dashboard at addr until ctx is done, then shuts down
// gracefully within shutdownTimeout.
func Run(ctx context.Context, addr string, s *Server, shutdownTimeout time.Duration) error {
	srv := &graceful.Server{
		Timeout: shutdownTimeout,
		Server:  &http.Server{Addr: addr, Handler: s.mux},
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	select {
	case <-ctx.Done():
		srv.Stop(shutdownTimeout)
		return nil
	case err := <-errCh:
		return err
	}
}
