// Package capture persists a trace of frames seen by a node's link, for
// offline debugging of election and routing runs — never read by the
// protocol engine itself.
package capture

import (
	"context"
	"time"

	bolt "go.etcd.io/bbolt"
	"golang.org/x/xerrors"
	uuid "gopkg.in/satori/go.uuid.v1"

	"go.dedis.ch/mesh/link"
	"go.dedis.ch/mesh/log"
	"go.dedis.ch/mesh/node"
	"go.dedis.ch/protobuf"
)

var bucketName = []byte("frames")

// Frame is one captured RecvData, with a unique id and a capture
// timestamp, in a protobuf-friendly shape (plain value fields, no
// interfaces).
type Frame struct {
	ID          string
	CapturedAt  int64
	Source      [node.Size]byte
	Destination [node.Size]byte
	Rssi        int32
	Payload     []byte
}

// Store is a bbolt-backed append-only log of captured frames.
type Store struct {
	db *bolt.DB
}

// Open creates or opens a capture database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, xerrors.Errorf("opening capture store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, xerrors.Errorf("creating frames bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Capture persists one RecvData as seen at capturedAt.
func (s *Store) Capture(data link.RecvData, capturedAt time.Time) error {
	id := uuid.NewV4().String()
	frame := Frame{
		ID:          id,
		CapturedAt:  capturedAt.UnixNano(),
		Source:      data.Source,
		Destination: data.Destination,
		Rssi:        data.Rssi,
		Payload:     data.Data,
	}
	buf, err := protobuf.Encode(&frame)
	if err != nil {
		return xerrors.Errorf("encoding frame: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		return b.Put([]byte(id), buf)
	})
}

// tap decorates a link.Link, persisting every received frame to a Store
// before handing it back to the caller. Send/TrySend pass through
// untouched — only inbound traffic is captured.
type tap struct {
	link.Link
	store *Store
}

// Wrap returns l decorated so every frame returned by its Receive is also
// persisted to store; frames taken with TryReceive pass through
// uncaptured. Capture failures are logged and otherwise ignored; a full or
// unwritable capture database must never stall the protocol engine.
func Wrap(l link.Link, store *Store) link.Link {
	return &tap{Link: l, store: store}
}

func (t *tap) Receive(ctx context.Context) (link.RecvData, error) {
	data, err := t.Link.Receive(ctx)
	if err != nil {
		return data, err
	}
	if err := t.store.Capture(data, time.Now()); err != nil {
		log.Errorf("capture: persisting frame from %s: %v", data.Source, err)
	}
	return data, nil
}

// All returns every captured frame, in storage order.
func (s *Store) All() ([]Frame, error) {
	var frames []Frame
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		return b.ForEach(func(_, v []byte) error {
			var f Frame
			if err := protobuf.Decode(v, &f); err != nil {
				return xerrors.Errorf("decoding frame: %w", err)
			}
			frames = append(frames, f)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return frames, nil
}
