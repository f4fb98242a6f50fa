package link

import "golang.org/x/xerrors"

// Errors per spec §7 "Link": queue-full, queue-empty, already-initialized,
// spawn.
var (
	// ErrQueueFull is returned by TrySend when the destination's inbound
	// queue has no room; the frame is dropped, never queued.
	ErrQueueFull = xerrors.New("link: queue full")
	// ErrQueueEmpty is returned by TryReceive when nothing is pending.
	ErrQueueEmpty = xerrors.New("link: queue empty")
	// ErrAlreadyInitialized is returned by NewLink when self already has
	// a registered link on this manager.
	ErrAlreadyInitialized = xerrors.New("link: already initialized")
	// ErrUnsupported is returned by boundary implementations (e.g. Radio)
	// for operations the underlying transport does not provide.
	ErrUnsupported = xerrors.New("link: unsupported operation")
)
