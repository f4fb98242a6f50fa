package arena

import "golang.org/x/xerrors"

// ErrSlotEmpty is returned by Get when the id is in range but currently
// unoccupied.
var ErrSlotEmpty = xerrors.New("arena: slot empty")

// ErrInvalidIndex is returned by Remove when the id is in range but
// currently unoccupied.
var ErrInvalidIndex = xerrors.New("arena: invalid index")
