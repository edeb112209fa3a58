package planner

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/danieljhkim/uiforge/internal/hash"
	"github.com/danieljhkim/uiforge/internal/tree"
)

// IDSource assigns ids to generated modals so that buttons can reference them.
type IDSource interface {
	// ModalID returns the id for the ordinal-th component of a request with
	// the given text, planned against previous (which may be nil).
	ModalID(text string, previous *tree.Node, ordinal int) string
}

// SequenceIDs hands out modal-1, modal-2, ... in call order.
type SequenceIDs struct {
	next atomic.Int64
}

// NewSequenceIDs creates a SequenceIDs starting at modal-1.
func NewSequenceIDs() *SequenceIDs {
	return &SequenceIDs{}
}

// ModalID returns the next id in the sequence.
func (s *SequenceIDs) ModalID(string, *tree.Node, int) string {
	return fmt.Sprintf("modal-%d", s.next.Add(1))
}

// modalNamespace scopes the name-based UUIDs used for modal ids.
var modalNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://uiforge.local/ids/modal"))

// ContentIDs derives modal ids from the request itself: the text, the
// fingerprint of the tree it was planned against, and the component's
// position. Replaying a request against the same tree yields the same id.
type ContentIDs struct {
	hasher hash.Hasher
}

// NewContentIDs creates a ContentIDs using hasher for tree fingerprints.
func NewContentIDs(hasher hash.Hasher) *ContentIDs {
	if hasher == nil {
		hasher = hash.NewSHA256Hasher()
	}
	return &ContentIDs{hasher: hasher}
}

// ModalID returns modal-<8 hex> from a SHA-1 (v5) UUID over the inputs.
func (c *ContentIDs) ModalID(text string, previous *tree.Node, ordinal int) string {
	fp := ""
	if previous != nil {
		// A failed fingerprint only weakens uniqueness across trees.
		fp, _ = c.hasher.Fingerprint(previous)
	}
	name := text + "\x00" + fp + "\x00" + strconv.Itoa(ordinal)
	id := uuid.NewSHA1(modalNamespace, []byte(name))
	return "modal-" + id.String()[:8]
}
