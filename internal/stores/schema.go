package stores

import (
	"time"

	"github.com/danieljhkim/uiforge/internal/tree"
)

// historySchemaVersion is the schema version of the JSON history file.
const historySchemaVersion = 1

// Version is one immutable entry of the history.
type Version struct {
	// ID is assigned by the store: 0 for the first version, then +1 per append
	ID int64 `json:"id"`

	// Tree is the validated component tree
	Tree *tree.Node `json:"tree"`

	// Explanation is the explainer's account of the change
	Explanation string `json:"explanation"`

	// UserText is the normalized request text
	UserText string `json:"userText"`

	// Timestamp is when the version was recorded
	Timestamp time.Time `json:"timestamp"`

	// Fingerprint is the content hash of Tree
	Fingerprint string `json:"fingerprint,omitempty"`

	// RestoredFrom is the id of the version this one copies, if any
	RestoredFrom *int64 `json:"restoredFrom,omitempty"`
}

// Clone returns a copy of v that shares nothing with it.
func (v *Version) Clone() *Version {
	if v == nil {
		return nil
	}
	out := *v
	out.Tree = v.Tree.Clone()
	if v.RestoredFrom != nil {
		id := *v.RestoredFrom
		out.RestoredFrom = &id
	}
	return &out
}

// Draft is a version that has not been assigned an id yet.
type Draft struct {
	Tree         *tree.Node
	Explanation  string
	UserText     string
	Timestamp    time.Time
	Fingerprint  string
	RestoredFrom *int64
}

// version turns d into a Version with the given id. The tree is copied.
func (d Draft) version(id int64) *Version {
	v := &Version{
		ID:          id,
		Tree:        d.Tree.Clone(),
		Explanation: d.Explanation,
		UserText:    d.UserText,
		Timestamp:   d.Timestamp,
		Fingerprint: d.Fingerprint,
	}
	if d.RestoredFrom != nil {
		from := *d.RestoredFrom
		v.RestoredFrom = &from
	}
	return v
}

// HistoryFile is the on-disk form used by FileStore.
type HistoryFile struct {
	// SchemaVersion is the version of this schema
	SchemaVersion int `json:"schemaVersion"`

	// Versions is the full history, oldest first
	Versions []*Version `json:"versions"`
}
