package engine

// GenerateRequest represents a natural-language request for a UI.
type GenerateRequest struct {
	// UserText is the raw request text; it is normalized before use
	UserText string

	// DryRun runs the pipeline without recording a version
	DryRun bool
}

// RestoreRequest represents a request to make an old version current again.
type RestoreRequest struct {
	// ID is the version to copy
	ID int64
}

// ImportRequest represents a request to record a tree from a JSON document.
type ImportRequest struct {
	// Data is the tree document in {component, props, children} form
	Data []byte

	// Source names where the document came from, for the explanation
	Source string
}

// CodeRequest represents a request to render a version as markup.
type CodeRequest struct {
	// ID is the version to render; nil renders the current version
	ID *int64
}
