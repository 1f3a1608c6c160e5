package diff

import "errors"

var (
	ErrFormatMismatch             = errors.New("documents are not of the same format")
	ErrDocumentCount              = errors.New("comparison needs two documents")
	ErrThreeWay                   = errors.New("three-way comparison is not supported")
	ErrKindMismatch               = errors.New("parallel node slots have different kinds")
	ErrInconsistentCorrespondence = errors.New("inconsistent correspondence between documents")
	ErrDisjointRoots              = errors.New("document roots do not correspond")
)
