package diff

// Difference classifies one slot of a parallel node
type Difference int

const (
	None Difference = iota
	Add
	Remove
	Modify
	Same
)

func (d Difference) String() string {
	switch d {
	case Add:
		return "add"
	case Remove:
		return "remove"
	case Modify:
		return "modify"
	case Same:
		return "same"
	}
	return "none"
}

// Symbol is the one-character marker used in reports
func (d Difference) Symbol() string {
	switch d {
	case Add:
		return "+"
	case Remove:
		return "-"
	case Modify:
		return "~"
	}
	return " "
}

// Stats counts classifications over a comparison
type Stats struct {
	Added    int `json:"added"`
	Removed  int `json:"removed"`
	Modified int `json:"modified"`
	Same     int `json:"same"`
}

// Changed reports whether any node differs
func (s Stats) Changed() bool {
	return s.Added+s.Removed+s.Modified > 0
}

// DiffLineType indicates the type of diff line for rendering
type DiffLineType int

const (
	DiffTypeHeader DiffLineType = iota
	DiffTypeAdded
	DiffTypeRemoved
	DiffTypeModified
	DiffTypeContext
	DiffTypeDetail
	DiffTypeSummary
	DiffTypeBlank
)

// DiffLine represents a rendered line in diff output
type DiffLine struct {
	Type    DiffLineType
	Content string
	Indent  int // Indentation level
}
