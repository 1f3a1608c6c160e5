package diff

// UndoEntry records the value a slot held before an edit
type UndoEntry struct {
	Node  *ParallelNode
	Slot  int
	Value string
}

// Journal is the undo/redo history of one document
type Journal struct {
	undo     []UndoEntry
	redo     []UndoEntry
	revision int
}

type replay int

const (
	replayEdit replay = iota
	replayUndo
	replayRedo
)

func (j *Journal) record(e UndoEntry, mode replay) {
	j.revision++
	switch mode {
	case replayUndo:
		j.redo = append(j.redo, e)
	case replayRedo:
		j.undo = append(j.undo, e)
	default:
		j.undo = append(j.undo, e)
		j.redo = nil
	}
}

func pop(stack *[]UndoEntry) (UndoEntry, bool) {
	s := *stack
	if len(s) == 0 {
		return UndoEntry{}, false
	}
	e := s[len(s)-1]
	*stack = s[:len(s)-1]
	return e, true
}

// CanUndo reports whether there is an edit to undo
func (j *Journal) CanUndo() bool { return len(j.undo) > 0 }

// CanRedo reports whether there is an undone edit to reapply
func (j *Journal) CanRedo() bool { return len(j.redo) > 0 }

// Len is the number of undoable edits
func (j *Journal) Len() int { return len(j.undo) }

// Entries returns a copy of the undo stack, oldest first
func (j *Journal) Entries() []UndoEntry {
	return append([]UndoEntry(nil), j.undo...)
}

// SetValue writes value into slot of node. Empty slots and equal values are
// no-ops. Accepted edits notify the node observers and are journaled.
func (c *Comparison) SetValue(node *ParallelNode, slot int, value string) bool {
	return c.setValue(node, slot, value, replayEdit)
}

func (c *Comparison) setValue(node *ParallelNode, slot int, value string, mode replay) bool {
	payload := node.Get(slot)
	if payload == nil {
		return false
	}
	old, _ := payload.Value()
	if old == value {
		return false
	}
	if !c.docs[slot].Format.SetValue(payload, value) {
		c.logger.Debug("value rejected", "slot", slot, "name", payload.Name())
		return false
	}

	node.notify(slot, value)
	c.journals[slot].record(UndoEntry{Node: node, Slot: slot, Value: old}, mode)
	return true
}

// Undo reverts the latest edit of the document in slot. An entry the format
// refuses to replay stays on the journal.
func (c *Comparison) Undo(slot int) bool {
	j := c.Journal(slot)
	if j == nil {
		return false
	}
	e, ok := pop(&j.undo)
	if !ok {
		return false
	}
	if !c.setValue(e.Node, e.Slot, e.Value, replayUndo) {
		j.undo = append(j.undo, e)
		return false
	}
	return true
}

// Redo reapplies the latest undone edit of the document in slot
func (c *Comparison) Redo(slot int) bool {
	j := c.Journal(slot)
	if j == nil {
		return false
	}
	e, ok := pop(&j.redo)
	if !ok {
		return false
	}
	if !c.setValue(e.Node, e.Slot, e.Value, replayRedo) {
		j.redo = append(j.redo, e)
		return false
	}
	return true
}

// Journal returns the journal of the document in slot
func (c *Comparison) Journal(slot int) *Journal {
	if slot < 0 || slot >= len(c.journals) {
		return nil
	}
	return c.journals[slot]
}

// Dirty reports whether the document in slot has unsaved edits
func (c *Comparison) Dirty(slot int) bool {
	j := c.Journal(slot)
	return j != nil && j.revision != c.saved[slot]
}
