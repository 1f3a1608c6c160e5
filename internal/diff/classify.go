package diff

import "github.com/pstuifzand/hierarchy-diff/internal/document"

// counterpart is the slot a slot is compared against. Slot 0 is the base.
func counterpart(slot int) int {
	if slot == 0 {
		return 1
	}
	return 0
}

func addOrRemove(slot int) Difference {
	if slot == 0 {
		return Remove
	}
	return Add
}

// Classification derives the difference of slot from slot occupancy and
// payload equality. A name change counts as removal plus addition.
func (p *ParallelNode) Classification(slot int) Difference {
	current := p.Get(slot)
	if current == nil {
		return None
	}
	other := p.Get(counterpart(slot))
	if other == nil {
		return addOrRemove(slot)
	}
	if current.Name() != other.Name() {
		return addOrRemove(slot)
	}
	if !document.SameValue(current, other) {
		return Modify
	}
	return Same
}

// Display recolors Modify into the direction of slot: removal on the base
// side and addition on the other.
func (p *ParallelNode) Display(slot int) Difference {
	d := p.Classification(slot)
	if d == Modify {
		return addOrRemove(slot)
	}
	return d
}
