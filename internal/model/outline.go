// Package model contains the outline document read by the outline format
package model

import (
	"time"

	"github.com/google/uuid"
)

// Item represents a single node in the outline tree
type Item struct {
	ID       string    `json:"id"`
	Text     string    `json:"text"`
	Children []*Item   `json:"children,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`
	Parent   *Item     `json:"-"` // Not persisted
}

// Metadata holds rich information about an item
type Metadata struct {
	Tags       []string          `json:"tags,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Created    time.Time         `json:"created"`
	Modified   time.Time         `json:"modified"`
}

// Outline represents the entire outline document
type Outline struct {
	Items []*Item `json:"items"`
}

// NewItem creates a new outline item with a generated ID
func NewItem(text string) *Item {
	now := time.Now()
	return &Item{
		ID:   "item_" + uuid.NewString()[:8],
		Text: text,
		Metadata: &Metadata{
			Attributes: make(map[string]string),
			Created:    now,
			Modified:   now,
		},
	}
}

// AddChild adds a child item to this item
func (i *Item) AddChild(child *Item) {
	child.Parent = i
	i.Children = append(i.Children, child)
}

// SetText replaces the text and bumps the modification time
func (i *Item) SetText(text string) {
	i.Text = text
	i.Touch()
}

// Touch records a modification
func (i *Item) Touch() {
	if i.Metadata == nil {
		i.Metadata = &Metadata{Created: time.Now()}
	}
	i.Metadata.Modified = time.Now()
}

// Tags returns the item tags, nil when there is no metadata
func (i *Item) Tags() []string {
	if i.Metadata == nil {
		return nil
	}
	return i.Metadata.Tags
}

// GetAllItems returns all items in the outline (depth-first)
func (o *Outline) GetAllItems() []*Item {
	var items []*Item
	for _, item := range o.Items {
		items = append(items, getAllItemsRecursive(item)...)
	}
	return items
}

func getAllItemsRecursive(item *Item) []*Item {
	items := []*Item{item}
	for _, child := range item.Children {
		items = append(items, getAllItemsRecursive(child)...)
	}
	return items
}

// FindItemByID finds an item by its ID in the outline
func (o *Outline) FindItemByID(id string) *Item {
	for _, item := range o.GetAllItems() {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// RestoreParents reconstructs parent pointers after deserialization
func (o *Outline) RestoreParents() {
	var restore func(items []*Item, parent *Item)
	restore = func(items []*Item, parent *Item) {
		for _, item := range items {
			item.Parent = parent
			restore(item.Children, item)
		}
	}
	restore(o.Items, nil)
}
