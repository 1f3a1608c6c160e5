// Package diff aligns two document trees and merges them into one parallel
// tree whose nodes pair corresponding payloads.
package diff

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pstuifzand/hierarchy-diff/internal/document"
	"github.com/pstuifzand/hierarchy-diff/internal/tree"
)

// ScoreFunc scores two payloads of the same format in [0,1]
type ScoreFunc func(a, b document.Node) float64

type options struct {
	logger *slog.Logger
	score  ScoreFunc
}

// Option configures Compare
type Option func(*options)

// WithLogger sets the logger used for alignment diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithScore replaces the format's own Compare
func WithScore(score ScoreFunc) Option {
	return func(o *options) {
		o.score = score
	}
}

// Comparison is the result of comparing documents: the parallel tree plus
// one edit journal per document.
type Comparison struct {
	id        string
	created   time.Time
	docs      []*document.Document
	root      *ParallelNode
	journals  []*Journal
	saved     []int
	demotions []Demotion
	logger    *slog.Logger
}

// Compare aligns two documents of the same format. Three documents are
// rejected with ErrThreeWay.
func Compare(docs []*document.Document, opts ...Option) (*Comparison, error) {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	switch len(docs) {
	case 2:
	case 3:
		return nil, ErrThreeWay
	default:
		return nil, fmt.Errorf("%w: got %d", ErrDocumentCount, len(docs))
	}
	origin, target := docs[0], docs[1]
	if origin == nil || target == nil {
		return nil, fmt.Errorf("%w: missing document", ErrDocumentCount)
	}
	if origin.Format.Name() != target.Format.Name() {
		return nil, fmt.Errorf("%w: %s and %s", ErrFormatMismatch, origin.Format.Name(), target.Format.Name())
	}

	score := o.score
	if score == nil {
		score = origin.Format.Compare
	}

	c := &Comparison{
		id:       uuid.NewString(),
		created:  time.Now(),
		docs:     docs,
		journals: []*Journal{{}, {}},
		saved:    make([]int, 2),
		logger:   o.logger.With("comparison", origin.Path+" "+target.Path),
	}

	corr, err := correspond(origin.Root, target.Root, nodeScore(score), c.logger)
	if err != nil {
		return nil, err
	}

	m := newMerger(c)
	root, err := m.merge(corr.decisions)
	if err != nil {
		return nil, err
	}
	c.root = root
	c.demotions = append(corr.demotions, m.demotions...)

	for _, d := range c.demotions {
		c.logger.Debug("demoted match", "origin", d.Origin.Name(), "target", d.Target.Name(), "reason", d.Reason)
	}
	return c, nil
}

// nodeScore adapts score to tree nodes. Pairs of different kinds never
// reach it.
func nodeScore(score ScoreFunc) func(a, b *tree.Node) float64 {
	return func(a, b *tree.Node) float64 {
		return score(document.NodeOf(a), document.NodeOf(b))
	}
}

// Open loads the documents at paths concurrently and compares them
func Open(ctx context.Context, registry *document.Registry, paths []string, opts ...Option) (*Comparison, error) {
	docs := make([]*document.Document, len(paths))
	g, _ := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			doc, err := document.Load(registry, path)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Compare(docs, opts...)
}

// ID identifies the comparison in logs and history
func (c *Comparison) ID() string { return c.id }

// Created is when the comparison was built
func (c *Comparison) Created() time.Time { return c.created }

// Root returns the root of the parallel tree
func (c *Comparison) Root() *ParallelNode { return c.root }

// Width is the number of compared documents
func (c *Comparison) Width() int { return len(c.docs) }

// Document returns the document in slot
func (c *Comparison) Document(slot int) *document.Document {
	if slot < 0 || slot >= len(c.docs) {
		return nil
	}
	return c.docs[slot]
}

// Documents returns the compared documents in slot order
func (c *Comparison) Documents() []*document.Document {
	return append([]*document.Document(nil), c.docs...)
}

// Demotions lists matches that were split into orphans
func (c *Comparison) Demotions() []Demotion {
	return append([]Demotion(nil), c.demotions...)
}

// Nodes returns every parallel node in document order
func (c *Comparison) Nodes() []*ParallelNode {
	var out []*ParallelNode
	c.root.Walk(func(n *ParallelNode) bool {
		out = append(out, n)
		return true
	})
	return out
}

// Changes returns the nodes with at least one changed slot in document order
func (c *Comparison) Changes() []*ParallelNode {
	var out []*ParallelNode
	for _, n := range c.Nodes() {
		if n.Changed() {
			out = append(out, n)
		}
	}
	return out
}

// Stats counts the classifications of all nodes. A joined node whose names
// differ counts once as removed and once as added.
func (c *Comparison) Stats() Stats {
	var s Stats
	for _, n := range c.Nodes() {
		switch origin, target := n.Classification(originSlot), n.Classification(targetSlot); {
		case origin == Same:
			s.Same++
		case origin == Modify:
			s.Modified++
		default:
			if origin == Remove {
				s.Removed++
			}
			if target == Add {
				s.Added++
			}
		}
	}
	return s
}

// Save writes the document in slot and marks its journal clean
func (c *Comparison) Save(slot int) error {
	doc := c.Document(slot)
	if doc == nil {
		return fmt.Errorf("failed to save: no document in slot %d", slot)
	}
	if err := doc.Save(); err != nil {
		return err
	}
	c.saved[slot] = c.journals[slot].revision
	c.logger.Info("saved document", "path", doc.Path, "slot", slot)
	return nil
}
