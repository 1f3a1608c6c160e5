package main

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pstuifzand/hierarchy-diff/internal/model"
)

type generateOptions struct {
	nodes   int
	depth   int
	output  string
	changes int
	seed    uint64
}

func newGenerateCmd() *cobra.Command {
	o := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a large outline and a changed copy for benchmarking",
		Long: `Generate writes an outline with the requested number of nodes and a second
outline, <name>-changed.tuo, in which a share of the nodes has been edited,
deleted or inserted. Compare the two with "hdiff diff".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.nodes < 1 {
				return fmt.Errorf("nodes must be at least 1")
			}
			if o.changes < 0 || o.changes > 100 {
				return fmt.Errorf("changes must be a percentage between 0 and 100")
			}
			rng := rand.New(rand.NewPCG(o.seed, o.seed^0x9e3779b97f4a7c15))

			outline := generateOutline(o.nodes, o.depth)
			changed := cloneOutline(outline)
			edits := mutateOutline(changed, o.changes, rng)

			if err := writeOutline(o.output, outline); err != nil {
				return err
			}
			changedPath := changedName(o.output)
			if err := writeOutline(changedPath, changed); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generated outline with %d nodes\n", countAllNodes(outline))
			fmt.Fprintf(out, "Saved to: %s\n", o.output)
			fmt.Fprintf(out, "Changed copy with %d edits: %s\n", edits, changedPath)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&o.nodes, "nodes", 1000, "number of nodes to generate")
	flags.IntVar(&o.depth, "depth", 3, "maximum nesting depth")
	flags.StringVarP(&o.output, "output", "o", "large_test.tuo", "output file path")
	flags.IntVar(&o.changes, "changes", 5, "percentage of nodes to change in the copy")
	flags.Uint64Var(&o.seed, "seed", 1, "random seed for the changes")
	return cmd
}

func changedName(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-changed" + ext
}

func writeOutline(path string, outline *model.Outline) error {
	data, err := json.MarshalIndent(outline, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal outline: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func generateOutline(totalNodes, maxDepth int) *model.Outline {
	outline := &model.Outline{Items: []*model.Item{}}
	remaining := totalNodes
	for remaining > 0 {
		if item := generateItem(&remaining, 0, maxDepth); item != nil {
			outline.Items = append(outline.Items, item)
		}
	}
	return outline
}

func generateItem(remaining *int, depth, maxDepth int) *model.Item {
	if *remaining <= 0 {
		return nil
	}
	item := model.NewItem(generateText(*remaining))
	*remaining--

	if depth < maxDepth && *remaining > 0 {
		n := childCount(*remaining, maxDepth-depth)
		for i := 0; i < n && *remaining > 0; i++ {
			if child := generateItem(remaining, depth+1, maxDepth); child != nil {
				item.AddChild(child)
			}
		}
	}
	return item
}

func childCount(remaining, depthLeft int) int {
	if depthLeft == 1 {
		if remaining > 10 {
			return 5
		}
		return max(remaining/2, 1)
	}
	if remaining > 50 {
		return 3
	}
	return 2
}

var (
	categories = []string{
		"Task", "Note", "Idea", "Bug", "Feature", "Enhancement",
		"Documentation", "Refactor", "Test", "Optimization",
		"Research", "Design", "Implementation", "Review",
	}
	descriptions = []string{
		"Core functionality", "User interface", "Performance improvement",
		"Bug fix", "New capability", "API integration", "Data validation",
		"Error handling", "Caching layer", "Database schema", "Authentication",
		"Configuration", "Logging system", "Monitoring", "Security audit",
	}
)

func generateText(index int) string {
	return fmt.Sprintf("%s #%d - %s",
		categories[index%len(categories)], index, descriptions[index%len(descriptions)])
}

func cloneOutline(o *model.Outline) *model.Outline {
	c := &model.Outline{Items: make([]*model.Item, 0, len(o.Items))}
	for _, item := range o.Items {
		c.Items = append(c.Items, cloneItem(item, nil))
	}
	return c
}

func cloneItem(item *model.Item, parent *model.Item) *model.Item {
	c := &model.Item{ID: item.ID, Text: item.Text, Parent: parent}
	if item.Metadata != nil {
		md := *item.Metadata
		md.Tags = append([]string(nil), item.Metadata.Tags...)
		md.Attributes = make(map[string]string, len(item.Metadata.Attributes))
		for k, v := range item.Metadata.Attributes {
			md.Attributes[k] = v
		}
		c.Metadata = &md
	}
	for _, child := range item.Children {
		c.Children = append(c.Children, cloneItem(child, c))
	}
	return c
}

// mutateOutline edits, removes or inserts items for percent of the nodes and
// returns how many edits it made
func mutateOutline(o *model.Outline, percent int, rng *rand.Rand) int {
	items := o.GetAllItems()
	edits := len(items) * percent / 100
	done := 0
	for range edits {
		items = o.GetAllItems()
		if len(items) == 0 {
			break
		}
		target := items[rng.IntN(len(items))]
		switch rng.IntN(3) {
		case 0:
			target.SetText(target.Text + " (revised)")
		case 1:
			if !removeItem(o, target) {
				continue
			}
		case 2:
			target.AddChild(model.NewItem(fmt.Sprintf("Inserted #%d - %s",
				done, descriptions[rng.IntN(len(descriptions))])))
		}
		done++
	}
	return done
}

func removeItem(o *model.Outline, target *model.Item) bool {
	siblings := &o.Items
	if target.Parent != nil {
		siblings = &target.Parent.Children
	}
	for i, item := range *siblings {
		if item == target {
			*siblings = append((*siblings)[:i], (*siblings)[i+1:]...)
			return true
		}
	}
	return false
}

func countAllNodes(o *model.Outline) int {
	return len(o.GetAllItems())
}
