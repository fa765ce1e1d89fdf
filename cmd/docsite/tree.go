package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/qaflag/qaflag-docs/internal/content"
	"github.com/qaflag/qaflag-docs/internal/navtree"
)

var (
	categoryStyle = lipgloss.NewStyle().Bold(true)
	idStyle       = lipgloss.NewStyle().Faint(true)
	missingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func newTreeCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the navigation tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sidebars := navtree.Default()
			if a.cfg.SidebarsPath != "" {
				var err error
				sidebars, err = navtree.Load(a.cfg.Path(a.cfg.SidebarsPath))
				if err != nil {
					return err
				}
			}
			names := sidebars.Names()
			if name != "" {
				if _, ok := sidebars.Get(name); !ok {
					return fmt.Errorf("unknown sidebar %q", name)
				}
				names = []string{name}
			}
			// Flag entries without a document when the docs tree loads.
			var known func(string) bool
			store, err := content.Open(os.DirFS(a.cfg.Path(a.cfg.DocsDir)), content.Options{Log: a.log})
			if err != nil {
				a.log.Debug("docs not loaded, skipping id check", "error", err)
			} else {
				known = store.Has
			}
			for _, n := range names {
				sb, _ := sidebars.Get(n)
				printTree(cmd.OutOrStdout(), sb, known)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "sidebar", "", "print only this sidebar")
	return cmd
}

// printTree writes sb as a tree. Doc ids for which known returns false are
// flagged; known may be nil.
func printTree(w io.Writer, sb *navtree.Sidebar, known func(id string) bool) {
	t := tree.Root(sb.Name()).Enumerator(tree.RoundedEnumerator)
	addNodes(t, sb.Items(), known)
	fmt.Fprintln(w, t)
}

func addNodes(t *tree.Tree, nodes []navtree.Node, known func(id string) bool) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *navtree.Category:
			sub := tree.Root(categoryStyle.Render(n.Label()))
			addNodes(sub, n.Items(), known)
			t.Child(sub)
		case *navtree.DocRef:
			label := n.Label() + " " + idStyle.Render("("+n.ID()+")")
			if known != nil && !known(n.ID()) {
				label += " " + missingStyle.Render("missing")
			}
			t.Child(label)
		}
	}
}
