package main

import (
	"fmt"

	"github.com/pyrest-octoprint/docgen/docschema"

	"github.com/urfave/cli/v2"
	"github.com/xlab/treeprint"
)

var cmdInspect = &cli.Command{
	Name:      "inspect",
	Usage:     "print the classes of a corpus file as a tree",
	ArgsUsage: `<corpus-file>`,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "classes-only",
			Usage: "omit members",
		},
	},
	Action: runInspect,
}

func runInspect(cctx *cli.Context) error {
	if cctx.Args().Len() != 1 {
		return fmt.Errorf("expected a single <corpus-file> argument")
	}
	corpus, err := docschema.LoadCorpus(cctx.Args().First())
	if err != nil {
		return err
	}
	tree := corpusTree(corpus, !cctx.Bool("classes-only"))
	fmt.Fprint(cctx.App.Writer, tree.String())
	return nil
}

// corpusTree renders files, then classes nested under their parents, then
// members.
func corpusTree(corpus *docschema.Corpus, members bool) treeprint.Tree {
	tree := treeprint.NewWithRoot(fmt.Sprintf("corpus (%d classes)", corpus.Len()))
	for _, file := range corpus.Files() {
		fbranch := tree.AddBranch(file)
		nodes := make(map[string]treeprint.Tree)
		for _, cls := range corpus.Classes {
			if cls.File != file {
				continue
			}
			parent := fbranch
			if p, ok := nodes[cls.Parent]; ok && cls.Parent != "" {
				parent = p
			}
			label := cls.Name
			if cls.Reference != "" {
				label = fmt.Sprintf("%s [%s]", cls.Name, cls.Reference)
			}
			node := parent.AddBranch(label)
			nodes[cls.Name] = node
			if members {
				addMembers(node, cls.Members)
			}
		}
	}
	return tree
}

func addMembers(node treeprint.Tree, members []docschema.Member) {
	for _, m := range members {
		name := m.Name
		if m.IsCapture() {
			name = "<extra>"
		}
		typ := string(m.Type)
		if m.Type == docschema.KindReference {
			typ = m.Ref
			if m.Class != "" {
				typ = m.Class
			}
		}
		if m.Optional {
			typ += ", optional"
		}
		if len(m.Fields) > 0 {
			addMembers(node.AddMetaBranch(typ, name), m.Fields)
			continue
		}
		node.AddMetaNode(typ, name)
	}
}
