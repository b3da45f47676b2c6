package main

import (
	"fmt"
	"log/slog"

	"github.com/pyrest-octoprint/docgen/docschema"

	"github.com/urfave/cli/v2"
)

var outputFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "corpus-file",
		Aliases: []string{"j"},
		Usage:   "name for the JSON file, in the output directory, holding the parsed class data",
		Value:   docschema.DefaultCorpusFile,
		EnvVars: []string{"DOCGEN_CORPUS_FILE"},
	},
	&cli.BoolFlag{
		Name:    "force",
		Aliases: []string{"f"},
		Usage:   "force overwriting of the output directory",
	},
	&cli.StringFlag{
		Name:    "package",
		Usage:   "Go package name for generated code (overrides config)",
		EnvVars: []string{"DOCGEN_PACKAGE"},
	},
}

var cmdCompile = &cli.Command{
	Name:      "compile",
	Usage:     "parse documentation and generate Go types",
	ArgsUsage: `<docs-dir> <output-dir>`,
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:  "extend",
			Usage: "path to an existing corpus file to add the parsed documents to",
		},
	}, outputFlags...),
	Action: runCompile,
}

var cmdEmit = &cli.Command{
	Name:      "emit",
	Usage:     "generate Go types from a previously written corpus file",
	ArgsUsage: `<corpus-file> <output-dir>`,
	Flags:     outputFlags,
	Action:    runEmit,
}

func compilerFromFlags(cctx *cli.Context) (*docschema.Compiler, error) {
	conv, err := loadConventions(cctx.String("config"))
	if err != nil {
		return nil, err
	}
	if cctx.IsSet("package") {
		conv.Package = cctx.String("package")
	}
	return docschema.NewCompiler(conv, slog.Default()), nil
}

func runCompile(cctx *cli.Context) error {
	if cctx.Args().Len() != 2 {
		return fmt.Errorf("expected <docs-dir> and <output-dir> arguments")
	}
	docsDir := cctx.Args().Get(0)
	outDir := cctx.Args().Get(1)

	cc, err := compilerFromFlags(cctx)
	if err != nil {
		return err
	}
	// fail before doing any work
	if err := docschema.CheckOutput(outDir, cctx.Bool("force")); err != nil {
		return err
	}

	corpus := docschema.NewCorpus()
	if p := cctx.String("extend"); p != "" {
		corpus, err = docschema.LoadCorpus(p)
		if err != nil {
			return fmt.Errorf("--extend: %w", err)
		}
	}
	if err := cc.IngestDir(docsDir, corpus); err != nil {
		return err
	}
	return buildAndWrite(cctx, cc, corpus, outDir)
}

func runEmit(cctx *cli.Context) error {
	if cctx.Args().Len() != 2 {
		return fmt.Errorf("expected <corpus-file> and <output-dir> arguments")
	}
	outDir := cctx.Args().Get(1)

	cc, err := compilerFromFlags(cctx)
	if err != nil {
		return err
	}
	if err := docschema.CheckOutput(outDir, cctx.Bool("force")); err != nil {
		return err
	}
	corpus, err := docschema.LoadCorpus(cctx.Args().Get(0))
	if err != nil {
		return err
	}
	return buildAndWrite(cctx, cc, corpus, outDir)
}

func buildAndWrite(cctx *cli.Context, cc *docschema.Compiler, corpus *docschema.Corpus, outDir string) error {
	units, err := cc.Build(corpus)
	if err != nil {
		return err
	}
	opts := docschema.OutputOptions{
		Force:      cctx.Bool("force"),
		CorpusFile: cctx.String("corpus-file"),
	}
	if err := docschema.WriteOutput(outDir, units, corpus, opts); err != nil {
		return err
	}
	slog.Info("generated Go types", "classes", corpus.Len(), "units", len(units), "dir", outDir)
	fmt.Fprintf(cctx.App.ErrWriter, "done: %d classes in %d files written to %s\n", corpus.Len(), len(units), outDir)
	return nil
}
