package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "docgen",
		Usage:   "compile API data model documentation in to Go types",
		Version: versioninfo.Short(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log verbosity level (eg: warn, info, debug)",
				Value:   "warn",
				EnvVars: []string{"DOCGEN_LOG_LEVEL", "LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to YAML file with document conventions (default: docgen/config.yaml in XDG config dirs)",
				EnvVars: []string{"DOCGEN_CONFIG"},
			},
		},
		Before: func(cctx *cli.Context) error {
			_, err := configLogger(cctx, os.Stderr)
			return err
		},
	}
	app.Commands = []*cli.Command{
		cmdCompile,
		cmdEmit,
		cmdInspect,
	}
	return app.Run(args)
}
