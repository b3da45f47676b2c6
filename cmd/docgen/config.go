package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/adrg/xdg"
	"github.com/pyrest-octoprint/docgen/docschema"
	"gopkg.in/yaml.v3"
)

const configRelPath = "docgen/config.yaml"

// loadConventions reads document conventions from path, or from the first
// docgen/config.yaml found in the XDG config directories when path is
// empty. Keys missing from the file keep their default values.
func loadConventions(path string) (docschema.Conventions, error) {
	conv := docschema.DefaultConventions()
	if path == "" {
		found, err := xdg.SearchConfigFile(configRelPath)
		if err != nil {
			slog.Debug("no config file found, using default conventions")
			return conv, nil
		}
		path = found
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return conv, fmt.Errorf("reading config: %w", err)
	}
	if err := parseConventions(b, &conv); err != nil {
		return conv, fmt.Errorf("config %s: %w", path, err)
	}
	slog.Debug("loaded config", "path", path)
	return conv, nil
}

func parseConventions(b []byte, conv *docschema.Conventions) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(conv); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
