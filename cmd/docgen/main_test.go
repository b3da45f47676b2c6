package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pyrest-octoprint/docgen/docschema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const docsDir = "../../docschema/testdata/docs"

func TestCompileCommand(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	cfg := "testdata/config.yaml"
	out := filepath.Join(t.TempDir(), "out")
	require.NoError(run([]string{"docgen", "--config", cfg, "compile", docsDir, out}))

	b, err := os.ReadFile(filepath.Join(out, "datamodel.go"))
	require.NoError(err)
	assert.True(strings.Contains(string(b), "package octoprint"))
	_, err = os.Stat(filepath.Join(out, docschema.DefaultCorpusFile))
	assert.NoError(err)

	// refuses to overwrite without --force
	err = run([]string{"docgen", "--config", cfg, "compile", docsDir, out})
	var oce *docschema.OutputConflictError
	assert.True(errors.As(err, &oce))

	require.NoError(run([]string{"docgen", "--config", cfg, "compile", "--force", "-j", "models.json", "--package", "models", docsDir, out}))
	b, err = os.ReadFile(filepath.Join(out, "access.go"))
	require.NoError(err)
	assert.True(strings.Contains(string(b), "package models"))
	_, err = os.Stat(filepath.Join(out, "models.json"))
	assert.NoError(err)

	// emit from the stored corpus in to a fresh directory
	out2 := filepath.Join(t.TempDir(), "out2")
	require.NoError(run([]string{"docgen", "--config", cfg, "emit", filepath.Join(out, "models.json"), out2}))
	b2, err := os.ReadFile(filepath.Join(out2, "access.go"))
	require.NoError(err)
	assert.True(strings.Contains(string(b2), "package octoprint"))
}

func TestCompileCommandExtend(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	cfg := "testdata/config.yaml"
	out := filepath.Join(t.TempDir(), "out")
	require.NoError(run([]string{"docgen", "--config", cfg, "compile", docsDir, out}))

	// documents already in the stored corpus are defined twice
	err := run([]string{"docgen", "--config", cfg, "compile", "--extend", filepath.Join(out, docschema.DefaultCorpusFile), docsDir, filepath.Join(t.TempDir(), "x")})
	var dde *docschema.DuplicateDefinitionError
	assert.True(errors.As(err, &dde))

	extra := t.TempDir()
	require.NoError(os.WriteFile(filepath.Join(extra, "widgets.rst"), []byte(strings.Join([]string{
		"Widget",
		"------",
		"",
		"   - Description",
		"   * - ``job``",
		"     - 1",
		"     - :ref:`Job <sec-api-datamodel-jobs-job>`",
		"     - the job",
	}, "\n")), 0644))
	out2 := filepath.Join(t.TempDir(), "out2")
	require.NoError(run([]string{"docgen", "--config", cfg, "compile", "--extend", filepath.Join(out, docschema.DefaultCorpusFile), extra, out2}))

	corpus, err := docschema.LoadCorpus(filepath.Join(out2, docschema.DefaultCorpusFile))
	require.NoError(err)
	widget := corpus.Lookup("widgets", "Widget")
	require.NotNil(widget)
	assert.Equal("JobInformation", widget.Members[0].Class)
	assert.Equal(10, corpus.Len())
}

func TestCompileCommandErrors(t *testing.T) {
	assert := assert.New(t)

	err := run([]string{"docgen", "--log-level", "loud", "inspect", "nope.json"})
	assert.ErrorContains(err, "invalid --log-level")
	assert.NoError(run([]string{"docgen", "--log-level", "DEBUG", "--config", "testdata/config.yaml", "compile", docsDir, filepath.Join(t.TempDir(), "dbg")}))

	assert.Error(run([]string{"docgen", "compile", docsDir}))
	assert.Error(run([]string{"docgen", "emit", "nope.json", filepath.Join(t.TempDir(), "out")}))

	bad := t.TempDir()
	assert.NoError(os.WriteFile(filepath.Join(bad, "a.rst"), []byte("Thing\n-----\n\n   - Description\n   * - ``x``\n     - 1\n     - :ref:`missing`\n     - x\n"), 0644))
	out := filepath.Join(t.TempDir(), "out")
	err = run([]string{"docgen", "--config", "testdata/config.yaml", "compile", bad, out})
	var ure *docschema.UnresolvedReferenceError
	if assert.True(errors.As(err, &ure)) {
		assert.Equal("missing", ure.Key)
	}
	// no partial output
	_, err = os.Stat(out)
	assert.True(os.IsNotExist(err))
}

func TestCorpusTree(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	corpus := docschema.NewCorpus()
	require.NoError(docschema.NewCompiler(docschema.DefaultConventions(), nil).IngestDir(docsDir, corpus))

	tree := corpusTree(corpus, true).String()
	assert.Contains(tree, "corpus (9 classes)")
	assert.Contains(tree, "UserRecord [sec-api-access-datamodel-users]")
	assert.Contains(tree, "AdminUserRecord")
	assert.Contains(tree, "[string]  text")
	assert.Contains(tree, "<extra>")

	// subsections hang off their parent class
	lines := strings.Split(tree, "\n")
	var userDepth, adminDepth int
	for _, l := range lines {
		if strings.Contains(l, "UserRecord [") {
			userDepth = strings.Index(l, "UserRecord")
		}
		if strings.Contains(l, "AdminUserRecord") {
			adminDepth = strings.Index(l, "AdminUserRecord")
		}
	}
	assert.Greater(adminDepth, userDepth)

	short := corpusTree(corpus, false).String()
	assert.NotContains(short, "text")
}
