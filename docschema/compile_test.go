package docschema

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCompiler() *Compiler {
	return NewCompiler(DefaultConventions(), nil)
}

func TestIngestTestdata(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	corpus := NewCorpus()
	require.NoError(testCompiler().IngestDir("testdata/docs", corpus))

	assert.Equal([]string{
		"UserRecord", "AdminUserRecord",
		"PrinterState", "TemperatureData", "TemperatureOffset", "JobInformation", "ProgressInformation",
		"FileInformation", "GcodeAnalysisInformation",
	}, classNames(corpus.Classes))
	assert.Equal([]string{"access", "datamodel", "files"}, corpus.Files())

	admin := corpus.Lookup("access", "AdminUserRecord")
	require.NotNil(admin)
	assert.Equal("UserRecord", admin.Parent)
	assert.Equal([]string{"admin", "groups", ""}, names(admin.Members))
	assert.NotNil(admin.Capture())

	state := corpus.Lookup("datamodel", "PrinterState")
	require.NotNil(state)
	assert.Equal("sec-api-datamodel-printer-state", state.Reference)
	assert.Equal([]string{"text", "flags"}, names(state.Members))
	assert.Equal([]string{"operational", "paused"}, names(state.Members[1].Fields))
	require.NotNil(state.Members[0].Description)
	assert.Equal(`A textual representation of the current state of the printer, e.g. "Operational" or "Printing".`, *state.Members[0].Description)

	temp := corpus.Lookup("datamodel", "TemperatureData")
	require.NotNil(temp)
	assert.Equal([]string{"actual", "target", "offset"}, names(temp.Members))

	job := corpus.Lookup("datamodel", "JobInformation")
	require.NotNil(job)
	assert.Equal([]string{"file", "estimatedPrintTime", "lastPrintTime", "filament"}, names(job.Members))
	assert.Equal(KindReference, job.Members[0].Type)
	assert.True(job.Members[3].Optional)
	assert.Equal([]string{"length", "volume"}, names(job.Members[3].Fields))
}

func TestBuildTestdata(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	cc := testCompiler()
	corpus := NewCorpus()
	require.NoError(cc.IngestDir("testdata/docs", corpus))

	units, err := cc.Build(corpus)
	require.NoError(err)
	require.Len(units, 3)
	assert.Equal("access.go", units[0].Name)
	assert.Equal("datamodel.go", units[1].Name)
	assert.Equal("files.go", units[2].Name)

	assert.Equal("FileInformation", corpus.Lookup("datamodel", "JobInformation").Members[0].Class)
	assert.Equal("GcodeAnalysisInformation", corpus.Lookup("files", "FileInformation").Members[3].Class)

	// independent classes come before the ones referencing others
	files := string(units[2].Source)
	assert.Less(strings.Index(files, "type GcodeAnalysisInformation struct"), strings.Index(files, "type FileInformation struct"))
	dm := string(units[1].Source)
	assert.Less(strings.Index(dm, "type ProgressInformation struct"), strings.Index(dm, "type JobInformation struct"))

	src := squash(dm)
	assert.Contains(src, "File FileInformation `json:\"file\"`")
	assert.Contains(src, "Tool []any `json:\"tool,omitempty\"`")
	assert.Contains(src, "Flags PrinterState_Flags `json:\"flags\"`")
	assert.Contains(src, "Filament *JobInformation_Filament `json:\"filament,omitempty\"`")

	access := squash(string(units[0].Source))
	assert.Contains(access, "type AdminUserRecord struct { UserRecord")
	assert.Contains(access, "func NewAdminUserRecord(admin bool, groups []any, parent UserRecord, extra map[string]any) *AdminUserRecord {")
}

func TestDependencyOrderEndToEnd(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	doc := `
B thing
-------

   * - Name
     - Description
   * - ` + "``a``" + `
     - 1
     - :ref:` + "`a`" + `
     - the A

.. _a:

A thing
-------

   * - Name
     - Description
   * - ` + "``x``" + `
     - 0..1
     - String
     - x
`
	cc := testCompiler()
	classes, err := cc.ReadDocument("things.rst", strings.NewReader(doc))
	require.NoError(err)
	corpus := NewCorpus()
	for _, cls := range classes {
		require.NoError(corpus.Add(cls))
	}
	assert.Equal([]string{"BThing", "AThing"}, classNames(corpus.Classes))

	units, err := cc.Build(corpus)
	require.NoError(err)
	require.Len(units, 1)
	src := string(units[0].Source)
	assert.Less(strings.Index(src, "type AThing struct"), strings.Index(src, "type BThing struct"))
}

func TestIngestErrorsAreFatal(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	good := "Good\n-----\n\n   - Description\n   * - ``a``\n     - 1\n     - String\n     - a\n"
	bad := "Bad\n-----\n\n   - Description\n   * - ``a``\n     - 1\n     - Gizmo\n     - a\n"
	assert.NoError(os.WriteFile(filepath.Join(dir, "a.rst"), []byte(good), 0644))
	assert.NoError(os.WriteFile(filepath.Join(dir, "b.rst"), []byte(bad), 0644))

	err := testCompiler().IngestDir(dir, NewCorpus())
	var ute *UnknownTypeError
	if assert.True(errors.As(err, &ute)) {
		assert.Equal("Gizmo", ute.Token)
		assert.Equal("b.rst", ute.File)
	}
}

func TestWriteOutput(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	cc := testCompiler()
	corpus := NewCorpus()
	require.NoError(cc.IngestDir("testdata/docs", corpus))
	units, err := cc.Build(corpus)
	require.NoError(err)

	out := filepath.Join(t.TempDir(), "gen")
	require.NoError(WriteOutput(out, units, corpus, OutputOptions{}))

	entries, err := os.ReadDir(out)
	require.NoError(err)
	var got []string
	for _, e := range entries {
		got = append(got, e.Name())
	}
	assert.Equal([]string{"access.go", "all_datamodels.json", "datamodel.go", "files.go"}, got)

	// the snapshot can be emitted again
	loaded, err := LoadCorpus(filepath.Join(out, DefaultCorpusFile))
	require.NoError(err)
	again, err := cc.Build(loaded)
	require.NoError(err)
	assert.Equal(units, again)

	// existing output needs force
	err = WriteOutput(out, units, corpus, OutputOptions{})
	var oce *OutputConflictError
	assert.True(errors.As(err, &oce))

	require.NoError(os.WriteFile(filepath.Join(out, "stale.go"), []byte("package datamodel\n"), 0644))
	require.NoError(WriteOutput(out, units[:1], corpus, OutputOptions{Force: true, CorpusFile: "corpus.json"}))
	entries, err = os.ReadDir(out)
	require.NoError(err)
	got = nil
	for _, e := range entries {
		got = append(got, e.Name())
	}
	assert.Equal([]string{"access.go", "corpus.json"}, got)

	// nothing but the output directory is left in its parent
	siblings, err := os.ReadDir(filepath.Dir(out))
	require.NoError(err)
	assert.Len(siblings, 1)
}

func TestCheckOutput(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	assert.NoError(CheckOutput(filepath.Join(dir, "missing"), false))
	assert.NoError(CheckOutput(dir, true))
	var oce *OutputConflictError
	assert.True(errors.As(CheckOutput(dir, false), &oce))
}

func TestParseDocumentRejectsRowsAfterTable(t *testing.T) {
	assert := assert.New(t)

	doc := strings.Join([]string{
		"Widget",
		"------",
		"",
		"   - Description",
		"   * - ``a``",
		"     - 1",
		"     - String",
		"     - a",
		"",
		"Stray paragraph.",
		"",
		"   * - ``b``",
		"     - 1",
		"     - String",
		"     - b",
	}, "\n")
	_, err := testCompiler().ReadDocument("w.rst", strings.NewReader(doc))
	var pe *ParseError
	if assert.True(errors.As(err, &pe)) {
		assert.Equal("b", pe.Member)
		assert.Equal("w.rst", pe.File)
	}
}
