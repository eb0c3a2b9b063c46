package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owid/catalog-go/catalog/client"
)

const testConfigYAML = `
catalog:
  dir: data
  index_file: index.yml
cache:
  backend: none
`

const testIndexYAML = `
version: "1"
charts:
  - slug: life-expectancy
    metadata:
      title: Life expectancy at birth
datasets:
  - channel: garden
    namespace: un
    version: 2024-07-12
    short_name: un_wpp
    common:
      license:
        name: CC BY 4.0
    tables:
      - short_name: population
        metadata:
          title: Population
        columns:
          - short_name: population
            metadata:
              title: Population, mid-year estimates
              unit: people
`

const testPopulationCSV = "country,year,population,source\nFrance,2023,68170000,census\nJapan,2023,124500000,census\n"

// writeTestCatalog lays out a working catalog in a temp directory and
// runs the test from it: catalog.yml, a YAML index and payload files.
func writeTestCatalog(t *testing.T) {
	t.Helper()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.yml"), []byte(testConfigYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.yml"), []byte(testIndexYAML), 0o644))

	tableDir := filepath.Join(dir, "data", "garden", "un", "2024-07-12", "un_wpp")
	require.NoError(t, os.MkdirAll(tableDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tableDir, "population.csv"), []byte(testPopulationCSV), 0o644))

	chartsDir := filepath.Join(dir, "data", "charts")
	require.NoError(t, os.MkdirAll(chartsDir, 0o755))
	chartCSV := "country,year,life_expectancy\nFrance,2023,82.5\n"
	require.NoError(t, os.WriteFile(filepath.Join(chartsDir, "life-expectancy.csv"), []byte(chartCSV), 0o644))

	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(old) })
}

// runCommand executes the CLI against the test catalog and captures
// its output.
func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestSearchCommand(t *testing.T) {
	writeTestCatalog(t)

	out, _, err := runCommand(t, "search", "population")
	require.NoError(t, err)

	assert.Contains(t, out, "PATH")
	assert.Contains(t, out, "garden/un/2024-07-12/un_wpp/population")
	assert.Contains(t, out, "garden/un/2024-07-12/un_wpp/population#population")
}

func TestSearchCommand_KindFilter(t *testing.T) {
	writeTestCatalog(t)

	out, _, err := runCommand(t, "search", "population", "--kind", "indicator")
	require.NoError(t, err)

	assert.Contains(t, out, "#population")
	for _, line := range strings.Split(out, "\n")[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		assert.Contains(t, line, "indicator")
	}
}

func TestSearchCommand_NoResults(t *testing.T) {
	writeTestCatalog(t)

	out, _, err := runCommand(t, "search", "zzzzzzzz")
	require.NoError(t, err)
	assert.Contains(t, out, "No results")
}

func TestFetchCommand_Table(t *testing.T) {
	writeTestCatalog(t)

	out, _, err := runCommand(t, "fetch", "garden/un/2024-07-12/un_wpp/population")
	require.NoError(t, err)

	assert.Contains(t, out, "country,year,population,source")
	assert.Contains(t, out, "France,2023,68170000,census")
	assert.Contains(t, out, "Japan,2023,124500000,census")
}

func TestFetchCommand_IndicatorNarrowsColumns(t *testing.T) {
	writeTestCatalog(t)

	out, _, err := runCommand(t, "fetch", "garden/un/2024-07-12/un_wpp/population#population")
	require.NoError(t, err)

	assert.Contains(t, out, "country,year,population")
	assert.NotContains(t, out, "source")
	assert.NotContains(t, out, "census")
}

func TestFetchCommand_JSON(t *testing.T) {
	writeTestCatalog(t)

	out, _, err := runCommand(t, "fetch", "life-expectancy", "--format", "json")
	require.NoError(t, err)

	assert.Contains(t, out, `"columns"`)
	assert.Contains(t, out, `"life_expectancy"`)
	assert.Contains(t, out, `"82.5"`)
}

func TestFetchCommand_WritesFile(t *testing.T) {
	writeTestCatalog(t)

	out, _, err := runCommand(t, "fetch", "life-expectancy", "--out", "out.csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 1 row(s) to out.csv")

	data, err := os.ReadFile("out.csv")
	require.NoError(t, err)
	assert.Contains(t, string(data), "France,2023,82.5")
}

func TestFetchCommand_OutFileCreateFails(t *testing.T) {
	writeTestCatalog(t)

	target := filepath.Join("missing-dir", "out.csv")
	_, _, err := runCommand(t, "fetch", "life-expectancy", "--out", target)
	assert.ErrorContains(t, err, "failed to create output file")
}

func TestFetchCommand_NotFound(t *testing.T) {
	writeTestCatalog(t)

	_, errOut, err := runCommand(t, "fetch", "garden/un/2024-07-12/un_wpp/populaton")
	require.Error(t, err)
	assert.True(t, client.IsNotFound(err))
	assert.Contains(t, errOut, "PATH NOT FOUND")
	assert.Contains(t, errOut, "Did you mean: garden/un/2024-07-12/un_wpp/population?")
}

func TestFetchCommand_InvalidPath(t *testing.T) {
	writeTestCatalog(t)

	_, errOut, err := runCommand(t, "fetch", "garden/un/too/few")
	require.Error(t, err)
	assert.True(t, client.IsInvalidPath(err))
	assert.Contains(t, errOut, "INVALID PATH")
}

func TestFetchCommand_UnknownFormat(t *testing.T) {
	writeTestCatalog(t)

	_, _, err := runCommand(t, "fetch", "life-expectancy", "--format", "xml")
	assert.ErrorContains(t, err, `unknown format "xml"`)
}

func TestInspectCommand_YAML(t *testing.T) {
	writeTestCatalog(t)

	out, _, err := runCommand(t, "inspect", "garden/un/2024-07-12/un_wpp/population#population")
	require.NoError(t, err)

	assert.Contains(t, out, "kind: indicator")
	assert.Contains(t, out, "title: Population, mid-year estimates")
	assert.Contains(t, out, "unit: people")
	assert.Contains(t, out, "name: CC BY 4.0")
}

func TestInspectCommand_JSON(t *testing.T) {
	writeTestCatalog(t)

	out, _, err := runCommand(t, "inspect", "life-expectancy", "--format", "json")
	require.NoError(t, err)

	assert.Contains(t, out, `"kind": "chart"`)
	assert.Contains(t, out, `"title": "Life expectancy at birth"`)
}

func TestInspectCommand_DoesNotTouchPayloads(t *testing.T) {
	writeTestCatalog(t)

	// Remove the payload files; metadata inspection must still work.
	require.NoError(t, os.RemoveAll("data"))
	require.NoError(t, os.MkdirAll("data", 0o755))

	out, _, err := runCommand(t, "inspect", "garden/un/2024-07-12/un_wpp/population")
	require.NoError(t, err)
	assert.Contains(t, out, "title: Population")
}

func TestFetchCommand_DataUnavailable(t *testing.T) {
	writeTestCatalog(t)

	require.NoError(t, os.Remove(filepath.Join("data", "charts", "life-expectancy.csv")))

	_, errOut, err := runCommand(t, "fetch", "life-expectancy")
	require.Error(t, err)
	assert.True(t, client.IsDataUnavailable(err))
	assert.Contains(t, errOut, "DATA UNAVAILABLE")
}
