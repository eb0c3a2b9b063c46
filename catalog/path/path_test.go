package path

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_TablePath(t *testing.T) {
	loc, err := Parse("garden/un/2024-07-12/un_wpp/population")
	require.NoError(t, err)

	assert.Equal(t, KindTable, loc.Kind)
	assert.Equal(t, "garden", loc.Channel)
	assert.Equal(t, "un", loc.Namespace)
	assert.Equal(t, "2024-07-12", loc.Version)
	assert.Equal(t, "un_wpp", loc.Dataset)
	assert.Equal(t, "population", loc.Table)
	assert.Empty(t, loc.Slug)
	assert.Empty(t, loc.Column)
}

func TestParse_IndicatorPath(t *testing.T) {
	loc, err := Parse("garden/un/2024-07-12/un_wpp/population#population")
	require.NoError(t, err)

	assert.Equal(t, KindIndicator, loc.Kind)
	assert.Equal(t, "population", loc.Column)

	// The table prefix equals the parse of the table path alone.
	table, err := Parse("garden/un/2024-07-12/un_wpp/population")
	require.NoError(t, err)
	assert.Equal(t, table, loc.TablePrefix())
}

func TestParse_ChartSlug(t *testing.T) {
	loc, err := Parse("life-expectancy")
	require.NoError(t, err)

	assert.Equal(t, KindChart, loc.Kind)
	assert.Equal(t, "life-expectancy", loc.Slug)
	assert.Empty(t, loc.Channel)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"empty", ""},
		{"whitespace", "not a valid path"},
		{"too few segments", "garden/un/2024-07-12/un_wpp"},
		{"too many segments", "garden/un/2024-07-12/un_wpp/population/extra"},
		{"empty segment", "garden//2024-07-12/un_wpp/population"},
		{"column without table", "life-expectancy#population"},
		{"missing column", "garden/un/2024-07-12/un_wpp/population#"},
		{"column with spaces", "garden/un/2024-07-12/un_wpp/population#not valid"},
		{"uppercase slug", "Life-Expectancy"},
		{"segment with spaces", "garden/un things/2024-07-12/un_wpp/population"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.path)
			require.Error(t, err)

			var invalid *InvalidPathError
			assert.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.path, invalid.Path)
		})
	}
}

func TestParse_ChartSlugWithSlashIsNotAChart(t *testing.T) {
	// Anything containing a slash must satisfy the table grammar.
	_, err := Parse("grapher/life-expectancy")
	var invalid *InvalidPathError
	require.ErrorAs(t, err, &invalid)
}

func TestLocator_StringRoundTrip(t *testing.T) {
	paths := []string{
		"life-expectancy",
		"population",
		"garden/un/2024-07-12/un_wpp/population",
		"grapher/demography/latest/life_expectancy/life_expectancy",
		"garden/un/2024-07-12/un_wpp/population#population",
		"garden/worldbank_wdi/2024-05-20/wdi/wdi#ny_gdp_mktp_cd",
	}

	for _, p := range paths {
		loc, err := Parse(p)
		require.NoError(t, err, p)
		assert.Equal(t, p, loc.String(), "round trip for %q", p)

		// Parsing is deterministic.
		again, err := Parse(p)
		require.NoError(t, err)
		assert.Equal(t, loc, again)
	}
}

func TestLocator_TablePrefix(t *testing.T) {
	loc, err := Parse("garden/un/2024-07-12/un_wpp/population#median_age")
	require.NoError(t, err)

	prefix := loc.TablePrefix()
	assert.Equal(t, KindTable, prefix.Kind)
	assert.Empty(t, prefix.Column)
	assert.Equal(t, "garden/un/2024-07-12/un_wpp/population", prefix.String())

	chart, err := Parse("life-expectancy")
	require.NoError(t, err)
	assert.Equal(t, Locator{}, chart.TablePrefix())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "any", KindAny.String())
	assert.Equal(t, "chart", KindChart.String())
	assert.Equal(t, "table", KindTable.String())
	assert.Equal(t, "indicator", KindIndicator.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
