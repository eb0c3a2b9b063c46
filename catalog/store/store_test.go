package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owid/catalog-go/catalog/metadata"
	"github.com/owid/catalog-go/catalog/path"
)

// testIndex covers charts, a dataset with common-block inheritance,
// and a second dataset for search ranking tests.
func testIndex() *Index {
	return &Index{
		Version: "1",
		Charts: []Chart{
			{
				Slug: "life-expectancy",
				Metadata: metadata.Record{
					Title:       "Life expectancy at birth",
					Description: metadata.Description{Short: "Period life expectancy."},
				},
			},
			{
				Slug:     "population-growth",
				Metadata: metadata.Record{Title: "Population growth rate"},
			},
		},
		Datasets: []Dataset{
			{
				Channel:   "garden",
				Namespace: "un",
				Version:   "2024-07-12",
				ShortName: "un_wpp",
				Metadata:  metadata.Record{Title: "World Population Prospects"},
				Common: &metadata.Record{
					License:         &metadata.License{Name: "CC BY 4.0"},
					Origins:         []metadata.Origin{{Producer: "United Nations"}},
					ProcessingLevel: metadata.ProcessingMinor,
				},
				Tables: []Table{
					{
						ShortName: "population",
						Metadata: metadata.Record{
							Title:    "Population",
							Checksum: "cc3337eb42becd5653a910908f75cfe5",
						},
						Common: &metadata.Record{Unit: "people"},
						Columns: []Column{
							{
								ShortName: "population",
								Metadata: metadata.Record{
									Title: "Population, mid-year estimates",
								},
							},
							{
								ShortName: "median_age",
								Metadata: metadata.Record{
									Title:           "Median age",
									Unit:            "years",
									ProcessingLevel: metadata.ProcessingMajor,
								},
							},
						},
					},
				},
			},
			{
				Channel:   "garden",
				Namespace: "worldbank_wdi",
				Version:   "2024-05-20",
				ShortName: "wdi",
				Tables: []Table{
					{
						ShortName: "wdi",
						Metadata:  metadata.Record{Title: "World Development Indicators"},
						Columns: []Column{
							{
								ShortName: "ny_gdp_mktp_cd",
								Metadata: metadata.Record{
									Title: "GDP (current US$)",
									Unit:  "current US$",
								},
							},
						},
					},
				},
			},
		},
	}
}

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(testIndex())
	require.NoError(t, err)
	return s
}

func mustParse(t *testing.T, raw string) path.Locator {
	t.Helper()
	loc, err := path.Parse(raw)
	require.NoError(t, err)
	return loc
}

func TestNew_IndexesAllEntries(t *testing.T) {
	s := testStore(t)

	// 2 charts + 2 tables + 3 columns.
	assert.Equal(t, 7, s.Len())
	assert.Len(t, s.Paths(path.KindChart), 2)
	assert.Len(t, s.Paths(path.KindTable), 2)
	assert.Len(t, s.Paths(path.KindIndicator), 3)
}

func TestLookup_Chart(t *testing.T) {
	s := testStore(t)

	rec, err := s.Lookup(mustParse(t, "life-expectancy"))
	require.NoError(t, err)
	assert.Equal(t, path.KindChart, rec.Kind)
	assert.Equal(t, "Life expectancy at birth", rec.Title)
}

func TestLookup_TableInheritsDatasetCommon(t *testing.T) {
	s := testStore(t)

	rec, err := s.Lookup(mustParse(t, "garden/un/2024-07-12/un_wpp/population"))
	require.NoError(t, err)

	assert.Equal(t, "Population", rec.Title)
	assert.Equal(t, []string{"population", "median_age"}, rec.Columns)
	// Inherited from the dataset common block.
	require.NotNil(t, rec.License)
	assert.Equal(t, "CC BY 4.0", rec.License.Name)
	assert.Equal(t, metadata.ProcessingMinor, rec.ProcessingLevel)
	require.Len(t, rec.Origins, 1)
	assert.Equal(t, "United Nations", rec.Origins[0].Producer)
}

func TestLookup_ColumnInheritance(t *testing.T) {
	s := testStore(t)

	// Unit inherited from the table common block, license from the
	// dataset common block; checksum flows down from the table.
	rec, err := s.Lookup(mustParse(t, "garden/un/2024-07-12/un_wpp/population#population"))
	require.NoError(t, err)
	assert.Equal(t, path.KindIndicator, rec.Kind)
	assert.Equal(t, "people", rec.Unit)
	assert.Equal(t, "CC BY 4.0", rec.License.Name)
	assert.Equal(t, metadata.ProcessingMinor, rec.ProcessingLevel)
	assert.Equal(t, "cc3337eb42becd5653a910908f75cfe5", rec.Checksum)

	// Overrides win over inherited values.
	rec, err = s.Lookup(mustParse(t, "garden/un/2024-07-12/un_wpp/population#median_age"))
	require.NoError(t, err)
	assert.Equal(t, "years", rec.Unit)
	assert.Equal(t, metadata.ProcessingMajor, rec.ProcessingLevel)
}

func TestLookup_NotFound(t *testing.T) {
	s := testStore(t)

	_, err := s.Lookup(mustParse(t, "garden/un/2024-07-12/un_wpp/deaths"))
	require.Error(t, err)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "garden/un/2024-07-12/un_wpp/deaths", notFound.Path)
}

func TestLookup_ReturnsCopies(t *testing.T) {
	s := testStore(t)
	loc := mustParse(t, "garden/un/2024-07-12/un_wpp/population")

	rec, err := s.Lookup(loc)
	require.NoError(t, err)
	rec.License.Name = "changed"
	rec.Columns[0] = "changed"

	again, err := s.Lookup(loc)
	require.NoError(t, err)
	assert.Equal(t, "CC BY 4.0", again.License.Name)
	assert.Equal(t, "population", again.Columns[0])
}

func TestContains(t *testing.T) {
	s := testStore(t)

	assert.True(t, s.Contains(mustParse(t, "life-expectancy")))
	assert.False(t, s.Contains(mustParse(t, "no-such-chart")))
}

func TestNew_RejectsDuplicates(t *testing.T) {
	idx := testIndex()
	idx.Charts = append(idx.Charts, Chart{Slug: "life-expectancy"})

	_, err := New(idx)
	assert.ErrorContains(t, err, "duplicate")
}

func TestNew_RejectsInvalidSegments(t *testing.T) {
	idx := &Index{Datasets: []Dataset{{
		Channel:   "garden",
		Namespace: "un data",
		Version:   "2024-07-12",
		ShortName: "un_wpp",
		Tables:    []Table{{ShortName: "population"}},
	}}}

	_, err := New(idx)
	require.Error(t, err)

	var invalid *path.InvalidPathError
	assert.ErrorAs(t, err, &invalid)
}
