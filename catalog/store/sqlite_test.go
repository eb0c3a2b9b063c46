package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owid/catalog-go/catalog/metadata"
)

func writeCatalogDB(t *testing.T) string {
	t.Helper()

	file := filepath.Join(t.TempDir(), "catalog.db")
	db, err := sql.Open("sqlite3", file)
	require.NoError(t, err)
	defer db.Close()

	schema := `
	CREATE TABLE charts (slug TEXT PRIMARY KEY, title TEXT, description_short TEXT, topic_tags TEXT);
	CREATE TABLE datasets (id INTEGER PRIMARY KEY, channel TEXT, namespace TEXT, version TEXT,
		short_name TEXT, title TEXT, license_name TEXT, license_url TEXT);
	CREATE TABLE dataset_tables (id INTEGER PRIMARY KEY, dataset_id INTEGER, short_name TEXT,
		title TEXT, checksum TEXT);
	CREATE TABLE table_columns (table_id INTEGER, short_name TEXT, title TEXT, unit TEXT,
		short_unit TEXT, description_short TEXT, processing_level TEXT);
	`
	_, err = db.Exec(schema)
	require.NoError(t, err)

	_, err = db.Exec(`
	INSERT INTO charts VALUES ('life-expectancy', 'Life expectancy at birth', 'Period life expectancy.', 'Life Expectancy, Health');
	INSERT INTO datasets VALUES (1, 'garden', 'un', '2024-07-12', 'un_wpp', 'World Population Prospects', 'CC BY 4.0', 'https://creativecommons.org/licenses/by/4.0/');
	INSERT INTO dataset_tables VALUES (10, 1, 'population', 'Population', 'cc3337eb42becd5653a910908f75cfe5');
	INSERT INTO table_columns VALUES (10, 'population', 'Population, mid-year estimates', 'people', '', 'Mid-year population.', 'minor');
	INSERT INTO table_columns VALUES (10, 'median_age', 'Median age', 'years', '', '', 'major');
	`)
	require.NoError(t, err)

	return file
}

func TestLoadSQLiteIndex(t *testing.T) {
	idx, err := LoadSQLiteIndex(writeCatalogDB(t))
	require.NoError(t, err)

	require.Len(t, idx.Charts, 1)
	assert.Equal(t, "life-expectancy", idx.Charts[0].Slug)
	assert.Equal(t, []string{"Life Expectancy", "Health"}, idx.Charts[0].Metadata.Presentation.TopicTags)

	require.Len(t, idx.Datasets, 1)
	ds := idx.Datasets[0]
	assert.Equal(t, "un_wpp", ds.ShortName)
	require.NotNil(t, ds.Common)
	assert.Equal(t, "CC BY 4.0", ds.Common.License.Name)

	require.Len(t, ds.Tables, 1)
	assert.Equal(t, "cc3337eb42becd5653a910908f75cfe5", ds.Tables[0].Metadata.Checksum)
	require.Len(t, ds.Tables[0].Columns, 2)
}

func TestLoadSQLiteIndex_BuildsStore(t *testing.T) {
	idx, err := LoadSQLiteIndex(writeCatalogDB(t))
	require.NoError(t, err)

	s, err := New(idx)
	require.NoError(t, err)

	rec, err := s.Lookup(mustParse(t, "garden/un/2024-07-12/un_wpp/population#median_age"))
	require.NoError(t, err)
	assert.Equal(t, "years", rec.Unit)
	assert.Equal(t, metadata.ProcessingMajor, rec.ProcessingLevel)
	// License inherited from the dataset row.
	require.NotNil(t, rec.License)
	assert.Equal(t, "CC BY 4.0", rec.License.Name)
}
