package population

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Rank,CCA3,Country,2022,2020,2015,2010,2000,1990,1980,1970
1,CHN,China,1425887337,1424929781,1393715448,1348191368,1264099069,1153704252,982372466,822534450
2,IND,India,1417173173,1396387127,1322866505,1240613620,1059633675,870452165,696828385,557501301
3,USA,United States,338289857,335942003,324607776,311182845,282398554,248083732,223140018,200328340
4,XXX,,1,2,3,4,5,6,7,8
`

func TestParseAndProject(t *testing.T) {
	ds, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Len())
	assert.True(t, ds.hasColumn("Country"))
	assert.Equal(t, Years, ds.AvailableYears())

	entries, err := ds.Project("2020")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, Entry{Country: "China", Population: 1424929781}, entries[0])
	assert.Equal(t, "United States", entries[2].Country)
}

func TestParseTrimsHeaderAndBOM(t *testing.T) {
	ds, err := Parse(strings.NewReader("\ufeff Country , 1970\nPeru,\"13,193,000\"\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Country", "1970"}, ds.columnNames())

	entries, err := ds.Project("1970")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 13193000.0, entries[0].Population)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyDataset)

	_, err = Parse(strings.NewReader("Nation,2020\nPeru,1\n"))
	assert.ErrorIs(t, err, ErrMissingCountry)
}

func TestProjectErrors(t *testing.T) {
	ds, err := Parse(strings.NewReader("Country,2020\nPeru,abc\n"))
	require.NoError(t, err)

	_, err = ds.Project("1970")
	assert.ErrorIs(t, err, ErrMissingYear)

	_, err = ds.Project("1975")
	assert.ErrorIs(t, err, ErrUnknownYear)

	_, err = ds.Project("2020")
	var cellErr *CellError
	require.True(t, errors.As(err, &cellErr))
	assert.Equal(t, 1, cellErr.Row)
	assert.Equal(t, "abc", cellErr.Value)
}

func TestProjectRejectsNonFiniteCells(t *testing.T) {
	for _, raw := range []string{"NaN", "inf", "-Infinity"} {
		t.Run(raw, func(t *testing.T) {
			ds, err := Parse(strings.NewReader("Country,2020\nSpain," + raw + "\n"))
			require.NoError(t, err)

			_, err = ds.Project("2020")
			var cellErr *CellError
			require.True(t, errors.As(err, &cellErr))
			assert.Equal(t, raw, cellErr.Value)
			assert.ErrorIs(t, err, ErrNonFinite)
			assert.Equal(t, "invalid_cell", Reason(err))
		})
	}
}

func TestRenderRejectsNonFiniteEntries(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, "2020", []Entry{{Country: "Spain", Population: math.NaN()}})
	assert.ErrorIs(t, err, ErrNonFinite)
	assert.Equal(t, "non_finite", Reason(err))
	assert.Zero(t, buf.Len())
}

func TestRender(t *testing.T) {
	ds, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	entries, err := ds.Project("2022")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "2022", entries))

	out := buf.String()
	assert.Contains(t, out, "World Population 2022")
	assert.Contains(t, out, "India")
}

func TestRenderWithoutEntries(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, "2022", nil)
	assert.ErrorIs(t, err, ErrNoEntries)
	assert.Zero(t, buf.Len())
}

func TestReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: ErrEmptyDataset, want: "empty"},
		{err: ErrMissingCountry, want: "missing_country"},
		{err: ErrMissingYear, want: "missing_year"},
		{err: ErrNoEntries, want: "no_entries"},
		{err: &CellError{Row: 1}, want: "invalid_cell"},
		{err: errors.New("boom"), want: "other"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, Reason(tc.err))
	}
}
