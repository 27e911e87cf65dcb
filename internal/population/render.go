package population

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// mapType is the ECharts geo map the series is drawn on. Country names in the
// CSV must match the names used by that map.
const mapType = "world"

// ErrNoEntries is returned when a projection has nothing to draw.
var ErrNoEntries = errors.New("no population values for the selected year")

// colorScale is a continuous light-to-dark scale.
var colorScale = []string{"#f7fbff", "#c6dbef", "#6baed6", "#2171b5", "#08306b"}

// Chart builds the choropleth for one year.
func Chart(year string, entries []Entry) (*charts.Map, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	low, high := math.Inf(1), math.Inf(-1)
	data := make([]opts.MapData, 0, len(entries))
	for _, e := range entries {
		if math.IsNaN(e.Population) || math.IsInf(e.Population, 0) {
			return nil, fmt.Errorf("%w: %s", ErrNonFinite, e.Country)
		}
		low = math.Min(low, e.Population)
		high = math.Max(high, e.Population)
		data = append(data, opts.MapData{Name: e.Country, Value: e.Population})
	}

	m := charts.NewMap()
	m.RegisterMapType(mapType)
	m.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: fmt.Sprintf("World Population %s", year),
			Width:     "1100px",
			Height:    "640px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("World Population %s", year),
			Subtitle: fmt.Sprintf("%d countries", len(entries)),
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(low),
			Max:        float32(high),
			Text:       []string{"High", "Low"},
			InRange:    &opts.VisualMapInRange{Color: colorScale},
		}),
	)
	m.AddSeries("Population", data)

	return m, nil
}

// Render writes a standalone HTML page with the choropleth for year.
func Render(w io.Writer, year string, entries []Entry) error {
	m, err := Chart(year, entries)
	if err != nil {
		return err
	}
	if err := m.Render(w); err != nil {
		return fmt.Errorf("render choropleth: %w", err)
	}
	return nil
}
