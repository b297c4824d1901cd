// Package chart turns closing-price histories into a render-ready chart
// specification. The JSON shape is a plotly figure: a list of line traces
// plus a layout carrying title, axis titles and font.
package chart

import (
	"sort"
	"strings"
)

// Fixed presentation values.
const (
	TitleSuffix = "closing prices"
	XAxisTitle  = "Date"
	YAxisTitle  = "Closing Price"

	FontFamily = "verdana"
	FontSize   = 15
	FontColor  = "#606060"
)

// Figure is a complete chart specification.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one line series. A nil Y value marks a date on the shared axis
// for which the symbol has no bar; it renders as a gap.
type Trace struct {
	Type string     `json:"type"`
	Mode string     `json:"mode"`
	Name string     `json:"name"`
	X    []string   `json:"x"`
	Y    []*float64 `json:"y"`
}

// Layout holds the chart title, axis titles and font style.
type Layout struct {
	Title Text `json:"title"`
	XAxis Axis `json:"xaxis"`
	YAxis Axis `json:"yaxis"`
	Font  Font `json:"font"`
}

// Axis describes one axis.
type Axis struct {
	Title Text `json:"title"`
}

// Text is a titled element.
type Text struct {
	Text string `json:"text"`
}

// Font is the chart-wide font style.
type Font struct {
	Family string `json:"family"`
	Size   int    `json:"size"`
	Color  string `json:"color"`
}

// Empty returns the canonical no-data chart: no traces and the generic title.
func Empty() Figure {
	return Figure{
		Data:   []Trace{},
		Layout: newLayout(TitleSuffix),
	}
}

// IsEmpty reports whether f carries no traces.
func (f Figure) IsEmpty() bool {
	return len(f.Data) == 0
}

// Title returns the chart title for the given symbols, e.g.
// "'AAPL', 'MSFT' closing prices".
func Title(symbols []string) string {
	if len(symbols) == 0 {
		return TitleSuffix
	}
	quoted := make([]string, len(symbols))
	for i, s := range symbols {
		quoted[i] = "'" + s + "'"
	}
	return strings.Join(quoted, ", ") + " " + TitleSuffix
}

// Series is the input of Assemble: one symbol and its closing prices keyed
// by YYYY-MM-DD date.
type Series struct {
	Symbol string
	Dates  []string
	Closes []float64
}

// Assemble builds a Figure with one trace per series, in the given order.
// The shared x axis is the sorted union of all series' dates; each trace has a
// value for every axis date, nil where the series has no bar on that date.
func Assemble(series []Series) Figure {
	axis := sharedAxis(series)
	symbols := make([]string, len(series))
	traces := make([]Trace, len(series))

	for i, s := range series {
		symbols[i] = s.Symbol

		byDate := make(map[string]float64, len(s.Dates))
		for j, d := range s.Dates {
			byDate[d] = s.Closes[j]
		}

		y := make([]*float64, len(axis))
		for j, d := range axis {
			if v, ok := byDate[d]; ok {
				y[j] = &v
			}
		}

		x := make([]string, len(axis))
		copy(x, axis)
		traces[i] = Trace{
			Type: "scatter",
			Mode: "lines",
			Name: s.Symbol,
			X:    x,
			Y:    y,
		}
	}

	return Figure{
		Data:   traces,
		Layout: newLayout(Title(symbols)),
	}
}

// sharedAxis returns the sorted, de-duplicated union of all series dates.
func sharedAxis(series []Series) []string {
	seen := make(map[string]struct{})
	for _, s := range series {
		for _, d := range s.Dates {
			seen[d] = struct{}{}
		}
	}
	axis := make([]string, 0, len(seen))
	for d := range seen {
		axis = append(axis, d)
	}
	sort.Strings(axis)
	return axis
}

func newLayout(title string) Layout {
	return Layout{
		Title: Text{Text: title},
		XAxis: Axis{Title: Text{Text: XAxisTitle}},
		YAxis: Axis{Title: Text{Text: YAxisTitle}},
		Font: Font{
			Family: FontFamily,
			Size:   FontSize,
			Color:  FontColor,
		},
	}
}
