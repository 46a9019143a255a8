// Package figure builds the dashboard charts. Figures are serialized in the
// Plotly JSON schema so a browser can hand them to Plotly.newPlot unchanged.
package figure

// Figure is a Plotly figure: traces plus layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is the subset of Plotly trace attributes used by the bar and map
// views.
type Trace struct {
	Type   string    `json:"type"`
	Name   string    `json:"name,omitempty"`
	X      []string  `json:"x,omitempty"`
	Y      []int     `json:"y,omitempty"`
	Lat    []float64 `json:"lat,omitempty"`
	Lon    []float64 `json:"lon,omitempty"`
	Mode   string    `json:"mode,omitempty"`
	Marker *Marker   `json:"marker,omitempty"`

	// HoverText carries the tree ID for map markers.
	HoverText []string `json:"hovertext,omitempty"`
}

// Marker styles a trace's points or bars.
type Marker struct {
	Color string `json:"color,omitempty"`
}

// Layout is the subset of Plotly layout attributes the views set.
type Layout struct {
	Title       *Title  `json:"title,omitempty"`
	BarMode     string  `json:"barmode,omitempty"`
	PlotBGColor string  `json:"plot_bgcolor,omitempty"`
	XAxis       *Axis   `json:"xaxis,omitempty"`
	YAxis       *Axis   `json:"yaxis,omitempty"`
	Legend      *Legend `json:"legend,omitempty"`
	Mapbox      *Mapbox `json:"mapbox,omitempty"`
	Width       int     `json:"width,omitempty"`
	Height      int     `json:"height,omitempty"`
}

type Title struct {
	Text string `json:"text"`
}

type Legend struct {
	Title *Title `json:"title,omitempty"`
}

// Axis configures one cartesian axis.
type Axis struct {
	Title         *Title    `json:"title,omitempty"`
	Type          string    `json:"type,omitempty"`
	CategoryOrder string    `json:"categoryorder,omitempty"`
	CategoryArray []string  `json:"categoryarray,omitempty"`
	TickVals      []float64 `json:"tickvals,omitempty"`
	TickText      []string  `json:"ticktext,omitempty"`
}

// Mapbox configures a mapbox subplot.
type Mapbox struct {
	Style       string        `json:"style"`
	AccessToken string        `json:"accesstoken"`
	Center      LatLon        `json:"center"`
	Zoom        float64       `json:"zoom"`
	Layers      []MapboxLayer `json:"layers,omitempty"`
}

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// MapboxLayer is an image layer pinned to four [lon, lat] corners.
type MapboxLayer struct {
	SourceType  string        `json:"sourcetype"`
	Source      string        `json:"source"`
	Coordinates [4][2]float64 `json:"coordinates"`
}
