package figure

import (
	"fmt"
	"strconv"

	"github.com/aclements/go-moremath/scale"

	"github.com/logicalschema/data608-treehealth-dash/internal/domain"
)

// BarTitle is the bar chart heading.
const BarTitle = "Trees Organized by Health and Stewardship"

// maxLogTicks bounds the number of labelled ticks on the count axis.
const maxLogTicks = 8

// Bar builds the grouped bar chart: one trace per health category present in
// groups, in domain.HealthOrder, with steward tiers on the x axis and counts on
// a log y axis.
func Bar(groups []domain.BarGroup) (Figure, error) {
	traces := make([]Trace, 0, len(domain.HealthOrder))
	maxCount := 0
	for _, h := range domain.HealthOrder {
		var xs []string
		var ys []int
		for _, g := range groups {
			if g.Health != h {
				continue
			}
			xs = append(xs, g.Steward.String())
			ys = append(ys, g.Count)
			maxCount = max(maxCount, g.Count)
		}
		if len(xs) == 0 {
			continue
		}
		traces = append(traces, Trace{
			Type:   "bar",
			Name:   string(h),
			X:      xs,
			Y:      ys,
			Marker: &Marker{Color: h.Color()},
		})
	}

	categories := make([]string, len(domain.StewardOrder))
	for i, s := range domain.StewardOrder {
		categories[i] = s.String()
	}

	yaxis := &Axis{Title: &Title{Text: "count"}, Type: "log"}
	if maxCount > 0 {
		vals, text, err := LogTicks(float64(maxCount))
		if err != nil {
			return Figure{}, fmt.Errorf("bar y axis: %w", err)
		}
		yaxis.TickVals, yaxis.TickText = vals, text
	}

	return Figure{
		Data: traces,
		Layout: Layout{
			Title:       &Title{Text: BarTitle},
			BarMode:     "group",
			PlotBGColor: "rgba(0, 0, 0, 0)",
			XAxis: &Axis{
				Title:         &Title{Text: "steward"},
				Type:          "category",
				CategoryOrder: "array",
				CategoryArray: categories,
			},
			YAxis:  yaxis,
			Legend: &Legend{Title: &Title{Text: "health"}},
		},
	}, nil
}

// LogTicks returns base-10 tick positions and labels for a count axis that
// runs from 1 to at least hi.
func LogTicks(hi float64) ([]float64, []string, error) {
	s, err := scale.NewLog(1, max(hi, 10), 10)
	if err != nil {
		return nil, nil, err
	}
	major, _ := s.Ticks(scale.TickOptions{Max: maxLogTicks})

	text := make([]string, len(major))
	for i, v := range major {
		text[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return major, text, nil
}
