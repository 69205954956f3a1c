package chart

import (
	"encoding/json"

	"github.com/matzehuels/revetment/pkg/errors"
	"github.com/matzehuels/revetment/pkg/reach"
)

type jsonOutput struct {
	Title    string        `json:"title,omitempty"`
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
	Labels   []float64     `json:"labels"`
	Datasets []jsonDataset `json:"datasets"`
	Scales   jsonScales    `json:"scales"`
}

type jsonDataset struct {
	Label           string    `json:"label"`
	Stepped         bool      `json:"stepped"`
	BackgroundColor string    `json:"backgroundColor"`
	BorderColor     string    `json:"borderColor"`
	Data            []float64 `json:"data"`
}

type jsonScales struct {
	X jsonScale `json:"x"`
	Y jsonScale `json:"y"`
}

type jsonScale struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	BeginAtZero bool   `json:"beginAtZero"`
}

// RenderJSON emits the chart as labels plus datasets, shaped for a
// browser charting library to draw directly.
func RenderJSON(s reach.Series, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts...)

	out := jsonOutput{
		Title:  cfg.title,
		Width:  cfg.width,
		Height: cfg.height,
		Labels: nonNil(s.Distance),
		Scales: jsonScales{
			X: jsonScale{Type: "linear", Title: XAxisTitle},
			Y: jsonScale{Type: "linear", Title: YAxisTitle},
		},
	}
	for _, d := range Datasets(s) {
		out.Datasets = append(out.Datasets, jsonDataset{
			Label:           d.Label,
			Stepped:         true,
			BackgroundColor: d.CSS(),
			BorderColor:     d.CSS(),
			Data:            nonNil(d.Data),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode chart json")
	}
	return data, nil
}

func nonNil(v []float64) []float64 {
	if v == nil {
		return []float64{}
	}
	return v
}
