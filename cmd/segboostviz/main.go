// Command segboostviz runs a small synthetic boosting loop against a
// single one-dimensional term and plots the per-round gain and the
// resulting update tensor's score magnitude, the way the teacher's
// iris_regression example plots a fitted line against its data: load
// or synthesize data, fit/update, render with gonum/plot, save a PNG.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ezoic/segboost/boosting"
	"github.com/ezoic/segboost/pkg/log"
)

func syntheticSubset(rounds int, axisBins int, n int) []boosting.Sample {
	samples := make([]boosting.Sample, 0, n*axisBins)
	for bin := 0; bin < axisBins; bin++ {
		target := float64(bin) - float64(axisBins)/2
		for i := 0; i < n; i++ {
			samples = append(samples, boosting.Sample{
				BinIndices: []int{bin},
				Gradient:   []float64{target},
				Hessian:    []float64{1},
				Weight:     1,
			})
		}
	}
	return samples
}

func main() {
	rounds := flag.Int("rounds", 30, "number of boosting rounds to simulate")
	axisBins := flag.Int("bins", 8, "number of bins on the synthetic term's single axis")
	learningRate := flag.Float64("lr", 0.3, "learning rate applied to each round's update")
	leavesMax := flag.Int("leaves-max", 4, "leaves-max for the synthetic term's single real dimension")
	out := flag.String("out", "segboost_rounds.png", "output PNG path")
	flag.Parse()

	term := &boosting.Term{
		FeatureIndices: []int{0},
		Features:       []boosting.Feature{{CountBins: *axisBins}},
	}
	shell := boosting.NewBoosterShell()
	params := boosting.UpdateParams{
		LearningRate:    *learningRate,
		MinSamplesLeaf:  1,
		LeavesMaxPerDim: []int{*leavesMax},
	}

	gainPts := make(plotter.XYs, 0, *rounds)
	magnitudePts := make(plotter.XYs, 0, *rounds)

	for round := 0; round < *rounds; round++ {
		subset := syntheticSubset(round, *axisBins, 50)
		tn, gain, _, err := boosting.GenerateTermUpdate(shell, term, [][]boosting.Sample{subset}, 1, params, nil)
		if err != nil {
			log.Warn("round failed", map[string]interface{}{"round": round, "error": err.Error()})
			os.Exit(1)
		}

		if gain == boosting.IllegalGain {
			log.Warn("round produced an illegal gain", map[string]interface{}{"round": round})
			gain = 0
		}
		gainPts = append(gainPts, plotter.XY{X: float64(round), Y: gain})

		magnitude := 0.0
		for _, v := range tn.Values() {
			magnitude += math.Abs(v)
		}
		magnitudePts = append(magnitudePts, plotter.XY{X: float64(round), Y: magnitude})
	}

	p := plot.New()
	p.Title.Text = "segboost synthetic term update"
	p.X.Label.Text = "round"
	p.Y.Label.Text = "value"

	gainLine, err := plotter.NewLine(gainPts)
	if err != nil {
		log.Warn("failed to build gain line", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	gainLine.Width = vg.Points(2)
	p.Add(gainLine)
	p.Legend.Add("per-round gain", gainLine)

	magnitudeLine, err := plotter.NewLine(magnitudePts)
	if err != nil {
		log.Warn("failed to build magnitude line", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	magnitudeLine.Width = vg.Points(2)
	magnitudeLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(magnitudeLine)
	p.Legend.Add("Σ|update|", magnitudeLine)

	if err := p.Save(8*vg.Inch, 6*vg.Inch, *out); err != nil {
		log.Warn("failed to save plot", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	fmt.Printf("wrote %s over %d rounds\n", *out, *rounds)
}
