package stats

import (
	"math"

	"mayajiva/internal/model"
	"mayajiva/internal/nn"
)

// Summary describes a sample with population standard deviation.
type Summary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

func Summarize(values []float64) Summary {
	mean, err := nn.Avg(values)
	if err != nil {
		return Summary{}
	}
	std, _ := nn.Std(values)
	out := Summary{Count: len(values), Mean: mean, Std: std, Min: math.Inf(1), Max: math.Inf(-1)}
	for _, v := range values {
		out.Min = math.Min(out.Min, v)
		out.Max = math.Max(out.Max, v)
	}
	return out
}

type EnsembleSummary struct {
	Runs             int     `json:"runs"`
	InBoundsFraction float64 `json:"in_bounds_fraction"`
	Distance         Summary `json:"distance"`
	HeadingError     Summary `json:"heading_error"`
	Fitness          Summary `json:"fitness"`
}

func SummarizeRuns(runs []model.RunRecord) EnsembleSummary {
	if len(runs) == 0 {
		return EnsembleSummary{}
	}
	distances := make([]float64, 0, len(runs))
	errs := make([]float64, 0, len(runs))
	fitness := make([]float64, 0, len(runs))
	inBounds := 0
	for _, run := range runs {
		distances = append(distances, run.DistanceFromStart)
		errs = append(errs, run.MeanHeadingError)
		fitness = append(fitness, run.Fitness)
		if run.InBounds {
			inBounds++
		}
	}
	return EnsembleSummary{
		Runs:             len(runs),
		InBoundsFraction: float64(inBounds) / float64(len(runs)),
		Distance:         Summarize(distances),
		HeadingError:     Summarize(errs),
		Fitness:          Summarize(fitness),
	}
}
