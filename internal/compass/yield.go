package compass

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// SingletYield is the analytic radical-pair yield for a molecule whose axis
// makes angle alpha with the field. It peaks at alpha = 0 and has period π.
func SingletYield(alpha, contrast, meanYield float64) float64 {
	delta := contrast * meanYield
	return meanYield + 0.5*delta*(1+math.Cos(2*alpha))
}

// YieldModel maps a molecule-to-field angle to a singlet yield.
// Span is the peak-to-trough yield difference.
type YieldModel interface {
	Yield(alpha float64) float64
	Span() float64
}

type AnalyticYield struct {
	Contrast  float64
	MeanYield float64
}

func (m AnalyticYield) Yield(alpha float64) float64 {
	return SingletYield(alpha, m.Contrast, m.MeanYield)
}

func (m AnalyticYield) Span() float64 {
	return m.Contrast * m.MeanYield
}

var ErrYieldTable = errors.New("invalid yield table")

// TabulatedYield interpolates a precomputed yield profile sampled on
// [0, π]. Angles are folded by |alpha| mod π; values beyond the table ends
// take the nearest endpoint.
type TabulatedYield struct {
	thetas []float64
	yields []float64

	mean float64
	min  float64
	max  float64
}

func NewTabulatedYield(thetas, yields []float64) (*TabulatedYield, error) {
	if len(thetas) != len(yields) {
		return nil, fmt.Errorf("%w: %d angles for %d yields", ErrYieldTable, len(thetas), len(yields))
	}
	if len(thetas) < 2 {
		return nil, fmt.Errorf("%w: at least two points are required", ErrYieldTable)
	}
	for i := 1; i < len(thetas); i++ {
		if thetas[i] <= thetas[i-1] {
			return nil, fmt.Errorf("%w: angles must be strictly increasing at index %d", ErrYieldTable, i)
		}
	}
	t := &TabulatedYield{
		thetas: append([]float64(nil), thetas...),
		yields: append([]float64(nil), yields...),
		min:    math.Inf(1),
		max:    math.Inf(-1),
	}
	sum := 0.0
	for _, y := range yields {
		sum += y
		t.min = math.Min(t.min, y)
		t.max = math.Max(t.max, y)
	}
	t.mean = sum / float64(len(yields))
	return t, nil
}

// LoadYieldTableCSV reads "theta,yield" rows. A non-numeric first row is
// treated as a header.
func LoadYieldTableCSV(r io.Reader) (*TabulatedYield, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read yield table: %w", err)
	}
	thetas := make([]float64, 0, len(records))
	yields := make([]float64, 0, len(records))
	for i, record := range records {
		theta, errTheta := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		value, errYield := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if errTheta != nil || errYield != nil {
			if i == 0 {
				continue
			}
			return nil, fmt.Errorf("%w: row %d is not numeric", ErrYieldTable, i+1)
		}
		thetas = append(thetas, theta)
		yields = append(yields, value)
	}
	return NewTabulatedYield(thetas, yields)
}

func (t *TabulatedYield) Yield(alpha float64) float64 {
	x := math.Mod(math.Abs(alpha), math.Pi)
	n := len(t.thetas)
	if x <= t.thetas[0] {
		return t.yields[0]
	}
	if x >= t.thetas[n-1] {
		return t.yields[n-1]
	}
	hi := sort.SearchFloat64s(t.thetas, x)
	lo := hi - 1
	frac := (x - t.thetas[lo]) / (t.thetas[hi] - t.thetas[lo])
	return t.yields[lo] + frac*(t.yields[hi]-t.yields[lo])
}

func (t *TabulatedYield) Span() float64 { return t.max - t.min }

func (t *TabulatedYield) Mean() float64 { return t.mean }
func (t *TabulatedYield) Min() float64  { return t.min }
func (t *TabulatedYield) Max() float64  { return t.max }

// Contrast is the relative anisotropy (max - min) / mean.
func (t *TabulatedYield) Contrast() float64 {
	if t.mean == 0 {
		return 0
	}
	return (t.max - t.min) / t.mean
}

// Curve returns copies of the sampled angles and yields.
func (t *TabulatedYield) Curve() ([]float64, []float64) {
	return append([]float64(nil), t.thetas...), append([]float64(nil), t.yields...)
}
