package rate

import (
    "math"
    "sort"
)

// maxFuelSteps bounds extrapolation for absurd prices.
const maxFuelSteps = 10000

// FuelBand maps diesel prices in [Min, Max) to a surcharge percentage.
type FuelBand struct {
    Min float64 `json:"min" yaml:"min"`
    Max float64 `json:"max" yaml:"max"`
    Pct float64 `json:"pct" yaml:"pct"`
}

// DieselTable converts a diesel price to a fuel surcharge percentage.
// Prices outside the bands are extrapolated in StepPrice increments, moving
// the percentage by StepPct per step.
type DieselTable struct {
    Bands     []FuelBand `json:"bands" yaml:"bands"`
    StepPrice float64    `json:"step_price" yaml:"step_price"`
    StepPct   float64    `json:"step_pct" yaml:"step_pct"`
}

// Percent returns the surcharge percentage for price, never negative and
// rounded to 2 decimals. A price inside the table range that falls in a
// gap between bands yields 0.
func (t DieselTable) Percent(price float64) float64 {
    if len(t.Bands) == 0 {
        return 0
    }
    bands := make([]FuelBand, len(t.Bands))
    copy(bands, t.Bands)
    sort.Slice(bands, func(i, j int) bool { return bands[i].Min < bands[j].Min })

    lo, hi := bands[0], bands[len(bands)-1]
    var pct float64
    switch {
    case price < lo.Min:
        pct = lo.Pct
        if t.StepPrice > 0 {
            for n := 0; n < maxFuelSteps && price < lo.Min-float64(n)*t.StepPrice; n++ {
                pct -= t.StepPct
            }
        }
    case price >= hi.Max:
        pct = hi.Pct
        if t.StepPrice > 0 {
            for n := 0; n < maxFuelSteps && price >= hi.Max+float64(n)*t.StepPrice; n++ {
                pct += t.StepPct
            }
        }
    default:
        for _, b := range bands {
            if b.Min <= price && price < b.Max {
                pct = b.Pct
                break
            }
        }
    }
    return round(math.Max(pct, 0), 2)
}
