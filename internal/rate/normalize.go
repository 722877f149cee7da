package rate

import (
    "math"
    "sort"
)

const (
    CmPerInch  = 2.54
    LbPerKg    = 2.2046
    DimDivisor = 139.0

    // MaxTableWeight is the heaviest row of the FedEx and Amazon rate tables, in lb.
    MaxTableWeight = 150
)

// unitEpsilon absorbs float noise so that e.g. 25.4 cm is exactly 10 in.
const unitEpsilon = 1e-9

func ceilUnit(v float64) int {
    return int(math.Ceil(v - unitEpsilon))
}

// Parcel is a line item expressed in the units of a US tariff.
// Sides are whole inches, each rounded up independently, longest first.
type Parcel struct {
    Sides       [3]int
    WeightLb    float64
    DimWeightLb float64
}

// NormalizeImperial converts a centimetre/kilogram item to a Parcel.
func NormalizeImperial(item LineItem) Parcel {
    sides := []int{
        ceilUnit(item.LengthCm / CmPerInch),
        ceilUnit(item.WidthCm / CmPerInch),
        ceilUnit(item.HeightCm / CmPerInch),
    }
    sort.Sort(sort.Reverse(sort.IntSlice(sides)))
    p := Parcel{
        Sides:    [3]int{sides[0], sides[1], sides[2]},
        WeightLb: item.WeightKg * LbPerKg,
    }
    p.DimWeightLb = float64(sides[0]*sides[1]*sides[2]) / DimDivisor
    return p
}

func (p Parcel) Longest() int { return p.Sides[0] }
func (p Parcel) Second() int  { return p.Sides[1] }
func (p Parcel) Third() int   { return p.Sides[2] }

// Girth is length plus girth: longest + 2*(second+third).
func (p Parcel) Girth() int {
    return p.Sides[0] + 2*(p.Sides[1]+p.Sides[2])
}

// BillableWeight is max(ceil(max(actual, dim)), 1), raised to minimum.
func (p Parcel) BillableWeight(minimum int) int {
    w := ceilUnit(math.Max(p.WeightLb, p.DimWeightLb))
    if w < 1 {
        w = 1
    }
    if w < minimum {
        w = minimum
    }
    return w
}

// metricParcel keeps Yamato items in centimetres.
type metricParcel struct {
    longest  float64
    sum      float64
    weightKg float64
}

func normalizeMetric(item LineItem) metricParcel {
    return metricParcel{
        longest:  math.Max(item.LengthCm, math.Max(item.WidthCm, item.HeightCm)),
        sum:      item.LengthCm + item.WidthCm + item.HeightCm,
        weightKg: item.WeightKg,
    }
}
