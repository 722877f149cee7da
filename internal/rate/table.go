package rate

import (
    "github.com/shopspring/decimal"
)

// WeightZoneTable maps an integer billable weight (lb) and a zone to a rate.
type WeightZoneTable map[int]map[string]float64

// Lookup returns the exact weight/zone cell. A miss yields (0, false).
func (t WeightZoneTable) Lookup(weight int, zone string) (float64, bool) {
    row, ok := t[weight]
    if !ok {
        return 0, false
    }
    v, ok := row[zone]
    return v, ok
}

// ZoneFees maps a zone (or zone group) to a fee.
type ZoneFees map[string]float64

// Fee returns the fee for key, 0 when unmapped.
func (f ZoneFees) Fee(key string) float64 {
    return f[key]
}

func roundPlaces(currency string) int32 {
    if currency == JPY {
        return 0
    }
    return 2
}

// RoundMoney rounds v half away from zero to the currency's minor unit.
func RoundMoney(v float64, currency string) float64 {
    return round(v, roundPlaces(currency))
}

func round(v float64, places int32) float64 {
    return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
