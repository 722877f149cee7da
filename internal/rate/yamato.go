package rate

import (
    "fmt"
    "math"
    "sort"
)

// PaymentMethod selects between the cash and cashless Yamato rate tables.
type PaymentMethod string

const (
    PayCash     PaymentMethod = "cash"
    PayCashless PaymentMethod = "cashless"
)

// Size sources.
const (
    SizeBySum    = "sum"
    SizeByWeight = "weight"
)

// SizeTier is one TA-Q-BIN size with its three-side-sum and weight ceilings.
type SizeTier struct {
    Size        int     `json:"size" yaml:"size"`
    MaxSumCm    float64 `json:"max_sum_cm" yaml:"max_sum_cm"`
    MaxWeightKg float64 `json:"max_weight_kg" yaml:"max_weight_kg"`
}

func DefaultSizeTiers() []SizeTier {
    return []SizeTier{
        {Size: 60, MaxSumCm: 60, MaxWeightKg: 2},
        {Size: 80, MaxSumCm: 80, MaxWeightKg: 5},
        {Size: 100, MaxSumCm: 100, MaxWeightKg: 10},
        {Size: 120, MaxSumCm: 120, MaxWeightKg: 15},
        {Size: 140, MaxSumCm: 140, MaxWeightKg: 20},
        {Size: 160, MaxSumCm: 160, MaxWeightKg: 25},
        {Size: 180, MaxSumCm: 180, MaxWeightKg: 30},
        {Size: 200, MaxSumCm: 200, MaxWeightKg: 30},
    }
}

// YamatoLimits are the hard acceptance limits; a package beyond any of them
// cannot be shipped at all.
type YamatoLimits struct {
    MaxLongestCm float64 `json:"max_longest_cm" yaml:"max_longest_cm"`
    MaxSumCm     float64 `json:"max_sum_cm" yaml:"max_sum_cm"`
    MaxWeightKg  float64 `json:"max_weight_kg" yaml:"max_weight_kg"`
}

func DefaultYamatoLimits() YamatoLimits {
    return YamatoLimits{MaxLongestCm: 170, MaxSumCm: 200, MaxWeightKg: 30}
}

// RouteTable maps size, origin zone and destination zone to a rate.
type RouteTable map[int]map[string]map[string]float64

// Lookup returns the rate cell, (0, false) on a miss.
func (t RouteTable) Lookup(size int, origin, dest string) (float64, bool) {
    v, ok := t[size][origin][dest]
    return v, ok
}

// SameDayFees is the same-day delivery surcharge. RemoteFee replaces Fee when
// either endpoint is RemoteZone.
type SameDayFees struct {
    Fee        float64 `json:"fee" yaml:"fee"`
    RemoteFee  float64 `json:"remote_fee" yaml:"remote_fee"`
    RemoteZone string  `json:"remote_zone" yaml:"remote_zone"`
}

// Discount is a named, fixed amount taken off a package. Amount is negative.
// A selected discount drops any other selected discount it supersedes.
type Discount struct {
    Key        string   `json:"key" yaml:"key"`
    Label      string   `json:"label" yaml:"label"`
    Amount     float64  `json:"amount" yaml:"amount"`
    Supersedes []string `json:"supersedes,omitempty" yaml:"supersedes,omitempty"`
}

// YamatoTables is the reference data of the TA-Q-BIN engine.
type YamatoTables struct {
    Version           string                            `json:"version" yaml:"version"`
    Tiers             []SizeTier                        `json:"tiers" yaml:"tiers"`
    Limits            YamatoLimits                      `json:"limits" yaml:"limits"`
    Rates             map[PaymentMethod]RouteTable      `json:"rates" yaml:"rates"`
    IntraPrefecture   map[PaymentMethod]map[int]float64 `json:"intra_prefecture" yaml:"intra_prefecture"`
    IntraExcludedZone string                            `json:"intra_excluded_zone" yaml:"intra_excluded_zone"`
    Cool              map[int]float64                   `json:"cool" yaml:"cool"`
    MaxCoolSize       int                               `json:"max_cool_size" yaml:"max_cool_size"`
    SameDay           SameDayFees                       `json:"same_day" yaml:"same_day"`
    Discounts         []Discount                        `json:"discounts" yaml:"discounts"`
}

// YamatoSettings are the per-quote options of the TA-Q-BIN engine.
type YamatoSettings struct {
    Origin         string        `json:"origin" yaml:"origin"`
    Destination    string        `json:"destination" yaml:"destination"`
    SamePrefecture bool          `json:"same_prefecture" yaml:"same_prefecture"`
    Payment        PaymentMethod `json:"payment" yaml:"payment" validate:"omitempty,oneof=cash cashless"`
    Cool           bool          `json:"cool" yaml:"cool"`
    SameDay        bool          `json:"same_day" yaml:"same_day"`
    Discounts      []string      `json:"discounts" yaml:"discounts"`
}

// SizeResult is the tier resolution of one package.
type SizeResult struct {
    SumSize    int
    WeightSize int
    Applied    int
    Source     string
}

// Yamato prices line items against TA-Q-BIN tables.
type Yamato struct {
    tables    *YamatoTables
    settings  YamatoSettings
    tiers     []SizeTier
    limits    YamatoLimits
    discounts []Discount
}

var _ Engine = (*Yamato)(nil)

const defaultMaxCoolSize = 120

// NewYamato builds a Yamato engine. Missing tiers or limits fall back to the
// published TA-Q-BIN values.
func NewYamato(tables *YamatoTables, settings YamatoSettings) *Yamato {
    if tables == nil {
        tables = &YamatoTables{}
    }
    if settings.Payment == "" {
        settings.Payment = PayCash
    }
    e := &Yamato{
        tables:   tables,
        settings: settings,
        tiers:    append([]SizeTier(nil), tables.Tiers...),
        limits:   tables.Limits,
    }
    if len(e.tiers) == 0 {
        e.tiers = DefaultSizeTiers()
    }
    sort.Slice(e.tiers, func(i, j int) bool { return e.tiers[i].Size < e.tiers[j].Size })
    if e.limits == (YamatoLimits{}) {
        e.limits = DefaultYamatoLimits()
    }
    e.discounts = ActiveDiscounts(tables.Discounts, settings.Discounts)
    return e
}

func (e *Yamato) Carrier() Carrier   { return YamatoTaqbin }
func (e *Yamato) Currency() string   { return JPY }
func (e *Yamato) WeightUnit() string { return "kg" }

// ActiveDiscounts resolves the selected keys against the catalog, in catalog
// order. Unknown keys are ignored; superseded discounts are dropped.
func ActiveDiscounts(catalog []Discount, selected []string) []Discount {
    chosen := make(map[string]bool, len(selected))
    for _, k := range selected {
        chosen[k] = true
    }
    dropped := make(map[string]bool)
    for _, d := range catalog {
        if !chosen[d.Key] {
            continue
        }
        for _, s := range d.Supersedes {
            dropped[s] = true
        }
    }
    var out []Discount
    for _, d := range catalog {
        if chosen[d.Key] && !dropped[d.Key] {
            out = append(out, d)
        }
    }
    return out
}

func (e *Yamato) limitRules() Rules[metricParcel] {
    l := e.limits
    return Rules[metricParcel]{
        {Type: YamatoLimitExceeded, Any: []Condition[metricParcel]{
            {fmt.Sprintf("longest side exceeds %g cm", l.MaxLongestCm), func(p metricParcel) bool { return p.longest > l.MaxLongestCm }},
            {fmt.Sprintf("three-side sum exceeds %g cm", l.MaxSumCm), func(p metricParcel) bool { return p.sum > l.MaxSumCm }},
            {fmt.Sprintf("weight exceeds %g kg", l.MaxWeightKg), func(p metricParcel) bool { return p.weightKg > l.MaxWeightKg }},
        }},
    }
}

// Classify reports whether a package is within the hard acceptance limits.
func (e *Yamato) Classify(item LineItem) Classification {
    typ, reason := e.limitRules().Classify(normalizeMetric(item))
    return Classification{Type: typ, Reason: reason}
}

// Size resolves the sum tier, the weight tier and the applied size.
// A zero Applied means no tier covers the package.
func (e *Yamato) Size(item LineItem) SizeResult {
    p := normalizeMetric(item)
    var r SizeResult
    for _, t := range e.tiers {
        if r.SumSize == 0 && p.sum <= t.MaxSumCm {
            r.SumSize = t.Size
        }
        if r.WeightSize == 0 && p.weightKg <= t.MaxWeightKg {
            r.WeightSize = t.Size
        }
    }
    if r.SumSize == 0 || r.WeightSize == 0 {
        return r
    }
    if r.SumSize >= r.WeightSize {
        r.Applied, r.Source = r.SumSize, SizeBySum
    } else {
        r.Applied, r.Source = r.WeightSize, SizeByWeight
    }
    return r
}

// BaseRate selects the intra-prefecture table when it applies and has the
// size, otherwise the origin/destination table of the payment method.
func (e *Yamato) BaseRate(size int) float64 {
    s := e.settings
    if s.SamePrefecture && s.Origin != e.tables.IntraExcludedZone {
        if v, ok := e.tables.IntraPrefecture[s.Payment][size]; ok {
            return v
        }
    }
    v, _ := e.tables.Rates[s.Payment].Lookup(size, s.Origin, s.Destination)
    return v
}

func (e *Yamato) maxCoolSize() int {
    if e.tables.MaxCoolSize > 0 {
        return e.tables.MaxCoolSize
    }
    return defaultMaxCoolSize
}

func (e *Yamato) sameDayFee() float64 {
    if !e.settings.SameDay {
        return 0
    }
    sd := e.tables.SameDay
    if sd.RemoteZone != "" && (e.settings.Origin == sd.RemoteZone || e.settings.Destination == sd.RemoteZone) {
        return sd.RemoteFee
    }
    return sd.Fee
}

// Price computes the unrounded breakdown of one line. Lines beyond the hard
// limits carry Error and a zero total.
func (e *Yamato) Price(item LineItem) LineResult {
    res := LineResult{
        Name:         item.Name,
        Quantity:     item.Quantity,
        ActualWeight: item.WeightKg,
    }
    c := e.Classify(item)
    res.Surcharge = c
    if c.Type == YamatoLimitExceeded {
        res.Error = c.Reason
        return res
    }

    size := e.Size(item)
    res.SumSize, res.WeightSize = size.SumSize, size.WeightSize
    if size.Applied == 0 {
        res.Error = "no size tier covers this package"
        return res
    }
    res.Size, res.SizeSource = size.Applied, size.Source
    res.BaseRate = e.BaseRate(size.Applied)

    if e.settings.Cool {
        if size.Applied <= e.maxCoolSize() {
            res.Cool = e.tables.Cool[size.Applied]
        } else {
            res.CoolUnavailable = true
        }
    }
    res.SameDay = e.sameDayFee()
    for _, d := range e.discounts {
        res.Discount += d.Amount
    }

    res.PackageTotal = math.Max(0, res.BaseRate+res.Cool+res.SameDay+res.Discount)
    res.LineTotal = res.PackageTotal * float64(quantity(item))
    return res
}
