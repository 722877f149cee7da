package rate

import "fmt"

// FedEx DAS tiers.
const (
    DASNone        = "None"
    DASBase        = "Base"
    DASExtended    = "Extended"
    DASRemote      = "Remote"
    DASAlaska      = "Alaska"
    DASHawaii      = "Hawaii"
    DASIntraHawaii = "IntraHawaii"
)

const DefaultResidentialFee = 5.95

// FedExLimits are the package thresholds of the FedEx Ground tariff.
type FedExLimits struct {
    MaxWeightLb             float64 `json:"max_weight_lb" yaml:"max_weight_lb"`
    MaxLength               int     `json:"max_length" yaml:"max_length"`
    MaxLengthGirth          int     `json:"max_length_girth" yaml:"max_length_girth"`
    OversizeLength          int     `json:"oversize_length" yaml:"oversize_length"`
    OversizeLengthGirth     int     `json:"oversize_length_girth" yaml:"oversize_length_girth"`
    AHSLength               int     `json:"ahs_length" yaml:"ahs_length"`
    AHSWidth                int     `json:"ahs_width" yaml:"ahs_width"`
    AHSLengthGirth          int     `json:"ahs_length_girth" yaml:"ahs_length_girth"`
    AHSWeightLb             float64 `json:"ahs_weight_lb" yaml:"ahs_weight_lb"`
    OversizeMinBillable     int     `json:"oversize_min_billable" yaml:"oversize_min_billable"`
    AHSDimensionMinBillable int     `json:"ahs_dimension_min_billable" yaml:"ahs_dimension_min_billable"`
}

func DefaultFedExLimits() FedExLimits {
    return FedExLimits{
        MaxWeightLb:             150,
        MaxLength:               108,
        MaxLengthGirth:          165,
        OversizeLength:          96,
        OversizeLengthGirth:     130,
        AHSLength:               48,
        AHSWidth:                30,
        AHSLengthGirth:          105,
        AHSWeightLb:             50,
        OversizeMinBillable:     90,
        AHSDimensionMinBillable: 40,
    }
}

// DASFee is a delivery area surcharge split by delivery type.
type DASFee struct {
    Residential float64 `json:"residential" yaml:"residential"`
    Commercial  float64 `json:"commercial" yaml:"commercial"`
}

// FedExTables is the reference data of the FedEx Ground engine.
type FedExTables struct {
    Version        string            `json:"version" yaml:"version"`
    Rates          WeightZoneTable   `json:"rates" yaml:"rates"`
    AHSDimensions  ZoneFees          `json:"ahs_dimensions" yaml:"ahs_dimensions"`
    AHSWeight      ZoneFees          `json:"ahs_weight" yaml:"ahs_weight"`
    Oversize       ZoneFees          `json:"oversize" yaml:"oversize"`
    Unauthorized   float64           `json:"unauthorized" yaml:"unauthorized"`
    ResidentialFee float64           `json:"residential_fee" yaml:"residential_fee"`
    DAS            map[string]DASFee `json:"das" yaml:"das"`
    Limits         FedExLimits       `json:"limits" yaml:"limits"`
}

// FedExSettings are the per-quote options of the FedEx engine.
type FedExSettings struct {
    Zone        string  `json:"zone" yaml:"zone"`
    FuelPct     float64 `json:"fuel_pct" yaml:"fuel_pct" validate:"gte=0"`
    Residential bool    `json:"residential" yaml:"residential"`
    DASTier     string  `json:"das_tier" yaml:"das_tier"`
}

// FedEx prices line items against FedEx Ground tables.
type FedEx struct {
    tables   *FedExTables
    settings FedExSettings
    limits   FedExLimits
    rules    Rules[Parcel]
}

var _ Engine = (*FedEx)(nil)

// NewFedEx builds a FedEx engine. Zero limits fall back to the tariff defaults.
func NewFedEx(tables *FedExTables, settings FedExSettings) *FedEx {
    if tables == nil {
        tables = &FedExTables{}
    }
    limits := tables.Limits
    if limits == (FedExLimits{}) {
        limits = DefaultFedExLimits()
    }
    return &FedEx{
        tables:   tables,
        settings: settings,
        limits:   limits,
        rules:    fedexRules(limits),
    }
}

func fedexRules(l FedExLimits) Rules[Parcel] {
    return Rules[Parcel]{
        {Type: FedExUnauthorized, Any: []Condition[Parcel]{
            {fmt.Sprintf("weight exceeds %g lb", l.MaxWeightLb), func(p Parcel) bool { return p.WeightLb > l.MaxWeightLb }},
            {fmt.Sprintf("longest side exceeds %d in", l.MaxLength), func(p Parcel) bool { return p.Longest() > l.MaxLength }},
            {fmt.Sprintf("length + girth exceeds %d in", l.MaxLengthGirth), func(p Parcel) bool { return p.Girth() > l.MaxLengthGirth }},
        }},
        {Type: FedExOversize, Any: []Condition[Parcel]{
            {fmt.Sprintf("longest side exceeds %d in", l.OversizeLength), func(p Parcel) bool { return p.Longest() > l.OversizeLength }},
            {fmt.Sprintf("length + girth exceeds %d in", l.OversizeLengthGirth), func(p Parcel) bool { return p.Girth() > l.OversizeLengthGirth }},
        }},
        {Type: FedExAHSDimensions, Any: []Condition[Parcel]{
            {fmt.Sprintf("longest side exceeds %d in", l.AHSLength), func(p Parcel) bool { return p.Longest() > l.AHSLength }},
            {fmt.Sprintf("second longest side exceeds %d in", l.AHSWidth), func(p Parcel) bool { return p.Second() > l.AHSWidth }},
            {fmt.Sprintf("length + girth exceeds %d in", l.AHSLengthGirth), func(p Parcel) bool { return p.Girth() > l.AHSLengthGirth }},
        }},
        {Type: FedExAHSWeight, Any: []Condition[Parcel]{
            {fmt.Sprintf("weight exceeds %g lb", l.AHSWeightLb), func(p Parcel) bool { return p.WeightLb > l.AHSWeightLb }},
        }},
    }
}

func (e *FedEx) Carrier() Carrier   { return FedExGround }
func (e *FedEx) Currency() string   { return USD }
func (e *FedEx) WeightUnit() string { return "lb" }

// Classify resolves the single surcharge of a package for the configured zone.
func (e *FedEx) Classify(item LineItem) Classification {
    return e.classify(NormalizeImperial(item))
}

func (e *FedEx) classify(p Parcel) Classification {
    typ, reason := e.rules.Classify(p)
    zone := e.settings.Zone

    // Both AHS triggers: report the costlier one, weight on a tie.
    if typ == FedExAHSDimensions {
        weightRule, _ := e.rules.Find(FedExAHSWeight)
        if weightReason, ok := weightRule.Match(p); ok {
            if e.tables.AHSWeight.Fee(zone) >= e.tables.AHSDimensions.Fee(zone) {
                typ, reason = FedExAHSWeight, weightReason
            }
        }
    }

    c := Classification{Type: typ, Reason: reason}
    switch typ {
    case FedExUnauthorized:
        c.Amount = e.tables.Unauthorized
        c.MinBillable = e.limits.OversizeMinBillable
    case FedExOversize:
        c.Amount = e.tables.Oversize.Fee(zone)
        c.MinBillable = e.limits.OversizeMinBillable
    case FedExAHSDimensions:
        c.Amount = e.tables.AHSDimensions.Fee(zone)
        c.MinBillable = e.limits.AHSDimensionMinBillable
    case FedExAHSWeight:
        c.Amount = e.tables.AHSWeight.Fee(zone)
    }
    return c
}

// BaseRate looks up the zone rate, scaling the 150 lb row for heavier packages.
func (e *FedEx) BaseRate(billable int) float64 {
    zone := e.settings.Zone
    if billable <= MaxTableWeight {
        v, _ := e.tables.Rates.Lookup(billable, zone)
        return v
    }
    top, _ := e.tables.Rates.Lookup(MaxTableWeight, zone)
    return top * float64(billable) / MaxTableWeight
}

func (e *FedEx) residentialFee() float64 {
    if !e.settings.Residential {
        return 0
    }
    if e.tables.ResidentialFee > 0 {
        return e.tables.ResidentialFee
    }
    return DefaultResidentialFee
}

func (e *FedEx) dasFee() float64 {
    tier := e.settings.DASTier
    if tier == "" || tier == DASNone {
        return 0
    }
    fee, ok := e.tables.DAS[tier]
    if !ok {
        return 0
    }
    if e.settings.Residential {
        return fee.Residential
    }
    return fee.Commercial
}

// Price computes the unrounded breakdown of one line.
func (e *FedEx) Price(item LineItem) LineResult {
    p := NormalizeImperial(item)
    c := e.classify(p)
    billable := p.BillableWeight(c.MinBillable)

    res := LineResult{
        Name:           item.Name,
        Quantity:       item.Quantity,
        ActualWeight:   p.WeightLb,
        DimWeight:      p.DimWeightLb,
        BillableWeight: billable,
        Surcharge:      c,
        BaseRate:       e.BaseRate(billable),
        FuelPct:        e.settings.FuelPct,
        Residential:    e.residentialFee(),
        DAS:            e.dasFee(),
    }
    res.Fuel = res.BaseRate * e.settings.FuelPct / 100
    res.PackageTotal = res.BaseRate + res.Fuel + c.Amount + res.Residential + res.DAS
    res.LineTotal = res.PackageTotal * float64(quantity(item))
    return res
}
