package rate

import "fmt"

// Amazon DAS tiers.
const (
    AmazonDAS  = "DAS"
    AmazonEDAS = "EDAS"
    AmazonRAS  = "RAS"
)

const DefaultZoneGroup = "5+"

// AmazonLimits are the package thresholds of the Amazon Shipping tariff.
type AmazonLimits struct {
    MaxWeightLb       float64 `json:"max_weight_lb" yaml:"max_weight_lb"`
    MaxLength         int     `json:"max_length" yaml:"max_length"`
    MaxGirth          int     `json:"max_girth" yaml:"max_girth"`
    LargeLength       int     `json:"large_length" yaml:"large_length"`
    LargeGirth        int     `json:"large_girth" yaml:"large_girth"`
    AHSWeightLb       float64 `json:"ahs_weight_lb" yaml:"ahs_weight_lb"`
    AHSGirth          int     `json:"ahs_girth" yaml:"ahs_girth"`
    AHSLength         int     `json:"ahs_length" yaml:"ahs_length"`
    AHSWidth          int     `json:"ahs_width" yaml:"ahs_width"`
    NonStandardLength int     `json:"non_standard_length" yaml:"non_standard_length"`
    NonStandardWidth  int     `json:"non_standard_width" yaml:"non_standard_width"`
    NonStandardHeight int     `json:"non_standard_height" yaml:"non_standard_height"`
    LargeMinBillable  int     `json:"large_min_billable" yaml:"large_min_billable"`
}

func DefaultAmazonLimits() AmazonLimits {
    return AmazonLimits{
        MaxWeightLb:       150,
        MaxLength:         108,
        MaxGirth:          165,
        LargeLength:       96,
        LargeGirth:        130,
        AHSWeightLb:       50,
        AHSGirth:          105,
        AHSLength:         47,
        AHSWidth:          42,
        NonStandardLength: 37,
        NonStandardWidth:  30,
        NonStandardHeight: 24,
        LargeMinBillable:  90,
    }
}

// AmazonTables is the reference data of the Amazon Shipping engine.
type AmazonTables struct {
    Version          string                     `json:"version" yaml:"version"`
    Rates            WeightZoneTable            `json:"rates" yaml:"rates"`
    ZoneGroups       map[string]string          `json:"zone_groups" yaml:"zone_groups"`
    DefaultZoneGroup string                     `json:"default_zone_group" yaml:"default_zone_group"`
    Surcharges       map[SurchargeType]ZoneFees `json:"surcharges" yaml:"surcharges"`
    ExtraHeavy       float64                    `json:"extra_heavy" yaml:"extra_heavy"`
    DAS              map[string]float64         `json:"das" yaml:"das"`
    Fuel             DieselTable                `json:"fuel" yaml:"fuel"`
    Limits           AmazonLimits               `json:"limits" yaml:"limits"`
}

// AmazonSettings are the per-quote options of the Amazon engine.
// FuelPct, when set, overrides the diesel price lookup.
type AmazonSettings struct {
    Zone        string   `json:"zone" yaml:"zone"`
    DieselPrice float64  `json:"diesel_price" yaml:"diesel_price" validate:"gte=0"`
    FuelPct     *float64 `json:"fuel_pct,omitempty" yaml:"fuel_pct,omitempty" validate:"omitnil,gte=0"`
    DASTier     string   `json:"das_tier" yaml:"das_tier"`
}

// Amazon prices line items against Amazon Shipping tables.
type Amazon struct {
    tables   *AmazonTables
    settings AmazonSettings
    limits   AmazonLimits
    rules    Rules[Parcel]
    fuelPct  float64
}

var _ Engine = (*Amazon)(nil)

// NewAmazon builds an Amazon engine. The fuel percentage is resolved once
// since it only depends on the settings.
func NewAmazon(tables *AmazonTables, settings AmazonSettings) *Amazon {
    if tables == nil {
        tables = &AmazonTables{}
    }
    limits := tables.Limits
    if limits == (AmazonLimits{}) {
        limits = DefaultAmazonLimits()
    }
    e := &Amazon{
        tables:   tables,
        settings: settings,
        limits:   limits,
        rules:    amazonRules(limits),
    }
    if settings.FuelPct != nil {
        e.fuelPct = *settings.FuelPct
    } else {
        e.fuelPct = tables.Fuel.Percent(settings.DieselPrice)
    }
    return e
}

func amazonRules(l AmazonLimits) Rules[Parcel] {
    return Rules[Parcel]{
        {Type: AmazonExtraHeavy, Any: []Condition[Parcel]{
            {fmt.Sprintf("weight exceeds %g lb", l.MaxWeightLb), func(p Parcel) bool { return p.WeightLb > l.MaxWeightLb }},
            {fmt.Sprintf("length + girth exceeds %d in", l.MaxGirth), func(p Parcel) bool { return p.Girth() > l.MaxGirth }},
            {fmt.Sprintf("longest side exceeds %d in", l.MaxLength), func(p Parcel) bool { return p.Longest() > l.MaxLength }},
        }},
        {Type: AmazonLargePkg, Any: []Condition[Parcel]{
            {fmt.Sprintf("length + girth exceeds %d in", l.LargeGirth), func(p Parcel) bool { return p.Girth() > l.LargeGirth }},
            {fmt.Sprintf("longest side exceeds %d in", l.LargeLength), func(p Parcel) bool { return p.Longest() > l.LargeLength }},
        }},
        {Type: AmazonAHSWeight, Any: []Condition[Parcel]{
            {fmt.Sprintf("weight exceeds %g lb", l.AHSWeightLb), func(p Parcel) bool { return p.WeightLb > l.AHSWeightLb }},
        }},
        {Type: AmazonAHSGirth, Any: []Condition[Parcel]{
            {fmt.Sprintf("length + girth exceeds %d in", l.AHSGirth), func(p Parcel) bool { return p.Girth() > l.AHSGirth }},
        }},
        {Type: AmazonAHSLength, Any: []Condition[Parcel]{
            {fmt.Sprintf("longest side exceeds %d in", l.AHSLength), func(p Parcel) bool { return p.Longest() > l.AHSLength }},
        }},
        {Type: AmazonAHSWidth, Any: []Condition[Parcel]{
            {fmt.Sprintf("second longest side exceeds %d in", l.AHSWidth), func(p Parcel) bool { return p.Second() > l.AHSWidth }},
        }},
        {Type: AmazonNonStandard, Any: []Condition[Parcel]{
            {fmt.Sprintf("longest side exceeds %d in", l.NonStandardLength), func(p Parcel) bool { return p.Longest() > l.NonStandardLength }},
            {fmt.Sprintf("second longest side exceeds %d in", l.NonStandardWidth), func(p Parcel) bool { return p.Second() > l.NonStandardWidth }},
            {fmt.Sprintf("shortest side exceeds %d in", l.NonStandardHeight), func(p Parcel) bool { return p.Third() > l.NonStandardHeight }},
        }},
    }
}

func (e *Amazon) Carrier() Carrier   { return AmazonShipping }
func (e *Amazon) Currency() string   { return USD }
func (e *Amazon) WeightUnit() string { return "lb" }

// FuelPct is the fuel surcharge percentage in effect for this engine.
func (e *Amazon) FuelPct() float64 { return e.fuelPct }

// ZoneGroup maps the configured zone to its surcharge group.
func (e *Amazon) ZoneGroup() string {
    if g, ok := e.tables.ZoneGroups[e.settings.Zone]; ok && g != "" {
        return g
    }
    if e.tables.DefaultZoneGroup != "" {
        return e.tables.DefaultZoneGroup
    }
    return DefaultZoneGroup
}

// Classify resolves the single surcharge of a package.
func (e *Amazon) Classify(item LineItem) Classification {
    return e.classify(NormalizeImperial(item))
}

func (e *Amazon) classify(p Parcel) Classification {
    typ, reason := e.rules.Classify(p)
    c := Classification{Type: typ, Reason: reason}
    switch typ {
    case SurchargeOK:
    case AmazonExtraHeavy:
        c.Amount = e.tables.ExtraHeavy
    default:
        c.Amount = e.tables.Surcharges[typ].Fee(e.ZoneGroup())
        if typ == AmazonLargePkg {
            c.MinBillable = e.limits.LargeMinBillable
        }
    }
    return c
}

// BaseRate looks up the zone rate; weights above the table are clamped to it.
func (e *Amazon) BaseRate(billable int) float64 {
    if billable > MaxTableWeight {
        billable = MaxTableWeight
    }
    v, _ := e.tables.Rates.Lookup(billable, e.settings.Zone)
    return v
}

func (e *Amazon) dasFee() float64 {
    return e.tables.DAS[e.settings.DASTier]
}

// Price computes the unrounded breakdown of one line.
func (e *Amazon) Price(item LineItem) LineResult {
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
        FuelPct:        e.fuelPct,
        DAS:            e.dasFee(),
    }
    res.Fuel = res.BaseRate * e.fuelPct / 100
    res.PackageTotal = res.BaseRate + res.Fuel + c.Amount + res.DAS
    res.LineTotal = res.PackageTotal * float64(quantity(item))
    return res
}
