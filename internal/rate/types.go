package rate

import (
    "errors"
    "strings"
)

// Carrier identifies one of the supported rate engines.
type Carrier string

const (
    FedExGround    Carrier = "fedex"
    AmazonShipping Carrier = "amazon"
    YamatoTaqbin   Carrier = "yamato"
)

// Carriers lists every supported carrier in display order.
var Carriers = []Carrier{FedExGround, AmazonShipping, YamatoTaqbin}

const (
    USD = "USD"
    JPY = "JPY"
)

// ErrUnknownCarrier is returned when a carrier name cannot be resolved.
var ErrUnknownCarrier = errors.New("unknown carrier")

// ParseCarrier resolves a user supplied carrier name.
func ParseCarrier(name string) (Carrier, error) {
    switch strings.ToLower(strings.TrimSpace(name)) {
    case "fedex", "fedex_ground", "fedex-ground":
        return FedExGround, nil
    case "amazon", "amazon_shipping", "amazon-shipping":
        return AmazonShipping, nil
    case "yamato", "taqbin", "ta-q-bin":
        return YamatoTaqbin, nil
    default:
        return "", ErrUnknownCarrier
    }
}

// LineItem is one row of a quote: a package shape repeated Quantity times.
type LineItem struct {
    Name     string  `json:"name" yaml:"name"`
    LengthCm float64 `json:"length_cm" yaml:"length_cm" validate:"gte=0"`
    WidthCm  float64 `json:"width_cm" yaml:"width_cm" validate:"gte=0"`
    HeightCm float64 `json:"height_cm" yaml:"height_cm" validate:"gte=0"`
    WeightKg float64 `json:"weight_kg" yaml:"weight_kg" validate:"gte=0"`
    Quantity int     `json:"quantity" yaml:"quantity" validate:"gte=0"`
}

// SurchargeType is the single classification outcome of a line item.
type SurchargeType string

const (
    SurchargeOK SurchargeType = "OK"

    // FedEx
    FedExUnauthorized  SurchargeType = "Unauthorized"
    FedExOversize      SurchargeType = "Oversize"
    FedExAHSDimensions SurchargeType = "AHS-Dimensions"
    FedExAHSWeight     SurchargeType = "AHS-Weight"

    // Amazon
    AmazonExtraHeavy  SurchargeType = "ExtraHeavy"
    AmazonLargePkg    SurchargeType = "LargePkg"
    AmazonAHSWeight   SurchargeType = "AHS-Weight"
    AmazonAHSGirth    SurchargeType = "AHS-Girth"
    AmazonAHSLength   SurchargeType = "AHS-Length"
    AmazonAHSWidth    SurchargeType = "AHS-Width"
    AmazonNonStandard SurchargeType = "NonStandard"

    // Yamato has no surcharges; a line either fits a size tier or it does not.
    YamatoLimitExceeded SurchargeType = "LimitExceeded"
)

// Classification is the outcome of a carrier's surcharge rules for one package.
type Classification struct {
    Type   SurchargeType `json:"type"`
    Reason string        `json:"reason,omitempty"`
    Amount float64       `json:"amount"`
    // MinBillable is the billable weight floor the classification imposes, in lb.
    MinBillable int `json:"min_billable,omitempty"`
}

// LineResult is the priced breakdown of one LineItem.
type LineResult struct {
    Index    int    `json:"index"`
    Name     string `json:"name"`
    Quantity int    `json:"quantity"`
    // Excluded is set for zero-quantity lines; they are shown but not summed.
    Excluded bool `json:"excluded,omitempty"`
    // Error carries the reason a line could not be priced at all.
    Error string `json:"error,omitempty"`
    // CoolUnavailable flags a cool-service request on a size that cannot take it.
    CoolUnavailable bool `json:"cool_unavailable,omitempty"`

    ActualWeight   float64 `json:"actual_weight"`
    DimWeight      float64 `json:"dim_weight,omitempty"`
    BillableWeight int     `json:"billable_weight,omitempty"`

    Size       int    `json:"size,omitempty"`
    SizeSource string `json:"size_source,omitempty"`
    SumSize    int    `json:"sum_size,omitempty"`
    WeightSize int    `json:"weight_size,omitempty"`

    Surcharge Classification `json:"surcharge"`

    BaseRate     float64 `json:"base_rate"`
    FuelPct      float64 `json:"fuel_pct,omitempty"`
    Fuel         float64 `json:"fuel"`
    Residential  float64 `json:"residential"`
    DAS          float64 `json:"das"`
    Cool         float64 `json:"cool"`
    SameDay      float64 `json:"same_day"`
    Discount     float64 `json:"discount"`
    PackageTotal float64 `json:"package_total"`
    LineTotal    float64 `json:"line_total"`
}

// Subtotals are per-category sums over the billable lines of a batch.
type Subtotals struct {
    Base        float64 `json:"base"`
    Fuel        float64 `json:"fuel"`
    Surcharge   float64 `json:"surcharge"`
    Residential float64 `json:"residential"`
    DAS         float64 `json:"das"`
    Cool        float64 `json:"cool"`
    SameDay     float64 `json:"same_day"`
    Discount    float64 `json:"discount"`
}

// BatchResult aggregates the lines of one quote.
type BatchResult struct {
    Carrier    Carrier      `json:"carrier"`
    Currency   string       `json:"currency"`
    WeightUnit string       `json:"weight_unit"`
    Lines      []LineResult `json:"lines"`
    Subtotals  Subtotals    `json:"subtotals"`
    Total      float64      `json:"total"`
    Packages   int          `json:"packages"`
    Errors     int          `json:"errors"`
}
