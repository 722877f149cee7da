package rate

// Engine is implemented by every carrier. Engines hold immutable tables and
// settings, so one value can price any number of batches concurrently.
type Engine interface {
    Carrier() Carrier
    Currency() string
    WeightUnit() string
    // Classify returns the one surcharge outcome of a package.
    Classify(item LineItem) Classification
    // Price returns the unrounded breakdown of a line.
    Price(item LineItem) LineResult
}

// Tables bundles the reference data of all carriers.
type Tables struct {
    FedEx  *FedExTables  `json:"fedex" yaml:"fedex"`
    Amazon *AmazonTables `json:"amazon" yaml:"amazon"`
    Yamato *YamatoTables `json:"yamato" yaml:"yamato"`
}

// Version returns the dataset version of a carrier's tables.
func (t Tables) Version(c Carrier) string {
    switch c {
    case FedExGround:
        if t.FedEx != nil {
            return t.FedEx.Version
        }
    case AmazonShipping:
        if t.Amazon != nil {
            return t.Amazon.Version
        }
    case YamatoTaqbin:
        if t.Yamato != nil {
            return t.Yamato.Version
        }
    }
    return ""
}

// Settings bundles the per-quote options of all carriers.
type Settings struct {
    FedEx  FedExSettings  `json:"fedex" yaml:"fedex"`
    Amazon AmazonSettings `json:"amazon" yaml:"amazon"`
    Yamato YamatoSettings `json:"yamato" yaml:"yamato"`
}

// NewByName returns the engine for a carrier name.
func NewByName(name string, t Tables, s Settings) (Engine, error) {
    c, err := ParseCarrier(name)
    if err != nil {
        return nil, err
    }
    return New(c, t, s), nil
}

// New returns the engine for a carrier.
func New(c Carrier, t Tables, s Settings) Engine {
    switch c {
    case AmazonShipping:
        return NewAmazon(t.Amazon, s.Amazon)
    case YamatoTaqbin:
        return NewYamato(t.Yamato, s.Yamato)
    default:
        return NewFedEx(t.FedEx, s.FedEx)
    }
}

func quantity(item LineItem) int {
    if item.Quantity < 0 {
        return 0
    }
    return item.Quantity
}

// Quote prices every item and aggregates the batch. Zero-quantity and error
// lines are listed but left out of the sums. Amounts are rounded here and
// nowhere else.
func Quote(e Engine, items []LineItem) BatchResult {
    cur := e.Currency()
    res := BatchResult{
        Carrier:    e.Carrier(),
        Currency:   cur,
        WeightUnit: e.WeightUnit(),
        Lines:      make([]LineResult, 0, len(items)),
    }
    var sub Subtotals
    var total float64
    for i, item := range items {
        line := e.Price(item)
        line.Index = i
        qty := quantity(item)
        switch {
        case line.Error != "":
            res.Errors++
            line.Excluded = qty == 0
        case qty == 0:
            line.Excluded = true
        default:
            q := float64(qty)
            sub.Base += line.BaseRate * q
            sub.Fuel += line.Fuel * q
            sub.Surcharge += line.Surcharge.Amount * q
            sub.Residential += line.Residential * q
            sub.DAS += line.DAS * q
            sub.Cool += line.Cool * q
            sub.SameDay += line.SameDay * q
            sub.Discount += line.Discount * q
            total += line.LineTotal
            res.Packages += qty
        }
        res.Lines = append(res.Lines, roundLine(line, cur))
    }
    res.Subtotals = Subtotals{
        Base:        RoundMoney(sub.Base, cur),
        Fuel:        RoundMoney(sub.Fuel, cur),
        Surcharge:   RoundMoney(sub.Surcharge, cur),
        Residential: RoundMoney(sub.Residential, cur),
        DAS:         RoundMoney(sub.DAS, cur),
        Cool:        RoundMoney(sub.Cool, cur),
        SameDay:     RoundMoney(sub.SameDay, cur),
        Discount:    RoundMoney(sub.Discount, cur),
    }
    res.Total = RoundMoney(total, cur)
    return res
}

func roundLine(l LineResult, cur string) LineResult {
    l.ActualWeight = round(l.ActualWeight, 2)
    l.DimWeight = round(l.DimWeight, 2)
    l.Surcharge.Amount = RoundMoney(l.Surcharge.Amount, cur)
    l.BaseRate = RoundMoney(l.BaseRate, cur)
    l.Fuel = RoundMoney(l.Fuel, cur)
    l.Residential = RoundMoney(l.Residential, cur)
    l.DAS = RoundMoney(l.DAS, cur)
    l.Cool = RoundMoney(l.Cool, cur)
    l.SameDay = RoundMoney(l.SameDay, cur)
    l.Discount = RoundMoney(l.Discount, cur)
    l.PackageTotal = RoundMoney(l.PackageTotal, cur)
    l.LineTotal = RoundMoney(l.LineTotal, cur)
    return l
}
