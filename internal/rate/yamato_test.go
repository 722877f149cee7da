package rate

import (
    "strings"
    "testing"
)

func TestYamato_WeightTierGoverns(t *testing.T) {
    e := NewYamato(testYamatoTables(), YamatoSettings{Origin: "kanto", Destination: "kansai"})
    size := e.Size(LineItem{LengthCm: 30, WidthCm: 25, HeightCm: 20, WeightKg: 8})
    if size.SumSize != 80 || size.WeightSize != 100 {
        t.Fatalf("unexpected tiers: %+v", size)
    }
    if size.Applied != 100 || size.Source != SizeByWeight {
        t.Fatalf("unexpected applied size: %+v", size)
    }
}

func TestYamato_TieFavorsSum(t *testing.T) {
    e := NewYamato(testYamatoTables(), YamatoSettings{})
    size := e.Size(LineItem{LengthCm: 40, WidthCm: 30, HeightCm: 30, WeightKg: 10})
    if size.Applied != 100 || size.Source != SizeBySum {
        t.Fatalf("unexpected applied size: %+v", size)
    }
}

func TestYamato_AppliedSizeIsMaxOfTiers(t *testing.T) {
    e := NewYamato(testYamatoTables(), YamatoSettings{})
    for sum := 10.0; sum <= 200; sum += 7 {
        for kg := 0.5; kg <= 30; kg += 1.5 {
            s := e.Size(LineItem{LengthCm: sum / 3, WidthCm: sum / 3, HeightCm: sum / 3, WeightKg: kg})
            if s.Applied < s.SumSize || s.Applied < s.WeightSize {
                t.Fatalf("applied %d below a tier: %+v", s.Applied, s)
            }
            if s.Applied != max(s.SumSize, s.WeightSize) {
                t.Fatalf("applied should be the larger tier: %+v", s)
            }
        }
    }
}

func TestYamato_HardLimits(t *testing.T) {
    e := NewYamato(testYamatoTables(), YamatoSettings{Origin: "kanto", Destination: "kansai"})
    cases := []struct {
        item   LineItem
        reason string
    }{
        {LineItem{LengthCm: 171, WidthCm: 10, HeightCm: 10, WeightKg: 1, Quantity: 1}, "longest side"},
        {LineItem{LengthCm: 100, WidthCm: 60, HeightCm: 41, WeightKg: 1, Quantity: 1}, "three-side sum"},
        {LineItem{LengthCm: 10, WidthCm: 10, HeightCm: 10, WeightKg: 30.5, Quantity: 1}, "weight"},
    }
    for _, tc := range cases {
        line := e.Price(tc.item)
        if !strings.Contains(line.Error, tc.reason) {
            t.Fatalf("expected %q error, got %q", tc.reason, line.Error)
        }
        if line.PackageTotal != 0 || line.LineTotal != 0 {
            t.Fatalf("error line should price to zero: %+v", line)
        }
    }
}

func TestYamato_RouteAndPayment(t *testing.T) {
    tables := testYamatoTables()
    item := LineItem{LengthCm: 30, WidthCm: 25, HeightCm: 20, WeightKg: 8, Quantity: 1}

    cash := NewYamato(tables, YamatoSettings{Origin: "kanto", Destination: "kansai"}).Price(item)
    if cash.Size != 100 || cash.BaseRate != 1560 {
        t.Fatalf("unexpected cash rate: %+v", cash)
    }
    cashless := NewYamato(tables, YamatoSettings{Origin: "kanto", Destination: "kansai", Payment: PayCashless}).Price(item)
    if cashless.BaseRate != 1500 {
        t.Fatalf("unexpected cashless rate: %v", cashless.BaseRate)
    }
    missing := NewYamato(tables, YamatoSettings{Origin: "hokkaido", Destination: "kansai"}).Price(item)
    if missing.BaseRate != 0 || missing.Error != "" {
        t.Fatalf("lookup miss should be a zero rate, got %+v", missing)
    }
}

func TestYamato_SamePrefecture(t *testing.T) {
    tables := testYamatoTables()
    small := LineItem{LengthCm: 20, WidthCm: 20, HeightCm: 15, WeightKg: 1, Quantity: 1}

    intra := NewYamato(tables, YamatoSettings{Origin: "kanto", Destination: "kanto", SamePrefecture: true})
    if got := intra.Price(small).BaseRate; got != 800 {
        t.Fatalf("expected intra-prefecture rate, got %v", got)
    }
    excluded := NewYamato(tables, YamatoSettings{Origin: "okinawa", Destination: "okinawa", SamePrefecture: true})
    if got := excluded.Price(small).BaseRate; got != 940 {
        t.Fatalf("excluded zone should use the route table, got %v", got)
    }
    // no 140 row in the intra table
    big := LineItem{LengthCm: 50, WidthCm: 50, HeightCm: 40, WeightKg: 5, Quantity: 1}
    if got := intra.Price(big).BaseRate; got != 1940 {
        t.Fatalf("expected fallback to route table, got %v", got)
    }
}

func TestYamato_CoolService(t *testing.T) {
    tables := testYamatoTables()
    e := NewYamato(tables, YamatoSettings{Origin: "kanto", Destination: "kansai", Cool: true})

    ok := e.Price(LineItem{LengthCm: 30, WidthCm: 25, HeightCm: 20, WeightKg: 8, Quantity: 1})
    if ok.Cool != 440 || ok.CoolUnavailable {
        t.Fatalf("unexpected cool charge: %+v", ok)
    }
    if ok.PackageTotal != 2000 {
        t.Fatalf("unexpected total: %v", ok.PackageTotal)
    }

    big := e.Price(LineItem{LengthCm: 50, WidthCm: 50, HeightCm: 40, WeightKg: 5, Quantity: 1})
    if !big.CoolUnavailable || big.Cool != 0 {
        t.Fatalf("cool on size %d should be flagged: %+v", big.Size, big)
    }
    if big.Error != "" {
        t.Fatalf("cool flag must not be a hard error: %q", big.Error)
    }
    if big.PackageTotal != big.BaseRate {
        t.Fatalf("flagged line should still be priced without cool: %+v", big)
    }
}

func TestYamato_SameDay(t *testing.T) {
    tables := testYamatoTables()
    item := LineItem{LengthCm: 20, WidthCm: 20, HeightCm: 15, WeightKg: 1, Quantity: 1}

    if got := NewYamato(tables, YamatoSettings{Origin: "kanto", Destination: "kansai", SameDay: true}).Price(item).SameDay; got != 500 {
        t.Fatalf("expected standard same-day fee, got %v", got)
    }
    if got := NewYamato(tables, YamatoSettings{Origin: "kanto", Destination: "okinawa", SameDay: true}).Price(item).SameDay; got != 300 {
        t.Fatalf("expected remote same-day fee, got %v", got)
    }
    if got := NewYamato(tables, YamatoSettings{Origin: "okinawa", Destination: "kanto", SameDay: true}).Price(item).SameDay; got != 300 {
        t.Fatalf("expected remote same-day fee for remote origin, got %v", got)
    }
}

func TestYamato_Discounts(t *testing.T) {
    catalog := testYamatoTables().Discounts
    sum := func(ds []Discount) float64 {
        var s float64
        for _, d := range ds {
            s += d.Amount
        }
        return s
    }

    got := ActiveDiscounts(catalog, []string{"dropoff", "member_dropoff", "digital"})
    if len(got) != 2 || sum(got) != -230 {
        t.Fatalf("member drop-off should replace drop-off: %+v", got)
    }
    got = ActiveDiscounts(catalog, []string{"dropoff", "digital", "multi", "bogus"})
    if len(got) != 3 || sum(got) != -270 {
        t.Fatalf("plain discounts should stack: %+v", got)
    }
    if got := ActiveDiscounts(catalog, nil); len(got) != 0 {
        t.Fatalf("expected no discounts, got %+v", got)
    }
}

func TestYamato_TotalFlooredAtZero(t *testing.T) {
    tables := testYamatoTables()
    tables.IntraPrefecture[PayCash][60] = 200
    e := NewYamato(tables, YamatoSettings{
        Origin:         "kanto",
        Destination:    "kanto",
        SamePrefecture: true,
        Discounts:      []string{"member_dropoff", "digital", "multi"},
    })
    line := e.Price(LineItem{LengthCm: 20, WidthCm: 20, HeightCm: 15, WeightKg: 1, Quantity: 3})
    if line.Discount != -330 {
        t.Fatalf("unexpected discount: %v", line.Discount)
    }
    if line.PackageTotal != 0 || line.LineTotal != 0 {
        t.Fatalf("total should floor at zero: %+v", line)
    }
}
