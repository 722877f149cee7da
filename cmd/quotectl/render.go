package main

import (
    "fmt"
    "io"
    "strconv"
    "strings"

    "github.com/pterm/pterm"

    "parcelquote/internal/rate"
)

var carrierTitles = map[rate.Carrier]string{
    rate.FedExGround:    "FedEx Ground",
    rate.AmazonShipping: "Amazon Shipping",
    rate.YamatoTaqbin:   "Yamato TA-Q-BIN",
}

func money(v float64, currency string) string {
    if currency == rate.JPY {
        return "¥" + strconv.FormatFloat(v, 'f', 0, 64)
    }
    return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}

// batchRows lays out one row per line plus a total row.
func batchRows(res rate.BatchResult) [][]string {
    metric := res.Carrier == rate.YamatoTaqbin
    rows := [][]string{{"#", "Item", "Qty", weightHeader(metric), "Class", "Base", "Fuel", "Surcharge", "Extras", "Package", "Line", "Note"}}
    for _, l := range res.Lines {
        size := strconv.Itoa(l.BillableWeight)
        if metric {
            size = fmt.Sprintf("%d (%s)", l.Size, l.SizeSource)
        }
        extras := l.Residential + l.DAS + l.Cool + l.SameDay + l.Discount
        rows = append(rows, []string{
            strconv.Itoa(l.Index + 1),
            l.Name,
            strconv.Itoa(l.Quantity),
            size,
            string(l.Surcharge.Type),
            money(l.BaseRate, res.Currency),
            money(l.Fuel, res.Currency),
            money(l.Surcharge.Amount, res.Currency),
            money(extras, res.Currency),
            money(l.PackageTotal, res.Currency),
            money(l.LineTotal, res.Currency),
            lineNote(l),
        })
    }
    rows = append(rows, []string{"", "Total", strconv.Itoa(res.Packages), "", "",
        money(res.Subtotals.Base, res.Currency),
        money(res.Subtotals.Fuel, res.Currency),
        money(res.Subtotals.Surcharge, res.Currency),
        money(res.Subtotals.Residential+res.Subtotals.DAS+res.Subtotals.Cool+res.Subtotals.SameDay+res.Subtotals.Discount, res.Currency),
        "",
        money(res.Total, res.Currency),
        "",
    })
    return rows
}

func weightHeader(metric bool) string {
    if metric {
        return "Size"
    }
    return "Billable lb"
}

func lineNote(l rate.LineResult) string {
    var notes []string
    if l.Error != "" {
        notes = append(notes, pterm.FgRed.Sprint(l.Error))
    }
    if l.CoolUnavailable {
        notes = append(notes, pterm.FgYellow.Sprint("cool service unavailable for this size"))
    }
    if l.Excluded && l.Error == "" {
        notes = append(notes, pterm.FgGray.Sprint("quantity 0, not summed"))
    }
    return strings.Join(notes, "; ")
}

func renderBatch(w io.Writer, res rate.BatchResult, version string) error {
    title := carrierTitles[res.Carrier]
    if version != "" {
        title += " (" + version + ")"
    }
    table, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(batchRows(res)).Srender()
    if err != nil {
        return err
    }
    fmt.Fprintln(w, pterm.DefaultSection.Sprint(title))
    fmt.Fprintln(w, table)
    if res.Errors > 0 {
        fmt.Fprintln(w, pterm.Warning.Sprintf("%d line(s) could not be priced", res.Errors))
    }
    return nil
}

func renderCarriers(w io.Writer, tables rate.Tables) error {
    rows := [][]string{{"Carrier", "Name", "Currency", "Tables"}}
    for _, c := range rate.Carriers {
        e := rate.New(c, tables, rate.Settings{})
        rows = append(rows, []string{string(c), carrierTitles[c], e.Currency(), tables.Version(c)})
    }
    table, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
    if err != nil {
        return err
    }
    fmt.Fprintln(w, table)
    return nil
}
