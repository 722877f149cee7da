package main

import (
    "encoding/json"
    "fmt"
    "io"
    "os"
    "strings"

    "github.com/go-playground/validator/v10"
    "github.com/spf13/cobra"
    "gopkg.in/yaml.v3"

    "parcelquote/internal/rate"
    "parcelquote/internal/ratedata"
)

func newQuoteCmd() *cobra.Command {
    cmd := &cobra.Command{
        Use:   "quote",
        Short: "Price an item list against one or all carriers",
        Example: `  quotectl quote --carrier fedex --items items.yaml --settings settings.yaml
  quotectl quote --carrier all --items items.yaml --output json`,
        RunE: runQuote,
    }
    cmd.Flags().StringP("carrier", "c", "all", "fedex, amazon, yamato or all")
    cmd.Flags().StringP("items", "i", "", "YAML file with the line items")
    cmd.Flags().StringP("settings", "s", "", "YAML file with per-carrier settings")
    cmd.Flags().StringP("output", "o", "table", "table or json")
    _ = cmd.MarkFlagRequired("items")
    return cmd
}

func runQuote(cmd *cobra.Command, _ []string) error {
    carrier, _ := cmd.Flags().GetString("carrier")
    itemsPath, _ := cmd.Flags().GetString("items")
    settingsPath, _ := cmd.Flags().GetString("settings")
    output, _ := cmd.Flags().GetString("output")

    carriers, err := parseCarriers(carrier)
    if err != nil {
        return err
    }
    tables, err := loadTables(cmd)
    if err != nil {
        return err
    }
    items, err := readItems(itemsPath)
    if err != nil {
        return err
    }
    var settings rate.Settings
    if settingsPath != "" {
        if err := readYAML(settingsPath, &settings); err != nil {
            return err
        }
        if err := validator.New().Struct(settings); err != nil {
            return fmt.Errorf("%s: %w", settingsPath, err)
        }
    }

    results := make([]rate.BatchResult, 0, len(carriers))
    for _, c := range carriers {
        results = append(results, rate.Quote(rate.New(c, tables, settings), items))
    }

    out := cmd.OutOrStdout()
    switch output {
    case "json":
        enc := json.NewEncoder(out)
        enc.SetIndent("", "  ")
        return enc.Encode(results)
    case "table":
        for _, res := range results {
            if err := renderBatch(out, res, tables.Version(res.Carrier)); err != nil {
                return err
            }
        }
        return nil
    default:
        return fmt.Errorf("unknown output %q", output)
    }
}

func newCarriersCmd() *cobra.Command {
    return &cobra.Command{
        Use:   "carriers",
        Short: "List carriers and the version of their rate tables",
        RunE: func(cmd *cobra.Command, _ []string) error {
            tables, err := loadTables(cmd)
            if err != nil {
                return err
            }
            return renderCarriers(cmd.OutOrStdout(), tables)
        },
    }
}

func parseCarriers(name string) ([]rate.Carrier, error) {
    if strings.EqualFold(strings.TrimSpace(name), "all") {
        return rate.Carriers, nil
    }
    var out []rate.Carrier
    for _, part := range strings.Split(name, ",") {
        c, err := rate.ParseCarrier(part)
        if err != nil {
            return nil, fmt.Errorf("%w: %q", err, part)
        }
        out = append(out, c)
    }
    return out, nil
}

func loadTables(cmd *cobra.Command) (rate.Tables, error) {
    dir, _ := cmd.Flags().GetString("data")
    if dir == "" {
        return ratedata.Default()
    }
    return ratedata.LoadDir(dir)
}

// itemFile accepts either a bare list of items or {items: [...]}.
type itemFile struct {
    Items []rate.LineItem `yaml:"items"`
}

func readItems(path string) ([]rate.LineItem, error) {
    data, err := readFile(path)
    if err != nil {
        return nil, err
    }
    var items []rate.LineItem
    if err := yaml.Unmarshal(data, &items); err != nil {
        var f itemFile
        if err2 := yaml.Unmarshal(data, &f); err2 != nil {
            return nil, fmt.Errorf("parse %s: %w", path, err)
        }
        items = f.Items
    }
    if len(items) == 0 {
        return nil, fmt.Errorf("%s: no items", path)
    }
    v := validator.New()
    for i, it := range items {
        if err := v.Struct(it); err != nil {
            return nil, fmt.Errorf("%s: item %d: %w", path, i+1, err)
        }
    }
    return items, nil
}

func readYAML(path string, v any) error {
    data, err := readFile(path)
    if err != nil {
        return err
    }
    if err := yaml.Unmarshal(data, v); err != nil {
        return fmt.Errorf("parse %s: %w", path, err)
    }
    return nil
}

// readFile reads path, or stdin when path is "-".
func readFile(path string) ([]byte, error) {
    if path == "-" {
        return io.ReadAll(os.Stdin)
    }
    return os.ReadFile(path)
}
