package server

import (
    "bytes"
    "encoding/json"
    "errors"
    "strconv"
    "strings"

    "parcelquote/internal/rate"
)

// ItemNormalizer maps loosely shaped item payloads into LineItems. Clients
// post items exported from spreadsheets and order systems, so the same field
// arrives under several names.
type ItemNormalizer interface {
    Normalize(body json.RawMessage) (rate.LineItem, error)
}

// ErrInvalidItem is returned when an item payload is not a JSON object.
var ErrInvalidItem = errors.New("item must be a json object")

var (
    nameKeys     = []string{"name", "sku", "description", "title"}
    lengthKeys   = []string{"length_cm", "length", "l", "dimensions.length", "dimensions.length_cm"}
    widthKeys    = []string{"width_cm", "width", "w", "dimensions.width", "dimensions.width_cm"}
    heightKeys   = []string{"height_cm", "height", "h", "dimensions.height", "dimensions.height_cm"}
    weightKeys   = []string{"weight_kg", "weight", "kg", "weight.value"}
    quantityKeys = []string{"quantity", "qty", "count"}
)

// DefaultNormalizer reads the field aliases above. A missing quantity means
// one package; an explicit zero is kept.
type DefaultNormalizer struct{}

func (n DefaultNormalizer) Normalize(body json.RawMessage) (rate.LineItem, error) {
    var payload map[string]any
    dec := json.NewDecoder(bytes.NewReader(body))
    dec.UseNumber()
    if err := dec.Decode(&payload); err != nil || payload == nil {
        return rate.LineItem{}, ErrInvalidItem
    }
    item := rate.LineItem{
        Name:     getString(payload, nameKeys),
        LengthCm: getFloat(payload, lengthKeys),
        WidthCm:  getFloat(payload, widthKeys),
        HeightCm: getFloat(payload, heightKeys),
        WeightKg: getFloat(payload, weightKeys),
        Quantity: 1,
    }
    if v := getAny(payload, quantityKeys); v != nil {
        if f, ok := toFloat(v); ok {
            item.Quantity = int(f)
        }
    }
    return item, nil
}

// getString returns the first non-empty string from the candidate keys.
func getString(m map[string]any, keys []string) string {
    for _, k := range keys {
        if s, ok := getPath(m, k).(string); ok && strings.TrimSpace(s) != "" {
            return strings.TrimSpace(s)
        }
    }
    return ""
}

// getFloat returns the first numeric value from the candidate keys. Numbers
// sent as strings are accepted.
func getFloat(m map[string]any, keys []string) float64 {
    for _, k := range keys {
        if f, ok := toFloat(getPath(m, k)); ok {
            return f
        }
    }
    return 0
}

// getAny returns the first non-nil value from the candidate keys.
func getAny(m map[string]any, keys []string) any {
    for _, k := range keys {
        if v := getPath(m, k); v != nil {
            return v
        }
    }
    return nil
}

// getPath navigates a dot-separated key into nested maps.
func getPath(m map[string]any, path string) any {
    var cur any = m
    for _, p := range strings.Split(path, ".") {
        mm, ok := cur.(map[string]any)
        if !ok {
            return nil
        }
        v, ok := mm[p]
        if !ok {
            return nil
        }
        cur = v
    }
    return cur
}

func toFloat(v any) (float64, bool) {
    switch t := v.(type) {
    case float64:
        return t, true
    case json.Number:
        f, err := t.Float64()
        return f, err == nil
    case string:
        f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
        return f, err == nil
    default:
        return 0, false
    }
}
