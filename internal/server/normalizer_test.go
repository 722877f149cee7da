package server

import (
    "encoding/json"
    "errors"
    "testing"
)

func TestDefaultNormalizer(t *testing.T) {
    n := DefaultNormalizer{}
    cases := []struct {
        body string
        name string
        l, w float64
        kg   float64
        qty  int
    }{
        {`{"name":"a","length_cm":40,"width_cm":20,"height_cm":15,"weight_kg":4,"quantity":3}`, "a", 40, 20, 4, 3},
        {`{"sku":" b ","l":"12.5","w":10,"h":5,"kg":1}`, "b", 12.5, 10, 1, 1},
        {`{"title":"c","dimensions":{"length":30,"width":25,"height":20},"weight":{"value":8},"qty":0}`, "c", 30, 25, 8, 0},
        {`{"length":"n/a","weight":2}`, "", 0, 0, 2, 1},
    }
    for _, tc := range cases {
        item, err := n.Normalize(json.RawMessage(tc.body))
        if err != nil {
            t.Fatalf("%s: unexpected error: %v", tc.body, err)
        }
        if item.Name != tc.name || item.LengthCm != tc.l || item.WidthCm != tc.w || item.WeightKg != tc.kg || item.Quantity != tc.qty {
            t.Fatalf("%s: unexpected item %+v", tc.body, item)
        }
    }
}

func TestDefaultNormalizer_NotAnObject(t *testing.T) {
    for _, body := range []string{`[1,2]`, `"box"`, `null`, `{`} {
        if _, err := (DefaultNormalizer{}).Normalize(json.RawMessage(body)); !errors.Is(err, ErrInvalidItem) {
            t.Fatalf("%s: expected ErrInvalidItem, got %v", body, err)
        }
    }
}
