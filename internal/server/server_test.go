package server

import (
    "bytes"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"

    "parcelquote/internal/rate"
    "parcelquote/internal/ratedata"
)

func newTestHandler(t *testing.T, opts ...Option) http.Handler {
    t.Helper()
    tables, err := ratedata.Default()
    if err != nil {
        t.Fatalf("load tables: %v", err)
    }
    return New(tables, opts...)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
    t.Helper()
    var buf bytes.Buffer
    if body != nil {
        if s, ok := body.(string); ok {
            buf.WriteString(s)
        } else if err := json.NewEncoder(&buf).Encode(body); err != nil {
            t.Fatalf("encode body: %v", err)
        }
    }
    req := httptest.NewRequest(method, path, &buf)
    req.Header.Set("Content-Type", "application/json")
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    return rr
}

var smallBox = map[string]any{"name": "box", "length_cm": 40, "width_cm": 20, "height_cm": 15, "weight_kg": 4, "quantity": 1}

func TestHealthz(t *testing.T) {
    rr := do(t, newTestHandler(t), http.MethodGet, "/healthz", nil)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    if body := rr.Body.String(); body != "ok" {
        t.Fatalf("expected body 'ok', got %q", body)
    }
}

func TestRequestIDHeader(t *testing.T) {
    h := newTestHandler(t)
    rr := do(t, h, http.MethodGet, "/healthz", nil)
    if rid := rr.Header().Get("X-Request-ID"); rid == "" {
        t.Fatalf("expected X-Request-ID header to be set")
    }

    req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
    req.Header.Set("X-Request-ID", "abc-123")
    rr = httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rid := rr.Header().Get("X-Request-ID"); rid != "abc-123" {
        t.Fatalf("expected request id to be propagated, got %q", rid)
    }
}

func TestCarriers(t *testing.T) {
    rr := do(t, newTestHandler(t), http.MethodGet, "/carriers", nil)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    var res []CarrierInfo
    if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
        t.Fatalf("failed to unmarshal: %v", err)
    }
    if len(res) != 3 {
        t.Fatalf("expected 3 carriers, got %+v", res)
    }
    if res[2].Carrier != rate.YamatoTaqbin || res[2].Currency != rate.JPY || res[2].Version != "2025-04" {
        t.Fatalf("unexpected yamato entry: %+v", res[2])
    }
}

func TestQuoteFedEx(t *testing.T) {
    rr := do(t, newTestHandler(t), http.MethodPost, "/quotes/fedex", map[string]any{
        "items":    []any{smallBox},
        "settings": map[string]any{"zone": "2"},
    })
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d; body=%s", rr.Code, rr.Body.String())
    }
    var res rate.BatchResult
    if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
        t.Fatalf("failed to unmarshal: %v", err)
    }
    if res.Carrier != rate.FedExGround || res.Currency != rate.USD {
        t.Fatalf("unexpected header: %+v", res)
    }
    if res.Lines[0].BillableWeight != 9 || res.Total != 14.04 {
        t.Fatalf("unexpected quote: %+v", res)
    }
}

func TestQuoteYamato_ItemAliases(t *testing.T) {
    rr := do(t, newTestHandler(t), http.MethodPost, "/quotes/ta-q-bin", map[string]any{
        "items": []any{
            map[string]any{"sku": "A-1", "dimensions": map[string]any{"length": 30, "width": "25", "height": 20}, "weight": 8, "qty": 2},
            map[string]any{"name": "sample", "l": 10, "w": 10, "h": 10, "kg": 1, "quantity": 0},
        },
        "settings": map[string]any{"origin": "kanto", "destination": "kansai"},
    })
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d; body=%s", rr.Code, rr.Body.String())
    }
    var res rate.BatchResult
    if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
        t.Fatalf("failed to unmarshal: %v", err)
    }
    if res.Lines[0].Name != "A-1" || res.Lines[0].Size != 100 || res.Lines[0].BaseRate != 1700 {
        t.Fatalf("unexpected first line: %+v", res.Lines[0])
    }
    if !res.Lines[1].Excluded {
        t.Fatalf("zero-quantity line should be excluded: %+v", res.Lines[1])
    }
    if res.Total != 3400 || res.Packages != 2 {
        t.Fatalf("unexpected totals: %+v", res)
    }
}

func TestCompare(t *testing.T) {
    rr := do(t, newTestHandler(t), http.MethodPost, "/quotes/compare", map[string]any{
        "items":  []any{smallBox},
        "fedex":  map[string]any{"zone": "2"},
        "amazon": map[string]any{"zone": "2", "diesel_price": 3.6},
    })
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d; body=%s", rr.Code, rr.Body.String())
    }
    var res CompareResponse
    if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
        t.Fatalf("failed to unmarshal: %v", err)
    }
    if len(res.Results) != 2 {
        t.Fatalf("expected two carriers, got %v", res.Results)
    }
    if _, ok := res.Results[rate.YamatoTaqbin]; ok {
        t.Fatalf("carrier without settings should be skipped")
    }
    amazon := res.Results[rate.AmazonShipping]
    if amazon.Lines[0].FuelPct != 14.25 {
        t.Fatalf("unexpected amazon fuel pct: %v", amazon.Lines[0].FuelPct)
    }
    if res.Results[rate.FedExGround].Total != 14.04 {
        t.Fatalf("unexpected fedex total: %v", res.Results[rate.FedExGround].Total)
    }
}
