package server

import (
    "context"
    "encoding/json"
    "errors"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "github.com/google/uuid"
    "go.uber.org/zap"

    "parcelquote/internal/rate"
    "parcelquote/internal/store"
)

const maxBodyBytes = 1 << 20

// ScenarioStore saves and reloads quote scenarios.
type ScenarioStore interface {
    SaveScenario(ctx context.Context, sc store.Scenario) (store.Scenario, error)
    Scenario(ctx context.Context, id uuid.UUID) (store.Scenario, error)
    Scenarios(ctx context.Context, limit int) ([]store.Scenario, error)
}

var _ ScenarioStore = (*store.Store)(nil)

type Server struct {
    tables     rate.Tables
    scenarios  ScenarioStore
    normalizer ItemNormalizer
    validator  *Validator
    log        *zap.Logger
}

type Option func(*Server)

// WithScenarioStore enables the /scenarios routes.
func WithScenarioStore(s ScenarioStore) Option {
    return func(srv *Server) { srv.scenarios = s }
}

func WithLogger(l *zap.Logger) Option {
    return func(srv *Server) { srv.log = l }
}

func WithNormalizer(n ItemNormalizer) Option {
    return func(srv *Server) { srv.normalizer = n }
}

// New returns the HTTP handler quoting against tables.
func New(tables rate.Tables, opts ...Option) http.Handler {
    s := &Server{
        tables:     tables,
        normalizer: DefaultNormalizer{},
        validator:  NewValidator(),
        log:        zap.NewNop(),
    }
    for _, o := range opts {
        o(s)
    }

    r := chi.NewRouter()
    r.Use(requestIDMiddleware)
    r.Use(loggingMiddleware(s.log))
    r.Use(middleware.Recoverer)
    r.Get("/healthz", s.handleHealth)
    r.Get("/carriers", s.handleCarriers)
    r.Post("/quotes/compare", s.handleCompare)
    r.Post("/quotes/{carrier}", s.handleQuote)
    r.Route("/scenarios", func(r chi.Router) {
        r.Post("/", s.handleSaveScenario)
        r.Get("/", s.handleListScenarios)
        r.Get("/{id}", s.handleGetScenario)
    })
    return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
    w.WriteHeader(http.StatusOK)
    w.Write([]byte("ok"))
}

type CarrierInfo struct {
    Carrier    rate.Carrier `json:"carrier"`
    Currency   string       `json:"currency"`
    WeightUnit string       `json:"weight_unit"`
    Version    string       `json:"version"`
}

func (s *Server) handleCarriers(w http.ResponseWriter, r *http.Request) {
    out := make([]CarrierInfo, 0, len(rate.Carriers))
    for _, c := range rate.Carriers {
        e := rate.New(c, s.tables, rate.Settings{})
        out = append(out, CarrierInfo{
            Carrier:    c,
            Currency:   e.Currency(),
            WeightUnit: e.WeightUnit(),
            Version:    s.tables.Version(c),
        })
    }
    writeJSON(w, http.StatusOK, out)
}

// QuoteRequest prices items for one carrier. Settings holds the options of
// that carrier only.
type QuoteRequest struct {
    Items    []json.RawMessage `json:"items"`
    Settings json.RawMessage   `json:"settings"`
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
    c, err := rate.ParseCarrier(chi.URLParam(r, "carrier"))
    if err != nil {
        writeErrorJSON(w, http.StatusNotFound, "unknown_carrier", "unknown carrier")
        return
    }
    var req QuoteRequest
    if !s.decode(w, r, &req) {
        return
    }
    items, ok := s.items(w, req.Items)
    if !ok {
        return
    }
    settings, ok := s.carrierSettings(w, c, req.Settings)
    if !ok {
        return
    }
    writeJSON(w, http.StatusOK, rate.Quote(rate.New(c, s.tables, settings), items))
}

// CompareRequest prices the same items for every carrier that has settings.
type CompareRequest struct {
    Items  []json.RawMessage    `json:"items"`
    FedEx  *rate.FedExSettings  `json:"fedex"`
    Amazon *rate.AmazonSettings `json:"amazon"`
    Yamato *rate.YamatoSettings `json:"yamato"`
}

type CompareResponse struct {
    Results map[rate.Carrier]rate.BatchResult `json:"results"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
    var req CompareRequest
    if !s.decode(w, r, &req) {
        return
    }
    items, ok := s.items(w, req.Items)
    if !ok {
        return
    }
    var settings rate.Settings
    var carriers []rate.Carrier
    if req.FedEx != nil {
        settings.FedEx = *req.FedEx
        carriers = append(carriers, rate.FedExGround)
    }
    if req.Amazon != nil {
        settings.Amazon = *req.Amazon
        carriers = append(carriers, rate.AmazonShipping)
    }
    if req.Yamato != nil {
        settings.Yamato = *req.Yamato
        carriers = append(carriers, rate.YamatoTaqbin)
    }
    if len(carriers) == 0 {
        writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "settings for at least one carrier required")
        return
    }
    if !s.valid(w, settings) {
        return
    }
    res := CompareResponse{Results: make(map[rate.Carrier]rate.BatchResult, len(carriers))}
    for _, c := range carriers {
        res.Results[c] = rate.Quote(rate.New(c, s.tables, settings), items)
    }
    writeJSON(w, http.StatusOK, res)
}

// ScenarioRequest saves a named quote.
type ScenarioRequest struct {
    Name     string            `json:"name"`
    Carrier  string            `json:"carrier"`
    Items    []json.RawMessage `json:"items"`
    Settings json.RawMessage   `json:"settings"`
}

type ScenarioResponse struct {
    Scenario store.Scenario   `json:"scenario"`
    Result   rate.BatchResult `json:"result"`
}

func (s *Server) handleSaveScenario(w http.ResponseWriter, r *http.Request) {
    if !s.scenariosEnabled(w) {
        return
    }
    var req ScenarioRequest
    if !s.decode(w, r, &req) {
        return
    }
    if strings.TrimSpace(req.Name) == "" {
        writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "name required")
        return
    }
    c, err := rate.ParseCarrier(req.Carrier)
    if err != nil {
        writeErrorJSON(w, http.StatusBadRequest, "unknown_carrier", "unknown carrier")
        return
    }
    items, ok := s.items(w, req.Items)
    if !ok {
        return
    }
    settings, ok := s.carrierSettings(w, c, req.Settings)
    if !ok {
        return
    }
    res := rate.Quote(rate.New(c, s.tables, settings), items)
    sc, err := s.scenarios.SaveScenario(r.Context(), store.Scenario{
        Name:     strings.TrimSpace(req.Name),
        Carrier:  c,
        Items:    items,
        Settings: settings,
        Total:    res.Total,
        Currency: res.Currency,
    })
    if err != nil {
        s.log.Error("save scenario", zap.Error(err))
        writeErrorJSON(w, http.StatusInternalServerError, "db_error", "failed to save scenario")
        return
    }
    writeJSON(w, http.StatusCreated, ScenarioResponse{Scenario: sc, Result: res})
}

// handleGetScenario re-quotes a saved scenario against the current tables.
func (s *Server) handleGetScenario(w http.ResponseWriter, r *http.Request) {
    if !s.scenariosEnabled(w) {
        return
    }
    id, err := uuid.Parse(chi.URLParam(r, "id"))
    if err != nil {
        writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "invalid scenario id")
        return
    }
    sc, err := s.scenarios.Scenario(r.Context(), id)
    if err != nil {
        if errors.Is(err, store.ErrNotFound) {
            writeErrorJSON(w, http.StatusNotFound, "resource_not_found", "scenario not found")
            return
        }
        s.log.Error("load scenario", zap.Stringer("id", id), zap.Error(err))
        writeErrorJSON(w, http.StatusInternalServerError, "db_error", "db error")
        return
    }
    c, err := rate.ParseCarrier(string(sc.Carrier))
    if err != nil {
        writeErrorJSON(w, http.StatusUnprocessableEntity, "unknown_carrier", "scenario carrier is no longer supported")
        return
    }
    res := rate.Quote(rate.New(c, s.tables, sc.Settings), sc.Items)
    writeJSON(w, http.StatusOK, ScenarioResponse{Scenario: sc, Result: res})
}

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
    if !s.scenariosEnabled(w) {
        return
    }
    limit := 0
    if v := r.URL.Query().Get("limit"); v != "" {
        n, err := strconv.Atoi(v)
        if err != nil {
            writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "invalid limit")
            return
        }
        limit = n
    }
    list, err := s.scenarios.Scenarios(r.Context(), limit)
    if err != nil {
        s.log.Error("list scenarios", zap.Error(err))
        writeErrorJSON(w, http.StatusInternalServerError, "db_error", "db error")
        return
    }
    writeJSON(w, http.StatusOK, list)
}

func (s *Server) scenariosEnabled(w http.ResponseWriter) bool {
    if s.scenarios == nil {
        writeErrorJSON(w, http.StatusServiceUnavailable, "scenarios_unavailable", "scenario storage is not configured")
        return false
    }
    return true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
    r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
    if err := json.NewDecoder(r.Body).Decode(v); err != nil {
        writeErrorJSON(w, http.StatusBadRequest, "invalid_json", "invalid json")
        return false
    }
    return true
}

// items normalizes and validates the raw item payloads of a request.
func (s *Server) items(w http.ResponseWriter, raw []json.RawMessage) ([]rate.LineItem, bool) {
    if len(raw) == 0 {
        writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "items required")
        return nil, false
    }
    items := make([]rate.LineItem, 0, len(raw))
    for i, body := range raw {
        item, err := s.normalizer.Normalize(body)
        if err != nil {
            writeErrorJSON(w, http.StatusBadRequest, "invalid_item", "items["+strconv.Itoa(i)+"]: "+err.Error())
            return nil, false
        }
        if err := s.validator.Struct(item); err != nil {
            writeErrorJSON(w, http.StatusBadRequest, "validation_failed", "items["+strconv.Itoa(i)+"]: "+ValidationMessage(err))
            return nil, false
        }
        items = append(items, item)
    }
    return items, true
}

// carrierSettings decodes the settings of carrier c into a Settings bundle.
func (s *Server) carrierSettings(w http.ResponseWriter, c rate.Carrier, raw json.RawMessage) (rate.Settings, bool) {
    var settings rate.Settings
    if len(raw) > 0 {
        var target any
        switch c {
        case rate.FedExGround:
            target = &settings.FedEx
        case rate.AmazonShipping:
            target = &settings.Amazon
        case rate.YamatoTaqbin:
            target = &settings.Yamato
        }
        if err := json.Unmarshal(raw, target); err != nil {
            writeErrorJSON(w, http.StatusBadRequest, "invalid_json", "invalid settings")
            return rate.Settings{}, false
        }
    }
    return settings, s.valid(w, settings)
}

func (s *Server) valid(w http.ResponseWriter, settings rate.Settings) bool {
    if err := s.validator.Struct(settings); err != nil {
        writeErrorJSON(w, http.StatusBadRequest, "validation_failed", ValidationMessage(err))
        return false
    }
    return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(v)
}

// writeErrorJSON writes a standardized JSON error response:
// {"error": {"code": string, "message": string}}
func writeErrorJSON(w http.ResponseWriter, status int, code string, message string) {
    writeJSON(w, status, map[string]any{
        "error": map[string]string{
            "code":    code,
            "message": message,
        },
    })
}

// requestIDMiddleware ensures X-Request-ID is set on the response.
// If provided in the request header, it is propagated; otherwise a UUID is generated.
func requestIDMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        rid := strings.TrimSpace(r.Header.Get("X-Request-ID"))
        if rid == "" {
            rid = uuid.New().String()
        }
        w.Header().Set("X-Request-ID", rid)
        next.ServeHTTP(w, r)
    })
}

func loggingMiddleware(l *zap.Logger) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
            start := time.Now()
            next.ServeHTTP(ww, r)
            l.Info("request",
                zap.String("method", r.Method),
                zap.String("path", r.URL.Path),
                zap.Int("status", ww.Status()),
                zap.Int("bytes", ww.BytesWritten()),
                zap.Duration("duration", time.Since(start)),
                zap.String("request_id", ww.Header().Get("X-Request-ID")),
            )
        })
    }
}
