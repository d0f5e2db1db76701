package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"intlab/rpncalc/pkg/config"
	"intlab/rpncalc/pkg/engine"
	"intlab/rpncalc/pkg/history"
	"intlab/rpncalc/pkg/history/storage"
	"intlab/rpncalc/pkg/security/auth"
	"intlab/rpncalc/pkg/server/api"
	"intlab/rpncalc/pkg/telemetry/health"
	"intlab/rpncalc/pkg/telemetry/metrics"
)

type testEnv struct {
	handler http.Handler
	store   *storage.MemoryStorage
	metrics *metrics.Collector
}

// recordSync stores records immediately so tests can query them.
type recordSync struct{ store history.Storage }

func (r recordSync) Record(ctx context.Context, record *history.Record) error {
	return r.store.Store(ctx, record)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := storage.NewMemoryStorage()
	collector := metrics.NewCollector(&config.MetricsConfig{Enabled: true, Namespace: "rpncalc"}, nil)
	eng := engine.New(engine.Options{
		Calculator: config.CalculatorConfig{MaxExpressionLength: 64},
		Recorder:   recordSync{store},
		Metrics:    collector,
	})

	checker := health.New(time.Second)
	checker.RegisterCheck("calculator", health.CalculatorCheck(eng.Calculator()))
	checker.RegisterCheck("history", health.PingCheck(store))

	cfg := config.Default().Server
	cfg.MaxBodyBytes = 256

	srv := New(&cfg, Dependencies{
		Engine:      eng,
		Store:       store,
		Checker:     checker,
		Metrics:     collector,
		MetricsPath: "/metrics",
		Build:       BuildInfo{Version: "test"},
	})
	return &testEnv{handler: srv.Handler(), store: store, metrics: collector}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestCalculate(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		expression string
		want       float64
		postfix    string
	}{
		{"3+4", 7, "3 4 +"},
		{"2 * (3 + 4)", 14, "2 3 4 + *"},
		{"-5+10", 5, "-5 10 +"},
		{"7/2", 3.5, "7 2 /"},
	}

	for _, tt := range tests {
		body, _ := json.Marshal(map[string]string{"expression": tt.expression})
		rec := env.do(t, http.MethodPost, "/v1/calculate", string(body))
		if rec.Code != http.StatusOK {
			t.Fatalf("%q: status = %d, body %s", tt.expression, rec.Code, rec.Body.String())
		}

		resp := decode[api.CalculateResponse](t, rec)
		if resp.Result != tt.want || resp.Postfix != tt.postfix || resp.Expression != tt.expression {
			t.Errorf("%q: response = %+v", tt.expression, resp)
		}
	}

	if env.store.Size() != len(tests) {
		t.Errorf("history size = %d, want %d", env.store.Size(), len(tests))
	}
}

func TestCalculate_Errors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name      string
		body      string
		wantCode  int
		wantType  string
		wantError string
	}{
		{"divide by zero", `{"expression":"10/(5-5)"}`, 422, api.ErrorTypeEvaluation, "divide_by_zero"},
		{"empty expression", `{"expression":"  "}`, 422, api.ErrorTypeEvaluation, "empty_input"},
		{"unsupported", `{"expression":"2+x"}`, 422, api.ErrorTypeEvaluation, "unsupported_symbol"},
		{"missing field", `{}`, 400, api.ErrorTypeInvalidRequest, api.CodeMissingField},
		{"unknown field", `{"expr":"1"}`, 400, api.ErrorTypeInvalidRequest, api.CodeInvalidJSON},
		{"bad json", `{"expression":`, 400, api.ErrorTypeInvalidRequest, api.CodeInvalidJSON},
		{"two objects", `{"expression":"1"}{"expression":"2"}`, 400, api.ErrorTypeInvalidRequest, api.CodeInvalidJSON},
		{"too long", fmt.Sprintf(`{"expression":%q}`, strings.Repeat("1+", 40)+"1"), 413, api.ErrorTypeTooLarge, api.CodeTooLong},
		{"body too large", fmt.Sprintf(`{"expression":%q}`, strings.Repeat(" ", 300)), 413, api.ErrorTypeTooLarge, api.CodeBodyTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/v1/calculate", tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			resp := decode[api.ErrorResponse](t, rec)
			if resp.Error.Type != tt.wantType || resp.Error.Code != tt.wantError {
				t.Errorf("error = %+v, want type %s code %s", resp.Error, tt.wantType, tt.wantError)
			}
		})
	}
}

func TestCalculate_NonFiniteResult(t *testing.T) {
	cfg := config.Default().Server
	srv := New(&cfg, Dependencies{Engine: engine.New(engine.Options{
		Calculator: config.CalculatorConfig{MaxExpressionLength: config.DefaultMaxExpressionLength},
	})})
	handler := srv.Handler()

	big := "1" + strings.Repeat("0", 200)
	for path, body := range map[string]string{
		"/v1/calculate": fmt.Sprintf(`{"expression":%q}`, big+"*"+big),
		"/v1/evaluate":  fmt.Sprintf(`{"postfix":%q}`, big+" "+big+" *"),
	} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%s status = %d, want 422 (body %q)", path, rec.Code, rec.Body.String())
		}
		resp := decode[api.ErrorResponse](t, rec)
		if resp.Error.Code != "non_finite_result" || resp.Error.Suggestion == "" {
			t.Errorf("%s error = %+v", path, resp.Error)
		}
	}
}

func TestCalculate_ErrorPosition(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/calculate", `{"expression":"10 / (5 - 5)"}`)
	resp := decode[api.ErrorResponse](t, rec)

	if resp.Error.Position == nil || *resp.Error.Position != 2 {
		t.Errorf("position = %v, want 2", resp.Error.Position)
	}
	if !strings.Contains(resp.Error.Context, "10/(5-5)") {
		t.Errorf("context = %q, want normalized input", resp.Error.Context)
	}
}

func TestCalculate_MethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)
	if rec := env.do(t, http.MethodGet, "/v1/calculate", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /v1/calculate status = %d, want 405", rec.Code)
	}
}

func TestConvertAndEvaluate(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/convert", `{"expression":"2*(3+4)"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("convert status = %d", rec.Code)
	}
	conv := decode[api.ConvertResponse](t, rec)
	if conv.Postfix != "2 3 4 + *" || len(conv.Tokens) != 5 {
		t.Errorf("convert = %+v", conv)
	}

	body, _ := json.Marshal(map[string]string{"postfix": conv.Postfix})
	rec = env.do(t, http.MethodPost, "/v1/evaluate", string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("evaluate status = %d", rec.Code)
	}
	eval := decode[api.EvaluateResponse](t, rec)
	if eval.Result != 14 {
		t.Errorf("evaluate result = %v, want 14", eval.Result)
	}

	rec = env.do(t, http.MethodPost, "/v1/evaluate", `{"postfix":"1 +"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("evaluate bad postfix status = %d, want 422", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/v1/convert", `{"expression":"(1+2"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("convert unbalanced status = %d, want 422", rec.Code)
	}
}

func TestHistory(t *testing.T) {
	env := newTestEnv(t)
	for _, expr := range []string{"1+1", "2+2", "1/0"} {
		env.do(t, http.MethodPost, "/v1/calculate", fmt.Sprintf(`{"expression":%q}`, expr))
	}

	rec := env.do(t, http.MethodGet, "/v1/history?status=error", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decode[api.HistoryResponse](t, rec)
	if resp.Total != 1 || len(resp.Records) != 1 || resp.Records[0].ErrorKind != "divide_by_zero" {
		t.Errorf("history = %+v", resp)
	}

	rec = env.do(t, http.MethodGet, "/v1/history?limit=2", "")
	resp = decode[api.HistoryResponse](t, rec)
	if resp.Total != 3 || len(resp.Records) != 2 || resp.Limit != 2 {
		t.Errorf("paged history: total=%d len=%d limit=%d", resp.Total, len(resp.Records), resp.Limit)
	}

	for _, q := range []string{"limit=0", "limit=abc", "status=maybe", "since=yesterday", "order=sideways", "offset=-1"} {
		if rec := env.do(t, http.MethodGet, "/v1/history?"+q, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("?%s status = %d, want 400", q, rec.Code)
		}
	}
}

func TestHistory_Disabled(t *testing.T) {
	cfg := config.Default().Server
	srv := New(&cfg, Dependencies{Engine: engine.New(engine.Options{})})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/history", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestProbesAndMetrics(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/v1/calculate", `{"expression":"1+1"}`)

	if rec := env.do(t, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Errorf("/health status = %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/ready", ""); rec.Code != http.StatusOK {
		t.Errorf("/ready status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec := env.do(t, http.MethodGet, "/version", "")
	if info := decode[health.VersionInfo](t, rec); info.Version != "test" {
		t.Errorf("version = %+v", info)
	}

	rec = env.do(t, http.MethodGet, "/metrics", "")
	body := rec.Body.String()
	for _, name := range []string{"rpncalc_evaluations_total", "rpncalc_http_requests_total"} {
		if !strings.Contains(body, name) {
			t.Errorf("/metrics missing %s", name)
		}
	}

	env.store.Close()
	if rec := env.do(t, http.MethodGet, "/ready", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("/ready with closed store status = %d, want 503", rec.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want client value", got)
	}
}

func TestRateLimitedRoutes(t *testing.T) {
	cfg := config.Default().Server
	cfg.RateLimit = config.RateLimitConfig{RequestsPerSecond: 0.1, Burst: 1}
	srv := New(&cfg, Dependencies{Engine: engine.New(engine.Options{})})
	handler := srv.Handler()

	do := func(method, path, body string) int {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(method, path, reader))
		return rec.Code
	}

	if code := do(http.MethodPost, "/v1/calculate", `{"expression":"1+1"}`); code != http.StatusOK {
		t.Fatalf("first request status = %d", code)
	}
	if code := do(http.MethodPost, "/v1/calculate", `{"expression":"1+1"}`); code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", code)
	}
	if code := do(http.MethodGet, "/health", ""); code != http.StatusOK {
		t.Errorf("/health status = %d, probes must not be limited", code)
	}
}

func TestAuthenticatedRoutes(t *testing.T) {
	keys, err := auth.NewAPIKeyValidator([]config.APIKeyConfig{{Name: "ci", Key: "secret"}})
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Default().Server
	srv := New(&cfg, Dependencies{Engine: engine.New(engine.Options{}), APIKeys: keys})
	handler := srv.Handler()

	do := func(path, key string) int {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"expression":"2*3"}`))
		if key != "" {
			req.Header.Set("X-API-Key", key)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do("/v1/calculate", ""); code != http.StatusUnauthorized {
		t.Errorf("without key status = %d, want 401", code)
	}
	if code := do("/v1/calculate", "wrong"); code != http.StatusUnauthorized {
		t.Errorf("wrong key status = %d, want 401", code)
	}
	if code := do("/v1/calculate", "secret"); code != http.StatusOK {
		t.Errorf("valid key status = %d, want 200", code)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("/health status = %d, probes must not require a key", rec.Code)
	}
}

func TestServer_StartAndShutdown(t *testing.T) {
	cfg := config.Default().Server
	cfg.ListenAddress = "127.0.0.1:0"
	cfg.ShutdownTimeout = 2 * time.Second

	srv := New(&cfg, Dependencies{Engine: engine.New(engine.Options{})})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for srv.Addr() == nil && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if srv.Addr() == nil {
		t.Fatal("server did not start listening")
	}

	resp, err := http.Post("http://"+srv.Addr().String()+"/v1/calculate", "application/json",
		bytes.NewBufferString(`{"expression":"6*7"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	var out api.CalculateResponse
	_ = json.NewDecoder(resp.Body).Decode(&out)
	resp.Body.Close()
	if out.Result != 42 {
		t.Errorf("result = %v, want 42", out.Result)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
	if srv.IsRunning() {
		t.Error("IsRunning after shutdown")
	}
}

func TestServer_StartTwice(t *testing.T) {
	cfg := config.Default().Server
	cfg.ListenAddress = "127.0.0.1:0"
	srv := New(&cfg, Dependencies{Engine: engine.New(engine.Options{})})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for !srv.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if err := srv.Start(ctx); err == nil {
		t.Error("second Start: expected error")
	}
}
