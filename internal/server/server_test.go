package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/time/rate"
)

func newTestServer() *Server {
	return New(Options{})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode failed: %v (body %q)", err, rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestServer().Handler(), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCycle(t *testing.T) {
	body := `{"peak": 1.0, "step_size": 0.1, "cycle_type": "Half"}`
	rec := do(t, newTestServer().Handler(), http.MethodPost, "/api/cycle", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp CycleResponse
	decode(t, rec, &resp)
	if resp.PeakSteps != 10 || resp.Length != 22 || len(resp.Sequence) != 22 {
		t.Errorf("unexpected shape: steps=%d len=%d", resp.PeakSteps, resp.Length)
	}
	if resp.Sequence[11] != 0.9999999999999999 {
		t.Errorf("peak = %v", resp.Sequence[11])
	}
	if resp.ScaleFactor != 1 {
		t.Errorf("default scale factor not applied: %v", resp.ScaleFactor)
	}
}

func TestCycleDefaults(t *testing.T) {
	rec := do(t, newTestServer().Handler(), http.MethodPost, "/api/cycle", `{"peak": 0.05}`)
	var resp CycleResponse
	decode(t, rec, &resp)
	if resp.StepSize != 0.01 || resp.PeakSteps != 5 {
		t.Errorf("defaults not applied: %+v", resp)
	}
	if resp.Length != 2+5*4 {
		t.Errorf("default cycle type should be Full, length %d", resp.Length)
	}
}

func TestCycleErrors(t *testing.T) {
	h := newTestServer().Handler()
	cases := map[string]string{
		"malformed":    `{"peak":`,
		"zero step":    `{"peak": 1, "step_size": 0}`,
		"negative":     `{"peak": 1, "step_size": -0.1}`,
		"unknown type": `{"peak": 1, "cycle_type": "full"}`,
		"huge ratio":   `{"peak": 1e30, "step_size": 0.01}`,
		"huge full":    `{"peak": 1e17, "step_size": 1, "cycle_type": "Full"}`,
		"huge scaled":  `{"peak": 1e9, "step_size": 1e-3, "scale_factor": 1}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/cycle", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", rec.Code)
			}
			var e errorResponse
			decode(t, rec, &e)
			if e.Error == "" {
				t.Error("expected error message")
			}
		})
	}
}

func TestStepLimit(t *testing.T) {
	h := New(Options{MaxSteps: 100}).Handler()

	rec := do(t, h, http.MethodPost, "/api/cycle", `{"peak": 1, "step_size": 0.1, "cycle_type": "Full"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("42 steps within limit: status = %d", rec.Code)
	}
	rec = do(t, h, http.MethodPost, "/api/cycle", `{"peak": 5, "step_size": 0.1, "cycle_type": "Full"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("202 steps over limit: status = %d", rec.Code)
	}

	body := `{"peaks": [1, 1], "step_size": 0.1, "scale_factor": 1, "cycle_type": "Full"}`
	rec = do(t, h, http.MethodPost, "/api/protocol", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("84 step schedule within limit: status = %d, body %s", rec.Code, rec.Body.String())
	}
	body = `{"peaks": [1, 1], "step_size": 0.1, "scale_factor": 1, "cycle_type": "Full", "cycles": 2}`
	for _, path := range []string{"/api/protocol", "/api/report"} {
		rec = do(t, h, http.MethodPost, path, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: 168 step schedule over limit: status = %d", path, rec.Code)
		}
	}
}

func TestProtocolHugeInputs(t *testing.T) {
	h := newTestServer().Handler()
	cases := map[string]string{
		"huge peak":   `{"peaks": [1e30], "step_size": 0.01, "scale_factor": 1}`,
		"huge cycles": `{"peaks": [0.01], "cycles": 9223372036854775807}`,
		"many steps":  `{"peaks": [1000], "step_size": 0.0001, "scale_factor": 1}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/protocol", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", rec.Code)
			}
			var e errorResponse
			decode(t, rec, &e)
			if e.Error == "" {
				t.Error("expected error message")
			}
		})
	}
}

func TestCycleLenient(t *testing.T) {
	body := `{"peak": 0.05, "cycle_type": "full", "lenient": true}`
	rec := do(t, newTestServer().Handler(), http.MethodPost, "/api/cycle", body)
	var resp CycleResponse
	decode(t, rec, &resp)
	if resp.Length != 2+5 {
		t.Errorf("unrecognized lenient label should run Push only, length %d", resp.Length)
	}
}

func TestProtocol(t *testing.T) {
	body := `{"name": "api", "cycle_type": "Full", "step_size": 0.1, "scale_factor": 1, "cycles": 2, "peaks": [0.3]}`
	rec := do(t, newTestServer().Handler(), http.MethodPost, "/api/protocol", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp ProtocolResponse
	decode(t, rec, &resp)
	if resp.Steps != 20 || len(resp.Targets) != 20 {
		t.Errorf("steps = %d", resp.Steps)
	}
	if len(resp.Segments) != 2 {
		t.Errorf("segments = %d", len(resp.Segments))
	}
}

func TestProtocolYAMLDefaults(t *testing.T) {
	rec := do(t, newTestServer().Handler(), http.MethodPost, "/api/protocol", "name: example7\n")
	var resp ProtocolResponse
	decode(t, rec, &resp)
	if resp.Steps != 770 {
		t.Errorf("example7 steps = %d", resp.Steps)
	}
}

func TestProtocolInvalid(t *testing.T) {
	rec := do(t, newTestServer().Handler(), http.MethodPost, "/api/protocol", `{"peaks": []}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestReport(t *testing.T) {
	body := `{"name": "rep", "step_size": 0.1, "scale_factor": 1, "peaks": [0.3]}`
	rec := do(t, newTestServer().Handler(), http.MethodPost, "/api/report", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("body is not a PDF")
	}
}

func TestPresets(t *testing.T) {
	h := newTestServer().Handler()

	rec := do(t, h, http.MethodGet, "/api/presets", "")
	var list []PresetResponse
	decode(t, rec, &list)
	if len(list) != 4 {
		t.Errorf("expected 4 presets, got %d", len(list))
	}

	rec = do(t, h, http.MethodGet, "/api/presets/example7", "")
	var p PresetResponse
	decode(t, rec, &p)
	if p.ScaleFactor != 432 || p.StepSize != 0.432 {
		t.Errorf("example7 preset = %+v", p)
	}

	rec = do(t, h, http.MethodGet, "/api/presets/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing preset status = %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(t, newTestServer().Handler(), http.MethodGet, "/api/cycle", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	h := New(Options{Rate: rate.Every(1e12), Burst: 2}).Handler()
	for i := 0; i < 2; i++ {
		if rec := do(t, h, http.MethodGet, "/api/presets", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}
	if rec := do(t, h, http.MethodGet, "/api/presets", ""); rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("healthz should not be limited, got %d", rec.Code)
	}
}
