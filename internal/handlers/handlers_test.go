package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"celestial-api/internal/constellation"
	"celestial-api/internal/ephemeris"
	"celestial-api/internal/services"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	provider := ephemeris.NewProvider(t.TempDir())
	resolver := constellation.Load(filepath.Join(t.TempDir(), "absent.dat"))
	moon := services.NewMoonService(provider, resolver, 3)
	mars := services.NewMarsService(provider, resolver, 3)

	r := gin.New()
	SetupRoutes(r, NewHandler(moon, mars))
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("response is not a JSON object: %v\n%s", err, w.Body.String())
	}
	return m
}

func TestHealth(t *testing.T) {
	w := do(t, testRouter(t), http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if m := decode(t, w); m["status"] != "ok" {
		t.Errorf("body = %v", m)
	}
}

func TestMoonDefaultRequest(t *testing.T) {
	r := testRouter(t)
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		w := do(t, r, method, "/api/moon", "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s status = %d: %s", method, w.Code, w.Body.String())
		}
		m := decode(t, w)
		if _, ok := m["current_phase"]; !ok {
			t.Errorf("%s: missing current_phase", method)
		}
		if _, ok := m["position"]; ok {
			t.Errorf("%s: geocentric default must not carry position", method)
		}
		if _, ok := m["moonrise_and_set"]; ok {
			t.Errorf("%s: geocentric default must not carry horizon events", method)
		}
	}
}

func TestMoonEmptyJSONBody(t *testing.T) {
	w := do(t, testRouter(t), http.MethodPost, "/api/moon", "{}")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	m := decode(t, w)
	if prec, ok := m["precision"].(map[string]any); !ok || prec["frame"] != "geocentric" {
		t.Errorf("precision = %v", m["precision"])
	}
}

func TestMoonTopocentricRequest(t *testing.T) {
	body := `{"latitude": 48.85, "longitude": 2.35, "height": 35, "timestamp": "2025-03-15 12:00:00"}`
	w := do(t, testRouter(t), http.MethodPost, "/api/moon", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	m := decode(t, w)
	for _, key := range []string{"position", "observer", "moonrise_and_set", "time_scales"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing %q in topocentric response", key)
		}
	}
	if ts, ok := m["time_scales"].(map[string]any); !ok || ts["utc"] != "2025-03-15 12:00:00 UTC" {
		t.Errorf("time_scales = %v", m["time_scales"])
	}
}

func TestBadInputs(t *testing.T) {
	r := testRouter(t)
	cases := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"latitude out of range", `{"latitude": 95, "longitude": 0}`, "-90"},
		{"longitude out of range", `{"latitude": 0, "longitude": 200}`, "-180"},
		{"lone longitude", `{"longitude": 10}`, "together"},
		{"bad timestamp", `{"timestamp": "yesterday"}`, "timestamp"},
		{"malformed json", `{`, "JSON"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/api/moon", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d: %s", w.Code, w.Body.String())
			}
			m := decode(t, w)
			msg, _ := m["error"].(string)
			if !strings.Contains(msg, tc.wantMsg) {
				t.Errorf("error = %q, want it to mention %q", msg, tc.wantMsg)
			}
		})
	}
}

func TestMarsReportShape(t *testing.T) {
	w := do(t, testRouter(t), http.MethodPost, "/api/mars", `{"timestamp": "2025-03-15"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	m := decode(t, w)
	for _, key := range []string{"magnitude", "angular_diameter", "sun_separation", "mars_seasons", "celestial_coordinates", "distance"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing %q in mars response", key)
		}
	}
	if _, ok := m["marsrise_and_set"]; ok {
		t.Error("geocentric mars response must not carry horizon events")
	}
}
