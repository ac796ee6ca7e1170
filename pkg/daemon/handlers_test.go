package daemon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/restpot/restpot/pkg/cache"
	"github.com/restpot/restpot/pkg/config"
	"github.com/restpot/restpot/pkg/potential"
	"github.com/restpot/restpot/pkg/types"
)

func setupTestProfile(t *testing.T, preset string) {
	t.Helper()
	base, ok := config.Preset(preset)
	if !ok {
		t.Fatalf("preset %q not found", preset)
	}
	conf = config.NewFileFromConfig(nil, base, "")
	resultCache = cache.NewMemory(defaultCacheSize)
}

func do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	setupRoutes().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode %q: %v", w.Body.String(), err)
	}
	return v
}

func TestPostNernst(t *testing.T) {
	setupTestProfile(t, config.PresetNernst)

	tests := []struct {
		name     string
		body     any
		wantCode int
		want     string
		wantKind string
	}{
		{
			name:     "profile constants",
			body:     types.NernstRequest{Valence: 1, In: 200, Out: 5},
			wantCode: http.StatusOK,
			want:     "-1466.08",
		},
		{
			name:     "explicit constants",
			body:     types.NernstRequest{Constants: &potential.Constants{R: 8.314, T: 310, F: 96485}, Valence: 1, In: 140, Out: 5},
			wantCode: http.StatusOK,
			want:     "-89.01",
		},
		{
			name:     "zero concentration",
			body:     types.NernstRequest{Valence: 1, In: 0, Out: 5},
			wantCode: http.StatusUnprocessableEntity,
			wantKind: types.KindInvalidInput,
		},
		{
			name:     "malformed body",
			body:     "{",
			wantCode: http.StatusBadRequest,
			wantKind: types.KindBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, http.MethodPost, "/nernst", tt.body)
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantCode, w.Body.String())
			}
			if tt.wantKind != "" {
				if got := decode[types.ErrorResponse](t, w); got.Kind != tt.wantKind {
					t.Errorf("kind = %s, want %s", got.Kind, tt.wantKind)
				}
				return
			}
			if got := decode[potential.Result](t, w); fmt.Sprintf("%.2f", got.Value) != tt.want {
				t.Errorf("value = %.2f, want %s", got.Value, tt.want)
			}
		})
	}
}

func TestPostGHK(t *testing.T) {
	setupTestProfile(t, config.PresetMain)
	in := conf.GHKInput()

	w := do(t, http.MethodPost, "/ghk", types.GHKRequest{Input: in})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if got := decode[potential.Result](t, w); fmt.Sprintf("%.2f", got.Value) != "-67.90" {
		t.Errorf("value = %.2f, want -67.90", got.Value)
	}

	zero := types.GHKRequest{Input: potential.GHKInput{}}
	w = do(t, http.MethodPost, "/ghk", zero)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if got := decode[types.ErrorResponse](t, w); got.Kind != types.KindDivisionByZero {
		t.Errorf("kind = %s, want %s", got.Kind, types.KindDivisionByZero)
	}

	// Numerator of zero gives -Inf, which cannot be encoded as JSON.
	negInf := types.GHKRequest{Input: potential.GHKInput{K: potential.Ion{Permeability: 1, In: 1}}}
	w = do(t, http.MethodPost, "/ghk", negInf)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
}

func TestPostSweep(t *testing.T) {
	setupTestProfile(t, config.PresetGHKKo)

	req := types.SweepRequest{
		Input:     conf.GHKInput(),
		Parameter: "K_out",
		Values:    conf.SweepValues(),
	}
	w := do(t, http.MethodPost, "/sweep", req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	resp := decode[types.SweepResponse](t, w)
	if len(resp.Rows) != 10 || !resp.Increasing {
		t.Errorf("sweep = %+v", resp)
	}

	// A failing sample is reported inline; the rest still succeed.
	req.Input.K.Permeability = 0
	req.Input.Na.Permeability = 0
	req.Parameter = "P_Cl"
	req.Values = []float64{0.45, 0, 1}
	w = do(t, http.MethodPost, "/sweep", req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	resp = decode[types.SweepResponse](t, w)
	if len(resp.Rows) != 3 {
		t.Fatalf("rows = %+v", resp.Rows)
	}
	if resp.Rows[1].Value != nil || resp.Rows[1].Kind != types.KindDivisionByZero {
		t.Errorf("row 1 = %+v, want division by zero", resp.Rows[1])
	}
	if resp.Rows[0].Value == nil || resp.Rows[2].Value == nil {
		t.Errorf("rows 0 and 2 should succeed: %+v", resp.Rows)
	}

	req.Parameter = "Ca_out"
	w = do(t, http.MethodPost, "/sweep", req)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown parameter status = %d, want 422", w.Code)
	}
}

func TestPostSweepCached(t *testing.T) {
	setupTestProfile(t, config.PresetGHKKo)

	req := types.SweepRequest{
		Input:     conf.GHKInput(),
		Parameter: "K_out",
		Values:    []float64{5, 220},
	}

	first := do(t, http.MethodPost, "/sweep", req)
	if first.Code != http.StatusOK || first.Header().Get(cacheHeader) != "miss" {
		t.Fatalf("first sweep: status %d, cache %q", first.Code, first.Header().Get(cacheHeader))
	}
	second := do(t, http.MethodPost, "/sweep", req)
	if second.Code != http.StatusOK || second.Header().Get(cacheHeader) != "hit" {
		t.Fatalf("second sweep: status %d, cache %q", second.Code, second.Header().Get(cacheHeader))
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("cached body differs:\n%s\nvs\n%s", first.Body.String(), second.Body.String())
	}

	// Omitted constants resolve to the profile's, so they share the entry
	// with the same constants given explicitly.
	consts := conf.Constants()
	req.Constants = &consts
	third := do(t, http.MethodPost, "/sweep", req)
	if third.Header().Get(cacheHeader) != "hit" {
		t.Errorf("explicit profile constants should hit the cache, got %q", third.Header().Get(cacheHeader))
	}

	req.Constants.T = 310
	fourth := do(t, http.MethodPost, "/sweep", req)
	if fourth.Header().Get(cacheHeader) != "miss" {
		t.Errorf("different constants should miss the cache, got %q", fourth.Header().Get(cacheHeader))
	}
}

func TestGetProfile(t *testing.T) {
	setupTestProfile(t, config.PresetGHKpK)

	w := do(t, http.MethodGet, "/profile", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	raw := decode[config.RawFileConfig](t, w)
	if raw.Calcium == nil || *raw.Calcium != "sqrt" || raw.T == nil || *raw.T != 294.15 {
		t.Errorf("profile = %+v", raw)
	}

	w = do(t, http.MethodGet, "/profile/potential", nil)
	if got := decode[potential.Result](t, w); fmt.Sprintf("%.2f", got.Value) != "5.13" {
		t.Errorf("profile potential = %.2f, want 5.13", got.Value)
	}
}

func TestRequestBodyLimit(t *testing.T) {
	setupTestProfile(t, config.PresetGHKKo)

	old := maxRequestBytes
	maxRequestBytes = 256
	t.Cleanup(func() { maxRequestBytes = old })

	values := make([]float64, 200)
	for i := range values {
		values[i] = float64(i + 1)
	}
	w := do(t, http.MethodPost, "/sweep", types.SweepRequest{
		Input:     conf.GHKInput(),
		Parameter: "K_out",
		Values:    values,
	})
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413: %s", w.Code, w.Body.String())
	}
	if got := decode[types.ErrorResponse](t, w); got.Kind != types.KindBadRequest {
		t.Errorf("kind = %q, want %q", got.Kind, types.KindBadRequest)
	}

	w = do(t, http.MethodPost, "/nernst", types.NernstRequest{Valence: 1, In: 200, Out: 5})
	if w.Code != http.StatusOK {
		t.Errorf("small request status = %d, want 200: %s", w.Code, w.Body.String())
	}
}
