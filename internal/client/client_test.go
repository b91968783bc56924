package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/jsvensson/varnamala/internal/color"
	"github.com/jsvensson/varnamala/internal/mapping"
	"github.com/jsvensson/varnamala/internal/sankhya"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(Options{BaseURL: server.URL, RateLimit: -1, Timeout: 5 * time.Second})
}

func TestColors_Cached(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != pathColors {
			t.Errorf("path = %s, want %s", r.URL.Path, pathColors)
		}
		hits.Add(1)
		_, _ = fmt.Fprint(w, `{"k": "#ff0000", "a": "#0000ff"}`)
	})

	for i := 0; i < 2; i++ {
		table, err := c.Colors(context.Background())
		if err != nil {
			t.Fatalf("Colors() error: %v", err)
		}
		if diff := cmp.Diff(sankhya.ColorTable{"k": "#ff0000", "a": "#0000ff"}, table); diff != "" {
			t.Errorf("Colors() mismatch (-want +got):\n%s", diff)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("upstream hits = %d, want 1", hits.Load())
	}

	c.Invalidate()
	if _, err := c.Colors(context.Background()); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 2 {
		t.Errorf("upstream hits after Invalidate = %d, want 2", hits.Load())
	}
}

func TestBearerToken(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	c := New(Options{BaseURL: server.URL + "/", Token: "s3cret", RateLimit: -1})
	if _, err := c.Ragas(context.Background()); err != nil {
		t.Fatalf("Ragas() error: %v", err)
	}
	if got != "Bearer s3cret" {
		t.Errorf("Authorization = %q, want Bearer s3cret", got)
	}
}

func TestProcessWords(t *testing.T) {
	var seen []processRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != pathProcess {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var req processRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		seen = append(seen, req)
		_, _ = fmt.Fprintf(w, `{"tokens": [{%q: {"value": 30000, "letters_breakdown": [
			{"type": "consonant", "char": "k", "value": 1},
			{"type": "implicit_vowel", "consonant": "k", "value": "1", "consonant_sum_at_vowel": 1}
		]}}]}`, req.Word)
	})

	words, err := c.ProcessWords(context.Background(), []string{"ka", "ma"}, sankhya.Devanagari)
	if err != nil {
		t.Fatalf("ProcessWords() error: %v", err)
	}

	wantReqs := []processRequest{{"ka", sankhya.Devanagari}, {"ma", sankhya.Devanagari}}
	if diff := cmp.Diff(wantReqs, seen); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}

	if len(words) != 2 || words[0].Name != "ka" || words[1].Name != "ma" {
		t.Fatalf("words = %+v", words)
	}
	if words[0].Value != json.Number("30000") {
		t.Errorf("Value = %#v, want json.Number 30000", words[0].Value)
	}
	letters := words[0].Letters
	if len(letters) != 2 || letters[1].Type != sankhya.ImplicitVowel || letters[1].Consonant != "k" {
		t.Errorf("letters = %+v", letters)
	}
}

func TestProcessWord_ErrorPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"error": "unsupported character"}`)
	})

	_, err := c.ProcessWords(context.Background(), []string{"x"}, sankhya.Latin)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Message != "unsupported character" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestHTTPError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"detail", http.StatusUnprocessableEntity, `{"detail": "bad colour"}`, "bad colour"},
		{"error", http.StatusBadRequest, `{"error": "missing field"}`, "missing field"},
		{"no body", http.StatusInternalServerError, ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = fmt.Fprint(w, tt.body)
			})

			_, err := c.ClosestCharacter(context.Background(), color.Color{R: 1})
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v, want *APIError", err)
			}
			if apiErr.Status != tt.status || apiErr.Message != tt.wantMsg {
				t.Errorf("APIError = %+v, want status %d message %q", apiErr, tt.status, tt.wantMsg)
			}
		})
	}
}

func TestCalculate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req calculateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]float64{12, 3e6}, req.Tokens); diff != "" {
			t.Errorf("tokens (-want +got):\n%s", diff)
		}
		if req.Operation != sankhya.DivisionBD {
			t.Errorf("operation = %q", req.Operation)
		}
		_, _ = fmt.Fprint(w, `{"operation": "division_bd", "result": [250000, "2000000"]}`)
	})

	calc, err := c.Calculate(context.Background(), []float64{12, 3e6}, sankhya.DivisionBD)
	if err != nil {
		t.Fatalf("Calculate() error: %v", err)
	}
	if calc.Operation != sankhya.DivisionBD {
		t.Errorf("Operation = %q", calc.Operation)
	}
	if diff := cmp.Diff([]string{"250000", "2×10^6"}, calc.Formatted()); diff != "" {
		t.Errorf("Formatted() (-want +got):\n%s", diff)
	}
}

func TestMappings_AddInvalidatesCache(t *testing.T) {
	var gets atomic.Int32
	var added mapping.Addition
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case pathMappings:
			gets.Add(1)
			_, _ = fmt.Fprint(w, `{
				"consonants": [{"number": 1, "latinChar": "k", "devanagariChar": "क"}],
				"vowels": [{"number": 1, "latinChar": "a", "devanagariChar": "अ"}],
				"devanagari_matras_map": [{"devanagariChar": "ि", "latinEquivalent": "i"}],
				"devanagari_modifiers_map": []
			}`)
		case pathAddMapping:
			if err := json.NewDecoder(r.Body).Decode(&added); err != nil {
				t.Fatal(err)
			}
			_, _ = fmt.Fprint(w, `{"success": true}`)
		}
	})
	ctx := context.Background()

	tables, err := c.Mappings(ctx)
	if err != nil {
		t.Fatalf("Mappings() error: %v", err)
	}
	if len(tables.Consonants) != 1 || tables.Consonants[0].Devanagari != "क" {
		t.Errorf("consonants = %+v", tables.Consonants)
	}
	if len(tables.Matras) != 1 || tables.Matras[0].Latin != "i" {
		t.Errorf("matras = %+v", tables.Matras)
	}
	if _, err := c.Mappings(ctx); err != nil {
		t.Fatal(err)
	}
	if gets.Load() != 1 {
		t.Fatalf("gets = %d, want 1", gets.Load())
	}

	add := mapping.Addition{
		Entry: mapping.Entry{Number: 2, Latin: "kh", Devanagari: "ख"},
		Kind:  mapping.Consonant,
	}
	if err := c.AddMapping(ctx, add); err != nil {
		t.Fatalf("AddMapping() error: %v", err)
	}
	if diff := cmp.Diff(add, added); diff != "" {
		t.Errorf("posted addition (-want +got):\n%s", diff)
	}

	if _, err := c.Mappings(ctx); err != nil {
		t.Fatal(err)
	}
	if gets.Load() != 2 {
		t.Errorf("gets after add = %d, want 2", gets.Load())
	}
}

func TestAddMapping_Rejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"success": false, "error": "number out of range"}`)
	})

	err := c.AddMapping(context.Background(), mapping.Addition{Kind: mapping.Vowel})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "number out of range" {
		t.Errorf("error = %v, want APIError with service message", err)
	}
}

func TestClosestCharacter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req closestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req != (closestRequest{R: 255, G: 153, B: 51}) {
			t.Errorf("request = %+v", req)
		}
		_, _ = fmt.Fprint(w, `{"closest_character": "क", "colour_shade": "saffron", "sthana": "kantha"}`)
	})

	match, err := c.ClosestCharacter(context.Background(), color.Color{R: 255, G: 153, B: 51})
	if err != nil {
		t.Fatalf("ClosestCharacter() error: %v", err)
	}
	want := ClosestMatch{Character: "क", Shade: "saffron", Sthana: "kantha"}
	if *match != want {
		t.Errorf("match = %+v, want %+v", *match, want)
	}
}

func TestColorMappings(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"success": true, "data": [
			{"id": 1, "devanagari_char": "क", "color_r": 255, "color_g": 0, "color_b": 0, "color_hex": "#ff0000", "colour_shade": "red", "sthana": "kantha"},
			{"id": 2, "devanagari_char": "ख", "color_r": 0, "color_g": 0, "color_b": 255, "color_hex": null, "colour_shade": null, "sthana": null}
		]}`)
	})

	rows, err := c.ColorMappings(context.Background())
	if err != nil {
		t.Fatalf("ColorMappings() error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Color() != (color.Color{R: 255}) {
		t.Errorf("rows[0].Color() = %v", rows[0].Color())
	}
	if rows[1].Color() != (color.Color{B: 255}) || rows[1].Shade != "" {
		t.Errorf("rows[1] = %+v", rows[1])
	}
}

func TestColorMappings_Unsuccessful(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"success": false, "error": "database unavailable"}`)
	})
	if _, err := c.ColorMappings(context.Background()); err == nil {
		t.Error("expected error")
	}
}

func TestColorMappings_FailureNotCached(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			_, _ = fmt.Fprint(w, `{"success": false, "error": "db busy"}`)
			return
		}
		_, _ = fmt.Fprint(w, `{"success": true, "data": [{"id": 1, "devanagari_char": "क", "color_hex": "#ff0000"}]}`)
	})

	_, err := c.ColorMappings(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "db busy" {
		t.Fatalf("first call error = %v, want APIError \"db busy\"", err)
	}

	rows, err := c.ColorMappings(context.Background())
	if err != nil {
		t.Fatalf("second call error: %v", err)
	}
	if len(rows) != 1 || rows[0].Devanagari != "क" {
		t.Errorf("rows = %+v", rows)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("upstream hits = %d, want 2", got)
	}

	// The successful reply is cached.
	if _, err := c.ColorMappings(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("upstream hits after cached call = %d, want 2", got)
	}
}

func TestRagas(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != pathRagas {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = fmt.Fprint(w, `[{"raga_number": 1, "raga_name_latin": "Kanakangi", "raga_name_devanagari": "कनकाङ्गि",
			"classification": "Indu", "swaras_latin": "S R1 G1 M1 P D1 N1", "swaras_devanagari": "स रि१ ग१ म१ प ध१ नि१", "colour_rgb": "#aabbcc"}]`)
	})

	ragas, err := c.Ragas(context.Background())
	if err != nil {
		t.Fatalf("Ragas() error: %v", err)
	}
	if len(ragas) != 1 || ragas[0].Number != 1 || ragas[0].NameLatin != "Kanakangi" || ragas[0].ColorRGB != "#aabbcc" {
		t.Errorf("ragas = %+v", ragas)
	}
}

func TestContextCanceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{}`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Colors(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestRateLimit(t *testing.T) {
	c := New(Options{BaseURL: "http://unused", RateLimit: 1, RateBurst: 1})
	if !c.limiter.Allow() {
		t.Fatal("first request should be allowed")
	}
	if c.limiter.Allow() {
		t.Error("second immediate request should be throttled")
	}
}
