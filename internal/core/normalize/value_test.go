package normalize

import (
	"encoding/json"
	"math"
	"testing"
)

func TestMoney_CoercesWithoutNaN(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want float64
	}{
		{"decimal string", "12.50", 12.5},
		{"number", 12.5, 12.5},
		{"empty string", "", 0},
		{"nil", nil, 0},
		{"garbage", "abc", 0},
		{"json number", json.Number("7.25"), 7.25},
		{"padded string", "  3 ", 3},
		{"int", 4, 4},
		{"NaN", math.NaN(), 0},
		{"infinity", math.Inf(1), 0},
		{"bool", true, 0},
		{"object", map[string]any{"value": 1}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Money(tc.in)
			if math.IsNaN(got) {
				t.Fatalf("Money(%v) returned NaN", tc.in)
			}
			if got != tc.want {
				t.Errorf("Money(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestInt_Truncates(t *testing.T) {
	if got := Int("9.9"); got != 9 {
		t.Errorf("Int(\"9.9\") = %d, want 9", got)
	}
	if got := Int(nil); got != 0 {
		t.Errorf("Int(nil) = %d, want 0", got)
	}
}

func TestBool(t *testing.T) {
	truthy := []any{true, "true", "1", "YES", 1.0}
	for _, v := range truthy {
		if !Bool(v) {
			t.Errorf("Bool(%v) = false, want true", v)
		}
	}
	falsy := []any{false, "false", "", nil, 0.0, "nope"}
	for _, v := range falsy {
		if Bool(v) {
			t.Errorf("Bool(%v) = true, want false", v)
		}
	}
}

func TestString_Fallback(t *testing.T) {
	if got := String(nil, "n/a"); got != "n/a" {
		t.Errorf("got %q", got)
	}
	if got := String(42.0, ""); got != "42" {
		t.Errorf("got %q", got)
	}
	if got := String([]any{1}, "x"); got != "x" {
		t.Errorf("got %q", got)
	}
}

func TestItems_AcceptsEveryShape(t *testing.T) {
	bare := []any{map[string]any{"a": 1.0}, map[string]any{"a": 2.0}}
	if got := Items(bare); len(got) != 2 {
		t.Fatalf("bare array: got %d items", len(got))
	}

	wrapped := map[string]any{"items": bare}
	if got := Items(wrapped); len(got) != 2 {
		t.Fatalf("wrapped: got %d items", len(got))
	}

	single := map[string]any{"a": 1.0}
	got := Items(single)
	if len(got) != 1 || got[0]["a"] != 1.0 {
		t.Fatalf("single object: got %v", got)
	}

	mixed := []any{"oops", map[string]any{"a": 1.0}}
	got = Items(mixed)
	if len(got) != 2 || len(got[0]) != 0 {
		t.Fatalf("malformed element should degrade to empty record, got %v", got)
	}

	if got := Items(nil); len(got) != 0 {
		t.Fatalf("nil: got %v", got)
	}
	if got := Items("scalar"); len(got) != 0 {
		t.Fatalf("scalar: got %v", got)
	}
}
