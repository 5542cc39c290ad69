package cache

import (
	"strings"
	"testing"
)

func TestSegment(t *testing.T) {
	tests := map[string]string{
		"":              "",
		"FindByID":      "find_by_id",
		"FindAll":       "find_all",
		"VitalSet":      "vital_set",
		"vital-set":     "vital_set",
		"HTTPServer":    "http_server",
		"*main.Record":  "main_record",
		"already_snake": "already_snake",
		"Spo2Reading":   "spo2_reading",
		"  padded  ":    "padded",
	}

	for in, want := range tests {
		if got := segment(in); got != want {
			t.Errorf("segment(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestKeySerializer_NoArgs(t *testing.T) {
	s := NewKeySerializer("VitalSet")

	if got := s.SerializeKey("FindAll"); got != "vital_set::find_all" {
		t.Errorf("unexpected key %q", got)
	}
}

func TestKeySerializer_DefaultHasNoNamespace(t *testing.T) {
	s := NewDefaultKeySerializer()

	if got := s.SerializeKey("FindByID", int64(3)); got != "find_by_id::3" {
		t.Errorf("unexpected key %q", got)
	}
}

func TestKeySerializer_Scalars(t *testing.T) {
	s := NewKeySerializer("vs")
	id := int64(42)

	tests := []struct {
		name string
		args []any
		want string
	}{
		{"int64", []any{int64(42)}, "vs::m::42"},
		{"int", []any{7}, "vs::m::7"},
		{"uint", []any{uint8(9)}, "vs::m::9"},
		{"string", []any{"abc"}, "vs::m::abc"},
		{"bool", []any{true}, "vs::m::true"},
		{"float", []any{36.6}, "vs::m::36.6"},
		{"pointer", []any{&id}, "vs::m::42"},
		{"nil", []any{nil}, "vs::m::nil"},
		{"multiple", []any{1, "x", false}, "vs::m::1::x::false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.SerializeKey("M", tt.args...); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeySerializer_ComplexArgsAreHashed(t *testing.T) {
	s := NewKeySerializer("vs")

	type filter struct {
		Username string
		Limit    int
	}

	a := s.SerializeKey("List", filter{Username: "nurse", Limit: 10})
	b := s.SerializeKey("List", filter{Username: "nurse", Limit: 10})
	c := s.SerializeKey("List", filter{Username: "nurse", Limit: 20})

	if a != b {
		t.Errorf("equal structs should produce equal keys: %q vs %q", a, b)
	}
	if a == c {
		t.Errorf("different structs should produce different keys: %q", a)
	}
	if !strings.HasPrefix(a, "vs::list::h:") {
		t.Errorf("expected hashed segment, got %q", a)
	}
	if len(strings.TrimPrefix(a, "vs::list::h:")) != 16 {
		t.Errorf("expected 16 hex digits, got %q", a)
	}
}

func TestKeySerializer_MapsAreDeterministic(t *testing.T) {
	s := NewDefaultKeySerializer()

	first := s.SerializeKey("Q", map[string]int{"a": 1, "b": 2, "c": 3})
	for i := 0; i < 20; i++ {
		if got := s.SerializeKey("Q", map[string]int{"c": 3, "a": 1, "b": 2}); got != first {
			t.Fatalf("map key changed between calls: %q vs %q", first, got)
		}
	}
}

func TestKeySerializer_FuncArgsStableWithinProcess(t *testing.T) {
	s := NewDefaultKeySerializer()
	fn := func() {}

	if s.SerializeKey("F", fn) != s.SerializeKey("F", fn) {
		t.Error("same function value should give the same key")
	}
	if !strings.HasPrefix(s.SerializeKey("F", fn), "f::func:0x") {
		t.Errorf("unexpected func key %q", s.SerializeKey("F", fn))
	}
}
