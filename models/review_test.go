package models

import (
	"reflect"
	"testing"
)

func TestRatingMapFlatten(t *testing.T) {
	m := RatingMap{
		"overall": 4,
		"sub":     map[string]any{"x": 1.5, "deep": RatingMap{"y": "n/a"}},
		"list":    []any{1, 2},
	}
	want := RatingMap{"overall": 4, "sub.x": 1.5, "sub.deep.y": "n/a", "list": []any{1, 2}}
	if got := m.Flatten(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Flatten() = %#v, want %#v", got, want)
	}
}

func TestRatingMapFlatten_CollisionsAreStable(t *testing.T) {
	tests := []struct {
		name string
		in   RatingMap
		key  string
		want any
	}{
		{
			name: "top-level key beats nested path",
			in:   RatingMap{"a.b": 1, "a": map[string]any{"b": 5}},
			key:  "a.b",
			want: 1,
		},
		{
			name: "shallower nested key beats deeper path",
			in:   RatingMap{"x": map[string]any{"a.b": 2, "a": map[string]any{"b": 7}}},
			key:  "x.a.b",
			want: 2,
		},
		{
			name: "same depth: first key in sorted order wins",
			in:   RatingMap{"a.b": map[string]any{"c": 1}, "a": map[string]any{"b.c": 2}},
			key:  "a.b.c",
			want: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 100; i++ {
				got := tt.in.Flatten()
				if got[tt.key] != tt.want {
					t.Fatalf("run %d: Flatten()[%q] = %v, want %v", i, tt.key, got[tt.key], tt.want)
				}
			}
		})
	}
}

func TestRatingMapCloneAndWithout(t *testing.T) {
	m := RatingMap{"overall": 4, "sub": map[string]any{"x": 1}}
	c := m.Clone()
	c["sub"].(RatingMap)["x"] = 9
	if m["sub"].(map[string]any)["x"] != 1 {
		t.Fatal("Clone() must not share nested maps")
	}
	w := m.Without("overall")
	if _, ok := w["overall"]; ok {
		t.Fatal("Without() kept the key")
	}
	if _, ok := m["overall"]; !ok {
		t.Fatal("Without() modified the source")
	}
}
