package source

import (
	"errors"
	"strings"
	"testing"
)

func stubNormalizer() Normalizer {
	return NormalizerFunc(func(_ []byte) (Batch, error) { return Batch{}, nil })
}

func desc(name string, isDefault bool) Descriptor {
	return Descriptor{
		Name:       name,
		Endpoint:   "https://" + strings.ToLower(name) + ".test/feed.json",
		IsDefault:  isDefault,
		Normalizer: stubNormalizer(),
	}
}

func TestNewRegistry_Builtin(t *testing.T) {
	reg, err := NewRegistry(Builtin()...)
	if err != nil {
		t.Fatalf("builtin catalog: %v", err)
	}
	if reg.Len() != 4 {
		t.Fatalf("len = %d, want 4", reg.Len())
	}

	d, err := reg.Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if d.Name != RedditName {
		t.Errorf("default = %q, want %q", d.Name, RedditName)
	}
}

func TestRegistry_ListKeepsOrder(t *testing.T) {
	reg, err := NewRegistry(desc("SourceA", true), desc("SourceB", false), desc("SourceC", false))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	list := reg.List()
	want := []string{"SourceA", "SourceB", "SourceC"}
	for i, d := range list {
		if d.Name != want[i] {
			t.Errorf("list[%d] = %q, want %q", i, d.Name, want[i])
		}
	}

	// Mutating the returned slice must not affect the registry.
	list[0].Name = "changed"
	if reg.List()[0].Name != "SourceA" {
		t.Error("List returned the registry's backing slice")
	}
}

func TestRegistry_FindByName(t *testing.T) {
	reg, _ := NewRegistry(desc("SourceA", true), desc("SourceB", false))

	d, err := reg.FindByName("SourceB")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if d.Name != "SourceB" {
		t.Errorf("name = %q", d.Name)
	}

	_, err = reg.FindByName("Nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if !strings.Contains(err.Error(), `"Nope"`) {
		t.Errorf("error %q should name the source", err)
	}
}

func TestNewRegistry_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		descs []Descriptor
		want  string
	}{
		{"empty", nil, "at least one source"},
		{"no default", []Descriptor{desc("A", false), desc("B", false)}, "no default source"},
		{"two defaults", []Descriptor{desc("A", true), desc("B", true)}, "multiple default sources: A, B"},
		{"duplicate", []Descriptor{desc("A", true), desc("A", false)}, `duplicate source name "A"`},
		{"missing name", []Descriptor{{Endpoint: "https://x.test", IsDefault: true, Normalizer: stubNormalizer()}}, "name is required"},
		{"missing endpoint", []Descriptor{{Name: "A", IsDefault: true, Normalizer: stubNormalizer()}}, "endpoint is required"},
		{"missing normalizer", []Descriptor{{Name: "A", Endpoint: "https://x.test", IsDefault: true}}, "normalizer is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.descs...)
			var ce *ConfigurationError
			if !errors.As(err, &ce) {
				t.Fatalf("err = %v, want *ConfigurationError", err)
			}
			if !strings.Contains(ce.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", ce.Error(), tt.want)
			}
		})
	}
}

func TestRegistry_DefaultOnZeroValue(t *testing.T) {
	var reg Registry
	_, err := reg.Default()
	var ce *ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *ConfigurationError", err)
	}
}

func TestSetDefault(t *testing.T) {
	descs := []Descriptor{desc("A", true), desc("B", false)}

	out, err := SetDefault(descs, "B")
	if err != nil {
		t.Fatalf("set default: %v", err)
	}
	if out[0].IsDefault || !out[1].IsDefault {
		t.Errorf("defaults = %v/%v, want false/true", out[0].IsDefault, out[1].IsDefault)
	}
	if !descs[0].IsDefault {
		t.Error("SetDefault modified its input")
	}

	if _, err := SetDefault(descs, "C"); err == nil {
		t.Fatal("expected error for unknown default")
	}
}

func TestBuiltinNames(t *testing.T) {
	names := BuiltinNames()
	want := []string{RedditName, MashableName, DiggName, HackerNewsName}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestBuiltin_RelayFlags(t *testing.T) {
	for _, d := range Builtin() {
		wantRelay := d.Name == MashableName || d.Name == DiggName
		if d.RequiresRelay != wantRelay {
			t.Errorf("%s: requires relay = %v, want %v", d.Name, d.RequiresRelay, wantRelay)
		}
	}
}
