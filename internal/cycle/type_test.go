package cycle

import (
	"errors"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"Push", Push, false},
		{"Half", Half, false},
		{"Full", Full, false},
		{"full", Push, true},
		{"", Push, true},
		{"Cyclic", Push, true},
	}

	for _, tt := range tests {
		got, err := ParseType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseType(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnknownType) {
			t.Errorf("ParseType(%q) err = %v, want ErrUnknownType", tt.in, err)
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseTypeLenient(t *testing.T) {
	tests := map[string]Type{
		"Push":   Push,
		"Half":   Half,
		"Full":   Full,
		"full":   Push,
		"":       Push,
		"Cyclic": Push,
	}
	for in, want := range tests {
		if got := ParseTypeLenient(in); got != want {
			t.Errorf("ParseTypeLenient(%q) = %v, want %v", in, got, want)
		}
	}

	seq := MustGenerate(Request{Peak: 1, StepSize: 0.1, Type: ParseTypeLenient("Weird"), ScaleFactor: 1})
	if len(seq) != 12 {
		t.Errorf("unrecognised label should push only, got len %d", len(seq))
	}
}

func TestTypeString(t *testing.T) {
	if Full.String() != "Full" || Half.String() != "Half" || Push.String() != "Push" {
		t.Error("unexpected type names")
	}
	if Type(9).String() != "Type(9)" {
		t.Errorf("got %q", Type(9).String())
	}
	if Type(-1).Valid() || Type(3).Valid() {
		t.Error("out of range types must be invalid")
	}
}

func TestTypeYAML(t *testing.T) {
	var doc struct {
		Type Type `yaml:"type"`
	}
	if err := yaml.Unmarshal([]byte("type: Half\n"), &doc); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if doc.Type != Half {
		t.Errorf("got %v, want Half", doc.Type)
	}

	if err := yaml.Unmarshal([]byte("type: Sideways\n"), &doc); err == nil {
		t.Error("expected error for unknown label")
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != "type: Half\n" {
		t.Errorf("marshal = %q", out)
	}
}
