package rebalance

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseWeight(t *testing.T) {
	tests := []struct {
		in      string
		want    Weight
		wantErr bool
	}{
		{in: "0.25", want: W(0.25)},
		{in: "25%", want: W(0.25)},
		{in: " 12.5 % ", want: W(0.125)},
		{in: "1", want: W(1)},
		{in: "0", want: W(0)},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeight(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWeight(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseWeight(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWeight_InRange(t *testing.T) {
	for _, w := range []Weight{W(0), W(0.5), W(1)} {
		if !w.InRange() {
			t.Errorf("%v.InRange() = false, want true", w)
		}
	}
	for _, w := range []Weight{W(-0.01), W(1.0001)} {
		if w.InRange() {
			t.Errorf("%v.InRange() = true, want false", w)
		}
	}
}

func TestWeight_String(t *testing.T) {
	if got, want := W(0.1234).String(), "12.34%"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestWeight_UnmarshalYAML(t *testing.T) {
	var got struct {
		A Weight `yaml:"a"`
		B Weight `yaml:"b"`
	}
	if err := yaml.Unmarshal([]byte("a: 0.1\nb: 20%\n"), &got); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if !got.A.Equal(W(0.1)) || !got.B.Equal(W(0.2)) {
		t.Errorf("got a=%v b=%v, want 10%% and 20%%", got.A, got.B)
	}

	if err := yaml.Unmarshal([]byte("a: [1, 2]\n"), &got); err == nil {
		t.Error("a sequence should not decode into a weight")
	}
}
