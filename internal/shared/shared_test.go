package shared

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestFormatMoney(t *testing.T) {
	tc := []struct {
		name     string
		amount   float64
		currency string
		want     string
	}{
		{name: "zero is unset", amount: 0, currency: "$", want: "-"},
		{name: "small amount", amount: 7.5, currency: "$", want: "$7.50"},
		{name: "thousands", amount: 1234.567, currency: "$", want: "$1,234.57"},
		{name: "millions", amount: 1000000, currency: "€", want: "€1,000,000.00"},
		{name: "negative", amount: -42, currency: "$", want: "-$42.00"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatMoney(tt.amount, tt.currency); got != tt.want {
				t.Errorf("FormatMoney(%v) = %v, want %v", tt.amount, got, tt.want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	tc := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "blank", in: "  ", want: nil},
		{name: "trims entries", in: " PC , Switch ,,PS5", want: []string{"PC", "Switch", "PS5"}},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitList(tt.in)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
				t.Errorf("SplitList(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("GenerateID() returned invalid uuid %q: %v", id, err)
	}
	if id == GenerateID() {
		t.Error("expected distinct IDs")
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := WithLogger(NewLogger(&buf), "component", "test")
	logger.Info("hello")

	out := buf.String()
	if !strings.Contains(out, "hello") || !strings.Contains(out, "component=test") {
		t.Errorf("unexpected log output: %q", out)
	}
}

func TestMarshalJSON(t *testing.T) {
	compact, err := MarshalJSON(map[string]int{"a": 1}, false)
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	if string(compact) != `{"a":1}` {
		t.Errorf("unexpected compact JSON %s", compact)
	}

	pretty, err := MarshalJSON(map[string]int{"a": 1}, true)
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	if !strings.Contains(string(pretty), "\n  \"a\": 1") {
		t.Errorf("unexpected pretty JSON %s", pretty)
	}
}

func TestOpenBrowserUnsupported(t *testing.T) {
	orig := getRuntime
	getRuntime = func() string { return "plan9" }
	t.Cleanup(func() { getRuntime = orig })

	if err := OpenBrowser("http://127.0.0.1:3000/profile"); err == nil {
		t.Error("expected error on unsupported platform")
	}
}
