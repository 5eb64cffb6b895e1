package uci

import (
	"bytes"
	"strings"
	"testing"
)

func TestOptionPrintFormatsDoNotLeakBetweenTypes(t *testing.T) {
	r := NewOptionRegistry()
	r.Register(&Option{Name: "Hash", Type: OptionSpin, Default: "64", Min: 1, Max: 4096})
	r.Register(&Option{Name: "Clear Hash", Type: OptionButton})
	r.Register(&Option{Name: "UseNNUE", Type: OptionCheck, Default: "false"})

	var buf bytes.Buffer
	r.Print(&buf)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), buf.String())
	}

	// A button must not carry a spin's default/min/max tail.
	if strings.Contains(lines[1], "default") || strings.Contains(lines[1], "min") {
		t.Errorf("button option line leaked spin formatting: %q", lines[1])
	}
	if !strings.HasPrefix(lines[1], "option name Clear Hash type button") {
		t.Errorf("unexpected button line: %q", lines[1])
	}

	// A spin must carry exactly its own tail, not a check's.
	if !strings.Contains(lines[0], "min 1 max 4096") {
		t.Errorf("spin option missing min/max: %q", lines[0])
	}
}

func TestOptionSetValidatesSpinRange(t *testing.T) {
	r := NewOptionRegistry()
	var got string
	r.Register(&Option{
		Name: "Hash", Type: OptionSpin, Default: "64", Min: 1, Max: 4096,
		onSet: func(value string) error { got = value; return nil },
	})

	if err := r.Set("Hash", "128"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "128" {
		t.Errorf("onSet not called with validated value: got %q", got)
	}

	if err := r.Set("Hash", "999999"); err == nil {
		t.Errorf("expected out-of-range error, got nil")
	}
	if got != "128" {
		t.Errorf("onSet must not fire when validation fails, got %q", got)
	}
}

func TestOptionSetIsCaseInsensitiveOnName(t *testing.T) {
	r := NewOptionRegistry()
	fired := false
	r.Register(&Option{
		Name: "UseNNUE", Type: OptionCheck, Default: "false",
		onSet: func(string) error { fired = true; return nil },
	})

	if err := r.Set("usennue", "true"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fired {
		t.Errorf("onSet did not fire for case-differing name")
	}
}

func TestOptionSetRejectsButtonValueMismatchNever(t *testing.T) {
	// A button ignores whatever value accompanies it; this must not
	// be treated as a formatting error the way a spin out-of-range is.
	r := NewOptionRegistry()
	fired := false
	r.Register(&Option{
		Name: "Clear Hash", Type: OptionButton,
		onSet: func(string) error { fired = true; return nil },
	})

	if err := r.Set("Clear Hash", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fired {
		t.Errorf("button onSet did not fire")
	}
}

func TestOptionSetUnknownNameIsIgnored(t *testing.T) {
	r := NewOptionRegistry()
	if err := r.Set("NoSuchOption", "1"); err != nil {
		t.Errorf("unknown option should be ignored, got error: %v", err)
	}
}
