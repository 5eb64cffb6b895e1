package uci

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// OptionType is the UCI "option ... type ..." tag. Each type has its own
// print format and its own parsing rule for "setoption ... value ...";
// they are kept as distinct cases rather than sharing a fallthrough so a
// button option can never pick up a spin's default/min/max formatting.
type OptionType int

const (
	OptionSpin OptionType = iota
	OptionCheck
	OptionString
	OptionButton
	OptionCombo
)

// Option is one typed engine setting. Parsing the incoming value and
// applying its effect are kept separate: onSet receives the already
// type-checked value and is the only place that touches engine state.
type Option struct {
	Name    string
	Type    OptionType
	Default string
	Min     int
	Max     int
	Vars    []string
	onSet   func(value string) error
}

// OptionRegistry holds every engine option the UCI handler exposes,
// keyed case-insensitively on name (UCI option names are compared
// case-insensitively by convention).
type OptionRegistry struct {
	opts  map[string]*Option
	order []string
}

// NewOptionRegistry creates an empty registry.
func NewOptionRegistry() *OptionRegistry {
	return &OptionRegistry{opts: make(map[string]*Option)}
}

// Register adds an option, preserving registration order for Print.
func (r *OptionRegistry) Register(o *Option) {
	key := strings.ToLower(o.Name)
	if _, exists := r.opts[key]; !exists {
		r.order = append(r.order, key)
	}
	r.opts[key] = o
}

// Names returns the registered option names in a stable sorted order,
// used only by tests that don't care about registration order.
func (r *OptionRegistry) Names() []string {
	names := make([]string, 0, len(r.opts))
	for _, k := range r.order {
		names = append(names, r.opts[k].Name)
	}
	sort.Strings(names)
	return names
}

// Set validates value against the option's type and, if valid, invokes
// its effect. Unknown option names are silently ignored, matching the
// UCI convention that engines tolerate options GUIs send speculatively.
func (r *OptionRegistry) Set(name, value string) error {
	opt, ok := r.opts[strings.ToLower(name)]
	if !ok {
		return nil
	}

	switch opt.Type {
	case OptionSpin:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("option %s: not an integer: %q", opt.Name, value)
		}
		if n < opt.Min || n > opt.Max {
			return fmt.Errorf("option %s: %d out of range [%d,%d]", opt.Name, n, opt.Min, opt.Max)
		}
	case OptionCheck:
		if value != "true" && value != "false" {
			return fmt.Errorf("option %s: not a bool: %q", opt.Name, value)
		}
	case OptionCombo:
		ok := false
		for _, v := range opt.Vars {
			if v == value {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("option %s: %q not one of %v", opt.Name, value, opt.Vars)
		}
	case OptionButton, OptionString:
		// No format to validate: a button ignores value, a string accepts anything.
	}

	if opt.onSet != nil {
		return opt.onSet(value)
	}
	return nil
}

// Print writes the "option name ... type ..." lines the "uci" command
// sends, one per registered option in registration order. Every type
// formats itself explicitly; there is no shared fallthrough between
// cases, so a button never inherits a spin's "default/min/max" tail and
// a spin never inherits a combo's "var" tail.
func (r *OptionRegistry) Print(w io.Writer) {
	for _, key := range r.order {
		opt := r.opts[key]
		switch opt.Type {
		case OptionSpin:
			fmt.Fprintf(w, "option name %s type spin default %s min %d max %d\n",
				opt.Name, opt.Default, opt.Min, opt.Max)
		case OptionCheck:
			fmt.Fprintf(w, "option name %s type check default %s\n", opt.Name, opt.Default)
		case OptionString:
			fmt.Fprintf(w, "option name %s type string default %s\n", opt.Name, opt.Default)
		case OptionButton:
			fmt.Fprintf(w, "option name %s type button\n", opt.Name)
		case OptionCombo:
			fmt.Fprintf(w, "option name %s type combo default %s", opt.Name, opt.Default)
			for _, v := range opt.Vars {
				fmt.Fprintf(w, " var %s", v)
			}
			fmt.Fprintln(w)
		}
	}
}
