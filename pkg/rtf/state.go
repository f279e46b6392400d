// state.go tracks the active character formatting as control words are
// applied. RTF formatting is stateful and group-scoped: the decoder pushes
// a snapshot on every '{' and restores it on the matching '}'.
package rtf

// scriptMode is the mutually exclusive superscript/subscript position.
type scriptMode int

const (
	scriptNone scriptMode = iota
	scriptSuper
	scriptSub
)

// formatState is a value-comparable snapshot of the active style
// attributes. Index fields use -1 for "not set"; fontSize 0 means no
// explicit size.
type formatState struct {
	bold      bool
	italic    bool
	underline bool
	strike    bool
	script    scriptMode

	fontSize       float64 // points
	fontIndex      int
	colorIndex     int
	highlightIndex int
}

func defaultFormatState() formatState {
	return formatState{
		fontIndex:      -1,
		colorIndex:     -1,
		highlightIndex: -1,
	}
}

// apply updates the state for one control word and reports whether the
// word affects formatting at all. Toggle words treat an explicit 0
// parameter as off; any other or absent parameter is on.
func (s *formatState) apply(word string, param int, hasParam bool) bool {
	on := !hasParam || param != 0

	switch word {
	case "b":
		s.bold = on
	case "i":
		s.italic = on
	case "ul":
		s.underline = on
	case "ulnone":
		s.underline = false
	case "strike":
		s.strike = on
	case "super":
		s.script = scriptSuper
	case "sub":
		s.script = scriptSub
	case "nosupersub":
		s.script = scriptNone
	case "fs":
		if hasParam {
			// RTF stores sizes in half-points.
			s.fontSize = float64(param) / 2
		}
	case "f":
		if hasParam {
			s.fontIndex = param
		}
	case "cf":
		if hasParam {
			s.colorIndex = param
		}
	case "highlight":
		if hasParam {
			s.highlightIndex = param
		}
	case "plain":
		*s = defaultFormatState()
	default:
		return false
	}
	return true
}
