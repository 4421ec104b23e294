package interpreter

import (
	"strconv"
	"strings"
)

// Stringify implements spec.md §4.4's print-formatting rule.
func Stringify(v Value) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		text := strconv.FormatFloat(v, 'f', -1, 64)
		if strings.HasSuffix(text, ".0") {
			text = strings.TrimSuffix(text, ".0")
		}
		return text
	case string:
		return v
	case *Function:
		return v.String()
	case *NativeFunction:
		return v.String()
	case *Class:
		return v.Name
	case *Instance:
		return v.String()
	default:
		return "nil"
	}
}
