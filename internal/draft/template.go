package draft

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_.]*)\s*\}\}`)

// RenderOptions controls placeholder handling
type RenderOptions struct {
	KeepPlaceholders bool // Leave {{name}} in place when no value exists; otherwise remove it
}

// Render replaces {{identifier}} placeholders with values from vars
func Render(tmpl string, vars map[string]any, opts RenderOptions) string {
	return placeholderPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		key := placeholderPattern.FindStringSubmatch(match)[1]
		if v, ok := vars[key]; ok && v != nil {
			return formatValue(v)
		}
		if opts.KeepPlaceholders {
			return match
		}
		return ""
	})
}

// Placeholders lists the distinct placeholder names in a template, in order of appearance
func Placeholders(tmpl string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(tmpl, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case *float64:
		if val == nil {
			return ""
		}
		return strconv.FormatFloat(*val, 'f', -1, 64)
	case time.Time:
		return val.Format("2006-01-02")
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
