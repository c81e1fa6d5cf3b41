// Package render expands {{key}} placeholders in markup templates.
//
// Values are HTML-escaped unless wrapped in Raw. Keys missing from the record,
// or mapped to nil, expand to the empty string.
package render

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// Record maps placeholder keys to values.
type Record map[string]any

// Raw is trusted markup inserted without escaping.
type Raw string

var placeholder = regexp.MustCompile(`\{\{(.*?)\}\}`)

func Render(template string, record Record) string {
	return placeholder.ReplaceAllStringFunc(template, func(m string) string {
		key := strings.TrimSpace(m[2 : len(m)-2])
		v, ok := record[key]
		if !ok {
			return ""
		}
		return stringify(v)
	})
}

func RenderList(template string, records []Record) string {
	if len(records) == 0 {
		return ""
	}

	var b strings.Builder
	for _, r := range records {
		b.WriteString(Render(template, r))
	}
	return b.String()
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case Raw:
		return string(t)
	case string:
		return html.EscapeString(t)
	case fmt.Stringer:
		return html.EscapeString(t.String())
	default:
		return html.EscapeString(fmt.Sprint(t))
	}
}
