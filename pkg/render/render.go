// Package render does `{key}` placeholder substitution over a template's
// subject line and HTML body. It is deliberately not text/template: the
// templates are authored by end users pasting `{姓名}`-style markers into
// HTML, and an unknown marker must stay visible in the output instead of
// failing the whole batch.
package render

import (
	"strings"
)

// Template is an immutable mail template. Name is the lookup key.
type Template struct {
	Name    string `json:"name" db:"name" validate:"required"`
	Subject string `json:"subject" db:"subject" validate:"required"`
	Body    string `json:"body" db:"body" validate:"required"`
}

// Merge layers data maps left to right, later maps winning on key collision.
// Input maps are never mutated.
func Merge(maps ...map[string]string) map[string]string {
	merged := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			merged[k] = v
		}
	}

	return merged
}

// Render substitutes every `{key}` occurrence in the template's subject and
// body with data[key]. Keys absent from data are left as literal text.
func Render(tpl Template, data map[string]string) (subject, body string) {
	subject = substitute(tpl.Subject, data)
	body = substitute(tpl.Body, data)
	return
}

func substitute(text string, data map[string]string) string {
	if len(data) == 0 {
		return text
	}

	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}

	return strings.NewReplacer(pairs...).Replace(text)
}
