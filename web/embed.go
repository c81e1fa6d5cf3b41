// Package web holds the storefront's markup: page partials and the
// templates expanded by the render package.
package web

import "embed"

//go:embed partials/*.html templates/*.html
var FS embed.FS

const (
	PartialsDir  = "partials"
	TemplatesDir = "templates"
)
