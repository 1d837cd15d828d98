package web

import "embed"

// TemplatesFS embeds the HTML documents rendered by the report package.
//
//go:embed templates/*.html
var TemplatesFS embed.FS
