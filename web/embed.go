// Package web embeds the collaborator-facing assets.
package web

import "embed"

//go:embed templates/*.html
var TemplatesFS embed.FS
