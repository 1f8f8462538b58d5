package blogfront

import "embed"

// templateFS carries the page layouts compiled into the binary so the
// server and the prerenderer always render from the same templates.
//
//go:embed templates
var templateFS embed.FS
