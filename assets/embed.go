// Package assets embeds the static documents served at GET /api and
// GET /demo, per spec §6's "thin shell" framing.
package assets

import _ "embed"

//go:embed openapi.json
var OpenAPIJSON []byte

//go:embed demo.html
var DemoHTML []byte
