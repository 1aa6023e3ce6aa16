// Package configs embeds the default catalogs and tuning shipped with the server.
package configs

import "embed"

//go:embed blocks.json items.json tuning.yaml
var FS embed.FS

//go:embed tuning.yaml
var TuningYAML []byte
