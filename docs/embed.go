// Package docs embeds the folio reference documentation.
package docs

import "embed"

// FS holds the bundled reference topics under reference/.
//
//go:embed reference/*.md
var FS embed.FS
