// Package web embeds the studio front end so the binary ships as a single
// artifact with no on-disk asset directory.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var assets embed.FS

//go:embed static/index.html
var IndexHTML []byte

// Static returns the asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
