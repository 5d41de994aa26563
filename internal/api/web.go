package api

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed web
var webAssets embed.FS

// webFS returns the embedded page with the "web" prefix stripped.
func webFS() fs.FS {
	sub, err := fs.Sub(webAssets, "web")
	if err != nil {
		panic(err) // the directory is embedded at build time
	}
	return sub
}

func staticHandler() http.Handler {
	return http.FileServerFS(webFS())
}
