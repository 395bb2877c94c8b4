// Package ui embeds the browser front end of the grievance portal.
package ui

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

//go:embed all:dist
var distFS embed.FS

// DistFS returns the embedded dist/ filesystem with the "dist" prefix stripped.
func DistFS() (fs.FS, error) {
	return fs.Sub(distFS, "dist")
}

// Handler serves the embedded portal. Known files are served as-is; the
// view routes (/, /dashboard, /report) all get index.html, which picks the
// view from the path. Any other missing path is a 404.
func Handler() (http.Handler, error) {
	sub, err := DistFS()
	if err != nil {
		return nil, err
	}
	fileServer := http.FileServerFS(sub)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := strings.TrimPrefix(path.Clean(r.URL.Path), "/")

		if p != "" {
			if _, err := fs.Stat(sub, p); err == nil {
				fileServer.ServeHTTP(w, r)
				return
			}
		}

		if !isViewRoute(p) {
			http.NotFound(w, r)
			return
		}

		// index.html carries no build hash, so never let it go stale.
		w.Header().Set("Cache-Control", "no-cache")
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	}), nil
}

func isViewRoute(p string) bool {
	switch p {
	case "", "dashboard", "report":
		return true
	}
	return false
}
