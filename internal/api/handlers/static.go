package handlers

import (
	"net/http"
	"path"
)

// Static serves the built frontend from dir. Paths with no file behind them
// get the JSON 404 instead of the file server's plain-text one.
func (h *Handler) Static(dir string) http.Handler {
	root := http.Dir(dir)
	files := http.FileServer(root)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + r.URL.Path)
		if !servable(root, name) {
			h.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

// servable reports whether name is a file, or a directory with an index.html.
func servable(root http.FileSystem, name string) bool {
	f, err := root.Open(name)
	if err != nil {
		return false
	}
	info, err := f.Stat()
	f.Close()
	if err != nil {
		return false
	}
	if !info.IsDir() {
		return true
	}
	return servable(root, path.Join(name, "index.html"))
}
