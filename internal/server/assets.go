package server

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/playerlink/playerlink/internal/httputil"
)

// assetFileServer serves player icons and other static files. Directory
// listings are never exposed.
type assetFileServer struct {
	fileServer http.Handler
	fileSystem fs.FS
}

func newAssetFileServer(fsys fs.FS) *assetFileServer {
	return &assetFileServer{
		fileServer: http.FileServer(http.FS(fsys)),
		fileSystem: fsys,
	}
}

func (s *assetFileServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/")
	info, err := fs.Stat(s.fileSystem, name)
	if err != nil || info.IsDir() {
		httputil.WriteError(w, http.StatusNotFound, "not found")
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=86400")
	s.fileServer.ServeHTTP(w, r)
}
