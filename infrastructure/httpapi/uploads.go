package httpapi

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"wegetchat/domain/mimetypes"

	"github.com/gabriel-vasile/mimetype"
)

// uploadsHandler serves stored uploads by name. Directories are never listed and anything
// that is not a raster image is sent as a download.
func (s *Server) uploadsHandler() http.Handler {
	dir := s.uploads.Dir()
	files := http.FileServer(http.Dir(dir))

	return http.StripPrefix("/uploads/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Path
		if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
			http.NotFound(w, r)
			return
		}
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			http.NotFound(w, r)
			return
		}

		detected, err := mimetype.DetectFile(path)
		if err != nil {
			s.log.Warn("Could not inspect upload", "name", name, "err", err)
			http.NotFound(w, r)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		if mimetypes.IsRasterImage(detected.String()) {
			w.Header().Set("Content-Type", detected.String())
		} else {
			w.Header().Set("Content-Type", string(mimetypes.ApplicationOctet))
			w.Header().Set("Content-Disposition", "attachment")
		}
		files.ServeHTTP(w, r)
	}))
}
