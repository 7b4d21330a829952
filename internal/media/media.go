package media

import (
	"context"
	"errors"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/playerlink/playerlink/internal/players"
)

var (
	ErrNotFound    = errors.New("object not found")
	ErrInvalidPath = errors.New("invalid path")
)

// Object is a file or directory exposed by a Source. Path is slash
// separated and relative to the source root.
type Object struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	IsDir   bool      `json:"isDir"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
}

// Source is a browsable tree of media files.
type Source interface {
	// List returns the children of dir, directories first, each group
	// sorted by name.
	List(ctx context.Context, dir string) ([]Object, error)
	Stat(ctx context.Context, path string) (Object, error)
	// DirectLink returns a URL an external player can fetch the raw file from.
	DirectLink(ctx context.Context, path string) (string, error)
	LinkEncoding() players.LinkEncoding
}

var videoExtensions = map[string]bool{
	".mkv":  true,
	".mp4":  true,
	".m4v":  true,
	".avi":  true,
	".mov":  true,
	".webm": true,
	".flv":  true,
	".wmv":  true,
	".ts":   true,
	".m2ts": true,
	".mpg":  true,
	".mpeg": true,
	".rmvb": true,
	".3gp":  true,
}

// IsVideo reports whether name has a video file extension.
func IsVideo(name string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(name))]
}

// Videos keeps the video files of objs in order.
func Videos(objs []Object) []Object {
	out := make([]Object, 0, len(objs))
	for _, o := range objs {
		if !o.IsDir && IsVideo(o.Name) {
			out = append(out, o)
		}
	}
	return out
}

// CleanPath normalises a request path to the slash separated form used by
// sources ("" is the root). Paths that climb out of the root are rejected.
func CleanPath(p string) (string, error) {
	if strings.ContainsRune(p, 0) || strings.Contains(p, `\`) {
		return "", ErrInvalidPath
	}
	if slices.Contains(strings.Split(p, "/"), "..") {
		return "", ErrInvalidPath
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+p), "/")
	return cleaned, nil
}

// Dir returns the parent of a cleaned path.
func Dir(p string) string {
	d := path.Dir(p)
	if d == "." || d == "/" {
		return ""
	}
	return d
}

// SortObjects orders directories first, then by case-insensitive name.
func SortObjects(objs []Object) {
	slices.SortFunc(objs, func(a, b Object) int {
		if a.IsDir != b.IsDir {
			if a.IsDir {
				return -1
			}
			return 1
		}
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
}
