package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/playerlink/playerlink/internal/players"
)

type LocalConfig struct {
	Root       string
	BaseURL    string
	LinkSecret string
	LinkExpiry time.Duration
	Encoding   players.LinkEncoding
}

// Local serves media from a directory on disk. Its direct links point back
// at this service's /d/ route and carry a signed token.
type Local struct {
	root     string
	baseURL  string
	signer   *Signer
	encoding players.LinkEncoding
}

func NewLocal(cfg LocalConfig) (*Local, error) {
	if cfg.LinkSecret == "" {
		return nil, errors.New("link secret is required")
	}
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	fi, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}
	return &Local{
		root:     root,
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		signer:   NewSigner(cfg.LinkSecret, cfg.LinkExpiry),
		encoding: cfg.Encoding,
	}, nil
}

func (l *Local) abs(p string) (string, error) {
	clean, err := CleanPath(p)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.root, filepath.FromSlash(clean)), nil
}

func (l *Local) List(_ context.Context, dir string) ([]Object, error) {
	clean, err := CleanPath(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(l.root, filepath.FromSlash(clean)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read dir %s: %w", clean, err)
	}

	objs := make([]Object, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		objs = append(objs, objectFromInfo(joinPath(clean, e.Name()), info))
	}
	SortObjects(objs)
	return objs, nil
}

func (l *Local) Stat(_ context.Context, p string) (Object, error) {
	clean, err := CleanPath(p)
	if err != nil {
		return Object{}, err
	}
	info, err := os.Stat(filepath.Join(l.root, filepath.FromSlash(clean)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Object{}, ErrNotFound
		}
		return Object{}, fmt.Errorf("stat %s: %w", clean, err)
	}
	return objectFromInfo(clean, info), nil
}

func (l *Local) DirectLink(_ context.Context, p string) (string, error) {
	clean, err := CleanPath(p)
	if err != nil {
		return "", err
	}
	sign, err := l.signer.Sign(clean)
	if err != nil {
		return "", err
	}
	return l.baseURL + "/d/" + escapePath(clean) + "?sign=" + url.QueryEscape(sign), nil
}

func (l *Local) LinkEncoding() players.LinkEncoding {
	return l.encoding
}

// ServeFile writes the file at p to w after checking the link signature.
// Range requests are honoured.
func (l *Local) ServeFile(w http.ResponseWriter, r *http.Request, p, sign string) error {
	clean, err := CleanPath(p)
	if err != nil {
		return err
	}
	if err := l.signer.Verify(sign, clean); err != nil {
		return err
	}
	full, err := l.abs(clean)
	if err != nil {
		return err
	}
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("open %s: %w", clean, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", clean, err)
	}
	if info.IsDir() {
		return ErrNotFound
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return nil
}

func objectFromInfo(p string, info fs.FileInfo) Object {
	return Object{
		Name:    info.Name(),
		Path:    p,
		IsDir:   info.IsDir(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
}

func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
