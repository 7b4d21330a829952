package preview

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/playerlink/playerlink/internal/httputil"
	"github.com/playerlink/playerlink/internal/media"
	"github.com/playerlink/playerlink/internal/platform"
	"github.com/playerlink/playerlink/internal/players"
	"github.com/playerlink/playerlink/internal/prefs"
	"github.com/playerlink/playerlink/internal/validate"
)

// FileServer is implemented by sources that serve their own direct links.
type FileServer interface {
	ServeFile(w http.ResponseWriter, r *http.Request, path, sign string) error
}

type Handler struct {
	source    media.Source
	prefs     prefs.Factory
	assetBase string
	catalog   []players.Entry
}

func NewHandler(source media.Source, factory prefs.Factory, assetBase string) *Handler {
	return &Handler{
		source:    source,
		prefs:     factory,
		assetBase: assetBase,
		catalog:   players.Catalog(),
	}
}

type playersResponse struct {
	Platform platform.Platform `json:"platform"`
	ShowAll  bool              `json:"showAll"`
	Players  []players.Link    `json:"players"`
}

// Players returns the resolved player links for ?path=. The show-all flag
// comes from ?all= when present and from the stored preference otherwise.
func (h *Handler) Players(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("path")
	if rejectRequest(w, r, raw) {
		return
	}
	path, err := media.CleanPath(raw)
	if err != nil || path == "" {
		httputil.WriteError(w, http.StatusBadRequest, "path is required")
		return
	}

	showAll := prefs.ReadBool(r.Context(), h.prefs(w, r), prefs.KeyShowAllPlayers, prefs.DefaultShowAllPlayers)
	if raw := r.URL.Query().Get("all"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "all must be a boolean")
			return
		}
		showAll = parsed
	}

	video, err := h.source.Stat(r.Context(), path)
	if err != nil {
		writeSourceError(w, err)
		return
	}
	if video.IsDir {
		writeSourceError(w, ErrIsDirectory)
		return
	}
	link, err := h.source.DirectLink(r.Context(), path)
	if err != nil {
		writeSourceError(w, err)
		return
	}

	p := platform.FromRequest(r)
	httputil.WriteJSON(w, http.StatusOK, playersResponse{
		Platform: p,
		ShowAll:  showAll,
		Players:  h.links(p, showAll, link, video.Name),
	})
}

// Catalog returns the full static player table.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.catalog)
}

func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, prefs.Load(r.Context(), h.prefs(w, r)))
}

type setPreferenceRequest struct {
	Value *bool `json:"value"`
}

// SetPreference stores one flag. Store failures are logged by prefs and
// not reported to the client.
func (h *Handler) SetPreference(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if !prefs.Valid(key) {
		httputil.WriteError(w, http.StatusNotFound, "unknown preference")
		return
	}

	var req setPreferenceRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil || req.Value == nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prefs.WriteBool(r.Context(), h.prefs(w, r), key, *req.Value)
	w.WriteHeader(http.StatusNoContent)
}

// Download serves a signed direct link for sources that host their files.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	fs, ok := h.source.(FileServer)
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, "not found")
		return
	}

	path := chi.URLParam(r, "*")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(path); err == nil {
			path = unescaped
		}
	}

	if err := fs.ServeFile(w, r, path, r.URL.Query().Get("sign")); err != nil {
		writeSourceError(w, err)
	}
}

// rejectRequest writes a 400 and returns true when the path or platform
// override is over its length limit.
func rejectRequest(w http.ResponseWriter, r *http.Request, path string) bool {
	msg := validate.Path(path)
	if msg == "" {
		msg = validate.Platform(r.URL.Query().Get("platform"))
	}
	if msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return true
	}
	return false
}

func writeSourceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, media.ErrNotFound):
		httputil.WriteError(w, http.StatusNotFound, "video not found")
	case errors.Is(err, media.ErrInvalidPath):
		httputil.WriteError(w, http.StatusBadRequest, "invalid path")
	case errors.Is(err, ErrIsDirectory):
		httputil.WriteError(w, http.StatusBadRequest, "path is a directory")
	case errors.Is(err, media.ErrInvalidSignature):
		httputil.WriteError(w, http.StatusForbidden, "invalid or expired link")
	default:
		slog.Error("preview: source request failed", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "could not load video")
	}
}
