package preview

import (
	"context"
	"errors"
	"fmt"

	"github.com/playerlink/playerlink/internal/media"
	"github.com/playerlink/playerlink/internal/platform"
	"github.com/playerlink/playerlink/internal/players"
	"github.com/playerlink/playerlink/internal/prefs"
)

var ErrIsDirectory = errors.New("path is a directory")

// Panel is everything the preview page renders for one video.
type Panel struct {
	Video     media.Object      `json:"video"`
	Dir       string            `json:"dir"`
	Videos    []media.Object    `json:"videos"`
	Next      *media.Object     `json:"next,omitempty"`
	Platform  platform.Platform `json:"platform"`
	Prefs     prefs.Preferences `json:"preferences"`
	DirectURL string            `json:"directUrl"`
	Players   []players.Link    `json:"players"`
}

// BuildPanel gathers the current video, its sibling videos and the
// external player links for p.
func (h *Handler) BuildPanel(ctx context.Context, path string, p platform.Platform, pref prefs.Preferences) (Panel, error) {
	clean, err := media.CleanPath(path)
	if err != nil {
		return Panel{}, err
	}
	video, err := h.source.Stat(ctx, clean)
	if err != nil {
		return Panel{}, err
	}
	if video.IsDir {
		return Panel{}, ErrIsDirectory
	}

	dir := media.Dir(clean)
	siblings, err := h.source.List(ctx, dir)
	if err != nil {
		return Panel{}, fmt.Errorf("list %q: %w", dir, err)
	}
	videos := media.Videos(siblings)
	if len(videos) == 0 {
		videos = []media.Object{video}
	}

	link, err := h.source.DirectLink(ctx, clean)
	if err != nil {
		return Panel{}, fmt.Errorf("direct link: %w", err)
	}

	return Panel{
		Video:     video,
		Dir:       dir,
		Videos:    videos,
		Next:      nextVideo(videos, clean),
		Platform:  p,
		Prefs:     pref,
		DirectURL: link,
		Players:   h.links(p, pref.ShowAllPlayers, link, video.Name),
	}, nil
}

func (h *Handler) links(p platform.Platform, showAll bool, link, name string) []players.Link {
	ctx := players.Context{
		RawURL:   link,
		FileName: name,
		Encoding: h.source.LinkEncoding(),
	}
	return players.Links(players.Filter(h.catalog, p, showAll), ctx, h.assetBase)
}

func nextVideo(videos []media.Object, current string) *media.Object {
	for i, v := range videos {
		if v.Path == current && i+1 < len(videos) {
			next := videos[i+1]
			return &next
		}
	}
	return nil
}
