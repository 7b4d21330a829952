package players

import "github.com/playerlink/playerlink/internal/platform"

// Filter narrows entries to the players offered on p, keeping their order.
// With showAll set, or when the platform is unknown, entries is returned
// as is.
func Filter(entries []Entry, p platform.Platform, showAll bool) []Entry {
	if showAll || p == platform.Unknown {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Supports(p) {
			out = append(out, e)
		}
	}
	return out
}

// Link is a catalog entry resolved for one video.
type Link struct {
	Icon    string `json:"icon"`
	Name    string `json:"name"`
	Href    string `json:"href"`
	IconURL string `json:"iconUrl"`
}

// Links resolves every entry's scheme against ctx. Icons are looked up at
// <assetBase>/images/<icon>.webp.
func Links(entries []Entry, ctx Context, assetBase string) []Link {
	links := make([]Link, 0, len(entries))
	for _, e := range entries {
		links = append(links, Link{
			Icon:    e.Icon,
			Name:    e.Name,
			Href:    Resolve(e.Scheme, ctx),
			IconURL: IconURL(assetBase, e.Icon),
		})
	}
	return links
}

// IconURL joins the opaque asset prefix with the icon path.
func IconURL(assetBase, icon string) string {
	return assetBase + "/images/" + icon + ".webp"
}
