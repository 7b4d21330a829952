package players

import (
	"slices"

	"github.com/playerlink/playerlink/internal/platform"
)

// Entry is an external media player reachable through a URL scheme.
type Entry struct {
	Icon      string              `json:"icon"`
	Name      string              `json:"name"`
	Scheme    string              `json:"scheme"`
	Platforms []platform.Platform `json:"platforms"`
}

// Supports reports whether the player is offered on p.
func (e Entry) Supports(p platform.Platform) bool {
	return slices.Contains(e.Platforms, p)
}

var (
	desktop = []platform.Platform{platform.Windows, platform.MacOS, platform.Linux}
	apple   = []platform.Platform{platform.MacOS, platform.IOS}
)

// Declaration order is display order.
var catalog = []Entry{
	{Icon: "iina", Name: "IINA", Scheme: "iina://weblink?url=$edurl", Platforms: []platform.Platform{platform.MacOS}},
	{Icon: "potplayer", Name: "PotPlayer", Scheme: "potplayer://$durl", Platforms: []platform.Platform{platform.Windows}},
	{Icon: "vlc", Name: "VLC", Scheme: "vlc://$durl", Platforms: append(slices.Clone(desktop), platform.Android, platform.IOS)},
	{Icon: "nplayer", Name: "nPlayer", Scheme: "nplayer-$durl", Platforms: []platform.Platform{platform.Android, platform.IOS}},
	{Icon: "omniplayer", Name: "OmniPlayer", Scheme: "omniplayer://weblink?url=$durl", Platforms: []platform.Platform{platform.MacOS}},
	{Icon: "figplayer", Name: "Fig Player", Scheme: "figplayer://weblink?url=$durl", Platforms: []platform.Platform{platform.MacOS}},
	{Icon: "infuse", Name: "Infuse", Scheme: "infuse://x-callback-url/play?url=$durl", Platforms: apple},
	{Icon: "fileball", Name: "Fileball", Scheme: "filebox://play?url=$durl", Platforms: apple},
	{Icon: "mxplayer", Name: "MX Player", Scheme: "intent:$durl#Intent;package=com.mxtech.videoplayer.ad;S.title=$name;end", Platforms: []platform.Platform{platform.Android}},
	{Icon: "mxplayer-pro", Name: "MX Player Pro", Scheme: "intent:$durl#Intent;package=com.mxtech.videoplayer.pro;S.title=$name;end", Platforms: []platform.Platform{platform.Android}},
	{Icon: "iPlay", Name: "iPlay", Scheme: "iplay://play/any?type=url&url=$bdurl", Platforms: []platform.Platform{platform.IOS}},
	{Icon: "mpv", Name: "mpv", Scheme: "mpv://$edurl", Platforms: append(slices.Clone(desktop), platform.Android)},
}

// Catalog returns a copy of the built-in player table.
func Catalog() []Entry {
	out := make([]Entry, len(catalog))
	for i, e := range catalog {
		e.Platforms = slices.Clone(e.Platforms)
		out[i] = e
	}
	return out
}

// Lookup finds a catalog entry by icon id.
func Lookup(icon string) (Entry, bool) {
	for _, e := range catalog {
		if e.Icon == icon {
			e.Platforms = slices.Clone(e.Platforms)
			return e, true
		}
	}
	return Entry{}, false
}
