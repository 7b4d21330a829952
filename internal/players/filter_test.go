package players

import (
	"slices"
	"testing"

	"github.com/playerlink/playerlink/internal/platform"
)

func icons(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Icon
	}
	return out
}

func TestCatalogDeclaredOrder(t *testing.T) {
	want := []string{
		"iina", "potplayer", "vlc", "nplayer", "omniplayer", "figplayer",
		"infuse", "fileball", "mxplayer", "mxplayer-pro", "iPlay", "mpv",
	}
	if got := icons(Catalog()); !slices.Equal(got, want) {
		t.Errorf("expected order %v, got %v", want, got)
	}
}

func TestCatalogReturnsCopy(t *testing.T) {
	first := Catalog()
	first[0].Name = "mutated"
	first[2].Platforms[0] = platform.Unknown

	second := Catalog()
	if second[0].Name != "IINA" {
		t.Errorf("catalog name was mutated: %q", second[0].Name)
	}
	if second[2].Platforms[0] != platform.Windows {
		t.Errorf("catalog platforms were mutated: %v", second[2].Platforms)
	}
}

func TestFilterUnknownReturnsFullCatalog(t *testing.T) {
	all := Catalog()
	got := Filter(all, platform.Unknown, false)
	if !slices.Equal(icons(got), icons(all)) {
		t.Errorf("expected full catalog, got %v", icons(got))
	}
}

func TestFilterShowAllIgnoresPlatform(t *testing.T) {
	all := Catalog()
	for _, p := range platform.All {
		got := Filter(all, p, true)
		if !slices.Equal(icons(got), icons(all)) {
			t.Errorf("platform %s: expected full catalog, got %v", p, icons(got))
		}
	}
}

func TestFilterByPlatform(t *testing.T) {
	tests := []struct {
		platform platform.Platform
		want     []string
	}{
		{platform.IOS, []string{"vlc", "nplayer", "infuse", "fileball", "iPlay"}},
		{platform.MacOS, []string{"iina", "vlc", "omniplayer", "figplayer", "infuse", "fileball", "mpv"}},
		{platform.Windows, []string{"potplayer", "vlc", "mpv"}},
		{platform.Linux, []string{"vlc", "mpv"}},
		{platform.Android, []string{"vlc", "nplayer", "mxplayer", "mxplayer-pro", "mpv"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.platform), func(t *testing.T) {
			got := Filter(Catalog(), tt.platform, false)
			if !slices.Equal(icons(got), tt.want) {
				t.Errorf("expected %v, got %v", tt.want, icons(got))
			}
			for _, e := range got {
				if !e.Supports(tt.platform) {
					t.Errorf("%s does not support %s", e.Icon, tt.platform)
				}
			}
		})
	}
}

func TestLinks(t *testing.T) {
	entries := Filter(Catalog(), platform.Linux, false)
	links := Links(entries, Context{RawURL: "http://x/a.mp4", FileName: "a.mp4"}, "https://cdn.example")

	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(links))
	}
	if links[0].Href != "vlc://http://x/a.mp4" {
		t.Errorf("unexpected vlc href: %q", links[0].Href)
	}
	if links[0].IconURL != "https://cdn.example/images/vlc.webp" {
		t.Errorf("unexpected icon url: %q", links[0].IconURL)
	}
	if links[1].Href != "mpv://http%3A%2F%2Fx%2Fa.mp4" {
		t.Errorf("unexpected mpv href: %q", links[1].Href)
	}
}

func TestLookupUnknownIcon(t *testing.T) {
	if _, ok := Lookup("winamp"); ok {
		t.Error("expected winamp to be absent")
	}
}
