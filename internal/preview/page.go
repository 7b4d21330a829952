package preview

import (
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/playerlink/playerlink/internal/httputil"
	"github.com/playerlink/playerlink/internal/platform"
	"github.com/playerlink/playerlink/internal/prefs"
)

type videoOption struct {
	Name     string
	URL      string
	Selected bool
}

// playerAnchor carries a resolved scheme. html/template would otherwise
// replace non-http schemes such as vlc:// or intent: with #ZgotmplZ.
type playerAnchor struct {
	Icon    string
	Name    string
	Href    template.URL
	IconURL string
}

type pageData struct {
	Panel
	Nonce   string
	Path    string
	NextURL string
	Options []videoOption
	Anchors []playerAnchor
}

// PreviewURL is the page address for a video path.
func PreviewURL(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return "/preview/" + strings.Join(segments, "/")
}

// Page renders the preview panel for the video at the wildcard path.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(path); err == nil {
			path = unescaped
		}
	}

	if rejectRequest(w, r, path) {
		return
	}

	pref := prefs.Load(r.Context(), h.prefs(w, r))
	panel, err := h.BuildPanel(r.Context(), path, platform.FromRequest(r), pref)
	if err != nil {
		writeSourceError(w, err)
		return
	}

	data := pageData{
		Panel: panel,
		Nonce: httputil.NonceFromContext(r.Context()),
		Path:  panel.Video.Path,
	}
	if panel.Next != nil {
		data.NextURL = PreviewURL(panel.Next.Path)
	}
	for _, v := range panel.Videos {
		data.Options = append(data.Options, videoOption{
			Name:     v.Name,
			URL:      PreviewURL(v.Path),
			Selected: v.Path == panel.Video.Path,
		})
	}

	for _, p := range panel.Players {
		data.Anchors = append(data.Anchors, playerAnchor{
			Icon:    p.Icon,
			Name:    p.Name,
			Href:    template.URL(p.Href),
			IconURL: p.IconURL,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := previewPageTemplate.Execute(w, data); err != nil {
		slog.Error("preview: failed to render page", "path", panel.Video.Path, "error", err)
	}
}

var previewPageTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>{{.Video.Name}}</title>
    <style nonce="{{.Nonce}}">
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            background: #0f172a;
            color: #e2e8f0;
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            display: flex;
            justify-content: center;
        }
        .panel {
            width: 100%;
            max-width: 1100px;
            padding: 1rem;
            display: flex;
            flex-direction: column;
            gap: 0.5rem;
        }
        #video-box {
            width: 100%;
            background: #000;
            border-radius: 8px;
            overflow: hidden;
        }
        #player {
            display: block;
            width: 100%;
        }
        .controls {
            display: flex;
            gap: 0.5rem;
            align-items: center;
        }
        .controls select {
            flex: 1;
            min-width: 0;
            padding: 0.375rem 0.5rem;
            border-radius: 6px;
            background: #1e293b;
            color: inherit;
            border: 1px solid #334155;
        }
        .controls label {
            white-space: nowrap;
            display: flex;
            gap: 0.375rem;
            align-items: center;
        }
        .players {
            display: flex;
            flex-wrap: wrap;
            gap: 0.25rem;
            justify-content: center;
            align-items: center;
        }
        .players a img {
            display: block;
            width: 2rem;
            height: 2rem;
            margin: 0 auto;
        }
        #show-all {
            background: none;
            border: none;
            color: #00b67a;
            font-size: 1.5rem;
            cursor: pointer;
            transition: transform 0.2s;
        }
        #show-all.expanded {
            transform: rotate(180deg);
        }
    </style>
</head>
<body>
<div class="panel">
    <div id="video-box">
        <video id="player" controls autoplay playsinline preload="metadata" src="{{.DirectURL}}"></video>
    </div>
    <div class="controls">
        <select id="video-select" aria-label="Video">
            {{range .Options}}<option value="{{.URL}}"{{if .Selected}} selected{{end}}>{{.Name}}</option>
            {{end}}
        </select>
        <label><input type="checkbox" id="auto-next"{{if .Prefs.AutoNext}} checked{{end}}> Auto play next</label>
    </div>
    <div class="players" id="players">
        {{range .Anchors}}<a href="{{.Href}}" title="{{.Name}}" data-player="{{.Icon}}"><img src="{{.IconURL}}" alt="{{.Name}}"></a>
        {{end}}
        <button type="button" id="show-all" aria-label="Show all players"{{if .Prefs.ShowAllPlayers}} class="expanded"{{end}}>&rarr;</button>
    </div>
</div>
<script nonce="{{.Nonce}}">
(function() {
    var path = {{.Path}};
    var nextURL = {{.NextURL}};
    var showAll = {{.Prefs.ShowAllPlayers}};
    var box = document.getElementById("video-box");
    var video = document.getElementById("player");
    var autoNext = document.getElementById("auto-next");
    var playersRow = document.getElementById("players");
    var toggle = document.getElementById("show-all");

    function savePreference(key, value) {
        fetch("/api/preferences/" + key, {
            method: "PUT",
            headers: { "Content-Type": "application/json" },
            body: JSON.stringify({ value: value })
        }).catch(function() {});
    }

    function autoHeight() {
        if (!video.videoWidth || !video.videoHeight) return;
        var height = box.clientWidth * video.videoHeight / video.videoWidth;
        var max = parseFloat(getComputedStyle(box).maxHeight);
        if (!isNaN(max) && height > max) height = max;
        video.style.height = height + "px";
    }

    video.addEventListener("loadedmetadata", function() {
        box.style.maxHeight = "calc(100vh - " + box.offsetTop + "px - 1.75rem)";
        box.style.minHeight = "320px";
        autoHeight();
    });
    window.addEventListener("resize", autoHeight);
    video.addEventListener("error", function() {
        if (video.style.height) return;
        box.style.height = "60vh";
        video.style.height = "100%";
    });
    video.addEventListener("ended", function() {
        if (autoNext.checked && nextURL) window.location.replace(nextURL);
    });

    document.getElementById("video-select").addEventListener("change", function(e) {
        window.location.replace(e.target.value);
    });

    autoNext.addEventListener("change", function() {
        savePreference("video_auto_next", autoNext.checked);
    });

    function renderPlayers(list) {
        Array.prototype.slice.call(playersRow.querySelectorAll("a")).forEach(function(a) {
            playersRow.removeChild(a);
        });
        list.forEach(function(p) {
            var a = document.createElement("a");
            a.href = p.href;
            a.title = p.name;
            a.setAttribute("data-player", p.icon);
            var img = document.createElement("img");
            img.src = p.iconUrl;
            img.alt = p.name;
            a.appendChild(img);
            playersRow.insertBefore(a, toggle);
        });
    }

    toggle.addEventListener("click", function() {
        showAll = !showAll;
        toggle.classList.toggle("expanded", showAll);
        savePreference("video_show_all_players", showAll);
        fetch("/api/players?path=" + encodeURIComponent(path) + "&all=" + showAll)
            .then(function(res) { return res.json(); })
            .then(function(body) { renderPlayers(body.players || []); })
            .catch(function() {});
    });
})();
</script>
</body>
</html>`))
