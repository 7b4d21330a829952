package players

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

// LinkEncoding selects how many times the path of the direct link is
// percent-encoded before it is substituted into a scheme.
type LinkEncoding int

const (
	EncodingNone LinkEncoding = iota
	EncodingSingle
	EncodingDouble
)

func (e LinkEncoding) String() string {
	switch e {
	case EncodingSingle:
		return "single"
	case EncodingDouble:
		return "double"
	default:
		return "none"
	}
}

// ParseLinkEncoding accepts "none", "single" or "double".
func ParseLinkEncoding(s string) (LinkEncoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return EncodingNone, nil
	case "single":
		return EncodingSingle, nil
	case "double":
		return EncodingDouble, nil
	}
	return EncodingNone, fmt.Errorf("unknown link encoding %q", s)
}

// Context carries the values a scheme template is resolved against.
type Context struct {
	RawURL   string
	FileName string
	Encoding LinkEncoding
}

// DirectURL applies the context's path encoding to RawURL.
// A URL that does not parse is returned verbatim.
func DirectURL(ctx Context) string {
	if ctx.Encoding == EncodingNone || ctx.RawURL == "" {
		return ctx.RawURL
	}
	u, err := url.Parse(ctx.RawURL)
	if err != nil || u.Opaque != "" {
		return ctx.RawURL
	}
	segments := strings.Split(u.Path, "/")
	for i, seg := range segments {
		for range int(ctx.Encoding) {
			seg = url.PathEscape(seg)
		}
		segments[i] = seg
	}

	var b strings.Builder
	if u.Scheme != "" {
		b.WriteString(u.Scheme)
		b.WriteString(":")
	}
	if u.Host != "" || u.User != nil {
		b.WriteString("//")
		if u.User != nil {
			b.WriteString(u.User.String())
			b.WriteString("@")
		}
		b.WriteString(u.Host)
	}
	b.WriteString(strings.Join(segments, "/"))
	if u.RawQuery != "" {
		b.WriteString("?")
		b.WriteString(u.RawQuery)
	}
	if u.Fragment != "" {
		b.WriteString("#")
		b.WriteString(u.EscapedFragment())
	}
	return b.String()
}

// componentUnescaper undoes the QueryEscape choices that differ from a
// browser's encodeURIComponent.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EscapeComponent percent-encodes s the way encodeURIComponent does:
// letters, digits and -_.!~*'() are kept and spaces become %20.
func EscapeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

// Resolve substitutes the placeholder tokens in template:
//
//	$durl   direct URL
//	$edurl  direct URL, percent-encoded
//	$bdurl  direct URL, base64
//	$name   file name, percent-encoded
//
// A token is a '$' followed by the longest run of letters, digits and
// underscores. Unknown tokens are copied through untouched.
func Resolve(template string, ctx Context) string {
	if !strings.Contains(template, "$") {
		return template
	}

	direct := DirectURL(ctx)
	values := map[string]func() string{
		"durl":  func() string { return direct },
		"edurl": func() string { return EscapeComponent(direct) },
		"bdurl": func() string { return base64.StdEncoding.EncodeToString([]byte(direct)) },
		"name":  func() string { return EscapeComponent(ctx.FileName) },
	}

	var b strings.Builder
	b.Grow(len(template) + len(direct))
	for i := 0; i < len(template); {
		c := template[i]
		if c != '$' {
			b.WriteByte(c)
			i++
			continue
		}
		j := i + 1
		for j < len(template) && isTokenByte(template[j]) {
			j++
		}
		if value, ok := values[template[i+1:j]]; ok {
			b.WriteString(value())
		} else {
			b.WriteString(template[i:j])
		}
		i = j
	}
	return b.String()
}

func isTokenByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}
