package notebook

import (
	"mime"
	"sort"
	"strings"
)

// knownExtensions covers the MIME types Jupyter kernels emit. The host MIME
// database is only consulted for types missing here, since its answers vary
// between systems (text/plain alone maps to several extensions).
var knownExtensions = map[string]string{
	"text/plain":             ".txt",
	"text/html":              ".html",
	"text/markdown":          ".md",
	"text/latex":             ".tex",
	"text/csv":               ".csv",
	"image/png":              ".png",
	"image/jpeg":             ".jpg",
	"image/gif":              ".gif",
	"image/svg+xml":          ".svg",
	"application/pdf":        ".pdf",
	"application/json":       ".json",
	"application/javascript": ".js",
}

// GuessExtension returns the file extension, with leading dot, for a MIME
// type, or "" when none is known.
func GuessExtension(mimeType string) string {
	base := mimeType
	if i := strings.IndexByte(base, ';'); i >= 0 {
		base = base[:i]
	}
	base = strings.ToLower(strings.TrimSpace(base))

	if ext, ok := knownExtensions[base]; ok {
		return ext
	}
	exts, err := mime.ExtensionsByType(base)
	if err != nil || len(exts) == 0 {
		return ""
	}
	sort.Strings(exts)
	return exts[0]
}
