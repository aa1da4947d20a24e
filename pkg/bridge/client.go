package bridge

import (
	"crypto/sha256"
	_ "embed"
	"fmt"
	"net/http"
	"strings"
)

// ClientScriptPath is where the thin client is served.
const ClientScriptPath = "/_shell/client.js"

//go:embed client.js
var clientJS []byte

var clientETag = func() string {
	sum := sha256.Sum256(clientJS)
	return fmt.Sprintf("%q", fmt.Sprintf("%x", sum[:8]))
}()

func serveClient(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("ETag", clientETag)
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=0, must-revalidate")

	if etagMatches(r.Header.Get("If-None-Match"), clientETag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(clientJS)
}

func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, part := range strings.Split(header, ",") {
		candidate := strings.TrimSpace(part)
		if candidate == etag || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
