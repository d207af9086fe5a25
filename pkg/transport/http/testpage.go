package http

import (
	_ "embed"
	"net/http"
)

//go:embed index.html
var testPage []byte

// handleTestPage handles GET /, serving the embedded browser test page.
func (a *Adapter) handleTestPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(testPage)
}
