// Package swagger serves the API reference.
package swagger

import (
	"context"
	"net/http"
)

// Register attaches the API docs and the OpenAPI spec routes to mux.
// Routes:
//
//	GET /api-docs            -> docs page
//	GET /openapi.yaml        -> Embedded OpenAPI spec
//	GET /api-docs/{asset}    -> Embedded page scripts
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("GET /api-docs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(indexHTML))
	})

	mux.HandleFunc("GET /openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(OpenAPI)
	})

	mux.Handle("GET /api-docs/", http.StripPrefix("/api-docs/", http.FileServerFS(Assets)))
}

// Minimal HTML that uses the embedded viewer and loads /openapi.yaml.
const indexHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>podsmith API</title>
    <style>
      body{margin:0;font-family:sans-serif;display:flex}
      .paths{list-style:none;margin:0;padding:1em;min-width:18em;border-right:1px solid #ddd}
      .paths li{margin-bottom:.8em}
      .op{font-size:.85em;color:#555;margin-left:.5em}
      .doc{padding:1em;overflow:auto}
      .doc pre{margin:0;font-size:.85em}
    </style>
  </head>
  <body>
    <div id="docs-container" style="display:flex;width:100%"></div>
    <script src="/api-docs/docs.js"></script>
    <script>PodsmithDocs.init('/openapi.yaml', document.getElementById('docs-container'));</script>
  </body>
</html>`
