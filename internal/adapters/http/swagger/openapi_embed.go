package swagger

import (
	"embed"
	"io/fs"
)

// OpenAPI contains the embedded OpenAPI YAML specification.
//
//go:embed openapi.yaml
var OpenAPI []byte

//go:embed static
var static embed.FS

// Assets holds the embedded docs page scripts served under /api-docs/.
var Assets = mustSub(static, "static")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
