package fs_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modcss/internal/adapters/fs"
	"go.trai.ch/modcss/internal/core/domain"
)

func TestResolver_Resolve(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/components/button.css":            "",
		"src/shared.css":                       "",
		"src/local.css":                        "",
		"node_modules/plain/colors.css":        "",
		"node_modules/extless/tokens.css":      "",
		"node_modules/styled/package.json":     `{"style": "dist/styled.css", "main": "index.js"}`,
		"node_modules/styled/dist/styled.css":  "",
		"node_modules/mainonly/package.json":   `{"main": "main.css"}`,
		"node_modules/mainonly/main.css":       "",
		"node_modules/indexed/index.css":       "",
		"src/node_modules/nearest/index.css":   "",
		"node_modules/nearest/index.css":       "",
		"node_modules/broken/package.json":     `{`,
		"node_modules/broken/index.css":        "",
		"node_modules/@scope/pkg/package.json": `{"style": "pkg.css"}`,
		"node_modules/@scope/pkg/pkg.css":      "",
	})
	from := domain.NewFileID(filepath.Join(root, "src", "components", "button.css"))
	at := func(rel string) domain.FileID { return domain.NewFileID(filepath.Join(root, filepath.FromSlash(rel))) }

	tests := []struct {
		name string
		spec string
		want domain.FileID
	}{
		{name: "relative", spec: "../shared.css", want: at("src/shared.css")},
		{name: "dot relative", spec: "./button.css", want: at("src/components/button.css")},
		{name: "double quoted", spec: `"../shared.css"`, want: at("src/shared.css")},
		{name: "single quoted", spec: `'../shared.css'`, want: at("src/shared.css")},
		{name: "absolute", spec: at("src/local.css").String(), want: at("src/local.css")},
		{name: "package file", spec: "plain/colors.css", want: at("node_modules/plain/colors.css")},
		{name: "package file without extension", spec: "extless/tokens", want: at("node_modules/extless/tokens.css")},
		{name: "package style field", spec: "styled", want: at("node_modules/styled/dist/styled.css")},
		{name: "package main field", spec: "mainonly", want: at("node_modules/mainonly/main.css")},
		{name: "package index", spec: "indexed", want: at("node_modules/indexed/index.css")},
		{name: "nearest node_modules wins", spec: "nearest", want: at("src/node_modules/nearest/index.css")},
		{name: "malformed package.json", spec: "broken", want: at("node_modules/broken/index.css")},
		{name: "scoped package", spec: "@scope/pkg", want: at("node_modules/@scope/pkg/pkg.css")},
		{name: "bare sibling fallback", spec: "button.css", want: at("src/components/button.css")},
	}

	r := fs.NewResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.spec, from)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_Errors(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.css": ""})
	from := domain.NewFileID(filepath.Join(root, "a.css"))
	r := fs.NewResolver()

	_, err := r.Resolve(`""`, from)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty specifier")

	_, err = r.Resolve("nothing-here", from)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "module not found")
}
