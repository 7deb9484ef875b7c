package compiler

import (
	"bytes"
	"encoding/json"
	"strings"

	"go.trai.ch/modcss/internal/core/domain"
)

// ModuleSource renders tokens as the CommonJS module handed to a bundler.
func ModuleSource(tokens domain.TokenMap) (string, error) {
	if tokens == nil {
		tokens = domain.TokenMap{}
	}
	data, err := marshalJS(tokens)
	if err != nil {
		return "", err
	}
	return "module.exports = " + data, nil
}

// ErrorModuleSource renders a module that reports err at runtime instead of
// exporting tokens. It is the degraded output for a file that failed to compile.
func ErrorModuleSource(err error) string {
	msg, marshalErr := marshalJS(err.Error())
	if marshalErr != nil {
		msg = `"stylesheet failed to compile"`
	}
	return "console.error(" + msg + ");"
}

// MarshalManifest encodes a manifest as indented JSON with sorted keys.
func MarshalManifest(m domain.Manifest) ([]byte, error) {
	return marshalIndent(m)
}

// MarshalTokens encodes the token record of a single file.
func MarshalTokens(t domain.TokenMap) ([]byte, error) {
	if t == nil {
		t = domain.TokenMap{}
	}
	return marshalIndent(t)
}

func marshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshalJS(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
