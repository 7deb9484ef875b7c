package ports

// ArtifactWriter persists build outputs.
//
//go:generate mockgen -destination=mocks/artifacts_mock.go -package=mocks -source=artifacts.go
type ArtifactWriter interface {
	// WriteFile replaces path with data. Readers never observe a partial file.
	WriteFile(path string, data []byte) error
}
