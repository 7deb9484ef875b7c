package ports

import "go.trai.ch/modcss/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds modcss.yaml at or above cwd and returns the resolved configuration.
	// When no file exists the defaults rooted at cwd are returned.
	Load(cwd string) (*domain.Config, error)

	// DiscoverRoot walks up from cwd to the directory containing modcss.yaml.
	// It returns cwd when none is found.
	DiscoverRoot(cwd string) (string, error)
}
