package cli

import (
	"fmt"
	"os"

	coreapp "i18nscan/internal/core/app"
	"i18nscan/internal/core/config"
)

type appFactory interface {
	New(cfg *config.Config, cwd string) (*coreapp.App, error)
}

type coreAppFactory struct{}

func (coreAppFactory) New(cfg *config.Config, cwd string) (*coreapp.App, error) {
	return coreapp.New(cfg, cwd)
}

func initializeApp(cfg *config.Config, factory appFactory) (*coreapp.App, error) {
	if factory == nil {
		return nil, fmt.Errorf("app factory is required")
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	app, err := factory.New(cfg, cwd)
	if err != nil {
		return nil, &commandError{code: ExitError, err: err}
	}
	return app, nil
}
