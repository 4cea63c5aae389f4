package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type ResolvedPaths struct {
	ProjectRoot string
	ScanPaths   []string
	HistoryPath string
	OutputPath  string
	CatalogPath string
	Project     string
}

// ResolvePaths anchors every relative path of cfg at the project root. The
// root is scan.project_root when set, otherwise detected from the scan paths
// and cwd.
func ResolvePaths(cfg *Config, cwd string) (ResolvedPaths, error) {
	if strings.TrimSpace(cwd) == "" {
		return ResolvedPaths{}, fmt.Errorf("cwd must not be empty")
	}

	projectRoot := cfg.Scan.ProjectRoot
	if projectRoot != "" {
		projectRoot = ResolveRelative(cwd, projectRoot)
	} else {
		candidates := make([]string, 0, len(cfg.Scan.Paths)+1)
		for _, p := range cfg.Scan.Paths {
			candidates = append(candidates, ResolveRelative(cwd, p))
		}
		root, err := DetectProjectRoot(append(candidates, cwd))
		if err != nil {
			return ResolvedPaths{}, err
		}
		projectRoot = root
	}

	scanPaths := make([]string, 0, len(cfg.Scan.Paths))
	for _, p := range cfg.Scan.Paths {
		scanPaths = append(scanPaths, ResolveRelative(cwd, p))
	}

	resolved := ResolvedPaths{
		ProjectRoot: filepath.Clean(projectRoot),
		ScanPaths:   scanPaths,
		HistoryPath: ResolveRelative(projectRoot, cfg.History.Path),
		Project:     cfg.History.Project,
	}
	if resolved.Project == "" {
		resolved.Project = filepath.Base(resolved.ProjectRoot)
	}
	if cfg.Output.Path != "" {
		resolved.OutputPath = ResolveRelative(cwd, cfg.Output.Path)
	}
	if cfg.Output.Catalog != "" {
		resolved.CatalogPath = ResolveRelative(cwd, cfg.Output.Catalog)
	}
	return resolved, nil
}

func ResolveRelative(base, value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	return filepath.Clean(filepath.Join(base, raw))
}

// DetectProjectRoot walks up from each candidate to the first directory
// holding a project marker. Falls back to the working directory.
func DetectProjectRoot(candidates []string) (string, error) {
	markers := []string{
		DefaultFileName,
		"package.json",
		".git",
	}

	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			continue
		}

		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		root := abs
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			root = filepath.Dir(abs)
		}

		for {
			for _, marker := range markers {
				if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
					return filepath.Clean(root), nil
				}
			}
			parent := filepath.Dir(root)
			if parent == root {
				break
			}
			root = parent
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Clean(cwd), nil
}
