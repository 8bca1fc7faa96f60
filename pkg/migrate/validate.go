package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var migrationFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// ValidateDir checks that every SQL file in dir follows the goose naming
// convention and carries both Up and Down sections. It returns a list of
// findings; an empty slice means the directory is clean.
func ValidateDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir %q: %w", dir, err)
	}

	var findings []string
	seen := map[string]string{}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := migrationFileRe.FindStringSubmatch(name)
		if m == nil {
			findings = append(findings, fmt.Sprintf("%s: filename does not match <version>_<name>.sql", name))
			continue
		}

		version := m[1]
		if prev, ok := seen[version]; ok {
			findings = append(findings, fmt.Sprintf("%s: duplicate version %s (also %s)", name, version, prev))
		}
		seen[version] = name

		body, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read migration %q: %w", name, err)
		}
		content := string(body)
		if !strings.Contains(content, "-- +goose Up") {
			findings = append(findings, fmt.Sprintf("%s: missing '-- +goose Up' section", name))
		}
		if !strings.Contains(content, "-- +goose Down") {
			findings = append(findings, fmt.Sprintf("%s: missing '-- +goose Down' section", name))
		}
	}

	return findings, nil
}
