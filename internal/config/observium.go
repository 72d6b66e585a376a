package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
)

// ObserviumConfig holds the settings scraped from Observium's config.php.
type ObserviumConfig struct {
	Database Database
	// RRDDir is $config['rrd_dir'] when set, otherwise empty.
	RRDDir string
}

var phpSettingRe = regexp.MustCompile(
	`\$config\[\s*['"]([A-Za-z0-9_]+)['"]\s*\]\s*=\s*(?:'([^']*)'|"([^"]*)"|([0-9]+))\s*;`)

// LoadObserviumConfig reads and parses an Observium config.php.
func LoadObserviumConfig(path string) (*ObserviumConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: observium config %s not found", ErrConfig, path)
		}
		return nil, fmt.Errorf("%w: failed to read observium config: %v", ErrConfig, err)
	}

	cfg, err := parseObserviumConfig(string(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// parseObserviumConfig extracts top-level scalar $config assignments.
// Later assignments win, as they would in PHP.
func parseObserviumConfig(content string) (*ObserviumConfig, error) {
	settings := make(map[string]string)
	for _, match := range phpSettingRe.FindAllStringSubmatch(stripPHPComments(content), -1) {
		settings[match[1]] = match[2] + match[3] + match[4]
	}

	var missing []string
	for _, key := range []string{"db_host", "db_user", "db_pass", "db_name"} {
		if _, ok := settings[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %v in observium config", ErrConfig, missing)
	}
	if settings["db_host"] == "" || settings["db_name"] == "" {
		return nil, fmt.Errorf("%w: db_host and db_name must not be empty", ErrConfig)
	}

	port := defaultDBPort
	if raw, ok := settings["db_port"]; ok && raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p <= 0 || p > 65535 {
			return nil, fmt.Errorf("%w: invalid db_port %q", ErrConfig, raw)
		}
		port = p
	}

	return &ObserviumConfig{
		Database: Database{
			Host:     settings["db_host"],
			Port:     port,
			User:     settings["db_user"],
			Password: settings["db_pass"],
			Name:     settings["db_name"],
		},
		RRDDir: settings["rrd_dir"],
	}, nil
}

var phpCommentRe = regexp.MustCompile(`(?m)^\s*(?://|#).*$|/\*[\s\S]*?\*/`)

// stripPHPComments drops whole-line and block comments so commented-out
// defaults are not picked up.
func stripPHPComments(content string) string {
	return phpCommentRe.ReplaceAllString(content, "")
}
