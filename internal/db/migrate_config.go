package db

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// upsertConfigKeys adds each missing key to the YAML config file with its
// default value, preserving existing keys and values untouched. No-op when
// the path is empty or the file does not exist yet; the config loader
// applies the same defaults in memory for fresh installs.
func upsertConfigKeys(path string, defaults map[string]any) error {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	doc := make(map[string]any)
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}

	changed := false
	for key, value := range defaults {
		if _, ok := doc[key]; !ok {
			doc[key] = value
			changed = true
		}
	}
	if !changed {
		return nil
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	// Temp-write plus rename so a crash mid-write cannot truncate the
	// user's config.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
