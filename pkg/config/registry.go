// Copyright 2025 ChainCodec Authors

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chaincodec/chaincodec/pkg/csdl"
	"github.com/chaincodec/chaincodec/pkg/schema"
)

// LoadRegistry reads every CSDL document named by cfg.CSDL.Sources and
// upserts the parsed schemas into a fresh registry. A source entry
// naming a directory is walked non-recursively for *.yaml/*.yml files;
// a CSDL document is the unit of configuration, potentially many to a
// directory.
func LoadRegistry(cfg *Config) (*schema.Registry, error) {
	reg := schema.NewRegistry()

	var files []string
	for _, src := range cfg.CSDL.Sources {
		info, err := os.Stat(src)
		if err != nil {
			return nil, fmt.Errorf("config: csdl source %s: %w", src, err)
		}
		if !info.IsDir() {
			files = append(files, src)
			continue
		}
		entries, err := os.ReadDir(src)
		if err != nil {
			return nil, fmt.Errorf("config: read csdl directory %s: %w", src, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(e.Name()))
			if ext == ".yaml" || ext == ".yml" {
				files = append(files, filepath.Join(src, e.Name()))
			}
		}
	}

	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("config: read csdl file %s: %w", f, err)
		}
		schemas, errs := csdl.Parse(string(data))
		if len(errs) > 0 {
			return nil, fmt.Errorf("config: parse csdl file %s: %w", f, errs[0])
		}
		for _, s := range schemas {
			if err := reg.Upsert(s); err != nil {
				return nil, fmt.Errorf("config: register schema from %s: %w", f, err)
			}
		}
	}

	return reg, nil
}
