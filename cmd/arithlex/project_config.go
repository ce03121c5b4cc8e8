package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

const manifestName = "arithlex.toml"

type projectConfig struct {
	Tokenize tokenizeConfig `toml:"tokenize"`
	Output   outputConfig   `toml:"output"`
}

type tokenizeConfig struct {
	Format  string `toml:"format"`
	Collect bool   `toml:"collect"`
	EOF     bool   `toml:"eof"`
	Jobs    int    `toml:"jobs"`
	Cache   bool   `toml:"cache"`
}

type outputConfig struct {
	Color          string `toml:"color"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
}

// configBinding maps a manifest key to the flag it presets.
type configBinding struct {
	section, key string
	flag         string
	value        func(cfg *projectConfig) string
}

var configBindings = []configBinding{
	{"tokenize", "format", "format", func(c *projectConfig) string { return c.Tokenize.Format }},
	{"tokenize", "collect", "collect", func(c *projectConfig) string { return strconv.FormatBool(c.Tokenize.Collect) }},
	{"tokenize", "eof", "eof", func(c *projectConfig) string { return strconv.FormatBool(c.Tokenize.EOF) }},
	{"tokenize", "jobs", "jobs", func(c *projectConfig) string { return strconv.Itoa(c.Tokenize.Jobs) }},
	{"tokenize", "cache", "cache", func(c *projectConfig) string { return strconv.FormatBool(c.Tokenize.Cache) }},
	{"output", "color", "color", func(c *projectConfig) string { return c.Output.Color }},
	{"output", "max_diagnostics", "max-diagnostics", func(c *projectConfig) string { return strconv.Itoa(c.Output.MaxDiagnostics) }},
}

func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectConfig(path string) (projectConfig, toml.MetaData, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, meta, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return projectConfig{}, meta, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("tokenize", "format") {
		if _, err := parseOutputFormat(cfg.Tokenize.Format); err != nil {
			return projectConfig{}, meta, fmt.Errorf("%s: [tokenize].format: %w", path, err)
		}
	}
	if meta.IsDefined("output", "color") {
		switch cfg.Output.Color {
		case "auto", "on", "off":
		default:
			return projectConfig{}, meta, fmt.Errorf("%s: [output].color must be auto, on or off", path)
		}
	}
	if meta.IsDefined("tokenize", "jobs") && cfg.Tokenize.Jobs < 0 {
		return projectConfig{}, meta, fmt.Errorf("%s: [tokenize].jobs must not be negative", path)
	}
	return cfg, meta, nil
}

// applyProjectConfig presets flags of cmd from the manifest named by --config
// or found upwards from the working directory. Flags set on the command line win.
func applyProjectConfig(cmd *cobra.Command) error {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	if path == "" {
		var found bool
		path, found, err = findManifest(".")
		if err != nil || !found {
			return err
		}
	}
	cfg, meta, err := loadProjectConfig(path)
	if err != nil {
		return err
	}
	for _, b := range configBindings {
		if !meta.IsDefined(b.section, b.key) {
			continue
		}
		// [tokenize] keys belong to that command only; version has its own --format.
		if b.section == "tokenize" && cmd.Name() != "tokenize" {
			continue
		}
		flag := cmd.Flags().Lookup(b.flag)
		if flag == nil || flag.Changed {
			continue
		}
		if err := cmd.Flags().Set(b.flag, b.value(&cfg)); err != nil {
			return fmt.Errorf("%s: [%s].%s: %w", path, b.section, b.key, err)
		}
	}
	return nil
}

const defaultManifest = `# arithlex project settings; command-line flags override these.

[tokenize]
# pretty | list | json | msgpack
format = "pretty"
# keep going after an illegal character and report every one
collect = false
# append an EOF token
eof = false
# parallel workers for directories (0 = number of CPUs)
jobs = 0
# reuse token streams from the on-disk cache
cache = false

[output]
# auto | on | off
color = "auto"
max_diagnostics = 100
`
