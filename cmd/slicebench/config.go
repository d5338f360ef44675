package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config drives a harness run. Zero values fall back to DefaultConfig.
type Config struct {
	LogLevel   string     `yaml:"log_level"`
	PprofAddr  string     `yaml:"pprof_addr"`
	CPUProfile string     `yaml:"cpu_profile"`
	MemProfile string     `yaml:"mem_profile"`
	Workloads  []Workload `yaml:"workloads"`
}

type Workload struct {
	Name       string `yaml:"name"`
	Kind       string `yaml:"kind"` // copy, compare, hash, fill or stream
	Size       int    `yaml:"size"`
	Iterations int    `yaml:"iterations"`
	// Mapped places the source region in anonymous mmap memory.
	Mapped bool `yaml:"mapped"`
}

var errUnknownKind = errors.New("unknown workload kind")

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Workloads: []Workload{
			{Name: "copy-4k", Kind: "copy", Size: 4096, Iterations: 10000},
			{Name: "compare-1m", Kind: "compare", Size: 1 << 20, Iterations: 100},
			{Name: "hash-64k", Kind: "hash", Size: 64 << 10, Iterations: 1000},
			{Name: "fill-4k", Kind: "fill", Size: 4096, Iterations: 10000},
			{Name: "stream-256k", Kind: "stream", Size: 256 << 10, Iterations: 10},
		},
	}
}

// LoadConfig reads a YAML config from path. An empty path returns the
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var file Config
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	cfg.PprofAddr = file.PprofAddr
	cfg.CPUProfile = file.CPUProfile
	cfg.MemProfile = file.MemProfile
	if len(file.Workloads) > 0 {
		cfg.Workloads = file.Workloads
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	for i, w := range c.Workloads {
		switch w.Kind {
		case "copy", "compare", "hash", "fill", "stream":
		default:
			return fmt.Errorf("workload %d (%s): %w %q", i, w.Name, errUnknownKind, w.Kind)
		}
		if w.Size <= 0 || w.Iterations <= 0 {
			return fmt.Errorf("workload %d (%s): size and iterations must be positive", i, w.Name)
		}
	}
	return nil
}
