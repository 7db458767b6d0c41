package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk build configuration, loaded via --config and
// overridable by CLI flags, mirroring the teacher's StreamJobConfig
// (core/job/stream_job.go) in spirit: a small yaml-tagged struct feeding a
// long-lived run loop.
type Config struct {
	Root        string `yaml:"root"`
	Pattern     string `yaml:"pattern"`
	Out         string `yaml:"out"`
	BaseURL     string `yaml:"baseURL"`
	Watch       bool   `yaml:"watch"`
	Concurrency int    `yaml:"concurrency"`
}

func loadConfig(path string) (*Config, error) {
	cfg := &Config{Pattern: "**/*", Concurrency: 8}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
