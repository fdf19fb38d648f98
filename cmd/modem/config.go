package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jeongseonghan/soft-modem/internal/modem"
)

// fileConfig is the optional YAML configuration. Values set in the file
// take precedence over the corresponding flags; zero values are ignored.
type fileConfig struct {
	NumSubcarriers  int     `yaml:"num_subcarriers"`
	CyclicPrefixLen int     `yaml:"cyclic_prefix_len"`
	PilotEvery      int     `yaml:"pilot_every"`
	Modulation      string  `yaml:"modulation"`
	SampleRate      float64 `yaml:"sample_rate"`
	Addr            string  `yaml:"addr"`
}

func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

func parseModulation(s string) (modem.Modulation, error) {
	switch strings.ToLower(s) {
	case "qpsk", "4":
		return modem.ModQPSK, nil
	case "16qam", "16":
		return modem.Mod16QAM, nil
	case "64qam", "64":
		return modem.Mod64QAM, nil
	case "256qam", "256":
		return modem.Mod256QAM, nil
	default:
		return 0, fmt.Errorf("unknown modulation %q (qpsk, 16qam, 64qam, 256qam)", s)
	}
}
