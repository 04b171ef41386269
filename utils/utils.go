package utils

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// Config is the parsed run configuration. Lines carries one entry per
// analysis line: name, variant table path and segregation type.
type Config struct {
	Reference         string
	OutputDir         string
	SnpMask           string
	Span              float64
	EdgeBound         int
	ShuffleIterations int
	Workers           int
	Seed              uint64
	FilterIndels      bool
	FilterEMS         bool
	Lines             [][]string
}

// ReadConfig parses a plain "key: value" config file. Unknown keys are
// ignored; repeated Line keys accumulate.
func ReadConfig(configPath string) (Config, error) {
	configFile, err := os.Open(configPath)
	if err != nil {
		return Config{}, err
	}
	defer configFile.Close()
	var cfg Config

	scanner := bufio.NewScanner(configFile)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "Reference":
			cfg.Reference = value
		case "OutputDir":
			cfg.OutputDir = value
		case "SnpMask":
			cfg.SnpMask = value
		case "Span":
			cfg.Span, _ = strconv.ParseFloat(value, 64)
		case "EdgeBound":
			cfg.EdgeBound, _ = strconv.Atoi(value)
		case "ShuffleIterations":
			cfg.ShuffleIterations, _ = strconv.Atoi(value)
		case "Workers":
			cfg.Workers, _ = strconv.Atoi(value)
		case "Seed":
			cfg.Seed, _ = strconv.ParseUint(value, 10, 64)
		case "FilterIndels":
			cfg.FilterIndels = strings.EqualFold(value, "true")
		case "FilterEMS":
			cfg.FilterEMS = strings.EqualFold(value, "true")
		case "Line":
			fields := strings.Fields(value)
			cfg.Lines = append(cfg.Lines, fields)
		}
	}

	if err := scanner.Err(); err != nil {
		return cfg, err
	}

	return cfg, nil
}
