package codec

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Script is a recorded sequence of actions, as stored in a YAML or JSON file.
type Script struct {
	Name    string     `yaml:"name" json:"name"`
	Actions []Envelope `yaml:"actions" json:"actions"`
}

// LoadScript reads a script file. Files ending in .json are parsed as JSON,
// anything else as YAML.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return ParseScript(data, strings.ToLower(filepath.Ext(path)) == ".json")
}

// ParseScript parses script contents.
func ParseScript(data []byte, isJSON bool) (*Script, error) {
	var s Script
	if isJSON {
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to parse JSON script: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to parse YAML script: %w", err)
		}
	}
	return &s, nil
}
