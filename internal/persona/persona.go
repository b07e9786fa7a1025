// Package persona describes how the assistant presents itself: display name,
// page text, the system instruction sent to the model and example prompts.
package persona

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

type Persona struct {
	Name         string   `yaml:"name"`
	Title        string   `yaml:"title"`
	Tagline      string   `yaml:"tagline"`
	SystemPrompt string   `yaml:"system_prompt"`
	Examples     []string `yaml:"examples"`
}

// Default returns the built-in persona.
func Default() Persona {
	p, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("persona: embedded default: %v", err))
	}
	return p
}

// Load reads a persona from path, or returns Default when path is empty.
// Fields missing from the file fall back to the default's values.
func Load(path string) (Persona, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Persona{}, fmt.Errorf("persona: read %s: %w", path, err)
	}
	p, err := Parse(b)
	if err != nil {
		return Persona{}, fmt.Errorf("persona: %s: %w", path, err)
	}
	return p.withDefaults(Default()), nil
}

// Parse decodes a persona document. Unknown keys are rejected.
func Parse(b []byte) (Persona, error) {
	var p Persona
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return Persona{}, err
	}
	if strings.TrimSpace(p.SystemPrompt) == "" && p.Name == "" {
		return Persona{}, errors.New("empty persona")
	}
	return p, nil
}

func (p Persona) withDefaults(d Persona) Persona {
	if p.Name == "" {
		p.Name = d.Name
	}
	if p.Title == "" {
		p.Title = d.Title
	}
	if p.Tagline == "" {
		p.Tagline = d.Tagline
	}
	if strings.TrimSpace(p.SystemPrompt) == "" {
		p.SystemPrompt = d.SystemPrompt
	}
	if p.Examples == nil {
		p.Examples = d.Examples
	}
	return p
}
