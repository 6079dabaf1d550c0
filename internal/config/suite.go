package config

import (
	"fmt"
	"os"

	"github.com/nao1215/retester/internal/model"
	"gopkg.in/yaml.v3"
)

// Suite is a named list of test requests read from a YAML file:
//
//	name: email addresses
//	cases:
//	  - name: swap user and domain
//	    pattern: '(\w+)@(\w+)\.com'
//	    replacement: '$2 at $1'
//	    flags: gi
//	    samples:
//	      - alice@example.com
//	      - no address here
type Suite struct {
	Name  string `yaml:"name,omitempty"`
	Cases []Case `yaml:"cases"`
}

// Case is one entry of a suite.
type Case struct {
	Name        string   `yaml:"name,omitempty"`
	Pattern     string   `yaml:"pattern"`
	Replacement string   `yaml:"replacement,omitempty"`
	Flags       FlagList `yaml:"flags,omitempty"`
	Samples     []string `yaml:"samples,omitempty"`
}

// FlagList is a list of single-character flags. In YAML it may be written
// as a sequence (["g", "i"]) or as a compact string ("gi").
type FlagList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *FlagList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		flags := make(FlagList, 0, len(s))
		for _, c := range s {
			flags = append(flags, string(c))
		}
		*f = flags
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*f = list
		return nil
	default:
		return fmt.Errorf("line %d: flags must be a string or a list of strings", value.Line)
	}
}

// LoadSuiteFile reads a suite from a YAML file.
// It returns ErrSuiteNotFound if the file does not exist and ErrEmptySuite
// if it has no cases. Cases are not validated here; a case without a
// pattern produces a failed output like any other invalid request.
func LoadSuiteFile(path string) (*Suite, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided suite path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSuiteNotFound
		}
		return nil, err
	}

	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse suite %s: %w", path, err)
	}
	if len(s.Cases) == 0 {
		return nil, ErrEmptySuite
	}

	return &s, nil
}

// Requests converts the cases into test requests, in order.
// Unnamed cases are named after their position ("case 1", "case 2", ...).
func (s *Suite) Requests() []*model.TestRequest {
	reqs := make([]*model.TestRequest, len(s.Cases))
	for i, c := range s.Cases {
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("case %d", i+1)
		}
		reqs[i] = &model.TestRequest{
			Name:        name,
			Pattern:     c.Pattern,
			Replacement: c.Replacement,
			Flags:       []string(c.Flags),
			Samples:     c.Samples,
		}
	}
	return reqs
}
