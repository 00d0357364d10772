package textfeatures

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// LexiconInfo documents, and optionally relocates, one catalogue lexicon.
type LexiconInfo struct {
	Area    string `yaml:"area,omitempty"`
	Subarea string `yaml:"subarea,omitempty"`
	File    string `yaml:"file,omitempty"` // overrides the catalogue filename
}

// A NamedFeature is one configured feature with its options.
type NamedFeature struct {
	Name string
	Spec FeatureSpec
}

// AreaFeatures lists the configured features of one area in file order.
type AreaFeatures struct {
	Area     string
	Features []NamedFeature
}

// FeatureSet is the ordered area → feature → options mapping.
type FeatureSet []AreaFeatures

// UnmarshalYAML keeps the order of areas and features as written. An area
// may map feature names to options, or simply list feature names.
func (fs *FeatureSet) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: features must be a mapping of area to features", value.Line)
	}

	out := make(FeatureSet, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		area := AreaFeatures{Area: value.Content[i].Value}
		body := value.Content[i+1]

		switch body.Kind {
		case yaml.SequenceNode:
			for _, item := range body.Content {
				area.Features = append(area.Features, NamedFeature{Name: item.Value})
			}
		case yaml.MappingNode:
			for j := 0; j+1 < len(body.Content); j += 2 {
				nf := NamedFeature{Name: body.Content[j].Value}
				opts := body.Content[j+1]
				if opts.Kind == yaml.MappingNode {
					if err := opts.Decode(&nf.Spec); err != nil {
						return fmt.Errorf("feature %s: %w", nf.Name, err)
					}
				}
				area.Features = append(area.Features, nf)
			}
		case yaml.ScalarNode:
			// an empty area
		default:
			return fmt.Errorf("line %d: area %s must be a mapping or a list", body.Line, area.Area)
		}
		out = append(out, area)
	}

	*fs = out
	return nil
}

// MarshalYAML writes the feature set back as an ordered mapping.
func (fs FeatureSet) MarshalYAML() (interface{}, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, area := range fs {
		body := &yaml.Node{Kind: yaml.MappingNode}
		for _, nf := range area.Features {
			opts := &yaml.Node{}
			if err := opts.Encode(nf.Spec); err != nil {
				return nil, err
			}
			body.Content = append(body.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: nf.Name}, opts)
		}
		root.Content = append(root.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: area.Area}, body)
	}
	return root, nil
}

// Names returns every configured feature name in order.
func (fs FeatureSet) Names() []string {
	var names []string
	for _, area := range fs {
		for _, nf := range area.Features {
			names = append(names, nf.Name)
		}
	}
	return names
}

// Spec returns the configured options of a feature.
func (fs FeatureSet) Spec(name string) (FeatureSpec, bool) {
	for _, area := range fs {
		for _, nf := range area.Features {
			if nf.Name == name {
				return nf.Spec, true
			}
		}
	}
	return FeatureSpec{}, false
}

// Config is the extraction configuration.
type Config struct {
	Backbone           string                 `yaml:"backbone"`
	Language           string                 `yaml:"language"`
	Model              string                 `yaml:"model,omitempty"`
	TextColumn         string                 `yaml:"text_column"`
	MaxLength          int                    `yaml:"max_length"`
	RemoveConstantCols bool                   `yaml:"remove_constant_cols"`
	TokenNormalize     bool                   `yaml:"token_normalize"`
	Workers            int                    `yaml:"workers"`
	ResourceDir        string                 `yaml:"resource_dir"`
	Annotations        string                 `yaml:"annotations,omitempty"`
	Senses             string                 `yaml:"senses,omitempty"`
	LogLevel           string                 `yaml:"log_level"`
	Lexicons           map[string]LexiconInfo `yaml:"lexicons,omitempty"`
	Features           FeatureSet             `yaml:"features"`
}

// DefaultConfig returns a configuration requesting every registered
// feature with its default options.
func DefaultConfig() Config {
	cfg := Config{
		Backbone:           "basic",
		Language:           string(English),
		TextColumn:         "text",
		MaxLength:          DefaultMaxLength,
		RemoveConstantCols: true,
		Workers:            1,
		ResourceDir:        "resources",
		LogLevel:           "info",
		Lexicons:           make(map[string]LexiconInfo),
	}

	for id, res := range DefaultResources() {
		cfg.Lexicons[id] = LexiconInfo{Area: res.Area, Subarea: res.Subarea}
	}

	reg := NewRegistry()
	for _, area := range reg.Areas() {
		af := AreaFeatures{Area: area}
		for _, name := range reg.Features(area) {
			af.Features = append(af.Features, NamedFeature{Name: name, Spec: defaultSpec(reg, name)})
		}
		cfg.Features = append(cfg.Features, af)
	}
	return cfg
}

// defaultSpec spells out an entry's defaults as a FeatureSpec.
func defaultSpec(reg *Registry, name string) FeatureSpec {
	e, _ := reg.Lookup(name)
	spec := FeatureSpec{Lexicon: e.Lexicon}
	if !math.IsNaN(e.Threshold) {
		t := e.Threshold
		spec.Threshold = &t
	}
	return spec
}

// LoadConfig reads a YAML configuration file. Settings it omits keep their
// DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig parses YAML configuration over DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides global settings from PREFIX_BACKBONE, PREFIX_LANGUAGE,
// PREFIX_RESOURCE_DIR, PREFIX_WORKERS and PREFIX_LOG_LEVEL.
func (c *Config) ApplyEnv(prefix string) error {
	get := func(key string) (string, bool) {
		return os.LookupEnv(strings.ToUpper(prefix + "_" + key))
	}
	if v, ok := get("BACKBONE"); ok {
		c.Backbone = v
	}
	if v, ok := get("LANGUAGE"); ok {
		c.Language = v
	}
	if v, ok := get("RESOURCE_DIR"); ok {
		c.ResourceDir = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := get("WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s_WORKERS %q: %w", strings.ToUpper(prefix), v, err)
		}
		c.Workers = n
	}
	return c.Validate()
}

// Validate checks the global settings.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Backbone) {
	case "", "basic", "precomputed":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackbone, c.Backbone)
	}
	if c.MaxLength < 0 {
		return fmt.Errorf("max_length must not be negative, got %d", c.MaxLength)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.TextColumn == "" {
		return fmt.Errorf("text_column must not be empty")
	}
	return nil
}

func (c *Config) autoLanguage() bool {
	return strings.EqualFold(c.Language, AutoLanguage)
}

// Resources returns the lexicon catalogue with configured file overrides
// applied.
func (c *Config) Resources() map[string]Resource {
	resources := DefaultResources()
	for id, info := range c.Lexicons {
		res, ok := resources[id]
		if !ok || info.File == "" {
			continue
		}
		res.Filename = info.File
		resources[id] = res
	}
	return resources
}

// CorpusOptions returns the corpus options implied by the configuration.
func (c *Config) CorpusOptions() []CorpusOpt {
	return []CorpusOpt{
		WithTextColumn(c.TextColumn),
		WithMaxLength(c.MaxLength),
		WithWorkers(c.Workers),
	}
}
