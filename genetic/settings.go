package genetic

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// Settings is the declarative form of a run, loaded from an INI file.
// Operators are referenced by name and resolved through a Registry.
type Settings struct {
	Run       RunSettings
	Mutations []WeightedOperator // Declared order is kept.
	Breeds    []WeightedOperator
}

// RunSettings holds the [run] section.
type RunSettings struct {
	PopulationSize int     `ini:"population_size"`
	SortBy         string  `ini:"sort_by"`    // high_first, low_first or custom
	Comparator     string  `ini:"comparator"` // Registry name, required when sort_by is custom.
	KillWorst      float64 `ini:"kill_worst"`
	Strategy       string  `ini:"strategy"` // auto, custom_breed or custom_mutate
	Batch          string  `ini:"batch"`    // Registry name, required for the custom strategies.
}

// WeightedOperator is one "name = probability" line of [mutations] or [breeds].
type WeightedOperator struct {
	Name        string
	Probability float64
}

// LoadSettings loads run settings from an INI file.
func LoadSettings(filePath string) (*Settings, error) {
	s, err := loadSettings(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings file '%s': %w", filePath, err)
	}
	return s, nil
}

// ParseSettings parses run settings from INI data.
func ParseSettings(data []byte) (*Settings, error) {
	return loadSettings(data)
}

func loadSettings(source interface{}) (*Settings, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true, // Comments are stripped by cleanIniString instead.
		UnescapeValueCommentSymbols: true,
	}, source)
	if err != nil {
		return nil, err
	}

	settings := &Settings{}
	runSection := cfg.Section("run")

	// Numeric keys are parsed from cleaned strings so that trailing comments
	// do not break MapTo; map the string fields first.
	var raw struct {
		SortBy     string `ini:"sort_by"`
		Comparator string `ini:"comparator"`
		Strategy   string `ini:"strategy"`
		Batch      string `ini:"batch"`
	}
	if err := runSection.MapTo(&raw); err != nil {
		return nil, fmt.Errorf("failed to map [run] section: %w", err)
	}
	settings.Run.SortBy = strings.ToLower(cleanIniString(raw.SortBy))
	settings.Run.Comparator = cleanIniString(raw.Comparator)
	settings.Run.Strategy = strings.ToLower(cleanIniString(raw.Strategy))
	settings.Run.Batch = cleanIniString(raw.Batch)

	if key, err := runSection.GetKey("population_size"); err == nil {
		n, err := strconv.Atoi(cleanIniString(key.String()))
		if err != nil {
			return nil, fmt.Errorf("config error: population_size: %w", err)
		}
		settings.Run.PopulationSize = n
	}
	if key, err := runSection.GetKey("kill_worst"); err == nil {
		f, err := strconv.ParseFloat(cleanIniString(key.String()), 64)
		if err != nil {
			return nil, fmt.Errorf("config error: kill_worst: %w", err)
		}
		settings.Run.KillWorst = f
	}

	if settings.Mutations, err = weightedOperators(cfg, "mutations"); err != nil {
		return nil, err
	}
	if settings.Breeds, err = weightedOperators(cfg, "breeds"); err != nil {
		return nil, err
	}

	if settings.Run.SortBy == "" {
		settings.Run.SortBy = FitnessHighFirst.String()
	}
	if settings.Run.Strategy == "" {
		settings.Run.Strategy = "auto"
	}

	if err := settings.validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func weightedOperators(cfg *ini.File, section string) ([]WeightedOperator, error) {
	if !cfg.HasSection(section) {
		return nil, nil
	}
	var ops []WeightedOperator
	for _, key := range cfg.Section(section).Keys() {
		p, err := strconv.ParseFloat(cleanIniString(key.String()), 64)
		if err != nil {
			return nil, fmt.Errorf("config error: [%s] %s: %w", section, key.Name(), err)
		}
		ops = append(ops, WeightedOperator{Name: key.Name(), Probability: p})
	}
	return ops, nil
}

func (s *Settings) validate() error {
	if s.Run.PopulationSize <= 0 {
		return fmt.Errorf("config error: population_size must be positive")
	}
	if s.Run.KillWorst < 0 || s.Run.KillWorst > 1 {
		return fmt.Errorf("config error: kill_worst must be between 0 and 1")
	}
	by, err := ParseSortBy(s.Run.SortBy)
	if err != nil {
		return err
	}
	if by == CustomSort && s.Run.Comparator == "" {
		return fmt.Errorf("config error: sort_by 'custom' requires a comparator")
	}
	switch s.Run.Strategy {
	case "auto":
		if len(s.Mutations) == 0 && len(s.Breeds) == 0 {
			return fmt.Errorf("config error: strategy 'auto' requires [mutations] or [breeds]")
		}
	case "custom_breed", "custom_mutate":
		if s.Run.Batch == "" {
			return fmt.Errorf("config error: strategy '%s' requires a batch function", s.Run.Strategy)
		}
	default:
		return fmt.Errorf("config error: invalid strategy '%s', must be one of 'auto', 'custom_breed', 'custom_mutate'", s.Run.Strategy)
	}
	return nil
}

// ParseSortBy converts a settings value into a SortBy.
func ParseSortBy(s string) (SortBy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high_first", "":
		return FitnessHighFirst, nil
	case "low_first":
		return FitnessLowFirst, nil
	case "custom":
		return CustomSort, nil
	default:
		return 0, fmt.Errorf("config error: invalid sort_by '%s', must be one of 'high_first', 'low_first', 'custom'", s)
	}
}

// BuildConfig resolves the operator names in s through reg and returns a
// Config. The result is validated again by Engine.Start.
func BuildConfig[T any](s *Settings, reg *Registry[T], generate GeneratorFunc[T], fitness FitnessFunc[T]) (*Config[T], error) {
	by, err := ParseSortBy(s.Run.SortBy)
	if err != nil {
		return nil, err
	}
	config := &Config[T]{
		PopulationSize: s.Run.PopulationSize,
		Sort:           SortPolicy[T]{By: by},
		KillWorst:      s.Run.KillWorst,
		Generate:       generate,
		Fitness:        fitness,
	}
	if by == CustomSort {
		if config.Sort.Custom, err = reg.GetComparator(s.Run.Comparator); err != nil {
			return nil, err
		}
	}

	switch s.Run.Strategy {
	case "custom_breed":
		fn, err := reg.GetBatch(s.Run.Batch)
		if err != nil {
			return nil, err
		}
		config.Strategy = CustomBreedStrategy[T]{Breed: fn}
	case "custom_mutate":
		fn, err := reg.GetBatch(s.Run.Batch)
		if err != nil {
			return nil, err
		}
		config.Strategy = CustomMutateStrategy[T]{Mutate: fn}
	default:
		auto := AutoStrategy[T]{}
		for _, op := range s.Mutations {
			fn, err := reg.GetMutation(op.Name)
			if err != nil {
				return nil, err
			}
			auto.Mutations = append(auto.Mutations, Mutation[T]{Name: op.Name, Probability: op.Probability, Mutate: fn})
		}
		for _, op := range s.Breeds {
			fn, err := reg.GetBreed(op.Name)
			if err != nil {
				return nil, err
			}
			auto.Breeds = append(auto.Breeds, Breed[T]{Name: op.Name, Probability: op.Probability, Breed: fn})
		}
		config.Strategy = auto
	}
	return config, nil
}

// cleanIniString removes inline comments and trims whitespace from a string read from INI.
func cleanIniString(s string) string {
	if idx := strings.IndexAny(s, "#;"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
