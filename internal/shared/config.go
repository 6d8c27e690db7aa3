package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Company          CompanyConfig      `toml:"company"`
	Database         DatabaseConfig     `toml:"database"`
	Export           ExportConfig       `toml:"export"`
	Generator        GeneratorConfig    `toml:"generator"`
	Roles            RolesConfig        `toml:"roles"`
	Departments      []DepartmentConfig `toml:"departments"`
	SectionTemplates []SectionTemplate  `toml:"section_templates"`
	LLM              LLMConfig          `toml:"llm"`
}

// CompanyConfig contains identity strings for the simulated organization.
type CompanyConfig struct {
	Name    string `toml:"name"`
	Domain  string `toml:"domain"`
	Founded string `toml:"founded"` // "YYYY-MM-DD HH:MM:SS"
}

// DatabaseConfig contains SQLite store settings.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// ExportConfig contains CSV export settings.
type ExportConfig struct {
	Dir string `toml:"dir"`
}

// GeneratorConfig contains scale knobs and behavioral rates for the pipeline.
type GeneratorConfig struct {
	Seed           int64   `toml:"seed"`
	Users          int     `toml:"users"`
	Projects       int     `toml:"projects"`
	TasksMin       int     `toml:"tasks_min"`
	TasksMax       int     `toml:"tasks_max"`
	MembershipMin  int     `toml:"membership_min"`
	MembershipMax  int     `toml:"membership_max"`
	SubtaskChance  float64 `toml:"subtask_chance"`
	CommentChance  float64 `toml:"comment_chance"`
	CompletionRate float64 `toml:"completion_rate"`
	UnassignedRate float64 `toml:"unassigned_rate"`
}

// RolesConfig is the role list with parallel selection weights.
type RolesConfig struct {
	Names   []string  `toml:"names"`
	Weights []float64 `toml:"weights"`
}

// DepartmentConfig is one department with its headcount weight and team names.
// Departments are an array of tables so file order is iteration order.
type DepartmentConfig struct {
	Name   string   `toml:"name"`
	Weight float64  `toml:"weight"`
	Teams  []string `toml:"teams"`
}

// SectionTemplate maps a project type to its ordered section names.
// A template with project_type "default" must exist and covers
// unrecognized types.
type SectionTemplate struct {
	ProjectType string   `toml:"project_type"`
	Sections    []string `toml:"sections"`
}

// LLMConfig contains the optional text-generation provider settings.
type LLMConfig struct {
	Enabled   bool    `toml:"enabled"`
	APIKey    string  `toml:"api_key"`
	BaseURL   string  `toml:"base_url"`
	Model     string  `toml:"model"`
	RateLimit float64 `toml:"rate_limit"` // requests per second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DepartmentNames returns the configured department names in file order.
func (c *Config) DepartmentNames() []string {
	names := make([]string, len(c.Departments))
	for i, d := range c.Departments {
		names[i] = d.Name
	}
	return names
}

// DepartmentWeights returns the department weights, parallel to [Config.DepartmentNames].
func (c *Config) DepartmentWeights() []float64 {
	weights := make([]float64, len(c.Departments))
	for i, d := range c.Departments {
		weights[i] = d.Weight
	}
	return weights
}

// SectionsFor returns the section name template for the given project
// type, falling back to the "default" template for unrecognized types.
func (c *Config) SectionsFor(projectType string) []string {
	var fallback []string
	for _, t := range c.SectionTemplates {
		if t.ProjectType == projectType {
			return t.Sections
		}
		if t.ProjectType == "default" {
			fallback = t.Sections
		}
	}
	return fallback
}

// Validate ensures the configuration meets the generator's contract.
func (c *Config) Validate() error {
	if c.Company.Name == "" || c.Company.Domain == "" {
		return fmt.Errorf("%w: company name and domain are required", ErrInvalidConfig)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database path is required", ErrInvalidConfig)
	}
	if c.Generator.Users <= 0 || c.Generator.Projects <= 0 {
		return fmt.Errorf("%w: user and project counts must be positive", ErrInvalidConfig)
	}
	if c.Generator.TasksMin <= 0 || c.Generator.TasksMax < c.Generator.TasksMin {
		return fmt.Errorf("%w: task count range %d-%d is invalid", ErrInvalidConfig, c.Generator.TasksMin, c.Generator.TasksMax)
	}
	if c.Generator.MembershipMin <= 0 || c.Generator.MembershipMax < c.Generator.MembershipMin {
		return fmt.Errorf("%w: membership range %d-%d is invalid", ErrInvalidConfig, c.Generator.MembershipMin, c.Generator.MembershipMax)
	}
	for name, rate := range map[string]float64{
		"subtask_chance":  c.Generator.SubtaskChance,
		"comment_chance":  c.Generator.CommentChance,
		"completion_rate": c.Generator.CompletionRate,
		"unassigned_rate": c.Generator.UnassignedRate,
	} {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("%w: %s must be in [0,1], got %v", ErrInvalidConfig, name, rate)
		}
	}
	if len(c.Roles.Names) == 0 {
		return fmt.Errorf("%w: at least one role is required", ErrInvalidConfig)
	}
	if len(c.Roles.Names) != len(c.Roles.Weights) {
		return fmt.Errorf("%w: roles.names and roles.weights must have equal length", ErrInvalidConfig)
	}
	if len(c.Departments) == 0 {
		return fmt.Errorf("%w: at least one department is required", ErrInvalidConfig)
	}
	for _, d := range c.Departments {
		if d.Name == "" {
			return fmt.Errorf("%w: department with empty name", ErrInvalidConfig)
		}
		if d.Weight < 0 {
			return fmt.Errorf("%w: department %s has negative weight", ErrInvalidConfig, d.Name)
		}
		if len(d.Teams) == 0 {
			return fmt.Errorf("%w: department %s has no teams", ErrInvalidConfig, d.Name)
		}
	}
	hasDefault := false
	for _, t := range c.SectionTemplates {
		if len(t.Sections) == 0 {
			return fmt.Errorf("%w: section template %s is empty", ErrInvalidConfig, t.ProjectType)
		}
		if t.ProjectType == "default" {
			hasDefault = true
		}
	}
	if !hasDefault {
		return fmt.Errorf("%w: a \"default\" section template is required", ErrInvalidConfig)
	}
	if c.LLM.Enabled && c.LLM.APIKey == "" {
		return fmt.Errorf("%w: llm.api_key is required when llm.enabled is true", ErrMissingCredentials)
	}
	return nil
}
