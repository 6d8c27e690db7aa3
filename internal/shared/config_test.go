package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Company.Name != "TechFlow Solutions" {
			t.Errorf("expected company name TechFlow Solutions, got %s", config.Company.Name)
		}
		if config.Company.Domain != "techflow.io" {
			t.Errorf("expected domain techflow.io, got %s", config.Company.Domain)
		}
		if config.Generator.Seed != 42 {
			t.Errorf("expected seed 42, got %d", config.Generator.Seed)
		}
		if config.Generator.Users != 7500 {
			t.Errorf("expected 7500 users, got %d", config.Generator.Users)
		}
		if len(config.Departments) != 10 {
			t.Errorf("expected 10 departments, got %d", len(config.Departments))
		}
		if config.Departments[0].Name != "Engineering" || config.Departments[0].Weight != 0.35 {
			t.Errorf("expected Engineering at 0.35 first, got %+v", config.Departments[0])
		}
		if len(config.Roles.Names) != len(config.Roles.Weights) {
			t.Error("role names and weights must be parallel")
		}
		if config.LLM.Enabled {
			t.Error("LLM must be disabled by default")
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config must validate: %v", err)
		}
	})

	t.Run("SectionsFor", func(t *testing.T) {
		config := DefaultConfig()

		kanban := config.SectionsFor("kanban")
		want := []string{"To Do", "In Progress", "Done"}
		if len(kanban) != len(want) {
			t.Fatalf("expected %d kanban sections, got %d", len(want), len(kanban))
		}
		for i, name := range want {
			if kanban[i] != name {
				t.Errorf("kanban section %d: got %q, want %q", i, kanban[i], name)
			}
		}

		fallback := config.SectionsFor("operations")
		if len(fallback) != 3 || fallback[0] != "To Do" {
			t.Errorf("unrecognized type must use the default template, got %v", fallback)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}
		if config.Database.Path != DefaultConfig().Database.Path {
			t.Error("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[company]
name = "Test Co"
domain = "test.example"
founded = "2020-01-01 00:00:00"

[database]
path = "/custom/path.sqlite"

[generator]
seed = 7
users = 100
projects = 5
tasks_min = 1
tasks_max = 3
membership_min = 2
membership_max = 4
completion_rate = 0.5
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
		if config.Company.Name != "Test Co" {
			t.Errorf("expected Test Co, got %s", config.Company.Name)
		}
		if config.Database.Path != "/custom/path.sqlite" {
			t.Errorf("expected custom db path, got %s", config.Database.Path)
		}
		if config.Generator.Seed != 7 {
			t.Errorf("expected seed 7, got %d", config.Generator.Seed)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); !errors.Is(err, ErrMissingConfig) {
			t.Errorf("got %v, want ErrMissingConfig", err)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "rate above one",
			mutate:  func(c *Config) { c.Generator.CompletionRate = 1.5 },
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "negative rate",
			mutate:  func(c *Config) { c.Generator.SubtaskChance = -0.1 },
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "inverted task range",
			mutate:  func(c *Config) { c.Generator.TasksMin = 10; c.Generator.TasksMax = 5 },
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "mismatched role weights",
			mutate:  func(c *Config) { c.Roles.Weights = c.Roles.Weights[:2] },
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "no departments",
			mutate:  func(c *Config) { c.Departments = nil },
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "department without teams",
			mutate:  func(c *Config) { c.Departments[0].Teams = nil },
			wantErr: ErrInvalidConfig,
		},
		{
			name: "missing default section template",
			mutate: func(c *Config) {
				var kept []SectionTemplate
				for _, tpl := range c.SectionTemplates {
					if tpl.ProjectType != "default" {
						kept = append(kept, tpl)
					}
				}
				c.SectionTemplates = kept
			},
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "llm enabled without credential",
			mutate:  func(c *Config) { c.LLM.Enabled = true; c.LLM.APIKey = "" },
			wantErr: ErrMissingCredentials,
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			if err := config.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}
