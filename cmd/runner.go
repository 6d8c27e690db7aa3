package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"orgseed/internal/formatter"
	"orgseed/internal/pipeline"
	"orgseed/internal/services"
	"orgseed/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		generateCommand, exportCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig returns the config at the command's --config path when the
// file exists, falling back to the Runner's config.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	path := cmd.String("config")
	if _, err := os.Stat(path); err != nil {
		return r.config, nil
	}
	return shared.LoadConfig(path)
}

// Generate runs the full pipeline against a fresh store: delete any
// prior store file, apply the schema, execute the stages in dependency
// order, and print the final row counts.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := shared.ResetStore(cfg.Database.Path); err != nil {
		return err
	}

	db, err := shared.NewDatabase(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.ApplySchema(db); err != nil {
		return err
	}
	r.logger.Info("created store schema", "path", cfg.Database.Path)

	var names services.NameSource
	if cfg.LLM.Enabled {
		llm, err := services.NewLLMSource(cfg.LLM, r.httpClient)
		if err != nil {
			r.logger.Warn("LLM provider unavailable, using templates only", "err", err)
		} else {
			names = llm
		}
	}

	rng := rand.New(rand.NewSource(cfg.Generator.Seed))
	summary, err := pipeline.New(pipeline.Opts{
		DB:        db,
		Config:    cfg,
		Rand:      rng,
		Logger:    r.logger,
		Templates: services.NewTemplateSource(rng),
		Names:     names,
	}).Run(ctx)
	if err != nil {
		return err
	}

	r.writeSummary(summary)
	return nil
}

// Export flattens the finished store into per-entity CSV files.
// A missing store is fatal; generate must run first.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	cfg, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfg.Database.Path); err != nil {
		return fmt.Errorf("%w: %s (run generate first)", shared.ErrStoreNotFound, cfg.Database.Path)
	}

	db, err := shared.NewDatabase(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	dir := cmd.String("output")
	if dir == "" {
		dir = cfg.Export.Dir
	}

	r.logger.Info("exporting data", "company", cfg.Company.Name, "dir", dir)
	result, err := formatter.Export(db, dir)
	if err != nil {
		return err
	}

	for _, file := range result.Files {
		fmt.Fprintf(r.output, "Wrote %s\n", file)
	}
	return nil
}

// Setup writes the embedded default configuration file.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	fmt.Fprintf(r.output, "Wrote %s\n", path)
	return nil
}

var (
	summaryHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	summaryCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// writeSummary renders the final per-entity row counts as a table.
func (r *Runner) writeSummary(s *pipeline.Summary) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return summaryHeaderStyle.Padding(0, 1)
			}
			return summaryCellStyle
		}).
		Headers("Entity", "Rows")

	for _, entry := range []struct {
		label string
		count int
	}{
		{"Organizations", s.Organizations},
		{"Users", s.Users},
		{"Teams", s.Teams},
		{"Memberships", s.Memberships},
		{"Projects", s.Projects},
		{"Sections", s.Sections},
		{"Tasks", s.Tasks},
		{"Subtasks", s.Subtasks},
		{"Comments", s.Comments},
	} {
		t.Row(entry.label, strconv.Itoa(entry.count))
	}

	fmt.Fprintln(r.output, "Generation complete")
	fmt.Fprintln(r.output, t.Render())
}
