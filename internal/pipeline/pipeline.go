// package pipeline implements the entity generation pipeline.
//
// The core abstraction is Pipeline, which runs one stage per entity
// type in strict dependency order: organization → users → teams and
// memberships → projects → sections → tasks, subtasks and comments.
// Each stage writes rows inside a transaction owned by the orchestrator
// and returns only the in-memory linkage the next stage needs; commits
// happen at stage boundaries, so a failed stage leaves earlier stages
// durably written. There are no retries and no partial-completion
// resumption: a failed run requires discarding the store.
package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"

	"github.com/charmbracelet/log"

	"orgseed/internal/services"
	"orgseed/internal/shared"
)

// Pipeline orchestrates the generation stages. It exclusively owns the
// store connection and the seeded random stream for the duration of a run.
type Pipeline struct {
	db        *sql.DB
	cfg       *shared.Config
	rand      *rand.Rand
	logger    *log.Logger
	templates *services.TemplateSource
	names     services.NameSource // optional network variant, nil when disabled
}

// Opts contains the dependencies for creating a Pipeline.
type Opts struct {
	DB        *sql.DB
	Config    *shared.Config
	Rand      *rand.Rand
	Logger    *log.Logger
	Templates *services.TemplateSource
	Names     services.NameSource
}

// New creates a Pipeline. Rand and Templates default to a stream seeded
// from the config so a bare Opts still yields a reproducible run.
func New(opts Opts) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(opts.Config.Generator.Seed))
	}
	if opts.Templates == nil {
		opts.Templates = services.NewTemplateSource(opts.Rand)
	}

	return &Pipeline{
		db:        opts.DB,
		cfg:       opts.Config,
		rand:      opts.Rand,
		logger:    opts.Logger,
		templates: opts.Templates,
		names:     opts.Names,
	}
}

// Summary holds per-entity row counts verified against the store after
// a completed run. Tasks and Subtasks are counted separately by
// parent_task_id.
type Summary struct {
	Organizations int
	Users         int
	Teams         int
	Memberships   int
	Projects      int
	Sections      int
	Tasks         int
	Subtasks      int
	Comments      int
}

// Run executes every stage in dependency order and returns the final
// row counts. Any stage error aborts the run; stages already committed
// remain in the store.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	var (
		orgID       string
		usersByDept map[string][]string
		teams       []teamRef
		projects    []projectRef
		sections    map[string][]string
	)

	stages := []struct {
		name string
		fn   func(*sql.Tx) error
	}{
		{"organization", func(tx *sql.Tx) (err error) {
			orgID, err = p.generateOrganization(tx)
			return err
		}},
		{"users", func(tx *sql.Tx) (err error) {
			usersByDept, err = p.generateUsers(tx, orgID)
			return err
		}},
		{"teams", func(tx *sql.Tx) (err error) {
			teams, err = p.generateTeams(tx, orgID)
			if err != nil {
				return err
			}
			return p.generateMemberships(tx, teams, usersByDept)
		}},
		{"projects", func(tx *sql.Tx) (err error) {
			projects, err = p.generateProjects(tx, teams)
			return err
		}},
		{"sections", func(tx *sql.Tx) (err error) {
			sections, err = p.generateSections(tx, projects)
			return err
		}},
		{"tasks", func(tx *sql.Tx) error {
			return p.generateTasks(ctx, tx, projects, sections)
		}},
	}

	for _, stage := range stages {
		if err := p.runStage(stage.name, stage.fn); err != nil {
			return nil, err
		}
	}

	return p.summarize()
}

// runStage executes one stage inside its own transaction, committing at
// the stage boundary.
func (p *Pipeline) runStage(name string, fn func(*sql.Tx) error) error {
	tx, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("stage %s: failed to begin transaction: %w", name, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return fmt.Errorf("stage %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("stage %s: failed to commit: %w", name, err)
	}
	return nil
}

// summarize reads back the final row counts from the store.
func (p *Pipeline) summarize() (*Summary, error) {
	s := &Summary{}
	counts := []struct {
		query  string
		target *int
	}{
		{"SELECT COUNT(*) FROM organizations", &s.Organizations},
		{"SELECT COUNT(*) FROM users", &s.Users},
		{"SELECT COUNT(*) FROM teams", &s.Teams},
		{"SELECT COUNT(*) FROM team_memberships", &s.Memberships},
		{"SELECT COUNT(*) FROM projects", &s.Projects},
		{"SELECT COUNT(*) FROM sections", &s.Sections},
		{"SELECT COUNT(*) FROM tasks WHERE parent_task_id IS NULL", &s.Tasks},
		{"SELECT COUNT(*) FROM tasks WHERE parent_task_id IS NOT NULL", &s.Subtasks},
		{"SELECT COUNT(*) FROM comments", &s.Comments},
	}

	for _, c := range counts {
		if err := p.db.QueryRow(c.query).Scan(c.target); err != nil {
			return nil, fmt.Errorf("failed to count rows: %w", err)
		}
	}
	return s, nil
}

// nullable converts an empty string to a SQL NULL parameter.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
