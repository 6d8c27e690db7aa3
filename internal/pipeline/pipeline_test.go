package pipeline

import (
	"context"
	"database/sql"
	"io"
	"testing"

	"orgseed/internal/services"
	"orgseed/internal/shared"
	tu "orgseed/internal/testing"
)

// testConfig shrinks the default config to test scale.
func testConfig() *shared.Config {
	cfg := shared.DefaultConfig()
	cfg.Database.Path = ":memory:"
	cfg.Generator.Users = 60
	cfg.Generator.Projects = 12
	cfg.Generator.TasksMin = 2
	cfg.Generator.TasksMax = 4
	cfg.Generator.MembershipMin = 2
	cfg.Generator.MembershipMax = 5
	return cfg
}

// setupTestDB creates an in-memory store with the schema applied.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.ApplySchema(db); err != nil {
		db.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	return db
}

// runPipeline executes a full run against a fresh in-memory store.
func runPipeline(t *testing.T, cfg *shared.Config, names services.NameSource) (*sql.DB, *Summary) {
	t.Helper()

	db := setupTestDB(t)
	t.Cleanup(func() { db.Close() })

	summary, err := New(Opts{
		DB:     db,
		Config: cfg,
		Logger: shared.NewLogger(io.Discard),
		Names:  names,
	}).Run(context.Background())
	if err != nil {
		t.Fatalf("pipeline run failed: %v", err)
	}

	return db, summary
}

func count(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count query failed: %v\n%s", err, query)
	}
	return n
}

func TestPipelineRun(t *testing.T) {
	cfg := testConfig()
	db, summary := runPipeline(t, cfg, nil)

	t.Run("summary matches store", func(t *testing.T) {
		if summary.Organizations != 1 {
			t.Errorf("expected exactly one organization, got %d", summary.Organizations)
		}
		if summary.Users != cfg.Generator.Users {
			t.Errorf("expected %d users, got %d", cfg.Generator.Users, summary.Users)
		}
		wantTeams := 0
		for _, d := range cfg.Departments {
			wantTeams += len(d.Teams)
		}
		if summary.Teams != wantTeams {
			t.Errorf("expected %d teams, got %d", wantTeams, summary.Teams)
		}
		if summary.Projects != cfg.Generator.Projects {
			t.Errorf("expected %d projects, got %d", cfg.Generator.Projects, summary.Projects)
		}
		if summary.Tasks == 0 {
			t.Error("expected tasks to be generated")
		}

		if got := count(t, db, "SELECT COUNT(*) FROM tasks WHERE parent_task_id IS NULL"); got != summary.Tasks {
			t.Errorf("summary tasks %d, store has %d", summary.Tasks, got)
		}
	})

	t.Run("emails are unique", func(t *testing.T) {
		total := count(t, db, "SELECT COUNT(*) FROM users")
		distinct := count(t, db, "SELECT COUNT(DISTINCT email) FROM users")
		if total != distinct {
			t.Errorf("%d users but %d distinct emails", total, distinct)
		}
	})

	t.Run("completed iff completed_at", func(t *testing.T) {
		if n := count(t, db, `
			SELECT COUNT(*) FROM tasks
			WHERE (completed AND completed_at IS NULL)
			   OR (NOT completed AND completed_at IS NOT NULL)`); n != 0 {
			t.Errorf("%d tasks violate the completed/completed_at pairing", n)
		}
		if n := count(t, db, `
			SELECT COUNT(*) FROM tasks
			WHERE completed_at IS NOT NULL AND completed_at <= created_at`); n != 0 {
			t.Errorf("%d tasks completed before creation", n)
		}
	})

	t.Run("due dates follow creation", func(t *testing.T) {
		if n := count(t, db, `
			SELECT COUNT(*) FROM projects WHERE due_date <= DATE(created_at)`); n != 0 {
			t.Errorf("%d projects due on or before creation", n)
		}
	})

	t.Run("subtasks are one level deep in the same project", func(t *testing.T) {
		if n := count(t, db, `
			SELECT COUNT(*) FROM tasks c
			LEFT JOIN tasks p ON p.task_id = c.parent_task_id
			WHERE c.parent_task_id IS NOT NULL
			  AND (p.task_id IS NULL OR p.parent_task_id IS NOT NULL OR p.project_id <> c.project_id)`); n != 0 {
			t.Errorf("%d subtasks violate parent invariants", n)
		}
	})

	t.Run("completed top-level tasks sit in the last section", func(t *testing.T) {
		if n := count(t, db, `
			SELECT COUNT(*) FROM tasks t
			JOIN sections s ON s.section_id = t.section_id
			WHERE t.parent_task_id IS NULL AND t.completed
			  AND s.order_index <> (SELECT MAX(order_index) FROM sections s2 WHERE s2.project_id = t.project_id)`); n != 0 {
			t.Errorf("%d completed tasks filed outside the last section", n)
		}
	})

	t.Run("section order is dense and matches templates", func(t *testing.T) {
		rows, err := db.Query(`SELECT project_id, project_type FROM projects`)
		if err != nil {
			t.Fatalf("failed to query projects: %v", err)
		}
		defer rows.Close()

		for rows.Next() {
			var projectID, projectType string
			if err := rows.Scan(&projectID, &projectType); err != nil {
				t.Fatalf("scan failed: %v", err)
			}

			template := cfg.SectionsFor(projectType)
			sectionRows, err := db.Query(
				`SELECT name, order_index FROM sections WHERE project_id = ? ORDER BY order_index`, projectID)
			if err != nil {
				t.Fatalf("failed to query sections: %v", err)
			}

			idx := 0
			for sectionRows.Next() {
				var name string
				var orderIndex int
				if err := sectionRows.Scan(&name, &orderIndex); err != nil {
					t.Fatalf("scan failed: %v", err)
				}
				if orderIndex != idx {
					t.Errorf("project %s: order_index %d at position %d", projectID, orderIndex, idx)
				}
				if idx < len(template) && name != template[idx] {
					t.Errorf("project %s (%s): section %d is %q, want %q", projectID, projectType, idx, name, template[idx])
				}
				idx++
			}
			sectionRows.Close()

			if idx != len(template) {
				t.Errorf("project %s (%s): %d sections, template has %d", projectID, projectType, idx, len(template))
			}
		}
		if err := rows.Err(); err != nil {
			t.Fatalf("row iteration error: %v", err)
		}
	})

	t.Run("membership pairs are unique", func(t *testing.T) {
		total := count(t, db, "SELECT COUNT(*) FROM team_memberships")
		distinct := count(t, db, "SELECT COUNT(*) FROM (SELECT DISTINCT team_id, user_id FROM team_memberships)")
		if total != distinct {
			t.Errorf("%d membership rows but %d distinct pairs", total, distinct)
		}
	})

	t.Run("members match team departments", func(t *testing.T) {
		if n := count(t, db, `
			SELECT COUNT(*) FROM team_memberships tm
			JOIN teams tt ON tt.team_id = tm.team_id
			JOIN users u ON u.user_id = tm.user_id
			WHERE u.department <> tt.department`); n != 0 {
			t.Errorf("%d memberships cross departments", n)
		}
	})

	t.Run("assignees, authors and owners are team members", func(t *testing.T) {
		if n := count(t, db, `
			SELECT COUNT(*) FROM tasks t
			JOIN projects p ON p.project_id = t.project_id
			LEFT JOIN team_memberships tm ON tm.team_id = p.team_id AND tm.user_id = t.assignee_id
			WHERE t.assignee_id IS NOT NULL AND tm.id IS NULL`); n != 0 {
			t.Errorf("%d task assignees outside the project team", n)
		}
		if n := count(t, db, `
			SELECT COUNT(*) FROM comments c
			JOIN tasks t ON t.task_id = c.task_id
			JOIN projects p ON p.project_id = t.project_id
			LEFT JOIN team_memberships tm ON tm.team_id = p.team_id AND tm.user_id = c.author_id
			WHERE tm.id IS NULL`); n != 0 {
			t.Errorf("%d comment authors outside the project team", n)
		}
		if n := count(t, db, `
			SELECT COUNT(*) FROM projects p
			LEFT JOIN team_memberships tm ON tm.team_id = p.team_id AND tm.user_id = p.owner_id
			WHERE p.owner_id IS NOT NULL AND tm.id IS NULL`); n != 0 {
			t.Errorf("%d project owners outside their team", n)
		}
	})
}

func TestMembershipIdempotence(t *testing.T) {
	db, _ := runPipeline(t, testConfig(), nil)

	var teamID, userID string
	if err := db.QueryRow(`SELECT team_id, user_id FROM team_memberships LIMIT 1`).Scan(&teamID, &userID); err != nil {
		t.Fatalf("no membership rows generated: %v", err)
	}

	before := count(t, db, "SELECT COUNT(*) FROM team_memberships")
	_, err := db.Exec(`
		INSERT OR IGNORE INTO team_memberships (id, team_id, user_id, role, joined_at)
		VALUES (?, ?, ?, 'member', '2024-01-01 09:00:00')`,
		shared.GenerateID(), teamID, userID)
	if err != nil {
		t.Fatalf("duplicate membership insert must not error: %v", err)
	}
	after := count(t, db, "SELECT COUNT(*) FROM team_memberships")

	if before != after {
		t.Errorf("duplicate insert added rows: %d -> %d", before, after)
	}
}

func TestDeterministicRuns(t *testing.T) {
	cfg := testConfig()

	type firstUser struct {
		FullName   string
		Email      string
		Department string
		Role       string
	}
	run := func() (*Summary, firstUser) {
		db, summary := runPipeline(t, cfg, nil)
		var u firstUser
		err := db.QueryRow(`
			SELECT full_name, email, department, role FROM users ORDER BY rowid LIMIT 1`).
			Scan(&u.FullName, &u.Email, &u.Department, &u.Role)
		if err != nil {
			t.Fatalf("failed to read first user: %v", err)
		}
		return summary, u
	}

	summary1, user1 := run()
	summary2, user2 := run()

	if *summary1 != *summary2 {
		t.Errorf("row counts diverged:\n%+v\n%+v", summary1, summary2)
	}
	if user1 != user2 {
		t.Errorf("first user diverged:\n%+v\n%+v", user1, user2)
	}
}

func TestSingleDepartmentWeight(t *testing.T) {
	cfg := testConfig()
	cfg.Generator.Users = 50
	for i := range cfg.Departments {
		if cfg.Departments[i].Name == "Engineering" {
			cfg.Departments[i].Weight = 1.0
		} else {
			cfg.Departments[i].Weight = 0
		}
	}

	db, summary := runPipeline(t, cfg, nil)

	if summary.Users != 50 {
		t.Fatalf("expected 50 users, got %d", summary.Users)
	}
	if n := count(t, db, `SELECT COUNT(*) FROM users WHERE department <> 'Engineering'`); n != 0 {
		t.Errorf("%d users landed outside Engineering", n)
	}
}

func TestKanbanSectionTemplate(t *testing.T) {
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	defer db.Close()
	if err := shared.ApplySchema(db); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	p := New(Opts{DB: db, Config: testConfig(), Logger: shared.NewLogger(io.Discard)})

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	sections, err := p.generateSections(tx, []projectRef{
		{ID: "proj-kanban", ProjectType: "kanban", CreatedAt: "2024-01-01 09:00:00"},
	})
	if err != nil {
		t.Fatalf("section generation failed: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	if len(sections["proj-kanban"]) != 3 {
		t.Fatalf("expected 3 kanban sections, got %d", len(sections["proj-kanban"]))
	}

	rows, err := db.Query(`SELECT name, order_index FROM sections WHERE project_id = 'proj-kanban' ORDER BY order_index`)
	if err != nil {
		t.Fatalf("failed to query sections: %v", err)
	}
	defer rows.Close()

	want := []string{"To Do", "In Progress", "Done"}
	idx := 0
	for rows.Next() {
		var name string
		var orderIndex int
		if err := rows.Scan(&name, &orderIndex); err != nil {
			t.Fatalf("scan failed: %v", err)
		}
		if orderIndex != idx || name != want[idx] {
			t.Errorf("position %d: got (%q, %d), want (%q, %d)", idx, name, orderIndex, want[idx], idx)
		}
		idx++
	}
	if idx != len(want) {
		t.Errorf("expected %d sections, got %d", len(want), idx)
	}
}

func TestFullCompletionRate(t *testing.T) {
	cfg := testConfig()
	cfg.Generator.CompletionRate = 1.0

	db, summary := runPipeline(t, cfg, nil)

	if summary.Tasks == 0 {
		t.Fatal("expected tasks to be generated")
	}
	if n := count(t, db, `SELECT COUNT(*) FROM tasks WHERE NOT completed`); n != 0 {
		t.Errorf("%d tasks remain incomplete at completion_rate=1.0", n)
	}
	if n := count(t, db, `
		SELECT COUNT(*) FROM tasks t
		JOIN sections s ON s.section_id = t.section_id
		WHERE t.parent_task_id IS NULL
		  AND s.order_index <> (SELECT MAX(order_index) FROM sections s2 WHERE s2.project_id = t.project_id)`); n != 0 {
		t.Errorf("%d tasks filed outside their project's last section", n)
	}
}

func TestTaskNameProvider(t *testing.T) {
	t.Run("disabled provider uses templates only", func(t *testing.T) {
		db, _ := runPipeline(t, testConfig(), nil)

		if n := count(t, db, `SELECT COUNT(*) FROM tasks WHERE name LIKE '%{%'`); n != 0 {
			t.Errorf("%d task names contain unfilled placeholders", n)
		}
	})

	t.Run("provider names are used and cached per department", func(t *testing.T) {
		src := tu.NewScriptedNameSource("Ship the beta", "Close the books")
		db, _ := runPipeline(t, testConfig(), src)

		if len(src.Calls) == 0 {
			t.Fatal("expected provider calls")
		}
		for dept, calls := range src.Calls {
			if calls > 1 {
				t.Errorf("department %s called %d times, want at most once", dept, calls)
			}
		}

		if n := count(t, db, `
			SELECT COUNT(*) FROM tasks
			WHERE parent_task_id IS NULL
			  AND name NOT IN ('Ship the beta', 'Close the books')`); n != 0 {
			t.Errorf("%d top-level tasks ignored provider names", n)
		}
	})

	t.Run("failing provider falls back to templates", func(t *testing.T) {
		src := tu.NewFailingNameSource()
		db, summary := runPipeline(t, testConfig(), src)

		if summary.Tasks == 0 {
			t.Error("provider failure must not fail the run")
		}
		for dept, calls := range src.Calls {
			if calls > 1 {
				t.Errorf("department %s called %d times despite negative caching", dept, calls)
			}
		}
		if n := count(t, db, `SELECT COUNT(*) FROM tasks WHERE name LIKE '%{%'`); n != 0 {
			t.Errorf("%d task names contain unfilled placeholders", n)
		}
	})
}
