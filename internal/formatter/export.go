package formatter

import (
	"database/sql"
	"fmt"
	"path/filepath"
)

// entityExport pairs one output file with its denormalizing query. The
// column order of the query matches the header order.
type entityExport struct {
	File    string
	Headers []string
	Query   string
}

var entityExports = []entityExport{
	{
		File:    "org.csv",
		Headers: []string{"org_id", "name", "domain", "created_at"},
		Query:   `SELECT org_id, name, domain, created_at FROM organizations`,
	},
	{
		File: "users.csv",
		Headers: []string{"user_id", "full_name", "email", "department", "role", "created_at",
			"team_count", "tasks_assigned", "tasks_completed", "comments_authored"},
		Query: `
			SELECT u.user_id, u.full_name, u.email, u.department, u.role, u.created_at,
			       COALESCE(tm.team_count, 0) AS team_count,
			       COALESCE(t.assigned_count, 0) AS tasks_assigned,
			       COALESCE(t.completed_count, 0) AS tasks_completed,
			       COALESCE(c.comments_count, 0) AS comments_authored
			FROM users u
			LEFT JOIN (SELECT user_id, COUNT(*) AS team_count FROM team_memberships GROUP BY user_id) tm ON tm.user_id = u.user_id
			LEFT JOIN (SELECT assignee_id, COUNT(*) AS assigned_count, SUM(CASE WHEN completed THEN 1 ELSE 0 END) AS completed_count
			           FROM tasks WHERE assignee_id IS NOT NULL GROUP BY assignee_id) t ON t.assignee_id = u.user_id
			LEFT JOIN (SELECT author_id, COUNT(*) AS comments_count FROM comments GROUP BY author_id) c ON c.author_id = u.user_id
			ORDER BY u.department, u.full_name`,
	},
	{
		File:    "teams.csv",
		Headers: []string{"team_id", "org_id", "name", "department", "created_at", "member_count"},
		Query: `
			SELECT t.team_id, t.org_id, t.name, t.department, t.created_at,
			       COALESCE(tm.member_count, 0) AS member_count
			FROM teams t
			LEFT JOIN (SELECT team_id, COUNT(*) AS member_count FROM team_memberships GROUP BY team_id) tm ON tm.team_id = t.team_id
			ORDER BY t.department, t.name`,
	},
	{
		File:    "team_memberships.csv",
		Headers: []string{"membership_id", "team_id", "user_id", "role", "joined_at", "user_name", "team_name"},
		Query: `
			SELECT tm.id, tm.team_id, tm.user_id, tm.role, tm.joined_at,
			       u.full_name AS user_name, t.name AS team_name
			FROM team_memberships tm
			JOIN users u ON u.user_id = tm.user_id
			JOIN teams t ON t.team_id = tm.team_id
			ORDER BY t.name, u.full_name`,
	},
	{
		File: "projects.csv",
		Headers: []string{"project_id", "team_id", "owner_id", "name", "project_type", "status",
			"created_at", "due_date", "team_name", "owner_name", "owner_email"},
		Query: `
			SELECT p.project_id, p.team_id, p.owner_id, p.name, p.project_type, p.status,
			       p.created_at, p.due_date, t.name AS team_name, u.full_name AS owner_name, u.email AS owner_email
			FROM projects p
			JOIN teams t ON t.team_id = p.team_id
			LEFT JOIN users u ON u.user_id = p.owner_id
			ORDER BY p.project_type, p.name`,
	},
	{
		File:    "sections.csv",
		Headers: []string{"section_id", "project_id", "name", "order_index", "created_at", "project_name"},
		Query: `
			SELECT s.section_id, s.project_id, s.name, s.order_index, s.created_at, p.name AS project_name
			FROM sections s
			JOIN projects p ON p.project_id = s.project_id
			ORDER BY p.name, s.order_index`,
	},
	{
		File: "tasks.csv",
		Headers: []string{"task_id", "project_id", "section_id", "parent_task_id", "assignee_id",
			"name", "description", "completed", "priority", "due_date", "created_at", "completed_at",
			"project_name", "section_name", "assignee_name", "assignee_email"},
		Query: `
			SELECT t.task_id, t.project_id, t.section_id, t.parent_task_id, t.assignee_id,
			       t.name, t.description, t.completed, t.priority, t.due_date, t.created_at, t.completed_at,
			       p.name AS project_name, s.name AS section_name, u.full_name AS assignee_name, u.email AS assignee_email
			FROM tasks t
			JOIN projects p ON p.project_id = t.project_id
			LEFT JOIN sections s ON s.section_id = t.section_id
			LEFT JOIN users u ON u.user_id = t.assignee_id
			ORDER BY t.created_at`,
	},
	{
		File:    "comments.csv",
		Headers: []string{"comment_id", "task_id", "author_id", "content", "created_at", "author_name", "task_name"},
		Query: `
			SELECT c.comment_id, c.task_id, c.author_id, c.content, c.created_at,
			       u.full_name AS author_name, t.name AS task_name
			FROM comments c
			JOIN users u ON u.user_id = c.author_id
			JOIN tasks t ON t.task_id = c.task_id
			ORDER BY c.created_at`,
	},
}

// ExportResult reports the files written by Export.
type ExportResult struct {
	Files []string
}

// Export reads the finished store and writes one CSV per entity into
// dir. NULL columns export as empty strings.
func Export(db *sql.DB, dir string) (*ExportResult, error) {
	result := &ExportResult{}

	for _, e := range entityExports {
		records, err := queryRecords(db, e.Query)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", e.File, err)
		}

		path := filepath.Join(dir, e.File)
		if err := WriteCSV(path, e.Headers, records); err != nil {
			return nil, fmt.Errorf("export %s: %w", e.File, err)
		}
		result.Files = append(result.Files, path)
	}

	return result, nil
}

// queryRecords runs a query and renders every column as a string.
func queryRecords(db *sql.DB, query string) ([][]string, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var records [][]string
	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		scanTargets := make([]any, len(cols))
		for i := range values {
			scanTargets[i] = &values[i]
		}

		if err := rows.Scan(scanTargets...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		record := make([]string, len(cols))
		for i, v := range values {
			if v.Valid {
				record[i] = v.String
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}
