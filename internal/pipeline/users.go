package pipeline

import (
	"database/sql"
	"fmt"
	"strings"

	"orgseed/internal/models"
	"orgseed/internal/sampler"
	"orgseed/internal/shared"
)

// generateUsers inserts the configured number of users, drawing
// department and role from their weight tables, and returns user ids
// grouped by department for the membership stage.
//
// Emails combine the normalized name with the loop index and the
// company domain, so they stay unique even when generated names collide.
func (p *Pipeline) generateUsers(tx *sql.Tx, orgID string) (map[string][]string, error) {
	p.logger.Info("creating users", "count", p.cfg.Generator.Users)

	stmt, err := tx.Prepare(`
		INSERT INTO users (user_id, org_id, full_name, email, department, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare user insert: %w", err)
	}
	defer stmt.Close()

	deptNames := p.cfg.DepartmentNames()
	deptWeights := p.cfg.DepartmentWeights()

	usersByDept := make(map[string][]string, len(deptNames))
	for _, dept := range deptNames {
		usersByDept[dept] = nil
	}

	for i := 0; i < p.cfg.Generator.Users; i++ {
		name := p.templates.FullName()
		user := models.User{
			ID:         shared.GenerateID(),
			OrgID:      orgID,
			FullName:   name,
			Department: sampler.Pick(p.rand, deptNames, deptWeights),
			Role:       sampler.Pick(p.rand, p.cfg.Roles.Names, p.cfg.Roles.Weights),
			Email: fmt.Sprintf("%s_%d@%s",
				strings.ReplaceAll(strings.ToLower(name), " ", "."), i, p.cfg.Company.Domain),
			CreatedAt: sampler.RandomTimestamp(p.rand, 365, 30),
		}

		_, err := stmt.Exec(user.ID, user.OrgID, user.FullName, user.Email,
			user.Department, user.Role, user.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert user %d: %w", i, err)
		}

		usersByDept[user.Department] = append(usersByDept[user.Department], user.ID)

		if (i+1)%1000 == 0 {
			p.logger.Info("created users", "count", i+1)
		}
	}

	return usersByDept, nil
}
