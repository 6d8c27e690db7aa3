package pipeline

import (
	"database/sql"
	"fmt"

	"orgseed/internal/models"
	"orgseed/internal/sampler"
	"orgseed/internal/shared"
)

// teamRef is the linkage the membership and project stages need.
type teamRef struct {
	ID         string
	Department string
}

// generateTeams inserts one team per (department, team name) pair from
// the configuration, named "{department} - {team name}".
func (p *Pipeline) generateTeams(tx *sql.Tx, orgID string) ([]teamRef, error) {
	p.logger.Info("creating teams")

	var teams []teamRef
	for _, dept := range p.cfg.Departments {
		for _, name := range dept.Teams {
			team := models.Team{
				ID:         shared.GenerateID(),
				OrgID:      orgID,
				Name:       fmt.Sprintf("%s - %s", dept.Name, name),
				Department: dept.Name,
				CreatedAt:  sampler.RandomTimestamp(p.rand, 300, 100),
			}
			_, err := tx.Exec(`
				INSERT INTO teams (team_id, org_id, name, department, created_at)
				VALUES (?, ?, ?, ?, ?)`,
				team.ID, team.OrgID, team.Name, team.Department, team.CreatedAt)
			if err != nil {
				return nil, fmt.Errorf("failed to insert team %s: %w", name, err)
			}
			teams = append(teams, teamRef{ID: team.ID, Department: team.Department})
		}
	}

	p.logger.Info("created teams", "count", len(teams))
	return teams, nil
}

// generateMemberships assigns same-department users to each team. The
// member count is drawn from the configured range, capped by pool size,
// and members are sampled without replacement. Duplicate (team, user)
// pairs are absorbed by INSERT OR IGNORE rather than treated as errors.
func (p *Pipeline) generateMemberships(tx *sql.Tx, teams []teamRef, usersByDept map[string][]string) error {
	p.logger.Info("assigning users to teams")

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO team_memberships (id, team_id, user_id, role, joined_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare membership insert: %w", err)
	}
	defer stmt.Close()

	for _, team := range teams {
		pool := usersByDept[team.Department]
		if len(pool) == 0 {
			continue
		}

		count := sampler.IntBetween(p.rand, p.cfg.Generator.MembershipMin, p.cfg.Generator.MembershipMax)
		for _, userID := range sampler.SampleN(p.rand, pool, count) {
			m := models.Membership{
				ID:       shared.GenerateID(),
				TeamID:   team.ID,
				UserID:   userID,
				Role:     "member",
				JoinedAt: sampler.RandomTimestamp(p.rand, 200, 50),
			}
			if _, err := stmt.Exec(m.ID, m.TeamID, m.UserID, m.Role, m.JoinedAt); err != nil {
				return fmt.Errorf("failed to insert membership: %w", err)
			}
		}
	}

	return nil
}
