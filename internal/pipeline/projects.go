package pipeline

import (
	"database/sql"
	"errors"
	"fmt"

	"orgseed/internal/models"
	"orgseed/internal/sampler"
	"orgseed/internal/shared"
)

// projectNameMax caps generated project names.
const projectNameMax = 50

var projectTypes = []string{"sprint", "kanban", "campaign", "operations"}

var (
	projectStatuses      = []string{"active", "completed", "on_hold"}
	projectStatusWeights = []float64{0.6, 0.2, 0.2}
)

// projectRef is the linkage the section and task stages need.
type projectRef struct {
	ID          string
	TeamID      string
	Department  string
	ProjectType string
	CreatedAt   string
}

// generateProjects inserts the configured number of projects, each on a
// uniformly chosen team. The owner is a current member of that team, or
// absent when the team has none; the due date is strictly after creation.
func (p *Pipeline) generateProjects(tx *sql.Tx, teams []teamRef) ([]projectRef, error) {
	p.logger.Info("creating projects", "count", p.cfg.Generator.Projects)

	projects := make([]projectRef, 0, p.cfg.Generator.Projects)
	for i := 0; i < p.cfg.Generator.Projects; i++ {
		team := sampler.Choice(p.rand, teams)
		projectID := shared.GenerateID()
		projectType := sampler.Choice(p.rand, projectTypes)

		ownerID, err := p.firstTeamMember(tx, team.ID)
		if err != nil {
			return nil, err
		}

		name := truncate(fmt.Sprintf("%s - %s", team.Department, p.templates.BusinessPhrase()), projectNameMax)
		createdAt := sampler.RandomTimestamp(p.rand, 180, 10)
		dueTS, err := sampler.AddDays(createdAt, sampler.IntBetween(p.rand, 30, 90))
		if err != nil {
			return nil, err
		}
		dueDate, err := sampler.DateOnly(dueTS)
		if err != nil {
			return nil, err
		}

		project := models.Project{
			ID:          projectID,
			TeamID:      team.ID,
			OwnerID:     ownerID,
			Name:        name,
			ProjectType: projectType,
			Status:      sampler.Pick(p.rand, projectStatuses, projectStatusWeights),
			CreatedAt:   createdAt,
			DueDate:     dueDate,
		}
		_, err = tx.Exec(`
			INSERT INTO projects (project_id, team_id, owner_id, name, project_type, status, created_at, due_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			project.ID, project.TeamID, nullable(project.OwnerID), project.Name,
			project.ProjectType, project.Status, project.CreatedAt, project.DueDate)
		if err != nil {
			return nil, fmt.Errorf("failed to insert project %d: %w", i, err)
		}

		projects = append(projects, projectRef{
			ID:          project.ID,
			TeamID:      project.TeamID,
			Department:  team.Department,
			ProjectType: project.ProjectType,
			CreatedAt:   project.CreatedAt,
		})
	}

	p.logger.Info("created projects", "count", len(projects))
	return projects, nil
}

// firstTeamMember returns one current member of the team, or empty when
// the team has no members.
func (p *Pipeline) firstTeamMember(tx *sql.Tx, teamID string) (string, error) {
	var userID string
	err := tx.QueryRow(
		`SELECT user_id FROM team_memberships WHERE team_id = ? ORDER BY rowid LIMIT 1`,
		teamID).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query team member: %w", err)
	}
	return userID, nil
}
