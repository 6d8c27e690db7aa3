package pipeline

import (
	"database/sql"
	"fmt"

	"orgseed/internal/models"
	"orgseed/internal/shared"
)

// generateSections inserts the section list for each project, keyed by
// project type with the "default" template covering unrecognized types.
// Order indexes are a dense zero-based sequence matching the template,
// and sections carry the project's own creation timestamp. Returns the
// ordered section ids per project for the task stage.
func (p *Pipeline) generateSections(tx *sql.Tx, projects []projectRef) (map[string][]string, error) {
	p.logger.Info("creating sections")

	stmt, err := tx.Prepare(`
		INSERT INTO sections (section_id, project_id, name, order_index, created_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare section insert: %w", err)
	}
	defer stmt.Close()

	projectSections := make(map[string][]string, len(projects))
	for _, project := range projects {
		names := p.cfg.SectionsFor(project.ProjectType)
		sectionIDs := make([]string, 0, len(names))

		for idx, name := range names {
			section := models.Section{
				ID:         shared.GenerateID(),
				ProjectID:  project.ID,
				Name:       name,
				OrderIndex: idx,
				CreatedAt:  project.CreatedAt,
			}
			if _, err := stmt.Exec(section.ID, section.ProjectID, section.Name,
				section.OrderIndex, section.CreatedAt); err != nil {
				return nil, fmt.Errorf("failed to insert section %s: %w", name, err)
			}
			sectionIDs = append(sectionIDs, section.ID)
		}

		projectSections[project.ID] = sectionIDs
	}

	return projectSections, nil
}
