package pipeline

import (
	"database/sql"
	"fmt"

	"orgseed/internal/models"
	"orgseed/internal/sampler"
	"orgseed/internal/shared"
)

// generateOrganization inserts the single root organization row with
// the configured name, domain and founding timestamp, and returns its id.
func (p *Pipeline) generateOrganization(tx *sql.Tx) (string, error) {
	if _, err := sampler.ParseTimestamp(p.cfg.Company.Founded); err != nil {
		return "", fmt.Errorf("company.founded: %w", err)
	}

	org := models.Organization{
		ID:        shared.GenerateID(),
		Name:      p.cfg.Company.Name,
		Domain:    p.cfg.Company.Domain,
		CreatedAt: p.cfg.Company.Founded,
	}
	_, err := tx.Exec(`
		INSERT INTO organizations (org_id, name, domain, created_at)
		VALUES (?, ?, ?, ?)`,
		org.ID, org.Name, org.Domain, org.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to insert organization: %w", err)
	}

	p.logger.Info("created organization", "name", org.Name)
	return org.ID, nil
}
