package pipeline

import (
	"context"
	"database/sql"
	"fmt"

	"orgseed/internal/models"
	"orgseed/internal/sampler"
	"orgseed/internal/shared"
)

// llmNameBatch is how many names one provider call requests per department.
const llmNameBatch = 5

// subtaskNameMax caps the parent-name fragment in subtask names.
const subtaskNameMax = 30

var commentPhrases = []string{
	"Looking good, let's move forward.",
	"Can you provide more details on this?",
	"Updated the status - ready for review.",
	"Blocked on dependencies, need input.",
	"Great progress on this task!",
	"Let's discuss in our next sync.",
	"Added more context to the description.",
	"This is now complete.",
}

// taskPriorities includes the empty string for tasks without a priority.
var taskPriorities = []string{"high", "medium", "low", ""}

// generateTasks fills every project that has sections with tasks,
// subtasks and comments.
//
// Completed tasks are filed in the project's last section, open tasks
// in a random earlier one. Assignees and comment authors are drawn from
// the project team's membership rows. Network-provided task names are
// cached per department, including failed attempts, so the provider is
// called at most once per department per run.
func (p *Pipeline) generateTasks(ctx context.Context, tx *sql.Tx, projects []projectRef, projectSections map[string][]string) error {
	p.logger.Info("creating tasks")

	nameCache := make(map[string][]string)
	processed := 0

	for _, project := range projects {
		sectionIDs := projectSections[project.ID]
		if len(sectionIDs) == 0 {
			continue
		}

		members, err := p.teamMembers(tx, project.TeamID)
		if err != nil {
			return err
		}

		llmNames := p.cachedTaskNames(ctx, nameCache, project.Department, project.ProjectType)

		numTasks := sampler.IntBetween(p.rand, p.cfg.Generator.TasksMin, p.cfg.Generator.TasksMax)
		for i := 0; i < numTasks; i++ {
			if err := p.generateTask(tx, project, sectionIDs, members, llmNames); err != nil {
				return err
			}
		}

		processed++
		if processed%100 == 0 {
			p.logger.Info("processed projects", "count", processed)
		}
	}

	return nil
}

// generateTask inserts one top-level task plus its optional subtasks
// and comment.
func (p *Pipeline) generateTask(tx *sql.Tx, project projectRef, sectionIDs, members, llmNames []string) error {
	taskID := shared.GenerateID()

	var name string
	if len(llmNames) > 0 {
		name = sampler.Choice(p.rand, llmNames)
	} else {
		name = p.templates.TaskName(project.Department)
	}

	completed := sampler.Bernoulli(p.rand, p.cfg.Generator.CompletionRate)

	// Completed tasks land in the last section; open tasks in a random
	// non-last section.
	var sectionID string
	switch {
	case completed:
		sectionID = sectionIDs[len(sectionIDs)-1]
	case len(sectionIDs) > 1:
		sectionID = sampler.Choice(p.rand, sectionIDs[:len(sectionIDs)-1])
	default:
		sectionID = sectionIDs[0]
	}

	var assigneeID string
	if len(members) > 0 && !sampler.Bernoulli(p.rand, p.cfg.Generator.UnassignedRate) {
		assigneeID = sampler.Choice(p.rand, members)
	}

	createdAt := sampler.RandomTimestamp(p.rand, 150, 5)
	var completedAt string
	if completed {
		var err error
		completedAt, err = sampler.AddDays(createdAt, sampler.IntBetween(p.rand, 1, 30))
		if err != nil {
			return err
		}
	}
	dueTS, err := sampler.AddDays(createdAt, sampler.IntBetween(p.rand, 7, 60))
	if err != nil {
		return err
	}
	dueDate, err := sampler.DateOnly(dueTS)
	if err != nil {
		return err
	}

	task := models.Task{
		ID:          taskID,
		ProjectID:   project.ID,
		SectionID:   sectionID,
		AssigneeID:  assigneeID,
		Name:        name,
		Completed:   completed,
		Priority:    sampler.Choice(p.rand, taskPriorities),
		DueDate:     dueDate,
		CreatedAt:   createdAt,
		CompletedAt: completedAt,
	}
	_, err = tx.Exec(`
		INSERT INTO tasks (task_id, project_id, section_id, assignee_id, name, completed,
		                   priority, due_date, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.ProjectID, task.SectionID, nullable(task.AssigneeID), task.Name,
		task.Completed, nullable(task.Priority), task.DueDate, task.CreatedAt,
		nullable(task.CompletedAt))
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}

	// Subtasks are one level deep and inherit the parent's section,
	// assignee, completion and timestamps.
	if sampler.Bernoulli(p.rand, p.cfg.Generator.SubtaskChance) {
		count := sampler.IntBetween(p.rand, 1, 4)
		for j := 0; j < count; j++ {
			subtask := models.Task{
				ID:           shared.GenerateID(),
				ProjectID:    task.ProjectID,
				SectionID:    task.SectionID,
				ParentTaskID: task.ID,
				AssigneeID:   task.AssigneeID,
				Name:         fmt.Sprintf("Subtask %d: %s", j+1, truncate(task.Name, subtaskNameMax)),
				Completed:    task.Completed,
				CreatedAt:    task.CreatedAt,
				CompletedAt:  task.CompletedAt,
			}
			_, err := tx.Exec(`
				INSERT INTO tasks (task_id, project_id, section_id, parent_task_id,
				                   assignee_id, name, completed, created_at, completed_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				subtask.ID, subtask.ProjectID, subtask.SectionID, subtask.ParentTaskID,
				nullable(subtask.AssigneeID), subtask.Name, subtask.Completed,
				subtask.CreatedAt, nullable(subtask.CompletedAt))
			if err != nil {
				return fmt.Errorf("failed to insert subtask: %w", err)
			}
		}
	}

	if sampler.Bernoulli(p.rand, p.cfg.Generator.CommentChance) && len(members) > 0 {
		commentedAt, err := sampler.AddHours(createdAt, sampler.IntBetween(p.rand, 1, 72))
		if err != nil {
			return err
		}
		comment := models.Comment{
			ID:        shared.GenerateID(),
			TaskID:    task.ID,
			AuthorID:  sampler.Choice(p.rand, members),
			Content:   sampler.Choice(p.rand, commentPhrases),
			CreatedAt: commentedAt,
		}
		_, err = tx.Exec(`
			INSERT INTO comments (comment_id, task_id, author_id, content, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			comment.ID, comment.TaskID, comment.AuthorID, comment.Content, comment.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert comment: %w", err)
		}
	}

	return nil
}

// cachedTaskNames returns the network-provided name batch for the
// department, calling the provider at most once per department per run.
// Provider failures are logged, negatively cached and downgrade the
// department to template names; they never fail the run.
func (p *Pipeline) cachedTaskNames(ctx context.Context, cache map[string][]string, department, projectType string) []string {
	if p.names == nil {
		return nil
	}
	if names, ok := cache[department]; ok {
		return names
	}

	names, err := p.names.TaskNames(ctx, department, projectType, llmNameBatch)
	if err != nil {
		p.logger.Warn("task name provider unavailable, using templates",
			"department", department, "err", err)
		names = nil
	}
	cache[department] = names
	return names
}

// teamMembers returns the team's member user ids in membership insert order.
func (p *Pipeline) teamMembers(tx *sql.Tx, teamID string) ([]string, error) {
	rows, err := tx.Query(
		`SELECT user_id FROM team_memberships WHERE team_id = ? ORDER BY rowid`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query team members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		members = append(members, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return members, nil
}
