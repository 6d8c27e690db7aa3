// package models defines the entity rows produced by the generation pipeline.
//
// Every entity is created once, in one pipeline pass, and never updated
// or deleted after insertion, so these are plain value types without
// lifecycle machinery. Timestamps are fixed-layout strings matching the
// store contract ("2006-01-02 15:04:05"; due dates "2006-01-02").
// Optional references are empty strings rather than pointers; the
// insert statements translate them to NULL.
package models

// Organization is the root entity; exactly one instance per run.
type Organization struct {
	ID        string
	Name      string
	Domain    string
	CreatedAt string
}

// User belongs to the organization and to zero or more teams via Membership.
type User struct {
	ID         string
	OrgID      string
	FullName   string
	Email      string
	Department string
	Role       string
	CreatedAt  string
}

// Team groups users within one department.
type Team struct {
	ID         string
	OrgID      string
	Name       string
	Department string
	CreatedAt  string
}

// Membership links a user to a team. The (TeamID, UserID) pair is
// unique in the store; duplicate inserts are absorbed.
type Membership struct {
	ID       string
	TeamID   string
	UserID   string
	Role     string
	JoinedAt string
}

// Project belongs to a team; OwnerID is empty when the team has no members.
type Project struct {
	ID          string
	TeamID      string
	OwnerID     string
	Name        string
	ProjectType string
	Status      string
	CreatedAt   string
	DueDate     string
}

// Section is one ordered column of a project board. OrderIndex values
// within a project form a dense zero-based sequence.
type Section struct {
	ID         string
	ProjectID  string
	Name       string
	OrderIndex int
	CreatedAt  string
}

// Task is a unit of work filed in a section. ParentTaskID is set only
// on subtasks, which are exactly one level deep. CompletedAt is set iff
// Completed is true.
type Task struct {
	ID           string
	ProjectID    string
	SectionID    string
	ParentTaskID string
	AssigneeID   string
	Name         string
	Description  string
	Completed    bool
	Priority     string
	DueDate      string
	CreatedAt    string
	CompletedAt  string
}

// Comment is authored by a member of the task's project team.
type Comment struct {
	ID        string
	TaskID    string
	AuthorID  string
	Content   string
	CreatedAt string
}
