package services

import (
	"context"
	"math/rand"
	"strings"
)

// taskTemplates maps a department (or "default") to fill-in-the-blank
// task name skeletons. Placeholder tokens are replaced from the
// placeholders table.
var taskTemplates = map[string][]string{
	"Engineering": {
		"Implement {feature} API endpoint",
		"Fix bug in {component}",
		"Refactor {module} for performance",
		"Add unit tests for {feature}",
		"Update {library} to latest version",
		"Review PR for {feature}",
		"Set up CI/CD for {service}",
		"Optimize database queries in {module}",
		"Document {feature} architecture",
		"Deploy {service} to staging",
	},
	"Marketing": {
		"Create blog post about {topic}",
		"Design email campaign for {campaign}",
		"Update landing page copy",
		"Analyze campaign metrics",
		"Schedule social media posts",
		"Create product demo video",
		"Review competitor messaging",
		"Plan webinar content",
		"Update brand guidelines",
		"Write case study draft",
	},
	"Sales": {
		"Follow up with {company}",
		"Prepare demo for {prospect}",
		"Update CRM records",
		"Send proposal to {client}",
		"Schedule discovery call",
		"Complete quarterly forecast",
		"Update sales deck",
		"Review contract terms",
		"Onboard new account",
		"Research target accounts",
	},
	"Product": {
		"Write PRD for {feature}",
		"Analyze user feedback",
		"Prioritize backlog items",
		"Create wireframes for {feature}",
		"Plan sprint goals",
		"Review analytics dashboard",
		"Define success metrics",
		"Conduct user interviews",
		"Update product roadmap",
		"Sync with engineering team",
	},
	"default": {
		"Complete {item} review",
		"Update documentation",
		"Prepare status report",
		"Schedule team meeting",
		"Review project timeline",
		"Send weekly update",
		"Organize project files",
		"Follow up on action items",
		"Update project tracker",
		"Plan next quarter goals",
	},
}

// placeholders is an ordered list so replacement order is stable under
// a fixed seed.
var placeholders = []struct {
	token  string
	values []string
}{
	{"{feature}", []string{"user auth", "dashboard", "notifications", "search", "payments", "analytics", "reports"}},
	{"{component}", []string{"login flow", "checkout", "data pipeline", "API gateway", "cache layer"}},
	{"{module}", []string{"auth service", "billing module", "notification system", "user service"}},
	{"{library}", []string{"React", "Node.js", "Python SDK", "database driver"}},
	{"{service}", []string{"web app", "backend API", "worker service"}},
	{"{topic}", []string{"product updates", "industry trends", "customer success stories"}},
	{"{campaign}", []string{"Q1 launch", "product release", "holiday promo"}},
	{"{company}", []string{"Acme Corp", "TechStart Inc", "Global Systems"}},
	{"{prospect}", []string{"enterprise client", "new lead", "warm prospect"}},
	{"{client}", []string{"existing customer", "renewal account"}},
	{"{item}", []string{"weekly", "monthly", "quarterly"}},
}

var firstNames = []string{
	"Alex", "Jordan", "Morgan", "Taylor", "Casey", "Riley", "Avery",
	"Jamie", "Quinn", "Dana", "Maria", "James", "Elena", "Marcus",
	"Priya", "Daniel", "Sofia", "Kevin", "Nadia", "Omar", "Grace",
	"Victor", "Lena", "Felix", "Ingrid", "Hugo", "Wei", "Amara",
	"Ravi", "Chloe", "Mateo", "Yuki",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Garcia", "Miller",
	"Davis", "Martinez", "Lopez", "Wilson", "Anderson", "Thomas",
	"Moore", "Jackson", "Lee", "Patel", "Nguyen", "Kim", "Chen",
	"Singh", "Kumar", "Ali", "Khan", "Petrov", "Silva", "Costa",
	"Fischer", "Weber", "Rossi", "Tanaka", "Novak", "Haddad",
}

// Business phrase vocabulary for project names, "verb adjective noun"
// in title case.
var (
	phraseVerbs = []string{
		"Streamline", "Optimize", "Scale", "Accelerate", "Modernize",
		"Unify", "Automate", "Redesign", "Consolidate", "Launch",
	}
	phraseAdjectives = []string{
		"Scalable", "Seamless", "Strategic", "Global", "Agile",
		"Integrated", "Resilient", "Customer-Facing", "Internal", "Core",
	}
	phraseNouns = []string{
		"Workflows", "Pipelines", "Platforms", "Integrations",
		"Onboarding", "Reporting", "Infrastructure", "Partnerships",
		"Experiences", "Operations",
	}
)

// TemplateSource is the deterministic, always-available text synthesis
// variant. It draws from fixed vocabularies with a seeded random stream.
type TemplateSource struct {
	rand *rand.Rand
}

// NewTemplateSource creates a TemplateSource drawing from r.
func NewTemplateSource(r *rand.Rand) *TemplateSource {
	return &TemplateSource{rand: r}
}

// Name returns the source name.
func (t *TemplateSource) Name() string { return "template" }

// TaskNames generates count task names for the department. The project
// type is ignored; template skeletons are keyed by department only.
// TemplateSource never signals unavailability.
func (t *TemplateSource) TaskNames(_ context.Context, department, _ string, count int) ([]string, error) {
	names := make([]string, count)
	for i := range names {
		names[i] = t.TaskName(department)
	}
	return names, nil
}

// TaskName generates a single task name by filling a department
// template's placeholder tokens from the vocabulary.
func (t *TemplateSource) TaskName(department string) string {
	templates, ok := taskTemplates[department]
	if !ok {
		templates = taskTemplates["default"]
	}
	name := templates[t.rand.Intn(len(templates))]

	for _, p := range placeholders {
		if strings.Contains(name, p.token) {
			name = strings.ReplaceAll(name, p.token, p.values[t.rand.Intn(len(p.values))])
		}
	}
	return name
}

// FullName generates a human-like "First Last" name.
func (t *TemplateSource) FullName() string {
	first := firstNames[t.rand.Intn(len(firstNames))]
	last := lastNames[t.rand.Intn(len(lastNames))]
	return first + " " + last
}

// BusinessPhrase generates a title-cased business phrase for project names.
func (t *TemplateSource) BusinessPhrase() string {
	verb := phraseVerbs[t.rand.Intn(len(phraseVerbs))]
	adj := phraseAdjectives[t.rand.Intn(len(phraseAdjectives))]
	noun := phraseNouns[t.rand.Intn(len(phraseNouns))]
	return verb + " " + adj + " " + noun
}
