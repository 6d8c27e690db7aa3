// package services defines interface NameSource for synthesizing
// human-like text: task names, person names, and business phrases.
//
// Two implementations exist: TemplateSource (deterministic, always
// available) and LLMSource (network-backed, optional). Callers treat
// any LLMSource error as an unavailability signal and fall back to the
// template variant; it never fails a run.
package services

import "context"

// NameSource produces short task-name lines for a department working on
// a given project type.
type NameSource interface {
	// TaskNames returns up to count generated task names. An error is
	// the unavailability signal; callers fall back to the template
	// variant and must not propagate it.
	TaskNames(ctx context.Context, department, projectType string, count int) ([]string, error)

	// Name returns the name of the source (e.g. "template", "llm").
	Name() string
}
