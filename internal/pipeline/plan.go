package pipeline

import (
	"github.com/jackzampolin/hastd/internal/schema"
	"github.com/jackzampolin/hastd/internal/taskgraph"
)

// Plan is a decomposed schema with its schedule.
type Plan struct {
	Tasks    []schema.Task `json:"tasks" yaml:"tasks"`
	Order    []string      `json:"order" yaml:"order"`
	Levels   [][]string    `json:"levels" yaml:"levels"`
	Warnings []string      `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	graph *taskgraph.Graph
}

// Scheduled returns the tasks in execution order, skipping structural nodes.
func (p *Plan) Scheduled() []schema.Task {
	return p.graph.Tasks()
}

// NewPlan decomposes root and orders the resulting tasks. A schema with no
// extractable fields returns ErrNoTasks.
func NewPlan(root *schema.Schema) (*Plan, error) {
	tasks, warnings := schema.DecomposeWithWarnings(root)
	if len(tasks) == 0 {
		return nil, ErrNoTasks
	}

	g := taskgraph.Build(tasks)
	plan := &Plan{
		Tasks:  tasks,
		Order:  g.Order(),
		Levels: g.Levels(),
		graph:  g,
	}
	for _, w := range warnings {
		plan.Warnings = append(plan.Warnings, w.Error())
	}
	return plan, nil
}
