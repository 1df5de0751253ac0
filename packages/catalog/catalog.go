package catalog

import (
	"fmt"
	"strings"
)

// HTTP methods a step may use
const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodDelete = "DELETE"
)

// Step is one declarative HTTP test case
type Step struct {
	ID               string         `yaml:"id" json:"id"`
	Title            string         `yaml:"title" json:"title"`
	Description      string         `yaml:"description,omitempty" json:"description,omitempty"`
	Method           string         `yaml:"method" json:"method"`
	Endpoint         string         `yaml:"endpoint" json:"endpoint"`
	Body             map[string]any `yaml:"body,omitempty" json:"body,omitempty"`
	ExpectedBehavior string         `yaml:"expectedBehavior,omitempty" json:"expectedBehavior,omitempty"`
}

// HasBody reports whether the step carries a request payload
func (s Step) HasBody() bool {
	return s.Body != nil
}

// Catalog is an ordered, immutable list of steps
type Catalog struct {
	steps []Step
	index map[string]int
}

// New builds a catalog, rejecting duplicate ids and malformed steps.
func New(steps []Step) (*Catalog, error) {
	c := &Catalog{
		steps: make([]Step, 0, len(steps)),
		index: make(map[string]int, len(steps)),
	}

	for i, s := range steps {
		s.Method = strings.ToUpper(strings.TrimSpace(s.Method))
		if err := validateStep(s); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		if _, dup := c.index[s.ID]; dup {
			return nil, fmt.Errorf("step %d: duplicate id %q", i+1, s.ID)
		}
		s.Body = cloneBody(s.Body)
		c.index[s.ID] = len(c.steps)
		c.steps = append(c.steps, s)
	}

	return c, nil
}

// MustNew is like New but panics on an invalid catalog
func MustNew(steps []Step) *Catalog {
	c, err := New(steps)
	if err != nil {
		panic(err)
	}
	return c
}

func validateStep(s Step) error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("id is required")
	}

	switch s.Method {
	case MethodGet, MethodDelete:
		if s.HasBody() {
			return fmt.Errorf("%s: %s step must not carry a body", s.ID, s.Method)
		}
	case MethodPost, MethodPut:
		if !s.HasBody() {
			return fmt.Errorf("%s: %s step requires a body", s.ID, s.Method)
		}
	default:
		return fmt.Errorf("%s: unsupported method %q (use GET, POST, PUT or DELETE)", s.ID, s.Method)
	}

	if !strings.HasPrefix(s.Endpoint, "/") {
		return fmt.Errorf("%s: endpoint must start with /", s.ID)
	}

	return nil
}

func cloneBody(body map[string]any) map[string]any {
	if body == nil {
		return nil
	}
	out := make(map[string]any, len(body))
	for k, v := range body {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue deep-copies the maps and slices a decoded body can hold
func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneBody(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// Steps returns a copy of the steps in catalog order
func (c *Catalog) Steps() []Step {
	out := make([]Step, len(c.steps))
	for i, s := range c.steps {
		s.Body = cloneBody(s.Body)
		out[i] = s
	}
	return out
}

// Get looks up a step by id
func (c *Catalog) Get(id string) (Step, bool) {
	i, ok := c.index[id]
	if !ok {
		return Step{}, false
	}
	s := c.steps[i]
	s.Body = cloneBody(s.Body)
	return s, true
}

// IDs returns the step ids in catalog order
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.steps))
	for i, s := range c.steps {
		ids[i] = s.ID
	}
	return ids
}

func (c *Catalog) Len() int {
	return len(c.steps)
}

// Select returns the steps whose ids are listed, in catalog order.
// Unknown ids are reported as an error.
func (c *Catalog) Select(ids []string) ([]Step, error) {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := c.index[id]; !ok {
			return nil, fmt.Errorf("unknown step %q", id)
		}
		wanted[id] = true
	}

	var out []Step
	for _, s := range c.steps {
		if wanted[s.ID] {
			s.Body = cloneBody(s.Body)
			out = append(out, s)
		}
	}
	return out, nil
}
