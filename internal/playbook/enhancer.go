package playbook

import "context"

// Enhancer rewrites a deterministic playbook draft into tighter prose.
// Implementations must not add facts that are absent from the draft.
type Enhancer interface {
	// Refine returns the rewritten brief. Callers treat an error or an
	// empty result as "keep the draft".
	Refine(ctx context.Context, draft string) (string, error)

	// ModelName returns the model identifier for diagnostics.
	ModelName() string
}
