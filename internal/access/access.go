// Package access decides what a requester may see and change. Every function
// here is pure: callers look up subordinates and tasks and pass them in.
package access

import "teamtasks/internal/domain"

// Decision is the scope an update request is allowed to touch.
type Decision int

const (
	// Forbidden means the request may not change the task at all.
	Forbidden Decision = iota

	// StatusOnly means only the status field is applied; everything else
	// submitted with the request is discarded.
	StatusOnly

	// FullUpdate means every submitted field is applied.
	FullUpdate
)

func (d Decision) String() string {
	switch d {
	case FullUpdate:
		return "full"
	case StatusOnly:
		return "status-only"
	}
	return "forbidden"
}

// VisibleUserIDs returns the ids whose tasks requester may list. A leader sees
// itself plus its direct subordinates; anyone else sees only itself. The
// requester always comes first and duplicates are dropped.
func VisibleUserIDs(requester domain.User, subordinateIDs []int) []int {
	ids := []int{requester.ID}
	if !requester.IsLeader() {
		return ids
	}
	seen := map[int]struct{}{requester.ID: {}}
	for _, id := range subordinateIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// CanFullyEdit reports whether requester may change every field of task.
func CanFullyEdit(requester domain.User, task domain.Task) bool {
	return task.CreatedBy == requester.ID || requester.IsLeader()
}

// CanAssign reports whether assigneeID belongs to the visible set.
func CanAssign(visible []int, assigneeID int) bool {
	for _, id := range visible {
		if id == assigneeID {
			return true
		}
	}
	return false
}

// EvaluateUpdate picks the field scope for an update of task by requester.
// A requester without full edit rights may only move the task to a different
// status; a request that does not change the status is forbidden. The
// status-only path does not check that requester is the assignee.
func EvaluateUpdate(requester domain.User, task domain.Task, patch domain.TaskPatch) Decision {
	if CanFullyEdit(requester, task) {
		return FullUpdate
	}
	if patch.Status != nil && *patch.Status != task.Status {
		return StatusOnly
	}
	return Forbidden
}
