package service

import (
	"sort"
	"time"

	"teamtasks/internal/domain"
)

// DeadlineGroups buckets tasks by how soon they are due.
type DeadlineGroups struct {
	Today  []domain.Task
	Week   []domain.Task
	Future []domain.Task
}

// AssigneeGroup is the tasks of one assignee.
type AssigneeGroup struct {
	UserID int
	Tasks  []domain.Task
}

// GroupByDeadline splits tasks relative to now. Today holds everything due
// up to the end of now's calendar day (overdue included), Week everything
// after that up to now+7 days, Future the rest. Input order is kept inside
// each bucket.
func GroupByDeadline(tasks []domain.Task, now time.Time) DeadlineGroups {
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, 1).Add(-time.Nanosecond)
	weekLater := now.AddDate(0, 0, 7)

	groups := DeadlineGroups{
		Today:  []domain.Task{},
		Week:   []domain.Task{},
		Future: []domain.Task{},
	}
	for _, t := range tasks {
		switch {
		case !t.Deadline.After(endOfDay):
			groups.Today = append(groups.Today, t)
		case !t.Deadline.After(weekLater):
			groups.Week = append(groups.Week, t)
		default:
			groups.Future = append(groups.Future, t)
		}
	}
	return groups
}

// GroupByAssignee groups tasks per UserID in first-seen order.
func GroupByAssignee(tasks []domain.Task) []AssigneeGroup {
	index := make(map[int]int)
	groups := []AssigneeGroup{}
	for _, t := range tasks {
		i, ok := index[t.UserID]
		if !ok {
			i = len(groups)
			index[t.UserID] = i
			groups = append(groups, AssigneeGroup{UserID: t.UserID})
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}
	return groups
}

// FilterByAssignee keeps the tasks assigned to userID.
func FilterByAssignee(tasks []domain.Task, userID int) []domain.Task {
	out := []domain.Task{}
	for _, t := range tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

// SortByUpdated orders tasks most recently updated first, ties by id
// descending.
func SortByUpdated(tasks []domain.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if !tasks[i].UpdatedAt.Equal(tasks[j].UpdatedAt) {
			return tasks[i].UpdatedAt.After(tasks[j].UpdatedAt)
		}
		return tasks[i].ID > tasks[j].ID
	})
}
