package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"teamtasks/internal/domain"
	"teamtasks/internal/models"
	"teamtasks/internal/service"
)

// ListTasksHandler - GET /api/tasks. Optional query: userId narrows the
// visible set to one assignee, group=deadline|assignee buckets the result.
func (h *Handler) ListTasksHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filterID *int
	if raw := q.Get("userId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, r, fmt.Errorf("%w: userId must be an integer", domain.ErrValidation))
			return
		}
		filterID = &id
	}

	group := q.Get("group")
	switch group {
	case "", "deadline", "assignee":
	default:
		h.writeError(w, r, fmt.Errorf("%w: group must be deadline or assignee", domain.ErrValidation))
		return
	}

	tasks, err := h.tasks.List(r.Context(), currentUser(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if filterID != nil {
		tasks = service.FilterByAssignee(tasks, *filterID)
	}

	switch group {
	case "deadline":
		writeJSON(w, http.StatusOK, models.NewDeadlineGroups(service.GroupByDeadline(tasks, h.now())))
	case "assignee":
		writeJSON(w, http.StatusOK, models.NewAssigneeGroups(service.GroupByAssignee(tasks)))
	default:
		writeJSON(w, http.StatusOK, models.NewTaskList(tasks))
	}
}

// CreateTaskHandler - POST /api/tasks, authored by the current user.
func (h *Handler) CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	t, err := h.tasks.Create(r.Context(), currentUser(r), req.Input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.NewTaskResponse(t))
}

// UpdateTaskHandler - PUT /api/tasks/{id}. Which submitted fields are applied
// depends on the caller's relation to the task.
func (h *Handler) UpdateTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req models.UpdateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	t, err := h.tasks.Update(r.Context(), currentUser(r), id, req.Patch())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewTaskResponse(t))
}

// DeleteTaskHandler - DELETE /api/tasks/{id}.
func (h *Handler) DeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.tasks.Delete(r.Context(), currentUser(r), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Task deleted successfully"})
}

func taskID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return 0, fmt.Errorf("%w: invalid task id", domain.ErrNotFound)
	}
	return id, nil
}
