// internal/api/handler/group.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"splitledger/internal/api/types"
	"splitledger/internal/service"
	"splitledger/internal/util"
)

// GroupHandler handles HTTP requests related to groups and their members.
type GroupHandler struct {
	service service.GroupService
	logger  *slog.Logger
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(svc service.GroupService, logger *slog.Logger) *GroupHandler {
	return &GroupHandler{service: svc, logger: logger}
}

// CreateGroupRequest is the request body for creating a group.
type CreateGroupRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	CreatedBy   int64   `json:"created_by"`
}

// CreateGroup handles POST /groups.
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	group, err := h.service.CreateGroup(r.Context(), req.Name, req.Description, req.CreatedBy)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusCreated, group)
}

// GetGroup handles GET /groups/{groupID}. It returns the group together with
// its current member roster.
func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "groupID")
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	group, err := h.service.GetGroupWithMembers(r.Context(), id)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, group)
}

// ListGroups handles GET /groups. A user_id query parameter narrows the list
// to groups that user belongs to.
func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		userID := queryInt(r, "user_id", 0)
		if userID <= 0 {
			respondWithError(h.logger, w, util.ErrInvalidInput)
			return
		}
		groups, err := h.service.GetUserGroups(r.Context(), int64(userID))
		if err != nil {
			respondWithError(h.logger, w, err)
			return
		}
		respondWithJSON(h.logger, w, http.StatusOK, groups)
		return
	}

	groups, err := h.service.ListGroups(r.Context())
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, groups)
}

// AddMembersRequest is the request body for adding users to a group.
type AddMembersRequest struct {
	UserIDs []int64 `json:"user_ids"`
}

// AddMembers handles POST /groups/{groupID}/members.
func (h *GroupHandler) AddMembers(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	var req AddMembersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	members, err := h.service.AddMembers(r.Context(), groupID, req.UserIDs)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusCreated, members)
}

// RemoveMember handles DELETE /groups/{groupID}/members/{userID}.
func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	userID, err := pathID(r, "userID")
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	if err := h.service.RemoveMember(r.Context(), groupID, userID); err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, types.MessageResponse{Message: "member removed"})
}

// UpdateGroupRequest is the request body for updating a group.
type UpdateGroupRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// UpdateGroup handles PUT /groups/{groupID}.
func (h *GroupHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "groupID")
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	var req UpdateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	group, err := h.service.UpdateGroup(r.Context(), id, req.Name, req.Description)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, group)
}

// DeleteGroup handles DELETE /groups/{groupID}.
func (h *GroupHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "groupID")
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	if err := h.service.DeleteGroup(r.Context(), id); err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, types.MessageResponse{Message: "group deleted"})
}
