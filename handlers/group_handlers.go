package handlers

import (
	"net/http"

	"pipsplit-backend/models"

	"github.com/go-chi/chi/v5"
)

type CreateGroupRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=50"`
	CurrencyCode string `json:"currency_code" validate:"omitempty,len=3"`
	DisplayName  string `json:"display_name" validate:"required,min=1,max=50"`
}

type UpdateGroupRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=50"`
	CurrencyCode string `json:"currency_code" validate:"omitempty,len=3"`
}

type MemberRequest struct {
	DisplayName string  `json:"display_name" validate:"required,min=1,max=50"`
	Email       string  `json:"email" validate:"omitempty,email"`
	UserID      *string `json:"user_id,omitempty" validate:"omitempty,uuid"`
	Active      *bool   `json:"active,omitempty"`
	GroupAdmin  bool    `json:"group_admin"`
}

type CategoryRequest struct {
	Name   string `json:"name" validate:"required,min=1,max=50"`
	Active *bool  `json:"active,omitempty"`
}

func (h *Handlers) GetGroups(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	groups, err := h.groupService.GetByUserID(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, groups)
}

func (h *Handlers) GetGroup(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	groupID := chi.URLParam(r, "groupID")
	group, err := h.groupService.GetByID(r.Context(), groupID, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, group)
}

func (h *Handlers) CreateGroup(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	var req CreateGroupRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, err)
		return
	}

	group := &models.Group{
		Name:         req.Name,
		CurrencyCode: req.CurrencyCode,
	}

	group, err = h.groupService.Create(r.Context(), userID, req.DisplayName, group)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, group)
}

func (h *Handlers) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	groupID := chi.URLParam(r, "groupID")

	var req UpdateGroupRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, err)
		return
	}

	group := &models.Group{
		Name:         req.Name,
		CurrencyCode: req.CurrencyCode,
	}

	group, err = h.groupService.Update(r.Context(), groupID, userID, group)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, group)
}

func (h *Handlers) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	groupID := chi.URLParam(r, "groupID")
	if err := h.groupService.Delete(r.Context(), groupID, userID); err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Group deleted successfully"})
}

func (h *Handlers) GetMembers(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	groupID := chi.URLParam(r, "groupID")
	members, err := h.memberService.GetByGroupID(r.Context(), groupID, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, members)
}

func (h *Handlers) CreateMember(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	groupID := chi.URLParam(r, "groupID")

	var req MemberRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, err)
		return
	}

	member := &models.Member{
		GroupID:     groupID,
		UserID:      req.UserID,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		GroupAdmin:  req.GroupAdmin,
	}

	member, err = h.memberService.Create(r.Context(), userID, member)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, member)
}

func (h *Handlers) UpdateMember(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	memberID := chi.URLParam(r, "memberID")

	var req MemberRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, err)
		return
	}

	member := &models.Member{
		UserID:      req.UserID,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		GroupAdmin:  req.GroupAdmin,
		Active:      true,
	}
	if req.Active != nil {
		member.Active = *req.Active
	}

	member, err = h.memberService.Update(r.Context(), memberID, userID, member)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, member)
}

func (h *Handlers) DeactivateMember(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	memberID := chi.URLParam(r, "memberID")
	if err := h.memberService.Deactivate(r.Context(), memberID, userID); err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Member deactivated successfully"})
}

func (h *Handlers) GetCategories(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	groupID := chi.URLParam(r, "groupID")
	categories, err := h.categoryService.GetByGroupID(r.Context(), groupID, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, categories)
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	groupID := chi.URLParam(r, "groupID")

	var req CategoryRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, err)
		return
	}

	category := &models.Category{
		GroupID: groupID,
		Name:    req.Name,
	}

	category, err = h.categoryService.Create(r.Context(), userID, category)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, category)
}

func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	categoryID := chi.URLParam(r, "categoryID")

	var req CategoryRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, err)
		return
	}

	category := &models.Category{
		Name:   req.Name,
		Active: true,
	}
	if req.Active != nil {
		category.Active = *req.Active
	}

	category, err = h.categoryService.Update(r.Context(), categoryID, userID, category)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, category)
}

func (h *Handlers) DeactivateCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	categoryID := chi.URLParam(r, "categoryID")
	if err := h.categoryService.Deactivate(r.Context(), categoryID, userID); err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Category deactivated successfully"})
}
