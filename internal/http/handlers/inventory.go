package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"pantrypal-backend/internal/http/middleware"
	"pantrypal-backend/internal/response"
	"pantrypal-backend/internal/services"
)

type InventoryHandler struct {
	svc *services.InventoryService
	log *zap.Logger
}

func NewInventoryHandler(svc *services.InventoryService, log *zap.Logger) *InventoryHandler {
	return &InventoryHandler{svc: svc, log: log}
}

func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request, id middleware.Identity) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))

	items, err := h.svc.List(id.UserID, services.ItemFilter{
		Status:    q.Get("status"),
		Category:  q.Get("category"),
		Frequency: q.Get("frequency"),
		Search:    q.Get("search"),
		SortBy:    q.Get("sortBy"),
		SortDir:   q.Get("sortDir"),
		Page:      page,
		Size:      size,
	})
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, items)
}

func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request, id middleware.Identity) {
	itemID, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := h.svc.Get(id.UserID, itemID)
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, item)
}

func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request, id middleware.Identity) {
	var in services.ItemRequest
	if err := decodeJSON(r, &in); err != nil {
		response.WriteErr(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	item, err := h.svc.Create(id.UserID, in)
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, item)
}

func (h *InventoryHandler) BulkCreate(w http.ResponseWriter, r *http.Request, id middleware.Identity) {
	var in struct {
		Items []services.ItemRequest `json:"items"`
	}
	if err := decodeJSON(r, &in); err != nil {
		response.WriteErr(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	items, err := h.svc.BulkCreate(id.UserID, in.Items)
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, items)
}

func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request, id middleware.Identity) {
	itemID, ok := pathID(w, r)
	if !ok {
		return
	}
	var in services.ItemRequest
	if err := decodeJSON(r, &in); err != nil {
		response.WriteErr(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	item, err := h.svc.Update(id.UserID, itemID, in)
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, item)
}

func (h *InventoryHandler) Patch(w http.ResponseWriter, r *http.Request, id middleware.Identity) {
	itemID, ok := pathID(w, r)
	if !ok {
		return
	}
	var in services.ItemRequest
	if err := decodeJSON(r, &in); err != nil {
		response.WriteErr(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	item, err := h.svc.Patch(id.UserID, itemID, in)
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, item)
}

func (h *InventoryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, id middleware.Identity) {
	itemID, ok := pathID(w, r)
	if !ok {
		return
	}
	var in struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &in); err != nil {
		response.WriteErr(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	item, err := h.svc.UpdateStatus(id.UserID, itemID, in.Status)
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, item)
}

func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request, id middleware.Identity) {
	itemID, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(id.UserID, itemID); err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]string{"message": "Item deleted"})
}

func (h *InventoryHandler) BulkDelete(w http.ResponseWriter, r *http.Request, id middleware.Identity) {
	var in struct {
		IDs []uint `json:"ids"`
	}
	if err := decodeJSON(r, &in); err != nil {
		response.WriteErr(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	deleted, err := h.svc.BulkDelete(id.UserID, in.IDs)
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := r.PathValue("id")
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		response.WriteErr(w, http.StatusBadRequest, "Invalid item id")
		return 0, false
	}
	return uint(n), true
}
