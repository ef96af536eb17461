package handlers

import (
	"net/http"

	"gymledger/internal/websocket"
)

func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := parseInt(query.Get("limit"), 50)
	page := parseInt(query.Get("page"), 1)
	rows, err := h.audit.List(r.Context(), limit, (page-1)*limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load audit logs")
		return
	}
	payload := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		payload = append(payload, map[string]any{
			"id":          row.ID,
			"actor_id":    row.ActorID,
			"action":      row.Action,
			"entity_type": row.EntityType,
			"entity_id":   row.EntityID,
			"data":        row.Data,
			"created_at":  row.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, payload)
}

// WSCredits upgrades the connection and streams credit updates for one user.
func (h *Handler) WSCredits(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if _, err := h.users.GetByID(r.Context(), userID); err != nil {
		respondError(w, http.StatusNotFound, "user_not_found")
		return
	}
	websocket.ServeWS(w, r, h.hub, userID)
}
