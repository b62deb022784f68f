package httpserver

import (
	"net/http"
	"strconv"

	"messenger/internal/domain"
	"messenger/internal/pagination"
)

const maxPageSize = 100

type messageRequest struct {
	Text string `json:"text"`
}

type messagePageResponse struct {
	Messages   []*domain.Message `json:"messages"`
	NextCursor string            `json:"next_cursor,omitempty"`
	HasMore    bool              `json:"has_more"`
	Total      int               `json:"total"`
}

func (a *api) handleListMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID, ok := idParam(w, r, "chatID")
		if !ok {
			return
		}

		pageSize := a.pageSize
		if raw := r.URL.Query().Get("page_size"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 || n > maxPageSize {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid page_size"})
				return
			}
			pageSize = n
		}

		msgs, err := a.messages.History(r.Context(), CurrentLogin(r), chatID)
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		cursor, err := pagination.Decode(r.URL.Query().Get("cursor"), msgs)
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		page, next, hasMore, err := pagination.Page(msgs, cursor, pageSize)
		if err != nil {
			a.writeError(w, r, err)
			return
		}

		resp := messagePageResponse{Messages: page, HasMore: hasMore, Total: len(msgs)}
		if hasMore {
			resp.NextCursor = pagination.Encode(next, msgs)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (a *api) handleCreateMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID, ok := idParam(w, r, "chatID")
		if !ok {
			return
		}
		var req messageRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		msg, err := a.messages.Append(r.Context(), chatID, CurrentLogin(r), req.Text)
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	}
}

func (a *api) handleEditMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID, ok := idParam(w, r, "chatID")
		if !ok {
			return
		}
		messageID, ok := idParam(w, r, "messageID")
		if !ok {
			return
		}
		var req messageRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		msg, err := a.messages.Edit(r.Context(), CurrentLogin(r), chatID, messageID, req.Text)
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, msg)
	}
}

func (a *api) handleDeleteMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID, ok := idParam(w, r, "chatID")
		if !ok {
			return
		}
		messageID, ok := idParam(w, r, "messageID")
		if !ok {
			return
		}
		if err := a.messages.Delete(r.Context(), CurrentLogin(r), chatID, messageID); err != nil {
			a.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
