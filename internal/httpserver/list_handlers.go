package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"messenger/internal/domain"
)

type listMemberRequest struct {
	Login string `json:"login"`
}

type listResponse struct {
	Kind    domain.ListKind `json:"kind"`
	Members []string        `json:"members"`
}

func listKindParam(w http.ResponseWriter, r *http.Request) (domain.ListKind, bool) {
	kind, err := domain.ParseListKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return "", false
	}
	return kind, true
}

func (a *api) handleListMembers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, ok := listKindParam(w, r)
		if !ok {
			return
		}
		members, err := a.lists.ListMembers(r.Context(), CurrentLogin(r), kind)
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, listResponse{Kind: kind, Members: members})
	}
}

func (a *api) handleAddListMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, ok := listKindParam(w, r)
		if !ok {
			return
		}
		var req listMemberRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := a.lists.AddMember(r.Context(), CurrentLogin(r), kind, req.Login); err != nil {
			a.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (a *api) handleRemoveListMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, ok := listKindParam(w, r)
		if !ok {
			return
		}
		if err := a.lists.RemoveMember(r.Context(), CurrentLogin(r), kind, chi.URLParam(r, "login")); err != nil {
			a.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
