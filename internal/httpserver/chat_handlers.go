package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type chatCreateRequest struct {
	Members []string `json:"members"`
}

type chatMemberRequest struct {
	Login string `json:"login"`
}

func (a *api) handleListChats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chats, err := a.chats.ListChatsFor(r.Context(), CurrentLogin(r))
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, chats)
	}
}

func (a *api) handleCreateChat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatCreateRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		chat, err := a.chats.CreateChat(r.Context(), CurrentLogin(r), req.Members)
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, chat)
	}
}

func (a *api) handleGetChat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID, ok := idParam(w, r, "chatID")
		if !ok {
			return
		}
		chat, err := a.chats.Get(r.Context(), CurrentLogin(r), chatID)
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, chat)
	}
}

func (a *api) handleDeleteChat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID, ok := idParam(w, r, "chatID")
		if !ok {
			return
		}
		if err := a.chats.DeleteChat(r.Context(), CurrentLogin(r), chatID); err != nil {
			a.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (a *api) handleAddChatMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID, ok := idParam(w, r, "chatID")
		if !ok {
			return
		}
		var req chatMemberRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := a.chats.AddMember(r.Context(), CurrentLogin(r), chatID, req.Login); err != nil {
			a.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (a *api) handleRemoveChatMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID, ok := idParam(w, r, "chatID")
		if !ok {
			return
		}
		if err := a.chats.RemoveMember(r.Context(), CurrentLogin(r), chatID, chi.URLParam(r, "login")); err != nil {
			a.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
