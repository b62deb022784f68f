package httpserver

import (
	"net/http"

	"messenger/internal/domain"
	"messenger/internal/service"
)

type registerRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *domain.User `json:"user"`
}

func (a *api) issueToken(w http.ResponseWriter, r *http.Request, status int, user *domain.User) {
	token, err := a.tokens.CreateForUser(user.Login)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, status, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

func (a *api) handleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		user, err := a.identity.CreateUser(r.Context(), service.RegisterInput{
			Login:    req.Login,
			Password: req.Password,
			Phone:    req.Phone,
		})
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		a.issueToken(w, r, http.StatusCreated, user)
	}
}

func (a *api) handleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		user, err := a.identity.Authenticate(r.Context(), req.Login, req.Password)
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		a.issueToken(w, r, http.StatusOK, user)
	}
}

func (a *api) handleMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := a.identity.Get(r.Context(), CurrentLogin(r))
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func (a *api) handleDeleteAccount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := a.identity.DeleteAccount(r.Context(), CurrentLogin(r)); err != nil {
			a.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
