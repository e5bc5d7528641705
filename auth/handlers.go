// Package auth signs users in with Google and issues the API's bearer tokens.
package auth

import (
	"net/http"
	"strings"
	"time"

	"obiabedidi/db"
	"obiabedidi/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
)

const stateCookie = "oauth_state"

type Handler struct {
	provider     Provider
	users        db.UserStore
	issuer       *Issuer
	revoker      Revoker
	cookieSecure bool
	now          func() time.Time
}

func NewHandler(provider Provider, users db.UserStore, issuer *Issuer, revoker Revoker, cookieSecure bool) *Handler {
	return &Handler{
		provider:     provider,
		users:        users,
		issuer:       issuer,
		revoker:      revoker,
		cookieSecure: cookieSecure,
		now:          time.Now,
	}
}

// BearerToken extracts the token from an "Authorization: Bearer ..." header.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if len(h) < 8 || !strings.EqualFold(h[:7], "Bearer ") {
		return "", false
	}
	return strings.TrimSpace(h[7:]), true
}

// Login serves GET /api/auth/google/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.provider.LoginURL(state), http.StatusTemporaryRedirect)
}

// Callback serves GET /api/auth/google/callback.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != q.Get("state") {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid state parameter")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	if reason := q.Get("error"); reason != "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "sign in was cancelled: "+reason)
		return
	}
	code := q.Get("code")
	if code == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	account, err := h.provider.Exchange(r.Context(), code)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	account.LastLoginAt = h.now()
	user, err := h.users.Upsert(r.Context(), account)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	token, exp, err := h.issuer.Issue(user)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	log.Info().Str("userId", user.ID).Msg("user signed in")
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"token":     token,
		"expiresAt": exp,
		"user":      user,
	})
}

// Me serves GET /api/auth/me. Anonymous callers get an unauthenticated session.
// The greeting uses the optional tz query parameter, an IANA zone name.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	at := h.now()
	if tz := r.URL.Query().Get("tz"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "unknown time zone "+tz)
			return
		}
		at = at.In(loc)
	}
	utils.RespondWithJSON(w, http.StatusOK, NewSession(utils.UserFromContext(r.Context()), at))
}

// Logout serves POST /api/auth/logout. The token stays revoked until it would have expired.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	token, ok := BearerToken(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "No token provided")
		return
	}
	claims, err := h.issuer.Parse(token)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	if h.revoker != nil && claims.ExpiresAt != nil {
		if err := h.revoker.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Sub(h.now())); err != nil {
			utils.RespondWithErr(w, r, err)
			return
		}
	}
	log.Info().Str("userId", utils.GetUserIDFromRequest(r)).Msg("user signed out")
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Logged out successfully"})
}
