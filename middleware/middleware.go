// Package middleware holds the JWT guards and the http.Handler chain wrapped around the router.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"obiabedidi/auth"
	"obiabedidi/errs"
	"obiabedidi/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
)

// Auth verifies bearer tokens issued by the auth package.
type Auth struct {
	issuer  *auth.Issuer
	revoker auth.Revoker
}

func NewAuth(issuer *auth.Issuer, revoker auth.Revoker) *Auth {
	return &Auth{issuer: issuer, revoker: revoker}
}

func (a *Auth) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		token, ok := auth.BearerToken(r)
		if !ok {
			if r.Header.Get("Authorization") == "" {
				utils.RespondWithError(w, http.StatusUnauthorized, "Missing token")
			} else {
				utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token format")
			}
			return
		}

		claims, err := a.verify(r.Context(), token)
		if err != nil {
			if errors.Is(err, errs.ErrUnauthenticated) {
				utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			utils.RespondWithErr(w, r, err)
			return
		}

		next(w, r.WithContext(utils.WithUser(r.Context(), claims.User())), ps)
	}
}

// OptionalAuth attaches the user when a valid token is present and proceeds either way.
func (a *Auth) OptionalAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if token, ok := auth.BearerToken(r); ok {
			claims, err := a.verify(r.Context(), token)
			switch {
			case err == nil:
				r = r.WithContext(utils.WithUser(r.Context(), claims.User()))
			case !errors.Is(err, errs.ErrUnauthenticated):
				log.Warn().Err(err).Msg("optional auth: token check failed")
			}
		}
		next(w, r, ps)
	}
}

func (a *Auth) verify(ctx context.Context, token string) (*auth.Claims, error) {
	return auth.Verify(ctx, a.issuer, a.revoker, token)
}
