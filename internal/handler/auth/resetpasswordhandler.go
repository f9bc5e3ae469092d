package auth

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/neboloop/cryptoportal/internal/credential"
	"github.com/neboloop/cryptoportal/internal/httputil"
	"github.com/neboloop/cryptoportal/internal/logging"
	"github.com/neboloop/cryptoportal/internal/resetflow"
	"github.com/neboloop/cryptoportal/internal/svc"
	"github.com/neboloop/cryptoportal/internal/types"
	"github.com/neboloop/cryptoportal/internal/web"
)

// newPage builds a page for one request. Backend calls carry the browser's own
// session token, never the operator's stored one.
func newPage(svcCtx *svc.ServiceContext, r *http.Request, token string) *resetflow.Page {
	api := svcCtx.API.For(credential.Cookie(r, svcCtx.Config.Credentials.CookieName))
	return resetflow.New(api, token, svcCtx.PageOptions()...)
}

// ResetPasswordPageHandler shows the reset form for the token in the query,
// or the expired-link view.
func ResetPasswordPageHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ResetPasswordPageRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.ErrorWithCode(w, http.StatusBadRequest, err.Error())
			return
		}

		page := newPage(svcCtx, r, req.Token)
		defer page.Close()

		page.Mount(r.Context())
		web.RenderReset(w, page.View(), req.Token, svcCtx.Config.App.BaseURL)
	}
}

// ResetPasswordHandler accepts the posted form. The token is verified again
// before submitting so a stale form cannot skip the check.
func ResetPasswordHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ResetPasswordRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.ErrorWithCode(w, http.StatusBadRequest, err.Error())
			return
		}

		log := logging.WithContext(r.Context()).WithField("request_id", chimw.GetReqID(r.Context()))

		page := newPage(svcCtx, r, req.Token)
		defer page.Close()

		page.Mount(r.Context())
		if !page.Phase().Valid() {
			log.Debugf("reset submitted for unusable token")
			web.RenderReset(w, page.View(), req.Token, svcCtx.Config.App.BaseURL)
			return
		}

		page.SetPassword(req.Password)
		page.SetConfirm(req.Confirm)
		if err := page.Submit(r.Context()); err != nil {
			log.Debugf("reset not completed: %v", err)
		} else {
			log.Info("password reset completed")
		}

		web.RenderReset(w, page.View(), req.Token, svcCtx.Config.App.BaseURL)
	}
}
