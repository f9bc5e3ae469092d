package handler

import (
	"net/http"

	"github.com/neboloop/cryptoportal/internal/httputil"
	"github.com/neboloop/cryptoportal/internal/svc"
	"github.com/neboloop/cryptoportal/internal/types"
)

func HealthCheckHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.OkJSON(w, &types.HealthResponse{Status: "ok"})
	}
}
