// Package web renders the reset page as server-side HTML.
package web

import (
	"math"
	"net/http"
	"strings"

	"github.com/neboloop/cryptoportal/internal/httputil"
	"github.com/neboloop/cryptoportal/internal/resetflow"
)

// ResetPath is where the reset page is served and where its form posts.
const ResetPath = "/reset-password"

// ResetData is the template input for one rendering of the reset page.
type ResetData struct {
	Kind     string // loading, invalid, form or success
	Title    string
	Message  string
	Error    string
	Busy     bool
	Token    string
	Action   string
	LoginURL string

	// RefreshAfter is the meta refresh delay in seconds, set only on success.
	RefreshAfter int
}

// NewResetData maps a view onto template data. baseURL is prepended to the
// redirect path so the login link works from any host.
func NewResetData(v resetflow.View, token, baseURL string) ResetData {
	d := ResetData{Title: v.Title(), Token: token, Action: ResetPath}
	switch v := v.(type) {
	case resetflow.Invalid:
		d.Kind = "invalid"
		d.Message = v.Message
	case resetflow.Form:
		d.Kind = "form"
		d.Error = v.Error
		d.Busy = v.Busy
	case resetflow.Success:
		d.Kind = "success"
		d.Message = v.Message
		d.LoginURL = strings.TrimRight(baseURL, "/") + v.Redirect.Path
		d.RefreshAfter = int(math.Ceil(v.Redirect.After.Seconds()))
	default:
		d.Kind = "loading"
	}
	return d
}

// StatusFor picks the response code for a view.
func StatusFor(v resetflow.View) int {
	switch v := v.(type) {
	case resetflow.Invalid:
		return http.StatusGone
	case resetflow.Form:
		if v.Error != "" {
			return http.StatusBadRequest
		}
	}
	return http.StatusOK
}

// RenderReset writes the reset page for v.
func RenderReset(w http.ResponseWriter, v resetflow.View, token, baseURL string) {
	httputil.HTML(w, StatusFor(v), resetPage, "focus", NewResetData(v, token, baseURL))
}
