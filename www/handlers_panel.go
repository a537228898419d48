package www

import (
	"html/template"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"fleetpanel/codec"
	"fleetpanel/dispatch"
	"fleetpanel/identity"
	"fleetpanel/view"
)

func (h *Handlers) handleDashboard(w http.ResponseWriter, r *http.Request) {
	page := view.BuildPage(h.nodes.All(), h.files.List())
	h.render(w, "dashboard.html", map[string]any{
		"Page":          "dashboard",
		"View":          page,
		"Notice":        r.URL.Query().Get("msg"),
		"Authenticated": h.isAuthenticated(r),
	})
}

// handleActionForm renders the collect step for one workflow: a form whose
// fields mirror the prompt sequence, pre-filled the way the prompts would
// be.
func (h *Handlers) handleActionForm(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "action")
	if _, known := actionRegistry[action]; !known {
		http.NotFound(w, r)
		return
	}

	// The dashboard links carry the encoded target in the query string and
	// net/http decodes query values on parse, so the value here is already
	// the raw id.
	target := r.URL.Query().Get("target")
	if target == "" {
		http.Error(w, "bad target", http.StatusBadRequest)
		return
	}

	data := map[string]any{
		"Page":          "action",
		"Action":        action,
		"Target":        target,
		"EncodedTarget": codec.EncodeSegment(target),
		"FileURL":       r.URL.Query().Get("url"),
		"Authenticated": true,
		"Min":           "16",
		"Max":           "20",
	}
	if action == dispatch.ActionConfigure {
		info, found := h.nodes.Get(target)
		if !found {
			h.redirectNotice(w, r, "node not found: "+target)
			return
		}
		data["Label"] = template.HTML(identity.Format(target))
		data["Ck"] = info.Ck
		data["Area"] = info.Area
		data["No"] = info.No
	}
	h.render(w, "action.html", data)
}

// handleActionSubmit is the delegated dispatch boundary: one handler, one
// registry lookup, one workflow run.
func (h *Handlers) handleActionSubmit(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "action")
	run, known := actionRegistry[action]
	if !known {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	target, err := codec.DecodeSegment(r.FormValue("target"))
	if err != nil {
		http.Error(w, "bad target", http.StatusBadRequest)
		return
	}

	res := run(h, r, h.operator(r), target)

	// Copy-link without a clipboard hands the link back for manual copy.
	if res.CopyText != "" {
		h.render(w, "copylink.html", map[string]any{
			"Page":          "copylink",
			"Link":          res.CopyText,
			"Authenticated": true,
		})
		return
	}

	switch res.Outcome {
	case dispatch.OutcomeCancelled, dispatch.OutcomeNoop:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		h.redirectNotice(w, r, res.Message)
	}
}

func (h *Handlers) handleNodeLogs(w http.ResponseWriter, r *http.Request) {
	target := pathTarget(chi.URLParam(r, "target"))
	if target == "" {
		http.Error(w, "bad target", http.StatusBadRequest)
		return
	}

	res := h.dispatcher.Logs(r.Context(), h.operator(r), target)
	data := map[string]any{
		"Page":          "logs",
		"Label":         template.HTML(identity.Format(target)),
		"Authenticated": h.isAuthenticated(r),
	}
	if res.Outcome == dispatch.OutcomeFailed {
		data["Error"] = res.Message
	} else {
		data["Logs"] = res.Logs
	}
	h.render(w, "logs.html", data)
}

func (h *Handlers) handleHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.db.ListCommands(100)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.render(w, "history.html", map[string]any{
		"Page":          "history",
		"Records":       records,
		"Authenticated": true,
	})
}

func (h *Handlers) redirectNotice(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/?msg="+url.QueryEscape(msg), http.StatusSeeOther)
}

// pathTarget recovers the id from a routed path segment. When the escaped
// path is the canonical escaping of its decoded form, net/http leaves
// RawPath empty and the router hands back the already-decoded segment; a
// failed decode here means exactly that (an id containing a literal '%'),
// so the value is returned as-is instead of rejected.
func pathTarget(param string) string {
	decoded, err := codec.DecodeSegment(param)
	if err != nil {
		return param
	}
	return decoded
}
