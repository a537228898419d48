package www

import (
	"net/http"

	"fleetpanel/dispatch"
)

// actionHandler runs one workflow against an already-decoded target, with
// collect answers taken from the submitted form in collect order.
type actionHandler func(h *Handlers, r *http.Request, actor, target string) dispatch.Result

// actionRegistry is the single place action names from the rendered cards
// meet their workflows. The renderer only emits {action, target}
// descriptors; this map is looked up once at the request boundary.
var actionRegistry = map[string]actionHandler{
	dispatch.ActionConfigure: func(h *Handlers, r *http.Request, actor, target string) dispatch.Result {
		p := &dispatch.SequencePrompter{Answers: []string{
			r.FormValue("min"),
			r.FormValue("max"),
			r.FormValue("ck"),
			r.FormValue("area"),
			r.FormValue("no"),
		}}
		return h.dispatcher.Configure(r.Context(), p, actor, target)
	},
	dispatch.ActionOTA: func(h *Handlers, r *http.Request, actor, target string) dispatch.Result {
		p := &dispatch.SequencePrompter{Answers: []string{r.FormValue("url")}}
		return h.dispatcher.OTA(r.Context(), p, actor, target)
	},
	dispatch.ActionDeleteNode: func(h *Handlers, r *http.Request, actor, target string) dispatch.Result {
		p := &dispatch.SequencePrompter{Confirmed: r.FormValue("confirm") == "yes"}
		return h.dispatcher.DeleteNode(r.Context(), p, actor, target)
	},
	dispatch.ActionDeleteFile: func(h *Handlers, r *http.Request, actor, target string) dispatch.Result {
		p := &dispatch.SequencePrompter{Confirmed: r.FormValue("confirm") == "yes"}
		return h.dispatcher.DeleteFile(r.Context(), p, actor, target)
	},
	dispatch.ActionRenameFile: func(h *Handlers, r *http.Request, actor, target string) dispatch.Result {
		p := &dispatch.SequencePrompter{Answers: []string{r.FormValue("new_name")}}
		return h.dispatcher.RenameFile(r.Context(), p, actor, target)
	},
	dispatch.ActionCopyLink: func(h *Handlers, r *http.Request, actor, target string) dispatch.Result {
		return h.dispatcher.CopyLink(actor, r.FormValue("url"))
	},
}
