package www

import (
	"html/template"
	"io/fs"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"

	"fleetpanel/backend"
	"fleetpanel/dispatch"
	"fleetpanel/snapshot"
	"fleetpanel/store"
)

type Handlers struct {
	nodes      *snapshot.NodeStore
	files      *snapshot.FileStore
	dispatcher *dispatch.Dispatcher
	client     *backend.Client
	db         *store.DB
	sessions   *sessions.CookieStore
	tmpls      map[string]*template.Template

	// refreshFiles re-polls the file list shortly after an upload.
	refreshFiles func()
}

type Deps struct {
	Nodes         *snapshot.NodeStore
	Files         *snapshot.FileStore
	Dispatcher    *dispatch.Dispatcher
	Client        *backend.Client
	DB            *store.DB
	SessionSecret string
	RefreshFiles  func()
}

func NewRouter(deps Deps) http.Handler {
	// Parse layout as the base set, clone per page to keep each page's
	// {{define "content"}} separate.
	base := template.New("").Funcs(templateFuncs())
	base = template.Must(base.ParseFS(templateFS, "templates/layout.html"))

	pages := []string{
		"templates/dashboard.html",
		"templates/login.html",
		"templates/logs.html",
		"templates/action.html",
		"templates/copylink.html",
		"templates/history.html",
	}
	tmpls := make(map[string]*template.Template, len(pages))
	for _, p := range pages {
		clone := template.Must(base.Clone())
		clone = template.Must(clone.ParseFS(templateFS, p))
		tmpls[p[len("templates/"):]] = clone
	}

	h := &Handlers{
		nodes:        deps.Nodes,
		files:        deps.Files,
		dispatcher:   deps.Dispatcher,
		client:       deps.Client,
		db:           deps.DB,
		sessions:     newSessionStore(deps.SessionSecret),
		tmpls:        tmpls,
		refreshFiles: deps.RefreshFiles,
	}
	h.ensureDefaultOperator(deps.DB)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	staticSub, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	// Public routes
	r.Get("/", h.handleDashboard)
	r.Get("/login", h.handleLoginPage)
	r.Post("/login", h.handleLogin)
	r.Get("/logout", h.handleLogout)
	r.Get("/nodes/{target}/logs", h.handleNodeLogs)

	// Read API (no auth, matching the backend's own read surface)
	r.Route("/api", func(r chi.Router) {
		r.Get("/nodes", h.apiNodes)
		r.Get("/files", h.apiFiles)
		r.Get("/health", h.apiHealth)
	})

	// Mutating routes
	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Get("/action/{action}", h.handleActionForm)
		r.Post("/action/{action}", h.handleActionSubmit)
		r.Post("/upload", h.handleUpload)
		r.Get("/history", h.handleHistory)
		r.Get("/api/commands", h.apiCommands)
	})

	return r
}

func (h *Handlers) render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := h.tmpls[name]
	if !ok {
		log.Printf("render: template %q not found", name)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		log.Printf("render %s: %v", name, err)
	}
}

func (h *Handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", map[string]any{
		"Page":          "login",
		"Authenticated": h.isAuthenticated(r),
	})
}

func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	op, err := h.db.GetOperator(username)
	if err != nil || !checkPassword(op.PasswordHash, password) {
		h.render(w, "login.html", map[string]any{
			"Page":  "login",
			"Error": "Invalid username or password",
		})
		return
	}
	if err := h.db.TouchOperatorLogin(username); err != nil {
		log.Printf("auth: touch login: %v", err)
	}

	session, _ := h.sessions.Get(r, sessionName)
	session.Values["authenticated"] = true
	session.Values["username"] = username
	if err := session.Save(r, w); err != nil {
		log.Printf("auth: session save error: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.sessions.Get(r, sessionName)
	session.Values["authenticated"] = false
	session.Values["username"] = ""
	session.Save(r, w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
