// Package rxapp is a small in-process rendition of the Digital Rx Pro doctor
// portal. It serves the same pages, routes and accessible names as the
// production application so the suite can run against it without network access.
package rxapp

import (
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/a-h/templ"
	"github.com/gofrs/uuid"
	"github.com/microcosm-cc/bluemonday"
)

const (
	sessionCookieName = "drx_session"
	flashCookieName   = "drx_flash"
)

var (
	agePattern   = regexp.MustCompile(`^\d{1,3}$`)
	phonePattern = regexp.MustCompile(`^\d{6,15}$`)
)

type Handler struct {
	store    *Store
	sessions *SessionManager

	options handlerOptions
	logger  *slog.Logger
	policy  *bluemonday.Policy

	mux http.Handler
}

// NewHandler creates the application with an empty store.
// Call Close to stop the session cleanup goroutine.
func NewHandler(opts ...HandlerOption) *Handler {
	options := handlerOptions{
		Username:    DefaultUsername,
		Password:    DefaultPassword,
		DisplayName: DefaultDisplayName,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	mux := http.NewServeMux()
	handler := &Handler{
		store: NewStore(),
		sessions: NewSessionManager(SessionManagerOptions{
			IdleTimeout: options.SessionIdleTimeout,
			Logger:      options.Logger,
		}),
		options: options,
		logger:  options.Logger,
		policy:  bluemonday.StrictPolicy(),
		mux:     logRequests(options.Logger, mux),
	}

	mux.HandleFunc("GET /{$}", handler.root)
	mux.HandleFunc("GET /healthz", handler.healthz)
	mux.HandleFunc("POST /login", handler.login)
	mux.HandleFunc("POST /logout", handler.logout)

	mux.HandleFunc("GET /doctor/rx", handler.authenticated(handler.getRx))
	mux.HandleFunc("GET /doctor/rx/add", handler.authenticated(handler.getRxAddPatient))
	mux.HandleFunc("POST /doctor/rx/add", handler.authenticated(handler.postRxAddPatient))
	mux.HandleFunc("GET /doctor/rx/patient/{patientId}", handler.authenticated(handler.getPrescription))
	mux.HandleFunc("POST /doctor/rx/patient/{patientId}", handler.authenticated(handler.postPrescription))

	mux.HandleFunc("GET /doctor/patient", handler.authenticated(handler.getPatients))
	mux.HandleFunc("GET /doctor/patient/add", handler.authenticated(handler.getPatientAdd))
	mux.HandleFunc("POST /doctor/patient/add", handler.authenticated(handler.postPatientAdd))

	mux.HandleFunc("GET /doctor/history", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/doctor/history/", http.StatusMovedPermanently)
	})
	mux.HandleFunc("GET /doctor/history/{$}", handler.authenticated(handler.getHistory))

	return handler
}

func logRequests(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.DebugContext(r.Context(), "Serving request", slog.String("method", r.Method), slog.String("path", r.URL.Path))
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// Store exposes the data behind the application.
func (h *Handler) Store() *Store {
	return h.store
}

func (h *Handler) Sessions() *SessionManager {
	return h.sessions
}

// Close stops background work and forgets all sign-ins.
func (h *Handler) Close() {
	h.sessions.Close()
}

type authenticatedHandlerFunc func(w http.ResponseWriter, r *http.Request, user string)

// authenticated sends visitors without a live session back to the sign-in screen.
func (h *Handler) authenticated(next authenticatedHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.currentUser(r)
		if !ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next(w, r, user)
	}
}

func (h *Handler) currentUser(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return "", false
	}
	id, err := uuid.FromString(cookie.Value)
	if err != nil {
		return "", false
	}
	return h.sessions.Get(id)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, props pageProps, body templ.Component) {
	if props.Active != areaNone {
		props.DisplayName = h.options.DisplayName
	}
	templ.Handler(page(props, body), templ.WithStatus(status)).ServeHTTP(w, r)
}

// clean strips markup from user input and trims it.
func (h *Handler) clean(value string) string {
	return strings.TrimSpace(html.UnescapeString(h.policy.Sanitize(strings.TrimSpace(value))))
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(r); ok {
		http.Redirect(w, r, "/doctor/rx", http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, pageProps{Title: "Sign in"}, loginView("", ""))
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	username := h.clean(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	if username != h.options.Username || password != h.options.Password {
		h.logger.InfoContext(r.Context(), "Rejected sign-in", slog.String("user", username))
		h.render(w, r, http.StatusUnauthorized, pageProps{Title: "Sign in"}, loginView(username, "Invalid username or password"))
		return
	}

	id := h.sessions.Create(username)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	h.logger.InfoContext(r.Context(), "Signed in", slog.String("user", username))

	http.Redirect(w, r, "/doctor/rx", http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if id, err := uuid.FromString(cookie.Value); err == nil {
			h.sessions.Delete(id)
		}
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) getRx(w http.ResponseWriter, r *http.Request, _ string) {
	h.render(w, r, http.StatusOK, pageProps{Title: "RX", Active: areaRx, Scripts: []string{revealScript}}, rxView(h.options.AddPatientDelay))
}

func (h *Handler) getRxAddPatient(w http.ResponseWriter, r *http.Request, _ string) {
	h.render(w, r, http.StatusOK, pageProps{Title: "Add Patient", Active: areaRx}, patientFormView(patientFormProps{
		Title:  "Add Patient",
		Action: "/doctor/rx/add",
	}))
}

func (h *Handler) postRxAddPatient(w http.ResponseWriter, r *http.Request, _ string) {
	props := h.patientFormInput(r, "Add Patient", "/doctor/rx/add")
	if props.Message != "" {
		h.render(w, r, http.StatusUnprocessableEntity, pageProps{Title: "Add Patient", Active: areaRx}, patientFormView(props))
		return
	}

	p := h.store.AddPatient(props.Name, props.Age, props.Phone)
	h.logger.InfoContext(r.Context(), "Registered patient", slog.String("patient", p.Name), slog.Any("id", p.ID))

	http.Redirect(w, r, "/doctor/rx/patient/"+p.ID.String(), http.StatusSeeOther)
}

func (h *Handler) lookupPatient(w http.ResponseWriter, r *http.Request) (Patient, bool) {
	id, err := uuid.FromString(r.PathValue("patientId"))
	if err != nil {
		http.Error(w, "Invalid patient id", http.StatusBadRequest)
		return Patient{}, false
	}
	p, exists := h.store.Patient(id)
	if !exists {
		http.Error(w, "Patient not found", http.StatusNotFound)
		return Patient{}, false
	}
	return p, true
}

func (h *Handler) getPrescription(w http.ResponseWriter, r *http.Request, _ string) {
	p, ok := h.lookupPatient(w, r)
	if !ok {
		return
	}
	saved := r.URL.Query().Get("saved") == "1"
	h.render(w, r, http.StatusOK, pageProps{Title: "Prescription", Active: areaRx}, prescriptionView(p, saved, ""))
}

func (h *Handler) postPrescription(w http.ResponseWriter, r *http.Request, _ string) {
	p, ok := h.lookupPatient(w, r)
	if !ok {
		return
	}

	complaint := h.clean(r.PostFormValue("chiefComplaint"))
	if complaint == "" {
		h.render(w, r, http.StatusUnprocessableEntity, pageProps{Title: "Prescription", Active: areaRx}, prescriptionView(p, false, "Chief complaint is required"))
		return
	}

	rx, ok := h.store.SavePrescription(p.ID, complaint)
	if !ok {
		http.Error(w, "Patient not found", http.StatusNotFound)
		return
	}
	h.logger.InfoContext(r.Context(), "Saved prescription", slog.String("patient", p.Name), slog.Any("id", rx.ID))

	http.Redirect(w, r, "/doctor/rx/patient/"+p.ID.String()+"?saved=1", http.StatusSeeOther)
}

func (h *Handler) getPatients(w http.ResponseWriter, r *http.Request, _ string) {
	var flash string
	if cookie, err := r.Cookie(flashCookieName); err == nil {
		flash, _ = url.QueryUnescape(cookie.Value)
		http.SetCookie(w, &http.Cookie{Name: flashCookieName, Path: "/", MaxAge: -1})
	}

	patients := h.store.Patients(r.URL.Query().Get("q"))
	h.render(w, r, http.StatusOK, pageProps{Title: "Patients", Active: areaPatients, Scripts: []string{patientFilterScript}}, patientListView(patients, flash))
}

func (h *Handler) getPatientAdd(w http.ResponseWriter, r *http.Request, _ string) {
	h.render(w, r, http.StatusOK, pageProps{Title: "Create Patient", Active: areaPatients}, patientFormView(patientFormProps{
		Title:  "Create Patient",
		Action: "/doctor/patient/add",
	}))
}

func (h *Handler) postPatientAdd(w http.ResponseWriter, r *http.Request, _ string) {
	props := h.patientFormInput(r, "Create Patient", "/doctor/patient/add")
	if props.Message != "" {
		h.render(w, r, http.StatusUnprocessableEntity, pageProps{Title: "Create Patient", Active: areaPatients}, patientFormView(props))
		return
	}

	p := h.store.AddPatient(props.Name, props.Age, props.Phone)
	h.logger.InfoContext(r.Context(), "Registered patient", slog.String("patient", p.Name), slog.Any("id", p.ID))

	// The list URL must stay free of query parameters, so the notice travels in a cookie
	http.SetCookie(w, &http.Cookie{
		Name:  flashCookieName,
		Value: url.QueryEscape("Patient created"),
		Path:  "/",
	})
	http.Redirect(w, r, "/doctor/patient", http.StatusSeeOther)
}

// patientFormInput reads and validates the patient form. Message is set when the input is rejected.
func (h *Handler) patientFormInput(r *http.Request, title, action string) patientFormProps {
	props := patientFormProps{
		Title:  title,
		Action: action,
		Name:   h.clean(r.PostFormValue("name")),
		Age:    h.clean(r.PostFormValue("age")),
		Phone:  h.clean(r.PostFormValue("phone")),
	}

	switch {
	case props.Name == "":
		props.Message = "Patient name is required"
	case !agePattern.MatchString(props.Age):
		props.Message = "Age must be a number of years"
	case !phonePattern.MatchString(props.Phone):
		props.Message = "Phone must contain 6 to 15 digits"
	}
	return props
}

func (h *Handler) getHistory(w http.ResponseWriter, r *http.Request, _ string) {
	h.render(w, r, http.StatusOK, pageProps{Title: "History", Active: areaHistory}, historyView(h.store.History()))
}
