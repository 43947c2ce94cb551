package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/logicspark/logicspark/internal/server/services"
)

func (s *HTTPServer) routes(r *mux.Router) {
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, messageResponse{Success: false, Message: "Route not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, messageResponse{Success: false, Message: "Method not allowed"})
	})

	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/test", s.handleTest).Methods(http.MethodGet)
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/admin/login", s.handleAdminLogin).Methods(http.MethodPost)

	api.HandleFunc("/contacts", s.handleCreateContact).Methods(http.MethodPost)
	api.HandleFunc("/sponsors", s.handleCreateSponsor).Methods(http.MethodPost)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(s.adminGate)
	admin.HandleFunc("/me", s.handleAdminMe).Methods(http.MethodGet)
	admin.HandleFunc("/contacts", s.handleListContacts).Methods(http.MethodGet)
	admin.HandleFunc("/sponsors", s.handleListSponsors).Methods(http.MethodGet)
	admin.HandleFunc("/{kind:contacts|sponsors}/export", s.handleExport).Methods(http.MethodPost)
	admin.HandleFunc("/{kind:contacts|sponsors}/{id}/read", s.handleMarkRead).Methods(http.MethodPut)
	admin.HandleFunc("/{kind:contacts|sponsors}/{id}", s.handleDelete).Methods(http.MethodDelete)
}

func kindVar(r *http.Request) services.Kind {
	return services.Kind(mux.Vars(r)["kind"])
}

func idVar(r *http.Request) string {
	return mux.Vars(r)["id"]
}
