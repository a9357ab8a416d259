package modhost

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// moduleStatus is the JSON shape of one module on the admin surface.
type moduleStatus struct {
	Name                string   `json:"name"`
	Version             string   `json:"version"`
	Description         string   `json:"description"`
	Authors             []string `json:"authors"`
	State               string   `json:"state"`
	PreferredScope      string   `json:"preferredScope"`
	DataDir             string   `json:"dataDir"`
	StoresSensitiveData bool     `json:"storesSensitiveData"`
	UsesEncryption      bool     `json:"usesEncryption"`
}

// AdminServer exposes a read-only HTTP status surface over the registry:
// GET /modules lists loaded modules in load order, GET /modules/{name}
// returns one module or 404.
type AdminServer struct {
	registry *Registry
	logger   Logger
	server   *http.Server
}

// NewAdminServer creates the status surface for a registry.
func NewAdminServer(registry *Registry, logger Logger) *AdminServer {
	return &AdminServer{registry: registry, logger: logger}
}

// Router builds the chi router. Exposed separately so tests can drive it
// without a listener.
func (a *AdminServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/modules", a.handleList)
	r.Get("/modules/{name}", a.handleGet)
	return r
}

// Start begins serving on addr. It returns once the listener is running;
// serve errors other than a clean close are logged.
func (a *AdminServer) Start(addr string) error {
	if a.server != nil {
		return ErrAdminAlreadyRunning
	}
	a.server = &http.Server{
		Addr:              addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Admin server failed", "addr", addr, "error", err)
		}
	}()
	a.logger.Info("Admin server listening", "addr", addr)
	return nil
}

// Shutdown stops the listener gracefully.
func (a *AdminServer) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

func (a *AdminServer) handleList(w http.ResponseWriter, r *http.Request) {
	instances := a.registry.List()
	statuses := make([]moduleStatus, 0, len(instances))
	for _, instance := range instances {
		statuses = append(statuses, statusOf(instance))
	}
	writeJSON(w, http.StatusOK, statuses)
}

func (a *AdminServer) handleGet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	instance := a.registry.Get(name)
	if instance == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "module not found", "module": name})
		return
	}
	writeJSON(w, http.StatusOK, statusOf(instance))
}

func statusOf(instance *ModuleInstance) moduleStatus {
	return moduleStatus{
		Name:                instance.Name(),
		Version:             instance.Version(),
		Description:         instance.Description(),
		Authors:             instance.Authors(),
		State:               instance.State().String(),
		PreferredScope:      instance.PreferredScope().String(),
		DataDir:             instance.DataDir(),
		StoresSensitiveData: instance.StoresSensitiveData(),
		UsesEncryption:      instance.UsesEncryption(),
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
