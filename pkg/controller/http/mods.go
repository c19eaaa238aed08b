package http

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/balatro-mod-manager/bmm/pkg/domain/interfaces"
	"github.com/balatro-mod-manager/bmm/pkg/domain/model"
	"github.com/balatro-mod-manager/bmm/pkg/domain/types"
	"github.com/balatro-mod-manager/bmm/pkg/utils/async"
	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// maxRequestBytes caps the JSON body of an install request
const maxRequestBytes = 1 << 20

// ModsHandler exposes mod operations over HTTP. The use case does no
// locking, so the handler runs one operation at a time.
type ModsHandler struct {
	modUC interfaces.ModUseCase
	jobs  *async.Group
	mu    sync.Mutex
}

// NewModsHandler creates a new ModsHandler
func NewModsHandler(modUC interfaces.ModUseCase, jobs *async.Group) *ModsHandler {
	return &ModsHandler{
		modUC: modUC,
		jobs:  jobs,
	}
}

type listResponse struct {
	Mods []*model.InstalledMod `json:"mods"`
}

type acceptedResponse struct {
	Status string `json:"status"`
	URL    string `json:"url"`
}

// List handles GET /mods
func (h *ModsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	h.mu.Lock()
	mods, err := h.modUC.List(ctx)
	h.mu.Unlock()
	if err != nil {
		h.fail(ctx, w, err)
		return
	}

	writeJSON(ctx, w, &listResponse{Mods: mods}, http.StatusOK)
}

// Install handles POST /mods. With ?async=true the install runs in the
// background and 202 is returned immediately.
func (h *ModsHandler) Install(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	var req model.InstallRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		logger.Warn("Invalid install request", "error", err)
		writeError(w, goerr.Wrap(err, "invalid JSON payload"), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, goerr.New("url is required"), http.StatusBadRequest)
		return
	}

	if r.URL.Query().Get("async") == "true" {
		h.jobs.Dispatch(ctx, func(ctx context.Context) error {
			_, err := h.install(ctx, &req)
			return err
		})
		logger.Info("Install accepted", "url", req.URL)
		writeJSON(ctx, w, &acceptedResponse{Status: "accepted", URL: req.URL}, http.StatusAccepted)
		return
	}

	result, err := h.install(ctx, &req)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}

	writeJSON(ctx, w, result, http.StatusCreated)
}

func (h *ModsHandler) install(ctx context.Context, req *model.InstallRequest) (*model.InstallResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.modUC.Install(ctx, req)
}

// Uninstall handles DELETE /mods/{name}
func (h *ModsHandler) Uninstall(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	modsRoot, err := h.modUC.ModsRoot()
	if err != nil {
		h.fail(ctx, w, err)
		return
	}

	h.mu.Lock()
	err = h.modUC.Uninstall(ctx, filepath.Join(modsRoot, name))
	h.mu.Unlock()
	if err != nil {
		h.fail(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ModsHandler) fail(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		ctxlog.From(ctx).Error("Mod operation failed", "error", err)
	} else {
		ctxlog.From(ctx).Warn("Mod operation rejected", "error", err)
	}
	writeError(w, err, status)
}

// statusOf maps error tags to HTTP status codes
func statusOf(err error) int {
	switch {
	case goerr.HasTag(err, types.ErrTagUnsupportedFormat),
		goerr.HasTag(err, types.ErrTagPathTraversal),
		goerr.HasTag(err, types.ErrTagPathValidation),
		goerr.HasTag(err, types.ErrTagInvalidState):
		return http.StatusBadRequest
	case goerr.HasTag(err, types.ErrTagNetwork):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
