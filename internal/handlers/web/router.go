// Package web serves the debug HTTP routes and the browser websocket
package web

import (
	"encoding/json"
	"image/jpeg"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/handlers/perception/v1alpha1"
	"github.com/KirkDiggler/rpg-perception/internal/orchestrators/perception"
)

// jpegQuality matches the quality of stored exploration rasters
const jpegQuality = 80

// Config holds dependencies for the HTTP router
type Config struct {
	PerceptionService perception.Service
	// Socket serves /ws when set
	Socket http.Handler
}

// Validate ensures all required dependencies are present
func (c *Config) Validate() error {
	if c == nil || c.PerceptionService == nil {
		return errors.InvalidArgument("perception service is required")
	}
	return nil
}

type handler struct {
	perceptionService perception.Service
}

// NewRouter builds the debug routes
func NewRouter(cfg *Config) (*mux.Router, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	h := &handler{perceptionService: cfg.PerceptionService}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	router.HandleFunc("/scenes/{scene_id}/polygon", h.polygon).Methods(http.MethodPost)
	router.HandleFunc("/scenes/{scene_id}/users/{user_id}/fog.jpg", h.fogImage).Methods(http.MethodGet)
	if cfg.Socket != nil {
		router.Handle("/ws", cfg.Socket)
	}
	return router, nil
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// polygon computes a polygon and returns its vertices
func (h *handler) polygon(w http.ResponseWriter, r *http.Request) {
	var req v1alpha1.PolygonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.WrapWithCode(err, errors.CodeInvalidArgument, "malformed polygon request"))
		return
	}
	req.SceneID = mux.Vars(r)["scene_id"]

	out, err := h.perceptionService.ComputePolygon(r.Context(), &perception.ComputePolygonInput{
		SceneID: req.SceneID,
		Origin:  req.Origin.Point(),
		Config:  req.Config(),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v1alpha1.NewPolygonMessage(out.Polygon))
}

// fogImage writes a user's committed fog raster. ?requester= names the reader;
// readers other than the owner need a GM session on the scene.
func (h *handler) fogImage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	query := r.URL.Query()
	requester := query.Get("requester")
	if requester == "" {
		requester = vars["user_id"]
	}
	out, err := h.perceptionService.FogImage(r.Context(), &perception.FogImageInput{
		SceneID:     vars["scene_id"],
		UserID:      vars["user_id"],
		RequesterID: requester,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("X-Fog-Resolution", strconv.FormatFloat(out.Resolution, 'f', -1, 64))
	w.WriteHeader(http.StatusOK)
	if err := jpeg.Encode(w, out.Image, &jpeg.Options{Quality: jpegQuality}); err != nil {
		slog.Error("failed to write fog image", "scene_id", vars["scene_id"], "user_id", vars["user_id"], "error", err)
	}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	body := map[string]string{
		"code":    string(code),
		"message": errors.GetMessage(err),
	}
	if scene := errors.SceneOf(err); scene != "" {
		body["scene"] = scene
	}
	writeJSON(w, code.HTTPStatus(), body)
}
