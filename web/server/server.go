package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-pinhole-raytracer/pkg/output"
	"github.com/df07/go-pinhole-raytracer/pkg/scene"
)

// Request limits shared by render and inspect
const (
	maxImageSize = 2000
	maxSamples   = 1000
)

// Server handles web requests for the raytracer
type Server struct {
	port int
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{port: port}
}

// RenderRequest represents the scene parameters of a render or inspect request.
// Zero sizes and samples keep the scene's own values.
type RenderRequest struct {
	Scene    string          `json:"scene"`
	Width    int             `json:"width"`
	Height   int             `json:"height"`
	Samples  int             `json:"samples"`
	Jitter   *bool           `json:"jitter,omitempty"`
	Seed     uint32          `json:"seed,omitempty"` // 0 keeps the scene's seed
	BitDepth output.BitDepth `json:"bitDepth"`
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/render-stream", s.handleRenderStream)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scene.ListScenes())
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := scene.Create(sceneName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	camera := sceneObj.GetCameraConfig()
	sampling := sceneObj.GetSamplingConfig()
	response := map[string]interface{}{
		"scene":      sceneName,
		"primitives": sceneObj.GetPrimitiveCount(),
		"defaults": map[string]interface{}{
			"width":           camera.Width,
			"height":          camera.Height,
			"samplesPerPixel": sampling.SamplesPerPixel,
			"jitter":          sampling.Jitter,
			"seed":            sampling.Seed,
			"bitDepth":        int(output.Depth16),
		},
		"limits": map[string]interface{}{
			"width":    map[string]int{"min": 1, "max": maxImageSize},
			"height":   map[string]int{"min": 1, "max": maxImageSize},
			"samples":  map[string]int{"min": 1, "max": maxSamples},
			"bitDepth": []int{int(output.Depth8), int(output.Depth16)},
		},
	}

	writeJSON(w, http.StatusOK, response)
}

// parseCommonSceneParams parses the scene selection and image size
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) error {
	query := r.URL.Query()
	if req.Scene = query.Get("scene"); req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, 1, maxImageSize); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(query, "height", 0, 1, maxImageSize); err != nil {
		return err
	}
	return nil
}

// createScene builds the requested scene with the request's overrides applied
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := scene.Create(req.Scene)
	if err != nil {
		return nil, err
	}

	sceneObj.SetSize(req.Width, req.Height)
	if req.Samples > 0 {
		sceneObj.SamplingConfig.SamplesPerPixel = req.Samples
	}
	if req.Jitter != nil {
		sceneObj.SamplingConfig.Jitter = *req.Jitter
	}
	if req.Seed != 0 {
		sceneObj.SamplingConfig.Seed = req.Seed
	}

	camera := sceneObj.GetCameraConfig()
	if camera.Width*camera.Height > 800*600 && sceneObj.SamplingConfig.SamplesPerPixel > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}
	return sceneObj, nil
}

// sceneErrorStatus maps scene construction failures to HTTP status codes
func sceneErrorStatus(err error) int {
	if errors.Is(err, scene.ErrUnknownScene) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseSeedParam parses a nonzero 32-bit seed, decimal or 0x-prefixed hex
func parseSeedParam(values url.Values, key string) (uint32, error) {
	value := values.Get(key)
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.ParseUint(value, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, value)
	}
	if parsed == 0 {
		return 0, fmt.Errorf("%s must be nonzero", key)
	}
	return uint32(parsed), nil
}

// parseBoolParam parses an optional boolean parameter
func parseBoolParam(values url.Values, key string) (*bool, error) {
	value := values.Get(key)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %s", key, value)
	}
	return &parsed, nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
