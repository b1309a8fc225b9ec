package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/output"
	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
)

// RenderResult is the final SSE payload of a streamed render
type RenderResult struct {
	ImageData string      `json:"imageData"` // Base64 encoded PNG
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	Stats     RenderStats `json:"stats"`
}

// RenderStats represents render statistics
type RenderStats struct {
	TotalPixels     int     `json:"totalPixels"`
	TotalSamples    int     `json:"totalSamples"`
	SamplesPerPixel int     `json:"samplesPerPixel"`
	HitRatio        float64 `json:"hitRatio"`
	FinalSeed       uint32  `json:"finalSeed"`
	ElapsedMs       int64   `json:"elapsedMs"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "result", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

type renderOutcome struct {
	img   *renderer.Image
	stats renderer.RenderStats
	err   error
}

func newRenderStats(stats renderer.RenderStats) RenderStats {
	return RenderStats{
		TotalPixels:     stats.TotalPixels,
		TotalSamples:    stats.TotalSamples,
		SamplesPerPixel: stats.SamplesPerPixel,
		HitRatio:        stats.HitRatio(),
		FinalSeed:       stats.FinalSeed,
		ElapsedMs:       stats.Elapsed.Milliseconds(),
	}
}

// handleRender renders a scene and responds with the encoded PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}

	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	raytracer := renderer.NewRaytracer(sceneObj, NewWebLogger(renderID, nil))
	img, stats, err := raytracer.RenderPassContext(r.Context())
	if err != nil {
		// Client disconnected, nobody to answer
		log.Printf("[%s] render abandoned: %v", renderID, err)
		return
	}

	data, err := output.EncodePNGBytes(img, req.BitDepth)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to encode image: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Render-Samples", strconv.Itoa(stats.TotalSamples))
	w.Header().Set("X-Render-Hit-Ratio", strconv.FormatFloat(stats.HitRatio(), 'f', 4, 64))
	w.Header().Set("X-Render-Final-Seed", fmt.Sprintf("%#08x", stats.FinalSeed))
	w.Header().Set("X-Render-Elapsed-Ms", strconv.FormatInt(stats.Elapsed.Milliseconds(), 10))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("Error writing render response: %v", err)
	}
}

// handleRenderStream renders a scene while streaming its log lines via SSE,
// then sends the finished image as an 8-bit PNG
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.writeSSEEvent(w, SSEEvent{Type: "error", Data: fmt.Sprintf("Invalid request: %v", err)})
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		s.writeSSEEvent(w, SSEEvent{Type: "error", Data: err.Error()})
		return
	}

	consoleChan, webLogger := s.setupConsoleLogging()
	raytracer := renderer.NewRaytracer(sceneObj, webLogger)

	// Buffered so the render goroutine never blocks after the client leaves;
	// the cancelled context stops it at the next row
	done := make(chan renderOutcome, 1)
	go func() {
		img, stats, err := raytracer.RenderPassContext(ctx)
		done <- renderOutcome{img: img, stats: stats, err: err}
	}()

	for {
		select {
		case msg := <-consoleChan:
			s.sendConsoleMessage(w, msg)

		case outcome := <-done:
			s.drainConsole(w, consoleChan)
			if outcome.err != nil {
				// Cancelled before the client could receive a result
				return
			}
			if err := s.sendResult(w, outcome); err != nil {
				s.writeSSEEvent(w, SSEEvent{Type: "error", Data: err.Error()})
				return
			}
			s.writeSSEEvent(w, SSEEvent{Type: "complete", Data: "Rendering completed"})
			return

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, req); err != nil {
		return nil, err
	}

	query := r.URL.Query()
	var err error
	if req.Samples, err = parseIntParam(query, "samples", 0, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.Jitter, err = parseBoolParam(query, "jitter"); err != nil {
		return nil, err
	}
	if req.Seed, err = parseSeedParam(query, "seed"); err != nil {
		return nil, err
	}
	depth, err := parseIntParam(query, "depth", int(output.Depth16), int(output.Depth8), int(output.Depth16))
	if err != nil {
		return nil, err
	}
	if req.BitDepth, err = output.ParseBitDepth(depth); err != nil {
		return nil, err
	}
	return req, nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	return consoleChan, NewWebLogger(renderID, consoleChan)
}

func (s *Server) sendConsoleMessage(w http.ResponseWriter, msg ConsoleMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling console message: %v", err)
		return
	}
	s.writeSSEEvent(w, SSEEvent{Type: "console", Data: string(data)})
}

// drainConsole forwards messages logged before the render finished
func (s *Server) drainConsole(w http.ResponseWriter, consoleChan chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			s.sendConsoleMessage(w, msg)
		default:
			return
		}
	}
}

func (s *Server) sendResult(w http.ResponseWriter, outcome renderOutcome) error {
	imageData, err := imageToBase64PNG(outcome.img)
	if err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}

	data, err := json.Marshal(RenderResult{
		ImageData: imageData,
		Width:     outcome.img.Width(),
		Height:    outcome.img.Height(),
		Stats:     newRenderStats(outcome.stats),
	})
	if err != nil {
		return err
	}
	return s.writeSSEEvent(w, SSEEvent{Type: "result", Data: string(data)})
}

// writeSSEEvent writes one event and flushes it to the client
func (s *Server) writeSSEEvent(w http.ResponseWriter, event SSEEvent) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
		return err
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

// imageToBase64PNG converts an image to a base64-encoded 8-bit PNG
func imageToBase64PNG(img *renderer.Image) (string, error) {
	data, err := output.EncodePNGBytes(img, output.Depth8)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
