package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/df07/go-pinhole-raytracer/pkg/scene"
)

func serve(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	NewServer(0).Handler().ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("Response is not valid JSON: %v\n%s", err, rec.Body.String())
	}
}

func TestHandleHealth(t *testing.T) {
	rec := serve(t, "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	decodeJSON(t, rec, &body)
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body)
	}
}

func TestHandleScenes(t *testing.T) {
	rec := serve(t, "/api/scenes")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var scenes []scene.SceneInfo
	decodeJSON(t, rec, &scenes)
	if len(scenes) != len(scene.Names()) {
		t.Fatalf("Expected %d scenes, got %d", len(scene.Names()), len(scenes))
	}
	if scenes[0].ID != "default" || scenes[0].DisplayName != "Default" {
		t.Errorf("Unexpected first scene: %+v", scenes[0])
	}
}

func TestHandleSceneConfig(t *testing.T) {
	t.Run("default scene", func(t *testing.T) {
		rec := serve(t, "/api/scene-config")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		var body struct {
			Scene      string `json:"scene"`
			Primitives int    `json:"primitives"`
			Defaults   struct {
				Width           int  `json:"width"`
				Height          int  `json:"height"`
				SamplesPerPixel int  `json:"samplesPerPixel"`
				Jitter          bool `json:"jitter"`
			} `json:"defaults"`
		}
		decodeJSON(t, rec, &body)
		if body.Scene != "default" || body.Primitives != 2 {
			t.Errorf("Unexpected scene summary: %+v", body)
		}
		if body.Defaults.Width != 600 || body.Defaults.Height != 400 {
			t.Errorf("Expected 600x400 defaults, got %dx%d", body.Defaults.Width, body.Defaults.Height)
		}
		if body.Defaults.SamplesPerPixel != 1 || body.Defaults.Jitter {
			t.Errorf("Expected one unjittered sample, got %+v", body.Defaults)
		}
	})

	t.Run("unknown scene", func(t *testing.T) {
		rec := serve(t, "/api/scene-config?scene=nonexistent")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d", rec.Code)
		}
		var body map[string]string
		decodeJSON(t, rec, &body)
		if body["error"] == "" {
			t.Error("Expected an error message")
		}
	})
}

func TestHandleRender(t *testing.T) {
	tests := []struct {
		name  string
		query string
		width int
		depth uint8
	}{
		{"16-bit default", "scene=default&width=8&height=4", 8, 16},
		{"8-bit", "scene=single-sphere&width=6&height=6&depth=8", 6, 8},
		{"jittered samples", "scene=default&width=4&height=4&samples=4&jitter=true&seed=0x1234", 4, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, "/api/render?"+tt.query)
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
				t.Errorf("Expected image/png, got %s", ct)
			}

			data := rec.Body.Bytes()
			// IHDR bit depth follows the 8-byte signature, chunk header, width and height
			if len(data) < 26 || data[24] != tt.depth || data[25] != 2 {
				t.Errorf("Expected RGB PNG with bit depth %d", tt.depth)
			}
			cfg, err := png.DecodeConfig(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("Response is not a PNG: %v", err)
			}
			if cfg.Width != tt.width {
				t.Errorf("Expected width %d, got %d", tt.width, cfg.Width)
			}
			if rec.Header().Get("X-Render-Samples") == "" {
				t.Error("Expected X-Render-Samples header")
			}
		})
	}
}

func TestHandleRenderDeterministic(t *testing.T) {
	target := "/api/render?scene=sphere-grid&width=10&height=6&samples=3&jitter=true&seed=42"
	first := serve(t, target)
	second := serve(t, target)
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Error("Renders with the same seed should be identical")
	}
	if first.Header().Get("X-Render-Final-Seed") != second.Header().Get("X-Render-Final-Seed") {
		t.Error("Final seeds should match")
	}
}

func TestHandleRenderBadRequests(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"unknown scene", "scene=nonexistent"},
		{"width not a number", "width=abc"},
		{"width too large", "width=5000"},
		{"zero height", "height=0"},
		{"bad depth", "depth=12"},
		{"zero seed", "seed=0"},
		{"seed too large", "seed=4294967296"},
		{"bad jitter", "jitter=maybe"},
		{"too many samples", "samples=100000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, "/api/render?"+tt.query)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d", rec.Code)
			}
			var body map[string]string
			decodeJSON(t, rec, &body)
			if body["error"] == "" {
				t.Error("Expected an error message")
			}
		})
	}
}

func TestHandleRenderStream(t *testing.T) {
	rec := serve(t, "/api/render-stream?scene=single-sphere&width=4&height=2")
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Expected text/event-stream, got %s", ct)
	}

	events := map[string][]string{}
	var order []string
	var current string
	scanner := bufio.NewScanner(strings.NewReader(rec.Body.String()))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			current = strings.TrimPrefix(line, "event: ")
			order = append(order, current)
		case strings.HasPrefix(line, "data: "):
			events[current] = append(events[current], strings.TrimPrefix(line, "data: "))
		}
	}

	if len(events["console"]) == 0 {
		t.Error("Expected console events")
	}
	if len(order) < 2 || order[len(order)-1] != "complete" || order[len(order)-2] != "result" {
		t.Fatalf("Expected stream to end with result then complete, got %v", order)
	}

	var result RenderResult
	if err := json.Unmarshal([]byte(events["result"][0]), &result); err != nil {
		t.Fatalf("Invalid result payload: %v", err)
	}
	if result.Width != 4 || result.Height != 2 {
		t.Errorf("Expected 4x2 result, got %dx%d", result.Width, result.Height)
	}
	if result.Stats.TotalPixels != 8 || result.Stats.TotalSamples != 8 {
		t.Errorf("Unexpected stats: %+v", result.Stats)
	}
	data, err := base64.StdEncoding.DecodeString(result.ImageData)
	if err != nil {
		t.Fatalf("Image data is not base64: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("Image data is not a PNG: %v", err)
	}
}

func TestHandleRenderStreamError(t *testing.T) {
	rec := serve(t, "/api/render-stream?scene=nonexistent")
	if !strings.Contains(rec.Body.String(), "event: error") {
		t.Errorf("Expected error event, got %q", rec.Body.String())
	}
}

func TestHandleInspect(t *testing.T) {
	t.Run("center of single sphere", func(t *testing.T) {
		rec := serve(t, "/api/inspect?scene=single-sphere&width=1&height=1&x=0&y=0")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp InspectResponse
		decodeJSON(t, rec, &resp)

		if !resp.Hit || resp.GeometryType != "sphere" {
			t.Fatalf("Expected sphere hit, got %+v", resp)
		}
		if resp.Distance != 0.5 {
			t.Errorf("Expected distance 0.5, got %v", resp.Distance)
		}
		if resp.Point != [3]float32{0, 0, -0.5} {
			t.Errorf("Expected point (0,0,-0.5), got %v", resp.Point)
		}
		if resp.Normal != [3]float32{0, 0, 1} || !resp.FrontFace {
			t.Errorf("Expected front-face normal (0,0,1), got %v front=%v", resp.Normal, resp.FrontFace)
		}
		if resp.Color != [3]float32{0.5, 0.5, 1} {
			t.Errorf("Expected color (0.5,0.5,1), got %v", resp.Color)
		}
		if radius, ok := resp.Properties["radius"].(float64); !ok || radius != 0.5 {
			t.Errorf("Expected radius 0.5, got %v", resp.Properties["radius"])
		}
	})

	t.Run("sky miss", func(t *testing.T) {
		rec := serve(t, "/api/inspect?scene=empty&width=2&height=2&x=1&y=1")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		var resp InspectResponse
		decodeJSON(t, rec, &resp)
		if resp.Hit {
			t.Errorf("Expected miss in empty scene, got %+v", resp)
		}
		if b := resp.Color[2]; b < 0.9999 || b > 1.0001 {
			t.Errorf("Expected sky blue channel 1, got %v", resp.Color[2])
		}
	})

	badQueries := map[string]url.Values{
		"missing x":     {"y": {"0"}},
		"bad y":         {"x": {"0"}, "y": {"up"}},
		"out of bounds": {"width": {"4"}, "height": {"4"}, "x": {"4"}, "y": {"0"}},
		"negative":      {"x": {"-1"}, "y": {"0"}},
		"unknown scene": {"scene": {"nope"}, "x": {"0"}, "y": {"0"}},
	}
	for name, query := range badQueries {
		t.Run(name, func(t *testing.T) {
			rec := serve(t, "/api/inspect?"+query.Encode())
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		want      int
		expectErr bool
	}{
		{"absent uses default", "", 7, false},
		{"in range", "12", 12, false},
		{"at max", "20", 20, false},
		{"below min", "0", 0, true},
		{"above max", "21", 0, true},
		{"not a number", "x", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{}
			if tt.value != "" {
				values.Set("n", tt.value)
			}
			got, err := parseIntParam(values, "n", 7, 1, 20)
			if (err != nil) != tt.expectErr {
				t.Fatalf("Expected error=%v, got %v", tt.expectErr, err)
			}
			if !tt.expectErr && got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

// lockedBuffer collects server log output written from other goroutines
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (lb *lockedBuffer) Write(p []byte) (int, error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.buf.Write(p)
}

func (lb *lockedBuffer) String() string {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.buf.String()
}

func captureLog(t *testing.T) *lockedBuffer {
	t.Helper()
	logs := &lockedBuffer{}
	log.SetOutput(logs)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return logs
}

// Largest render the API accepts; finishing it would take far longer than
// these tests wait
const hugeRenderQuery = "scene=default&width=2000&height=2000&samples=1000&jitter=true"

func serveCancelled(target string) *httptest.ResponseRecorder {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, target, nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	NewServer(0).Handler().ServeHTTP(rec, req)
	return rec
}

func waitForLog(t *testing.T, logs *lockedBuffer, text string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(logs.String(), text) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %q in log:\n%s", text, logs.String())
}

func TestHandleRenderClientGone(t *testing.T) {
	logs := captureLog(t)

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() { done <- serveCancelled("/api/render?" + hugeRenderQuery) }()

	select {
	case rec := <-done:
		if rec.Body.Len() != 0 {
			t.Errorf("Expected no body for an abandoned render, got %d bytes", rec.Body.Len())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Render kept running after the client disconnected")
	}
	waitForLog(t, logs, "render abandoned")
}

func TestHandleRenderStreamClientGone(t *testing.T) {
	logs := captureLog(t)

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() { done <- serveCancelled("/api/render-stream?" + hugeRenderQuery) }()

	select {
	case rec := <-done:
		if strings.Contains(rec.Body.String(), "event: result") {
			t.Error("Expected no result for an abandoned render")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Stream handler did not return after the client disconnected")
	}
	// The render goroutine itself must stop, not just the handler
	waitForLog(t, logs, "Render cancelled at row 0")
}
