package server

import (
	"net/http"
	"strconv"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/geometry"
	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
	"github.com/df07/go-pinhole-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float32             `json:"point"`
	Normal       [3]float32             `json:"normal"`
	Distance     float32                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Color        [3]float32             `json:"color"` // Shaded color of the pixel center
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// InspectResult contains information about the object hit by an inspection ray
type InspectResult struct {
	Hit       bool
	HitRecord *core.HitRecord
	Shape     geometry.Shape // The shape that was hit
	Color     core.Color
}

// inspectPixel casts the unjittered ray through a pixel center and reports
// the nearest object it strikes
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) InspectResult {
	camera := renderer.NewCamera(sceneObj.GetCameraConfig())
	ray := camera.GetRay(pixelX, pixelY, 0, 0)

	color := renderer.Shade(ray, sceneObj.World)
	hit, shape, isHit := sceneObj.World.HitShape(ray, core.Forward())
	if !isHit {
		return InspectResult{Hit: false, Color: color}
	}
	return InspectResult{
		Hit:       true,
		HitRecord: hit,
		Shape:     shape,
		Color:     color,
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties
	default:
		return "unknown", properties
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	inspectReq := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, inspectReq); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	sceneObj, err := s.createScene(inspectReq)
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}

	camera := sceneObj.GetCameraConfig()
	if pixelX < 0 || pixelX >= camera.Width || pixelY < 0 || pixelY >= camera.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	result := inspectPixel(sceneObj, pixelX, pixelY)
	response := InspectResponse{
		Hit:   result.Hit,
		Color: [3]float32{result.Color.R, result.Color.G, result.Color.B},
	}
	if result.Hit {
		geometryType, geometryProps := extractGeometryInfo(result.Shape)
		response.GeometryType = geometryType
		response.Properties = geometryProps
		response.Point = vecArray(result.HitRecord.Point)
		response.Normal = vecArray(result.HitRecord.Normal)
		response.Distance = result.HitRecord.T
		response.FrontFace = result.HitRecord.FrontFace
	}

	writeJSON(w, http.StatusOK, response)
}

func vecArray(v core.Vec3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}
