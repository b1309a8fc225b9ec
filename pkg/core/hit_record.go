package core

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     Point3  // Point of intersection
	Normal    Vec3    // Surface normal, facing against the incoming ray
	T         float32 // Parameter t along the ray
	FrontFace bool    // Whether the ray approached from the outward side
}

// NewHitRecord builds a hit record, orienting the normal against the ray
func NewHitRecord(point Point3, t float32, ray Ray, outwardNormal Vec3) *HitRecord {
	h := &HitRecord{Point: point, T: t}
	h.SetFaceNormal(ray, outwardNormal)
	return h
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray Ray, outwardNormal Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}
