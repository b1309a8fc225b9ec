package scene

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownScene is returned for names with no registered scene
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo represents a built-in scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Name passed to Create
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
}

type builtin struct {
	info  SceneInfo
	build func() *Scene
}

var builtins = []builtin{
	{SceneInfo{ID: "default", Description: "Sphere resting on a ground sphere"}, NewDefaultScene},
	{SceneInfo{ID: "single-sphere", Description: "One sphere in front of the sky"}, NewSingleSphereScene},
	{SceneInfo{ID: "empty", Description: "Sky gradient only"}, NewEmptyScene},
	{SceneInfo{ID: "sphere-grid", Description: "Wall of spheres, 16 jittered samples per pixel"}, NewSphereGridScene},
}

// Create builds the named scene
func Create(name string) (*Scene, error) {
	for _, b := range builtins {
		if b.info.ID == name {
			return b.build(), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
}

// Names lists the registered scene names in display order
func Names() []string {
	names := make([]string, len(builtins))
	for i, b := range builtins {
		names[i] = b.info.ID
	}
	return names
}

// ListScenes returns metadata for every registered scene
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, len(builtins))
	for i, b := range builtins {
		info := b.info
		info.DisplayName = titleCase(info.ID)
		scenes[i] = info
	}
	return scenes
}

func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
