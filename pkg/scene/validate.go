package scene

// MalformedError reports a scene payload missing one of its required fields.
// A scene without a tag, location, or world cannot be folded into memory,
// so it is rejected even when the transport call succeeded.
type MalformedError struct {
	Field string
}

func (e MalformedError) Error() string {
	if e.Field == "" {
		return "malformed scene"
	}

	return "malformed scene: missing " + e.Field
}

// Validate checks that the scene carries every required field.
func (s *Scene) Validate() error {
	if s.SceneTag == "" {
		return MalformedError{Field: "scene_tag"}
	}
	if s.Location == "" {
		return MalformedError{Field: "location"}
	}
	if s.World == "" {
		return MalformedError{Field: "world"}
	}

	return nil
}
