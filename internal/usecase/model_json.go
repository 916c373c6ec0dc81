package usecase

import "encoding/json"

// ParseModelJSON decodes model output into a value of type T, recovering from
// the formatting noise generative models wrap around JSON. Sequence: sanitize,
// strict parse, then balanced-region extraction with a second strict parse.
//
// The boolean result is false when no recovery step produced a shape-valid
// decode. No error or panic ever escapes; callers are responsible for
// defaulting optional collection fields after a successful parse.
func ParseModelJSON[T any](raw string) (T, bool) {
	var zero T

	sanitized := SanitizeModelText(raw)
	if sanitized == "" {
		return zero, false
	}

	var direct T
	if err := json.Unmarshal([]byte(sanitized), &direct); err == nil {
		return direct, true
	}

	region, ok := extractBalancedRegion(sanitized)
	if !ok {
		return zero, false
	}

	var recovered T
	if err := json.Unmarshal([]byte(region), &recovered); err == nil {
		return recovered, true
	}

	return zero, false
}
