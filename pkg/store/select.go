package store

// Selectors are pure functions over a state snapshot. They never mutate it.

// Select returns a typed value from a snapshot, or fallback when the key is
// absent or holds a different type.
func Select[T any](state map[string]any, key string, fallback T) T {
	if v, ok := state[key].(T); ok {
		return v
	}
	return fallback
}

// SelectString returns a string value from a snapshot, or fallback when the
// key is absent or not a string.
func SelectString(state map[string]any, key, fallback string) string {
	if v, ok := state[key].(string); ok {
		return v
	}
	return fallback
}

// SelectBool returns a bool value from a snapshot, or fallback.
func SelectBool(state map[string]any, key string, fallback bool) bool {
	if v, ok := state[key].(bool); ok {
		return v
	}
	return fallback
}

// SelectInt returns an int value from a snapshot, or fallback.
func SelectInt(state map[string]any, key string, fallback int) int {
	if v, ok := state[key].(int); ok {
		return v
	}
	return fallback
}

// SelectFloat returns a float64 value from a snapshot, or fallback.
func SelectFloat(state map[string]any, key string, fallback float64) float64 {
	if v, ok := state[key].(float64); ok {
		return v
	}
	return fallback
}

// SelectSlice returns a []any value from a snapshot, or nil.
func SelectSlice(state map[string]any, key string) []any {
	v, _ := state[key].([]any)
	return v
}

// SelectMap returns a map value from a snapshot, or nil.
func SelectMap(state map[string]any, key string) map[string]any {
	v, _ := state[key].(map[string]any)
	return v
}
