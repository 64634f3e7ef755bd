package credential

import "strings"

// Prefix is the shape every OpenAI API key starts with.
const Prefix = "sk-"

// Valid reports whether the key looks like an OpenAI API key.
// This is shape validation only; a key is proven valid by a successful call.
func Valid(key string) bool {
	return strings.HasPrefix(key, Prefix)
}
