package env

import "os"

// Resolver defines an interface for fallback value resolution by key.
type Resolver interface {
	// Lookup returns the value named by key and whether it was present.
	Lookup(key string) (string, bool)
}

// OSResolver is the default implementation of the Resolver interface
// that encapsulates environment resolution using the os package.
type OSResolver struct{}

// Lookup returns the value of the environment variable associated with the given key.
func (r *OSResolver) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapResolver resolves keys from a fixed set of properties.
type MapResolver map[string]string

// Lookup returns the property associated with the given key.
func (m MapResolver) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Chain consults each resolver in order and returns the first value found.
type Chain []Resolver

// Lookup returns the first value found for key, in resolver order.
func (c Chain) Lookup(key string) (string, bool) {
	for _, r := range c {
		if r == nil {
			continue
		}
		if v, ok := r.Lookup(key); ok {
			return v, true
		}
	}
	return "", false
}
