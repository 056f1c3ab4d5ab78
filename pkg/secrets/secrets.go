// Package secrets resolves `${KEY}` tokens embedded in configuration
// strings against a pluggable Provider, the way tarsy's
// pkg/config/envexpand.go resolves `${VAR}`/`$VAR` tokens against the
// process environment before YAML parsing.
package secrets

import (
	"fmt"
	"regexp"
)

// Provider resolves a single secret key to its value.
type Provider interface {
	Lookup(key string) (string, bool)
}

var tokenPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Resolve replaces every `${KEY}` token in data with the value Provider
// returns for KEY. A token whose key is not found is left as an error
// rather than silently emptied, since secret tokens that vanish usually
// indicate a misconfigured provider rather than an intentionally blank
// value.
func Resolve(data []byte, p Provider) ([]byte, error) {
	var firstErr error
	result := tokenPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		if firstErr != nil {
			return match
		}
		key := tokenPattern.FindSubmatch(match)[1]
		value, ok := p.Lookup(string(key))
		if !ok {
			firstErr = fmt.Errorf("secrets: no value for %q", key)
			return match
		}
		return []byte(value)
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return result, nil
}
