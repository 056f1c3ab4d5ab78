package secrets

import (
	"os"

	"github.com/joho/godotenv"
)

// EnvProvider looks keys up in the process environment, optionally
// preloaded from a `.env`-style file via godotenv.
type EnvProvider struct {
	overrides map[string]string
}

// NewEnvProvider creates a Provider backed by os.Environ.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{}
}

// NewEnvProviderFromFile creates a Provider backed by a `.env` file's
// contents, falling back to the process environment for keys the file does
// not define.
func NewEnvProviderFromFile(path string) (*EnvProvider, error) {
	overrides, err := godotenv.Read(path)
	if err != nil {
		return nil, err
	}
	return &EnvProvider{overrides: overrides}, nil
}

// Lookup implements Provider.
func (p *EnvProvider) Lookup(key string) (string, bool) {
	if p.overrides != nil {
		if v, ok := p.overrides[key]; ok {
			return v, true
		}
	}
	return os.LookupEnv(key)
}
