package config

import (
	"os"
	"strings"

	"github.com/doeshing/plz-go/internal/domain"
	"github.com/doeshing/plz-go/internal/ports"
)

// EnvResolver reads plz settings from the process environment.
type EnvResolver struct {
	getenv func(string) string
}

// NewEnvResolver builds a resolver over os.Getenv.
func NewEnvResolver() *EnvResolver {
	return &EnvResolver{getenv: os.Getenv}
}

// NewEnvResolverFunc builds a resolver over a custom lookup.
func NewEnvResolverFunc(getenv func(string) string) *EnvResolver {
	return &EnvResolver{getenv: getenv}
}

// Resolve implements ports.EnvironmentResolver.
func (r *EnvResolver) Resolve() (domain.Environment, error) {
	key := strings.TrimSpace(r.getenv(domain.APIKeyEnvVar))
	if key == "" {
		return domain.Environment{}, domain.MissingCredentialFailure(domain.APIKeyEnvVar)
	}
	return domain.Environment{
		APIKey:  key,
		APIBase: strings.TrimSpace(r.getenv(domain.APIBaseEnvVar)),
		Shell:   domain.ParseShell(r.getenv(domain.ShellEnvVar)),
	}, nil
}

var _ ports.EnvironmentResolver = (*EnvResolver)(nil)
