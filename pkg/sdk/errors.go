package labassist

import "github.com/kailas-cloud/labassist/internal/domain"

// ErrConfigurationMissing is returned by New when a collaborator is only
// partially configured. Use errors.Is() to check.
var ErrConfigurationMissing = domain.ErrConfigurationMissing
