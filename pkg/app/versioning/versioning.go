package versioning

import (
	"regexp"
	"slices"

	"github.com/sirupsen/logrus"
)

const (
	DefaultVersion = "v1"
	HeaderName     = "X-API-Version"
)

var DefaultSupported = []string{"v1", "v2"}

var acceptVersion = regexp.MustCompile(`version=(v\d+)`)

// Resolver extracts the API version from an Accept header such as
// "application/json; version=v2".
type Resolver struct {
	defaultVersion string
	supported      []string
	logger         *logrus.Logger
}

func NewResolver(defaultVersion string, supported []string, logger *logrus.Logger) *Resolver {
	if defaultVersion == "" {
		defaultVersion = DefaultVersion
	}
	if len(supported) == 0 {
		supported = DefaultSupported
	}
	return &Resolver{
		defaultVersion: defaultVersion,
		supported:      supported,
		logger:         logger,
	}
}

// FromAccept returns the requested version when it is supported and the
// default version otherwise.
func (r *Resolver) FromAccept(accept string) string {
	match := acceptVersion.FindStringSubmatch(accept)
	if match == nil {
		r.logger.WithField("default", r.defaultVersion).Debug("no api version requested, using default")
		return r.defaultVersion
	}
	version := match[1]
	if !r.Validate(version) {
		r.logger.WithField("version", version).Warn("unsupported api version requested")
		return r.defaultVersion
	}
	return version
}

func (r *Resolver) Validate(version string) bool {
	return slices.Contains(r.supported, version)
}

func (r *Resolver) Default() string {
	return r.defaultVersion
}

func (r *Resolver) Supported() []string {
	return slices.Clone(r.supported)
}
