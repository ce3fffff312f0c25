// Package compose converts a multi-service compose project into
// cluster-native Deployment, Service and ServiceAccount objects.
package compose

import (
	"regexp"
	"strings"
)

// Project is a decoded compose file. Services keep the order of the file.
type Project struct {
	Services []Service
}

// Service is one entry of the compose services map.
type Service struct {
	Name        string
	Image       string
	Ports       []string
	Expose      []string
	Environment []EnvVar
	Labels      map[string]string
	Entrypoint  []string
	Command     []string
	Replicas    *int32
}

type EnvVar struct {
	Name  string
	Value string
}

// Variables is the external key/value lookup used for ${KEY} substitution.
type Variables map[string]string

// Lookup reports the value of key.
func (v Variables) Lookup(key string) (string, bool) {
	val, ok := v[key]

	return val, ok
}

var nonConforming = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Conform turns name into a cluster-native object name: every run of
// characters outside [a-zA-Z0-9] becomes a dash, the result is lower-cased
// and trailing dashes are dropped.
func Conform(name string) string {
	return strings.TrimRight(strings.ToLower(nonConforming.ReplaceAllString(name, "-")), "-")
}

// BuildImage is the placeholder image of a service that only declares a
// build context.
func BuildImage(service string) string {
	return "${BUILD_" + service + "}"
}
