package compose

import (
	"regexp"

	"github.com/matzehuels/archgraph/pkg/arch"
)

type imageMapping struct {
	Pattern *regexp.Regexp
	Type    arch.ComponentType
	Service string
}

// imageMappings is checked in order; the first match wins.
var imageMappings = []imageMapping{
	// Databases
	{regexp.MustCompile(`(?i)postgres`), arch.TypeDatabase, "postgres"},
	{regexp.MustCompile(`(?i)mysql`), arch.TypeDatabase, "mysql"},
	{regexp.MustCompile(`(?i)mariadb`), arch.TypeDatabase, "mariadb"},
	{regexp.MustCompile(`(?i)mongo`), arch.TypeDatabase, "mongodb"},
	{regexp.MustCompile(`(?i)elasticsearch`), arch.TypeDatabase, "elasticsearch"},
	{regexp.MustCompile(`(?i)cassandra`), arch.TypeDatabase, "cassandra"},

	// Cache
	{regexp.MustCompile(`(?i)redis`), arch.TypeCache, "redis"},
	{regexp.MustCompile(`(?i)memcached`), arch.TypeCache, "memcached"},

	// Messaging
	{regexp.MustCompile(`(?i)rabbitmq`), arch.TypeQueue, "rabbitmq"},
	{regexp.MustCompile(`(?i)kafka`), arch.TypeStream, "kafka"},
	{regexp.MustCompile(`(?i)nats`), arch.TypeQueue, "nats"},
	{regexp.MustCompile(`(?i)activemq`), arch.TypeQueue, "activemq"},

	// Proxies
	{regexp.MustCompile(`(?i)nginx`), arch.TypeCDN, "nginx"},
	{regexp.MustCompile(`(?i)traefik`), arch.TypeAPI, "traefik"},
	{regexp.MustCompile(`(?i)haproxy`), arch.TypeAPI, "haproxy"},
	{regexp.MustCompile(`(?i)caddy`), arch.TypeCDN, "caddy"},

	// Monitoring
	{regexp.MustCompile(`(?i)prometheus`), arch.TypeMonitoring, "prometheus"},
	{regexp.MustCompile(`(?i)grafana`), arch.TypeMonitoring, "grafana"},
	{regexp.MustCompile(`(?i)jaeger`), arch.TypeMonitoring, "jaeger"},

	// Auth
	{regexp.MustCompile(`(?i)keycloak`), arch.TypeAuth, "keycloak"},
}

var defaultMapping = imageMapping{Type: arch.TypeCompute, Service: "docker"}

func inferType(image string) imageMapping {
	for _, m := range imageMappings {
		if m.Pattern.MatchString(image) {
			return m
		}
	}
	return defaultMapping
}
