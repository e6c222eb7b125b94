package config

import (
	"sort"
	"strings"
)

type Cors struct {
	origins AllowedOrigins
}

var _ CorsConfig = Cors{}

type AllowedOrigins map[string]struct{}
type nullValue = struct{}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	_, ok := a[origin]
	return ok
}

func (a AllowedOrigins) String() string {
	var origins []string
	for k := range a {
		origins = append(origins, k)
	}
	sort.Strings(origins)
	return strings.Join(origins, ", ")
}

// ParseAllowedOrigins splits a comma separated origin list.
func ParseAllowedOrigins(list string) AllowedOrigins {
	origins := AllowedOrigins{}
	for _, o := range strings.Split(list, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			origins[o] = nullValue{}
		}
	}
	return origins
}

func loadCors() Cors {
	return Cors{origins: ParseAllowedOrigins(GetEnv("ALLOWED_ORIGINS", ""))}
}

func (c Cors) GetAllowedOrigins() AllowedOrigins {
	return c.origins
}

func (Cors) GetAllowedMethods() string {
	return "GET, POST, PUT, PATCH, DELETE"
}

func (Cors) GetAllowedHeaders() string {
	return "Content-Type, Authorization"
}
