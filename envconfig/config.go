// Package envconfig reads cevia settings from CEVIA_* environment
// variables.
package envconfig

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
)

var (
	// Set via CEVIA_DEBUG in the environment
	Debug bool
	// Set via CEVIA_HOST in the environment
	Host string
	// Set via CEVIA_MODELS in the environment
	ModelsDir string
	// Set via CEVIA_ORIGINS in the environment
	AllowOrigins []string
	// Set via CEVIA_NOHISTORY in the environment
	NoHistory bool
)

const defaultHost = "127.0.0.1:11540"

type EnvVar struct {
	Name        string
	Value       any
	Description string
}

func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"CEVIA_DEBUG":     {"CEVIA_DEBUG", Debug, "Show additional debug information (e.g. CEVIA_DEBUG=1)"},
		"CEVIA_HOST":      {"CEVIA_HOST", Host, "Host and port for the cevia server (default \"127.0.0.1:11540\")"},
		"CEVIA_MODELS":    {"CEVIA_MODELS", ModelsDir, "The directory holding model files"},
		"CEVIA_ORIGINS":   {"CEVIA_ORIGINS", AllowOrigins, "A comma separated list of allowed origins"},
		"CEVIA_NOHISTORY": {"CEVIA_NOHISTORY", NoHistory, "Do not preserve chat history"},
	}
}

func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}

// LoadConfig reads the environment into the package variables. It is called
// once at startup; calling it again re-reads the environment.
func LoadConfig() {
	Debug = os.Getenv("CEVIA_DEBUG") != ""
	NoHistory = os.Getenv("CEVIA_NOHISTORY") != ""

	Host = normalizeHost(os.Getenv("CEVIA_HOST"))

	ModelsDir = os.Getenv("CEVIA_MODELS")
	if ModelsDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			ModelsDir = filepath.Join(home, ".cevia", "models")
		}
	}

	AllowOrigins = nil
	if origins := os.Getenv("CEVIA_ORIGINS"); origins != "" {
		AllowOrigins = strings.Split(origins, ",")
	}
}

// normalizeHost fills in the default host and port where raw omits them.
func normalizeHost(raw string) string {
	if raw == "" {
		return defaultHost
	}

	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		// no port in raw
		return net.JoinHostPort(raw, "11540")
	}
	if host == "" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, port)
}

func init() {
	LoadConfig()
}
