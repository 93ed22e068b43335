// Package config provides centralized configuration loaded from environment
// variables. Shared by every cmd/unesco subcommand.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Endpoint registry — UIS statistical domains scraped by default
// --------------------------------------------------------------------------

// EndpointRegistry maps UIS endpoint ids to their public info pages. An info
// URL of " " means the endpoint has no topic page; resource descriptions
// omit the link in that case.
var EndpointRegistry = map[string]string{
	"DEM_ECO":         " ",
	"EDU_FINANCE":     "http://uis.unesco.org/en/topic/education-finance",
	"EDU_NON_FINANCE": "http://uis.unesco.org/en/topic/education",
	"SDG4":            "http://uis.unesco.org/en/topic/sustainable-development-goal-4",
}

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// UIS API
	BaseURL         string
	SubscriptionKey string
	Locale          string

	// Endpoint id -> info URL. Defaults to EndpointRegistry.
	Endpoints map[string]string

	// Pipeline behaviour
	OutputFolder    string
	MaxObservations int  // per-request observation ceiling imposed by the API
	MergeResources  bool // merge chunk downloads into one CSV per endpoint

	// Request pacing and quota retry
	RequestsPerMinute int
	RetryInterval     time.Duration
	RetryMaxInterval  time.Duration
	RetryMaxElapsed   time.Duration // 0 = retry until the quota recovers
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	baseURL := envOr("UIS_BASE_URL", "https://api.uis.unesco.org/sdmx/")
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	key := os.Getenv("UIS_SUBSCRIPTION_KEY")
	if key == "" {
		return nil, fmt.Errorf("UIS_SUBSCRIPTION_KEY must be set")
	}

	endpoints, err := envEndpoints("UIS_ENDPOINTS")
	if err != nil {
		return nil, err
	}

	return &Config{
		BaseURL:         baseURL,
		SubscriptionKey: key,
		Locale:          envOr("UIS_LOCALE", "en"),

		Endpoints: endpoints,

		OutputFolder:    envOr("OUTPUT_FOLDER", "output"),
		MaxObservations: envInt("MAX_OBSERVATIONS", 1800),
		MergeResources:  envBool("MERGE_RESOURCES", true),

		RequestsPerMinute: envInt("REQUESTS_PER_MINUTE", 300),
		RetryInterval:     envDuration("RETRY_INTERVAL", time.Minute),
		RetryMaxInterval:  envDuration("RETRY_MAX_INTERVAL", 5*time.Minute),
		RetryMaxElapsed:   envDuration("RETRY_MAX_ELAPSED", 0),
	}, nil
}

// envEndpoints parses a comma-separated list of ID=infoURL pairs. An omitted
// value falls back to the built-in registry.
func envEndpoints(key string) (map[string]string, error) {
	v := os.Getenv(key)
	if v == "" {
		endpoints := make(map[string]string, len(EndpointRegistry))
		for id, infoURL := range EndpointRegistry {
			endpoints[id] = infoURL
		}
		return endpoints, nil
	}
	endpoints := make(map[string]string)
	for _, pair := range strings.Split(v, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		id, infoURL, found := strings.Cut(pair, "=")
		if !found || id == "" {
			return nil, fmt.Errorf("%s: malformed entry %q, want ID=infoURL", key, pair)
		}
		if infoURL == "" {
			infoURL = " "
		}
		endpoints[id] = infoURL
	}
	return endpoints, nil
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
