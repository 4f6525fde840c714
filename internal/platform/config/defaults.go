package config

// defaults is the lowest configuration layer. Every key a deployment may
// override from the environment must appear here or in configs/base.yaml.
func defaults() map[string]any {
	return map[string]any{
		"app": map[string]any{
			"name":        "agency-leads",
			"version":     "dev",
			"environment": "local",
		},
		"server": map[string]any{
			"port":             8080,
			"host":             "0.0.0.0",
			"read_timeout":     "30s",
			"write_timeout":    "30s",
			"idle_timeout":     "120s",
			"shutdown_timeout": "10s",
			"max_request_size": 1 << 20,
		},
		"log": map[string]any{
			"level":  "info",
			"format": "json",
			"file": map[string]any{
				"enabled":     false,
				"path":        "./logs/app.log",
				"max_size":    100,
				"max_backups": 3,
				"max_age":     28,
				"compress":    true,
			},
		},
		"telemetry": map[string]any{
			"enabled":       false,
			"endpoint":      "",
			"service_name":  "agency-leads",
			"sampling_rate": 1.0,
		},
		"auth": map[string]any{
			"enabled":        true,
			"subject_header": "X-User-ID",
			"roles_header":   "X-User-Roles",
		},
		"client": map[string]any{
			"timeout": "30s",
			"retry": map[string]any{
				"max_attempts":     3,
				"initial_interval": "100ms",
				"max_interval":     "5s",
				"multiplier":       2.0,
				"jitter_factor":    0.25,
			},
			"circuit_breaker": map[string]any{
				"max_failures":    5,
				"timeout":         "30s",
				"half_open_limit": 3,
			},
			"transport": map[string]any{
				"max_idle_conns":          100,
				"max_idle_conns_per_host": 10,
				"idle_conn_timeout":       "90s",
			},
		},
		"services": map[string]any{
			"quote": map[string]any{
				"base_url": "http://localhost:3001/api",
				"name":     "quote-api",
			},
		},
		"contacts": map[string]any{
			"path":  ".data/contacts.json",
			"watch": false,
		},
		"sessions": map[string]any{
			"ttl":       "24h",
			"in_memory": true,
			"dir":       ".data/sessions",
			"cookie":    "boat_wizard",
		},
		"site": map[string]any{
			"name":  "Harbor & Home Insurance Agency",
			"phone": "(555) 010-4400",
			"email": "quotes@harborhome.example",
		},
		"features": map[string]any{
			"consent": map[string]any{"strict": true},
			"stats":   map[string]any{"concurrency": 4},
			"export":  map[string]any{"page_size": 100},
			"site":    map[string]any{"banner": ""},
		},
	}
}
