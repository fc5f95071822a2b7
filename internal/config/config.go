package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port             string
	LogFile          string
	TemplateDir      string
	StaticDir        string
	SeedDemo         bool
	SeedFile         string // optional YAML replacing the embedded demo data
	TransitionPolicy string
	FarmerName       string
	DistributorName  string
	RetailerName     string
}

func Load() Config {
	cfg := Config{
		Port:             env("PORT", "8080"),
		LogFile:          env("LOG_FILE", "./agritrace.log"),
		TemplateDir:      env("TEMPLATE_DIR", "./web/templates"),
		StaticDir:        env("STATIC_DIR", "./web/static"),
		SeedDemo:         envBool("SEED_DEMO", true),
		SeedFile:         os.Getenv("SEED_FILE"),
		TransitionPolicy: env("TRANSITION_POLICY", "adjacent-forward-only"),
		// Acting names shown on recorded events; there are no logins.
		FarmerName:      env("FARMER_NAME", "Maria Rodriguez"),
		DistributorName: env("DISTRIBUTOR_NAME", "Mike Wilson"),
		RetailerName:    env("RETAILER_NAME", "Store Manager"),
	}
	log.Printf("[config] PORT=%s LOG_FILE=%s TEMPLATE_DIR=%s SEED_DEMO=%t SEED_FILE=%s TRANSITION_POLICY=%s",
		cfg.Port, cfg.LogFile, cfg.TemplateDir, cfg.SeedDemo, cfg.SeedFile, cfg.TransitionPolicy)
	return cfg
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[warn] %s=%q is not a boolean, using %t", key, v, def)
		return def
	}
	return b
}
