package config

import "testing"

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"pubsub": map[string]any{
			"topicId": "",
		},
		"secretKey": map[string]any{
			"access": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "PUBSUB_TOPICID", want: "pubsub.topicId"},
		{envKey: "SECRETKEY_ACCESS", want: "secretKey.access"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestApplyDefaults_FillsOptionalSections(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.HTTP.MaxRequestBodySize != defaultMaxRequestBodySize {
		t.Fatalf("MaxRequestBodySize = %q, want %q", cfg.HTTP.MaxRequestBodySize, defaultMaxRequestBodySize)
	}
	if cfg.Database.Driver != DriverPostgres {
		t.Fatalf("Database.Driver = %q, want %q", cfg.Database.Driver, DriverPostgres)
	}
	if cfg.Routing.Policy != RoutingPolicyLowestTotalInvested {
		t.Fatalf("Routing.Policy = %q, want %q", cfg.Routing.Policy, RoutingPolicyLowestTotalInvested)
	}
	if !cfg.Reconcile.OnRead {
		t.Fatal("Reconcile.OnRead should default to true")
	}
	if cfg.Emission.EnergyPerKwh <= 0 || cfg.Emission.PricePerKgKz <= 0 {
		t.Fatalf("unexpected emission defaults: %+v", cfg.Emission)
	}
}

func TestApplyDefaults_KeepsConfiguredValues(t *testing.T) {
	cfg := &Config{
		Database: &DatabaseConfig{Driver: DriverSQLite},
		Routing:  &RoutingConfig{Policy: RoutingPolicyOldestFirst},
		Reconcile: &ReconcileConfig{
			OnRead: false,
		},
	}
	cfg.applyDefaults()

	if cfg.Database.Driver != DriverSQLite {
		t.Fatalf("Database.Driver = %q, want %q", cfg.Database.Driver, DriverSQLite)
	}
	if cfg.Routing.Policy != RoutingPolicyOldestFirst {
		t.Fatalf("Routing.Policy = %q, want %q", cfg.Routing.Policy, RoutingPolicyOldestFirst)
	}
	if cfg.Reconcile.OnRead {
		t.Fatal("Reconcile.OnRead should keep the configured false")
	}
}
