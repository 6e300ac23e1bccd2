package config

import "testing"

func TestServerDefaults(t *testing.T) {
	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("addr %q", cfg.HTTPAddr)
	}
	if cfg.BaseStake != 1000 || cfg.JuryCollateral != 100 || cfg.InitialBalance != 100000 {
		t.Fatalf("economics defaults: %+v", cfg)
	}
}

func TestServerOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("BASE_STAKE", "42")
	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":9999" || cfg.BaseStake != 42 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLogDefaults(t *testing.T) {
	cfg, err := LoadLog()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Level != "info" || cfg.MaxMB != 10 {
		t.Fatalf("log defaults: %+v", cfg)
	}
}
