package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromYAML(t *testing.T) {
	cfg, err := FromYAML([]byte(`
organisatie:
  rsin: "123456782"
zaakidentificatie:
  prefix: GEM
registry:
  token: "tok"
  cache_size: 128
  cache_ttl_minutes: 5
notificaties:
  hooks:
    - url: https://hooks.example/notify
      kanalen: [zaken]
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Organisatie.RSIN != "123456782" {
		t.Errorf("rsin: got %s", cfg.Organisatie.RSIN)
	}
	if cfg.Zaakidentificatie.Prefix != "GEM" {
		t.Errorf("prefix: got %s", cfg.Zaakidentificatie.Prefix)
	}
	if cfg.Registry.CacheSize != 128 || cfg.Registry.CacheTTLMinutes != 5 {
		t.Errorf("cache: got %d/%d", cfg.Registry.CacheSize, cfg.Registry.CacheTTLMinutes)
	}
	if len(cfg.Notificaties.Hooks) != 1 || !cfg.Notificaties.Hooks[0].IsEnabled() {
		t.Errorf("hooks: got %+v", cfg.Notificaties.Hooks)
	}
}

func TestFromYAMLDefaultsPrefix(t *testing.T) {
	cfg, err := FromYAML([]byte(`organisatie:
  rsin: "123456782"
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Zaakidentificatie.Prefix != "ZAAK" {
		t.Errorf("expected default prefix ZAAK, got %s", cfg.Zaakidentificatie.Prefix)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []string{
		"organisatie:\n  rsin: \"12345\"\n",
		"registry:\n  cache_size: -1\n",
		"registry:\n  cache_ttl_minutes: -1\n",
		"notificaties:\n  hooks:\n    - kanalen: [zaken]\n",
	}
	for _, in := range cases {
		if _, err := FromYAML([]byte(in)); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestHookEnabled(t *testing.T) {
	off := false
	h := Hook{URL: "https://hooks.example", Enabled: &off}
	if h.IsEnabled() {
		t.Error("expected disabled hook")
	}
}

func TestLoadOptional(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadOptional(dir)
	if err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
	if cfg.Zaakidentificatie.Prefix != "ZAAK" {
		t.Errorf("expected default prefix, got %s", cfg.Zaakidentificatie.Prefix)
	}

	if err := os.WriteFile(filepath.Join(dir, "zrc.yml"), []byte(GenerateDefault("123456782")), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err = LoadOptional(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Organisatie.RSIN != "123456782" {
		t.Errorf("rsin: got %s", cfg.Organisatie.RSIN)
	}
	if cfg.Registry.CacheSize != 512 {
		t.Errorf("cache_size: got %d", cfg.Registry.CacheSize)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("expected error for missing config")
	}
}
