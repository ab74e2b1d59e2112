package config

import (
	"os"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:      HTTPConfig{Port: 8080},
		Database:  DatabaseConfig{Addrs: []string{"localhost:6379"}},
		LLM:       LLMConfig{APIKey: "test-key"},
		Embedding: EmbeddingConfig{APIKey: "test-key"},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_MissingAPIKeys(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing llm api key")
	}

	cfg = validConfig()
	cfg.Embedding.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing embedding api key")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("llm model default = %q", cfg.LLM.Model)
	}
	if cfg.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("embedding model default = %q", cfg.Embedding.Model)
	}
	if cfg.Retrieval.DefaultK != 4 {
		t.Errorf("default_k = %d, want 4", cfg.Retrieval.DefaultK)
	}
	if cfg.Retrieval.VariantCount != 3 {
		t.Errorf("variant_count = %d, want 3", cfg.Retrieval.VariantCount)
	}
	if cfg.Index.Name != "recipes" {
		t.Errorf("index name default = %q", cfg.Index.Name)
	}
	if cfg.Index.HNSWM != 32 || cfg.Index.HNSWEFConstruct != 400 {
		t.Errorf("hnsw defaults = %d/%d", cfg.Index.HNSWM, cfg.Index.HNSWEFConstruct)
	}
}

func TestExpandEnvVars(t *testing.T) {
	if err := os.Setenv("CHEFBOOST_TEST_KEY", "secret"); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Unsetenv("CHEFBOOST_TEST_KEY") }()

	in := []byte("api_key: ${CHEFBOOST_TEST_KEY}\nmodel: ${CHEFBOOST_UNSET:-fallback}\n")
	out := string(expandEnvVars(in))

	want := "api_key: secret\nmodel: fallback\n"
	if out != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", out, want)
	}
}
