package openrouter

import "testing"

func TestResolvedDefaultsPerProvider(t *testing.T) {
	t.Parallel()

	router := Config{Model: "m", APIKey: " key "}
	if got := router.ResolvedBaseURL(); got != DefaultOpenRouterURL {
		t.Fatalf("ResolvedBaseURL() = %q, want %q", got, DefaultOpenRouterURL)
	}
	if got := router.ResolvedAPIKey(); got != "key" {
		t.Fatalf("ResolvedAPIKey() = %q, want key", got)
	}

	ollama := Config{Provider: "Ollama", Model: "llama3"}
	if got := ollama.ResolvedBaseURL(); got != DefaultOllamaURL {
		t.Fatalf("ResolvedBaseURL() = %q, want %q", got, DefaultOllamaURL)
	}
	if got := ollama.ResolvedAPIKey(); got == "" {
		t.Fatal("expected placeholder key for ollama")
	}

	custom := Config{BaseURL: "http://gpu-box:11434/v1/", Provider: ProviderOllama, Model: "llama3"}
	if got := custom.ResolvedBaseURL(); got != "http://gpu-box:11434/v1" {
		t.Fatalf("ResolvedBaseURL() = %q", got)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "openrouter ok", cfg: Config{APIKey: "k", Model: "m"}},
		{name: "openrouter missing key", cfg: Config{Model: "m"}, wantErr: true},
		{name: "ollama without key", cfg: Config{Provider: ProviderOllama, Model: "m"}},
		{name: "missing model", cfg: Config{APIKey: "k"}, wantErr: true},
		{name: "unknown provider", cfg: Config{Provider: "mystery", APIKey: "k", Model: "m"}, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Parallel()

	if c := NewClient(Config{Model: "m"}); c != nil {
		t.Fatal("expected nil client without api key")
	}
	if c := NewClient(Config{Provider: ProviderOllama, Model: "m"}); c == nil {
		t.Fatal("expected ollama client with placeholder key")
	}
}
