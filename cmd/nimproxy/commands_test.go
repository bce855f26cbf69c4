package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"nimproxy/pkg/cli"
	"nimproxy/pkg/config"
)

// isolate clears every environment variable the configuration reads and
// resets the global flags.
func isolate(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		config.EnvPort, config.EnvBaseURL, config.EnvAPIKey, config.EnvDefaultModel,
		config.EnvConfigPath, config.EnvListenAddress, config.EnvMaxBodyBytes,
		config.EnvLogLevel, config.EnvLogFormat, config.EnvMetrics, config.EnvReporter,
		config.EnvReportSched, config.EnvShutdown, config.EnvTracing, config.EnvOTLPEndpoint,
	} {
		t.Setenv(name, "")
	}

	origCfg, origEnv := cfgFile, envFiles
	t.Cleanup(func() { cfgFile, envFiles = origCfg, origEnv })

	t.Chdir(t.TempDir())
	cfgFile = ""
	envFiles = []string{".env"}
}

func newTestCommand() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetContext(context.Background())
	return cmd, &buf
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateConfig(t *testing.T) {
	isolate(t)
	cfgFile = writeFile(t, "nimproxy.yaml", `
proxy:
  listen_address: "127.0.0.1:8080"
upstream:
  default_model: "nvidia/nemotron-4-340b-instruct"
`)

	cmd, out := newTestCommand()
	if err := validateConfig(cmd, nil); err != nil {
		t.Fatalf("validateConfig() error = %v", err)
	}

	for _, want := range []string{
		"✓ Configuration valid",
		"127.0.0.1:8080",
		"nvidia/nemotron-4-340b-instruct",
		"Default API key: not set",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestValidateConfig_Invalid(t *testing.T) {
	isolate(t)
	cfgFile = writeFile(t, "nimproxy.yaml", `
upstream:
  base_url: "integrate.api.nvidia.com"
`)

	cmd, _ := newTestCommand()
	err := validateConfig(cmd, nil)
	if err == nil {
		t.Fatal("validateConfig() should fail for a relative base URL")
	}
	if !strings.Contains(err.Error(), "upstream.base_url") {
		t.Errorf("error should name the field: %v", err)
	}
	if code := cli.ExitCode(err); code != cli.ExitConfig {
		t.Errorf("ExitCode() = %d, want %d", code, cli.ExitConfig)
	}
}

func TestValidateConfig_DotEnv(t *testing.T) {
	isolate(t)
	if err := os.WriteFile(".env", []byte("NIM_API_KEY=nvapi-from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv sets the variable for the rest of the process.
	t.Cleanup(func() { os.Unsetenv(config.EnvAPIKey) })
	os.Unsetenv(config.EnvAPIKey)

	cmd, out := newTestCommand()
	if err := validateConfig(cmd, nil); err != nil {
		t.Fatalf("validateConfig() error = %v", err)
	}
	if !strings.Contains(out.String(), "Default API key: set") {
		t.Errorf("expected .env credential to be picked up:\n%s", out.String())
	}
}

func newModelsUpstream(t *testing.T, status int, body string) (*httptest.Server, *string) {
	t.Helper()
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if r.URL.Path != "/models" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &auth
}

const modelListBody = `{"object":"list","data":[{"id":"meta/llama-3.1-8b-instruct","object":"model","created":1721088000,"owned_by":"meta"}]}`

func TestListModels_JSON(t *testing.T) {
	isolate(t)
	srv, auth := newModelsUpstream(t, http.StatusOK, modelListBody)
	t.Setenv(config.EnvBaseURL, srv.URL)
	t.Setenv(config.EnvAPIKey, "nvapi-configured")
	modelsFlags.apiKey, modelsFlags.output = "", "json"

	cmd, out := newTestCommand()
	if err := listModels(cmd, nil); err != nil {
		t.Fatalf("listModels() error = %v", err)
	}

	if *auth != "Bearer nvapi-configured" {
		t.Errorf("Authorization = %q", *auth)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if decoded["object"] != "list" {
		t.Errorf("object = %v", decoded["object"])
	}
}

func TestListModels_Text(t *testing.T) {
	isolate(t)
	srv, auth := newModelsUpstream(t, http.StatusOK, modelListBody)
	t.Setenv(config.EnvBaseURL, srv.URL)
	modelsFlags.apiKey, modelsFlags.output = "nvapi-flag", "text"
	t.Cleanup(func() { modelsFlags.apiKey, modelsFlags.output = "", "json" })

	cmd, out := newTestCommand()
	if err := listModels(cmd, nil); err != nil {
		t.Fatalf("listModels() error = %v", err)
	}

	if *auth != "Bearer nvapi-flag" {
		t.Errorf("Authorization = %q, want the --api-key value", *auth)
	}
	for _, want := range []string{"ID", "meta/llama-3.1-8b-instruct", "meta", "2024-07-16"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestListModels_NoKey(t *testing.T) {
	isolate(t)
	modelsFlags.apiKey, modelsFlags.output = "", "json"

	cmd, _ := newTestCommand()
	err := listModels(cmd, nil)
	if cli.ExitCode(err) != cli.ExitConfig {
		t.Errorf("listModels() without a key = %v, want a config error", err)
	}
}

func TestListModels_UpstreamError(t *testing.T) {
	isolate(t)
	srv, _ := newModelsUpstream(t, http.StatusUnauthorized, `{"error":{"message":"bad key"}}`)
	t.Setenv(config.EnvBaseURL, srv.URL)
	modelsFlags.apiKey, modelsFlags.output = "nvapi-wrong", "json"
	t.Cleanup(func() { modelsFlags.apiKey = "" })

	cmd, _ := newTestCommand()
	err := listModels(cmd, nil)
	if err == nil {
		t.Fatal("listModels() should fail on an upstream 401")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error should carry the upstream status: %v", err)
	}
	if cli.ExitCode(err) != cli.ExitFailure {
		t.Errorf("ExitCode() = %d, want %d", cli.ExitCode(err), cli.ExitFailure)
	}
}

func TestRunServer_DryRun(t *testing.T) {
	isolate(t)
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	origFlags := runFlags
	t.Cleanup(func() { runFlags = origFlags })
	runFlags.dryRun = true
	runFlags.listenAddress = "127.0.0.1:0"
	runFlags.logLevel = "warn"

	cmd, out := newTestCommand()
	if err := runServer(cmd, nil); err != nil {
		t.Fatalf("runServer() error = %v", err)
	}
	if !strings.Contains(out.String(), "✓ Configuration valid") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestRunServer_InvalidLogLevel(t *testing.T) {
	isolate(t)
	origFlags := runFlags
	t.Cleanup(func() { runFlags = origFlags })
	runFlags.dryRun = true
	runFlags.logLevel = "verbose"

	cmd, _ := newTestCommand()
	err := runServer(cmd, nil)
	if cli.ExitCode(err) != cli.ExitConfig {
		t.Errorf("runServer() with bad log level = %v, want a config error", err)
	}
}
