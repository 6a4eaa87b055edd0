package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PORT", "")
	t.Setenv("APP_HTTP_ADDR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":3001" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.StoreDriver != StoreDriverPostgres {
		t.Fatalf("unexpected StoreDriver: %q", cfg.StoreDriver)
	}
	if cfg.DemoWalletAddress != DefaultDemoWalletAddress {
		t.Fatalf("unexpected DemoWalletAddress: %q", cfg.DemoWalletAddress)
	}
	if cfg.NotifyLeadTime != 30*time.Minute || cfg.NotifyDispatchInterval != 0 {
		t.Fatalf("unexpected notify timings: lead=%s interval=%s", cfg.NotifyLeadTime, cfg.NotifyDispatchInterval)
	}
	if cfg.PandaScorePageSize != 10 || !cfg.PandaScoreCircuit.Enabled || cfg.PandaScoreCircuit.FailureThreshold != 5 {
		t.Fatalf("unexpected pandascore defaults: %+v", cfg)
	}
	if cfg.WriteTimeout != 150*time.Second || cfg.ChainReceiptTimeout != 90*time.Second {
		t.Fatalf("unexpected timeouts: write=%s receipt=%s", cfg.WriteTimeout, cfg.ChainReceiptTimeout)
	}
	if cfg.WriteTimeout < cfg.ChainReceiptTimeout+chainSendAllowance {
		t.Fatalf("unexpected WriteTimeout: %s", cfg.WriteTimeout)
	}
}

func TestLoad_PortFallback(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_HTTP_ADDR", "")
	t.Setenv("PORT", "8081")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8081" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
}

func TestLoad_LegacyChainVariables(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CHAIN_RPC_URL", "")
	t.Setenv("BASE_RPC_URL", "https://mainnet.base.org")
	t.Setenv("USDC_TOKEN_ADDRESS", "")
	t.Setenv("BASE_USDC_ADDRESS", "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ChainRPCURL != "https://mainnet.base.org" {
		t.Fatalf("unexpected ChainRPCURL: %q", cfg.ChainRPCURL)
	}
	if cfg.USDCTokenAddress != "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913" {
		t.Fatalf("unexpected USDCTokenAddress: %q", cfg.USDCTokenAddress)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr string
	}{
		{key: "STORE_DRIVER", value: "mongo", wantErr: "STORE_DRIVER"},
		{key: "PANDASCORE_TIMEOUT", value: "soon", wantErr: "parse PANDASCORE_TIMEOUT"},
		{key: "PANDASCORE_PAGE_SIZE", value: "0", wantErr: "PANDASCORE_PAGE_SIZE must be > 0"},
		{key: "NEYNAR_CIRCUIT_FAILURE_COUNT", value: "-1", wantErr: "NEYNAR_CIRCUIT_FAILURE_COUNT must be > 0"},
		{key: "NOTIFY_DISPATCH_INTERVAL", value: "-1m", wantErr: "NOTIFY_DISPATCH_INTERVAL must be >= 0"},
		{key: "PREFERENCE_CACHE_TTL", value: "-5s", wantErr: "PREFERENCE_CACHE_TTL must be >= 0"},
		{key: "QSTASH_RETRIES", value: "-2", wantErr: "QSTASH_RETRIES must be >= 0"},
		{key: "DB_DISABLE_PREPARED_BINARY_RESULT", value: "not-bool", wantErr: "parse DB_DISABLE_PREPARED_BINARY_RESULT"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `foo=bar, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_QuickAuthRequiresVerifyURL(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("QUICKAUTH_ENABLED", "true")
	t.Setenv("QUICKAUTH_VERIFY_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when QUICKAUTH_ENABLED=true without QUICKAUTH_VERIFY_URL")
	}
}

func TestLoad_QStashRequirements(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("QSTASH_ENABLED", "true")
	t.Setenv("QSTASH_TOKEN", "token")
	t.Setenv("QSTASH_TARGET_BASE_URL", "https://api.proplay.test")
	t.Setenv("INTERNAL_JOB_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when QSTASH_ENABLED=true without INTERNAL_JOB_TOKEN")
	}

	t.Setenv("INTERNAL_JOB_TOKEN", "secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.QStashEnabled || cfg.QStashRetries != 3 {
		t.Fatalf("unexpected qstash config: enabled=%v retries=%d", cfg.QStashEnabled, cfg.QStashRetries)
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_SERVICE_NAME", "pro-play-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "pro-play-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
		t.Fatalf("unexpected CORS origins: %+v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_ReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	content := "NEYNAR_API_KEY=from-file\nAPP_SERVICE_NAME=from-file\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Chdir(dir)
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_SERVICE_NAME", "from-env")
	t.Setenv("NEYNAR_API_KEY", "")
	// godotenv sets the variable on the process; restore it after the test.
	t.Cleanup(func() { _ = os.Unsetenv("NEYNAR_API_KEY") })
	_ = os.Unsetenv("NEYNAR_API_KEY")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.NeynarAPIKey != "from-file" {
		t.Fatalf("expected key from .env, got %q", cfg.NeynarAPIKey)
	}
	if cfg.ServiceName != "from-env" {
		t.Fatalf("environment must win over .env, got %q", cfg.ServiceName)
	}
}

func TestLoad_WriteTimeoutMustOutlastReceiptWait(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_WRITE_TIMEOUT", "120s")
	t.Setenv("CHAIN_RECEIPT_TIMEOUT", "120s")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "APP_WRITE_TIMEOUT") {
		t.Fatalf("expected write timeout error, got %v", err)
	}

	t.Setenv("APP_WRITE_TIMEOUT", "3m")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.WriteTimeout != 3*time.Minute {
		t.Fatalf("unexpected WriteTimeout: %s", cfg.WriteTimeout)
	}
}
