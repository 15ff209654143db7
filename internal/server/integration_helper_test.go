package server

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"math/big"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/leslieo2/lanc-compliance/internal/config"
	"github.com/leslieo2/lanc-compliance/internal/observability"
)

// testConfig returns defaults without log files so tests do not write to ./logs.
func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Observability.Logging.Dir = ""
	return cfg
}

// newTestServer builds a Server that logs into an observer.
func newTestServer(t *testing.T, cfg *config.Config, readiness *observability.Registry) (*Server, *observer.ObservedLogs) {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}

	core, logs := observer.New(zapcore.DebugLevel)
	srv, err := New(cfg, observability.WrapLogger(zap.New(core)), readiness)
	require.NoError(t, err)
	srv.exit = func(int) {}
	t.Cleanup(func() { _ = srv.Close() })

	return srv, logs
}

func serve(t *testing.T, handler http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	}
	return rec, body
}

func get(t *testing.T, handler http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	return serve(t, handler, httptest.NewRequest(http.MethodGet, path, nil))
}

// testServer holds information about a running test server.
type testServer struct {
	srv     *Server
	baseURL string
	exitCh  chan int
	logs    *observer.ObservedLogs
}

// startTestServer starts a new server (HTTP or HTTPS) for integration tests.
// It listens on a dynamic port and returns a testServer instance and a cleanup function.
func startTestServer(t *testing.T, cfg *config.Config) (*testServer, func()) {
	t.Helper()

	if cfg.TLS.Enabled && (cfg.TLS.CertFile == "" || cfg.TLS.KeyFile == "") {
		certFile, keyFile, err := generateTestCertificates(t.TempDir())
		if err != nil {
			t.Fatalf("Failed to generate test certificates: %v", err)
		}
		cfg.TLS.CertFile = certFile
		cfg.TLS.KeyFile = keyFile
	}

	listener, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatalf("Failed to listen on a dynamic port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port

	core, logs := observer.New(zapcore.DebugLevel)
	appServer, err := New(cfg, observability.WrapLogger(zap.New(core)), nil)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	exitCh := make(chan int, 1)
	appServer.exit = func(code int) { exitCh <- code }

	protocol := "http"
	if cfg.TLS.Enabled {
		protocol = "https"
	}
	baseURL := fmt.Sprintf("%s://localhost:%d", protocol, port)

	errCh := make(chan error, 1)
	go func() {
		errCh <- appServer.Serve(listener)
	}()

	waitForServerReady(t, baseURL, cfg.TLS.Enabled)

	ts := &testServer{srv: appServer, baseURL: baseURL, exitCh: exitCh, logs: logs}

	cleanup := func() {
		if err := appServer.Close(); err != nil {
			t.Logf("Error closing test server: %v", err)
		}
		select {
		case err := <-errCh:
			if err != nil {
				t.Errorf("Test server returned an error: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Errorf("Test server did not stop")
		}
	}

	return ts, cleanup
}

func waitForServerReady(t *testing.T, baseURL string, tlsEnabled bool) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)

	client := &http.Client{Timeout: 1 * time.Second}
	if tlsEnabled {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL + "/health/liveness")
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("Server at %s failed to start within timeout", baseURL)
}

func generateTestCertificates(tmpDir string) (string, string, error) {
	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return "", "", err
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "localhost"},
		NotBefore:    time.Now().Add(-time.Minute),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		DNSNames:     []string{"localhost"},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1")},
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &privKey.PublicKey, privKey)
	if err != nil {
		return "", "", err
	}
	privKeyBytes, err := x509.MarshalPKCS8PrivateKey(privKey)
	if err != nil {
		return "", "", err
	}

	certFile := filepath.Join(tmpDir, "test-cert.pem")
	if err := os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER}), 0o600); err != nil {
		return "", "", err
	}
	keyFile := filepath.Join(tmpDir, "test-key.pem")
	if err := os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privKeyBytes}), 0o600); err != nil {
		return "", "", err
	}

	return certFile, keyFile, nil
}
