package main

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/atinyakov/VitalsKeeper/internal/certgen"
)

func TestRun_CreatesUsableServerPair(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "certs")

	if err := run(dir, []string{"localhost", "127.0.0.1"}); err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, name := range []string{certgen.CACertFile, certgen.CAKeyFile, certgen.ServerCertFile, certgen.ServerKeyFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}

	// server pair must load as the HTTPS listener would load it
	pair, err := tls.LoadX509KeyPair(filepath.Join(dir, certgen.ServerCertFile), filepath.Join(dir, certgen.ServerKeyFile))
	if err != nil {
		t.Fatalf("LoadX509KeyPair: %v", err)
	}
	leaf, err := x509.ParseCertificate(pair.Certificate[0])
	if err != nil {
		t.Fatal(err)
	}

	pool, err := certgen.LoadCertPool(filepath.Join(dir, certgen.CACertFile))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := leaf.Verify(x509.VerifyOptions{DNSName: "localhost", Roots: pool}); err != nil {
		t.Errorf("server cert does not chain to the CA: %v", err)
	}
}

func TestRun_ReusesExistingCA(t *testing.T) {
	dir := t.TempDir()
	if err := run(dir, []string{"localhost"}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	caBefore, err := os.ReadFile(filepath.Join(dir, certgen.CACertFile))
	if err != nil {
		t.Fatal(err)
	}

	if err := run(dir, []string{"localhost"}); err != nil {
		t.Fatalf("second run: %v", err)
	}
	caAfter, err := os.ReadFile(filepath.Join(dir, certgen.CACertFile))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(caBefore, caAfter) {
		t.Error("existing CA was replaced")
	}
}

func TestRun_CorruptCA(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, certgen.CACertFile), []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, certgen.CAKeyFile), []byte("junk"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := run(dir, []string{"localhost"}); err == nil {
		t.Error("expected error for corrupt CA files")
	}
}

func TestSplitHosts(t *testing.T) {
	got := splitHosts(" localhost, 127.0.0.1 ,,api.local")
	want := []string{"localhost", "127.0.0.1", "api.local"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitHosts = %v; want %v", got, want)
	}
}
