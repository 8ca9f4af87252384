// Package main generates a development Certificate Authority and a server
// certificate signed by it, writing them under the "certs" directory.
// Point TLS_CERT and TLS_KEY at the server pair and give ca.crt to clients.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atinyakov/VitalsKeeper/internal/certgen"
)

const (
	caValidity     = 10 * 365 * 24 * time.Hour
	serverValidity = 365 * 24 * time.Hour
)

func main() {
	dir := flag.String("dir", "certs", "output directory")
	hosts := flag.String("hosts", "localhost,127.0.0.1", "comma-separated server host names and IPs")
	flag.Parse()

	if err := run(*dir, splitHosts(*hosts)); err != nil {
		fmt.Fprintln(os.Stderr, "certgen:", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Certificates generated into ./%s\n", *dir)
}

// run reuses an existing CA in dir, or creates one, and issues a fresh
// server certificate for hosts.
func run(dir string, hosts []string) error {
	caCert, caKey, err := certgen.LoadCACredentials(
		filepath.Join(dir, certgen.CACertFile),
		filepath.Join(dir, certgen.CAKeyFile),
	)
	if errors.Is(err, fs.ErrNotExist) {
		cert, key, genErr := certgen.GenerateCA("VitalsKeeper Dev CA", caValidity)
		if genErr != nil {
			return genErr
		}
		keyPEM, encErr := certgen.EncodeECKey(key)
		if encErr != nil {
			return encErr
		}
		if err := certgen.WritePair(dir, certgen.CACertFile, certgen.CAKeyFile, certgen.EncodeCert(cert.Raw), keyPEM); err != nil {
			return err
		}
		caCert, caKey, err = cert, key, nil
	}
	if err != nil {
		return err
	}

	certPEM, keyPEM, err := certgen.GenerateServerCertificate(hosts, caCert, caKey, serverValidity)
	if err != nil {
		return err
	}
	return certgen.WritePair(dir, certgen.ServerCertFile, certgen.ServerKeyFile, certPEM, keyPEM)
}

func splitHosts(raw string) []string {
	var out []string
	for _, h := range strings.Split(raw, ",") {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}
	return out
}
