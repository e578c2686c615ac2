package fingerprint

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"runtime"
	"strings"
)

// Compute derives a semi-stable opaque identifier for this machine. It is a
// rate-limit key, never an identity credential: collisions are tolerable and
// the value must never be reversible to host details. It never fails; when no
// host trait can be read it returns a random value.
func Compute() string {
	var traits []string
	if host, err := os.Hostname(); err == nil && host != "" {
		traits = append(traits, host)
	}
	traits = append(traits, runtime.GOOS, runtime.GOARCH)
	if raw, err := os.ReadFile("/etc/machine-id"); err == nil {
		if id := strings.TrimSpace(string(raw)); id != "" {
			traits = append(traits, id)
		}
	}

	if len(traits) == 2 {
		// Only GOOS/GOARCH available; too little entropy to be useful.
		return randomFallback()
	}
	sum := sha256.Sum256([]byte(strings.Join(traits, "|")))
	return hex.EncodeToString(sum[:])
}

func randomFallback() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// Last resort: a fixed value still lets the product function, the
		// server just rate-limits all such clients as one bucket.
		return "anonymous-device"
	}
	return hex.EncodeToString(buf)
}
