package auth

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/ziadkadry99/policyvote/internal/kv"
)

// DeviceFingerprint returns the per-device identifier, generating and
// persisting it on first use. Later calls return the same value.
func (s *Store) DeviceFingerprint(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fingerprint != "" {
		return s.fingerprint, nil
	}

	stored, ok, err := s.kv.Get(ctx, kv.KeyFingerprint)
	if err != nil {
		return "", err
	}
	if ok && stored != "" {
		s.fingerprint = stored
		return stored, nil
	}

	fp := newFingerprint(s.now().UnixMilli(), s.env())
	if err := s.kv.Set(ctx, kv.KeyFingerprint, fp); err != nil {
		return "", fmt.Errorf("saving device fingerprint: %w", err)
	}
	s.fingerprint = fp
	return fp, nil
}

// newFingerprint builds dev_<millis>_<random>_<salt>.
func newFingerprint(millis int64, env string) string {
	sum := sha256.Sum256([]byte(env))
	salt := hex.EncodeToString(sum[:8])
	return "dev_" + strconv.FormatInt(millis, 10) + "_" + randomBase36(uuid.New()) + "_" + salt
}

// base36Width random characters are drawn per fingerprint.
const base36Width = 9

// randomBase36 encodes the random tail of a v4 UUID as base36, left
// padded with zeros to base36Width characters.
func randomBase36(u uuid.UUID) string {
	const space = 101559956668416 // 36^9
	v := binary.BigEndian.Uint64(u[8:]) % space
	s := strconv.FormatUint(v, 36)
	return strings.Repeat("0", base36Width-len(s)) + s
}

// hostEnvironment describes the rendering environment the client runs in.
func hostEnvironment() string {
	host, _ := os.Hostname()
	return strings.Join([]string{
		host,
		runtime.GOOS,
		runtime.GOARCH,
		os.Getenv("TERM"),
		os.Getenv("LANG"),
	}, "|")
}
