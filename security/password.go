// Package security implements password hashing and access token
// issuance for the authentication flow.
package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Hasher produces and verifies password hashes. New hashes use argon2id;
// verification also accepts legacy bcrypt hashes so existing accounts keep
// working until their hash is migrated on login.
type Hasher struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
	saltLen uint32
}

// NewHasher returns a hasher with the current preferred argon2id parameters.
func NewHasher() *Hasher {
	return &Hasher{
		time:    1,
		memory:  64 * 1024,
		threads: 4,
		keyLen:  32,
		saltLen: 16,
	}
}

// Hash returns a self-describing argon2id hash of the plaintext. The
// algorithm, cost parameters, salt and digest are all embedded, so later
// verification needs no out-of-band knowledge.
func (h *Hasher) Hash(plaintext string) (string, error) {
	salt := make([]byte, h.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext), salt, h.time, h.memory, h.threads, h.keyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

// Verify reports whether the plaintext matches the stored hash. Malformed
// hashes verify as false rather than returning an error. Verification never
// mutates anything; callers decide whether to re-hash via NeedsUpgrade.
func (h *Hasher) Verify(plaintext, encoded string) bool {
	if strings.HasPrefix(encoded, "$argon2id$") {
		return h.verifyArgon2id(plaintext, encoded)
	}
	if strings.HasPrefix(encoded, "$2a$") || strings.HasPrefix(encoded, "$2b$") || strings.HasPrefix(encoded, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plaintext)) == nil
	}
	return false
}

// NeedsUpgrade reports whether the stored hash was produced by anything
// other than the current preferred scheme and parameters. A hash freshly
// produced by Hash never needs an upgrade.
func (h *Hasher) NeedsUpgrade(encoded string) bool {
	memory, time, threads, _, key, err := parseArgon2id(encoded)
	if err != nil {
		return true
	}
	return memory != h.memory || time != h.time || threads != h.threads || uint32(len(key)) != h.keyLen
}

func (h *Hasher) verifyArgon2id(plaintext, encoded string) bool {
	memory, time, threads, salt, key, err := parseArgon2id(encoded)
	if err != nil {
		return false
	}
	computed := argon2.IDKey([]byte(plaintext), salt, time, memory, threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(computed, key) == 1
}

func parseArgon2id(encoded string) (memory, time uint32, threads uint8, salt, key []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, fmt.Errorf("malformed argon2id hash")
	}

	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("malformed argon2id version: %w", err)
	}
	if version != argon2.Version {
		return 0, 0, 0, nil, nil, fmt.Errorf("unsupported argon2id version %d", version)
	}

	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("malformed argon2id parameters: %w", err)
	}

	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("malformed argon2id salt: %w", err)
	}
	if key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("malformed argon2id digest: %w", err)
	}
	return memory, time, threads, salt, key, nil
}
