package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Default Argon2id parameters, following OWASP recommendations
const (
	DefaultMemory      = 64 * 1024 // 64 MB
	DefaultIterations  = 3
	DefaultParallelism = 2
	SaltLength         = 16
	KeyLength          = 32
)

var ErrInvalidHash = errors.New("invalid hash format")

// IHasher turns a plain password into an opaque credential and checks it back.
// The messenger core only stores the encoded result.
type IHasher interface {
	Hash(password string) (string, error)
	Compare(password, encodedHash string) (bool, error)
}

type Argon2Hasher struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
}

var _ IHasher = Argon2Hasher{}

func NewArgon2Hasher(memoryKB, iterations int) Argon2Hasher {
	if memoryKB <= 0 {
		memoryKB = DefaultMemory
	}
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return Argon2Hasher{Memory: uint32(memoryKB), Iterations: uint32(iterations), Parallelism: DefaultParallelism}
}

// Hash generates an Argon2id hash and encodes its parameters alongside it,
// so changing the defaults never invalidates existing credentials.
func (h Argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, h.Iterations, h.Memory, h.Parallelism, KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.Memory, h.Iterations, h.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash)), nil
}

// Compare re-derives the key with the parameters stored in encodedHash.
// bcrypt hashes written by the previous JSON server are still accepted.
func (h Argon2Hasher) Compare(password, encodedHash string) (bool, error) {
	if isBcrypt(encodedHash) {
		return compareBcrypt(password, encodedHash)
	}
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrInvalidHash
	}

	var version int
	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, err
	}
	decodedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, err
	}

	comparisonHash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(decodedHash)))

	// Constant time comparison to prevent timing attacks
	return subtle.ConstantTimeCompare(decodedHash, comparisonHash) == 1, nil
}

func isBcrypt(encodedHash string) bool {
	return strings.HasPrefix(encodedHash, "$2a$") ||
		strings.HasPrefix(encodedHash, "$2b$") ||
		strings.HasPrefix(encodedHash, "$2y$")
}

func compareBcrypt(password, encodedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
}
