// AngelaMos | 2026
// password.go

package core

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

var ErrMalformedHash = errors.New("malformed password hash")

// PasswordParams are the argon2id costs encoded into every stored hash.
// A stored hash produced with different costs is upgraded on next sign-in.
type PasswordParams struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLen     uint32
	KeyLen      uint32
}

var DefaultPasswordParams = PasswordParams{
	Memory:      64 * 1024,
	Iterations:  1,
	Parallelism: 4,
	SaltLen:     16,
	KeyLen:      32,
}

// PasswordCheck is the outcome of comparing a sign-in attempt with an
// account's stored hash. Rehash is set only on a match whose stored
// costs are out of date.
type PasswordCheck struct {
	Match  bool
	Rehash string
}

func HashPassword(password string) (string, error) {
	return DefaultPasswordParams.Hash(password)
}

func (p PasswordParams) Hash(password string) (string, error) {
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}

	key := p.derive(password, salt, p.KeyLen)

	var b strings.Builder
	fmt.Fprintf(&b, "$argon2id$v=%d$m=%d,t=%d,p=%d$",
		argon2.Version, p.Memory, p.Iterations, p.Parallelism)
	b.WriteString(base64.RawStdEncoding.EncodeToString(salt))
	b.WriteByte('$')
	b.WriteString(base64.RawStdEncoding.EncodeToString(key))

	return b.String(), nil
}

func (p PasswordParams) derive(password string, salt []byte, keyLen uint32) []byte {
	return argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, keyLen)
}

// CheckPassword compares password with stored. Accounts without a hash
// (pending invitations, unknown emails) are compared against a decoy so
// the response time does not reveal which case was hit.
func CheckPassword(password string, stored *string) (PasswordCheck, error) {
	if stored == nil || *stored == "" {
		decoy := decoyHash()
		//nolint:errcheck // result is discarded, only the cost matters
		_, _ = matchPassword(password, decoy)
		return PasswordCheck{}, nil
	}

	return matchPassword(password, *stored)
}

func matchPassword(password, encoded string) (PasswordCheck, error) {
	params, salt, want, err := parseHash(encoded)
	if err != nil {
		return PasswordCheck{}, err
	}

	//nolint:gosec // G115: argon2 key lengths are tiny
	got := params.derive(password, salt, uint32(len(want)))
	if subtle.ConstantTimeCompare(want, got) != 1 {
		return PasswordCheck{}, nil
	}

	check := PasswordCheck{Match: true}
	if params != DefaultPasswordParams {
		// a failed upgrade leaves the old hash in place
		if upgraded, hashErr := HashPassword(password); hashErr == nil {
			check.Rehash = upgraded
		}
	}

	return check, nil
}

func parseHash(encoded string) (PasswordParams, []byte, []byte, error) {
	var params PasswordParams

	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" || fields[1] != "argon2id" {
		return params, nil, nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(
		fields[2]+" "+fields[3],
		"v=%d m=%d,t=%d,p=%d",
		&version, &params.Memory, &params.Iterations, &params.Parallelism,
	); err != nil {
		return params, nil, nil, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}

	if version != argon2.Version {
		return params, nil, nil, fmt.Errorf("%w: argon2 version %d", ErrMalformedHash, version)
	}

	salt, err := base64.RawStdEncoding.DecodeString(fields[4])
	if err != nil {
		return params, nil, nil, fmt.Errorf("%w: salt: %w", ErrMalformedHash, err)
	}

	key, err := base64.RawStdEncoding.DecodeString(fields[5])
	if err != nil {
		return params, nil, nil, fmt.Errorf("%w: key: %w", ErrMalformedHash, err)
	}

	//nolint:gosec // G115: lengths are bounded by the encoder
	params.SaltLen, params.KeyLen = uint32(len(salt)), uint32(len(key))

	return params, salt, key, nil
}

var decoyHash = sync.OnceValue(func() string {
	hash, err := HashPassword("maintenance-tracker-decoy")
	if err != nil {
		panic(fmt.Sprintf("core: build decoy hash: %v", err))
	}
	return hash
})
