// Package password stores user passwords as PHC-formatted argon2id hashes.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Params are the argon2id cost settings encoded into every hash.
type Params struct {
	Memory  uint32
	Time    uint32
	Threads uint8
	KeyLen  uint32
	SaltLen int
}

// Current is used for new hashes. Hashes made with other settings still
// verify and are reported by NeedsRehash.
var Current = Params{Memory: 64 * 1024, Time: 1, Threads: 4, KeyLen: 32, SaltLen: 16}

var errMalformed = errors.New("malformed password hash")

var b64 = base64.RawStdEncoding

func Hash(password string) (string, error) {
	salt := make([]byte, Current.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := derive(password, salt, Current, Current.KeyLen)
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		Current.Memory, Current.Time, Current.Threads, b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// Verify reports whether password matches encoded. Malformed hashes never match.
func Verify(password, encoded string) bool {
	p, salt, key, err := decode(encoded)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(key, derive(password, salt, p, uint32(len(key)))) == 1
}

// NeedsRehash reports whether encoded was produced with settings other than Current.
func NeedsRehash(encoded string) bool {
	p, salt, key, err := decode(encoded)
	if err != nil {
		return true
	}
	return p.Memory != Current.Memory || p.Time != Current.Time || p.Threads != Current.Threads ||
		len(salt) != Current.SaltLen || uint32(len(key)) != Current.KeyLen
}

func decode(encoded string) (Params, []byte, []byte, error) {
	var (
		p       Params
		version int
	)
	head, saltB64, keyB64, ok := splitPHC(encoded)
	if !ok {
		return p, nil, nil, errMalformed
	}
	if _, err := fmt.Sscanf(head, "$argon2id$v=%d$m=%d,t=%d,p=%d", &version, &p.Memory, &p.Time, &p.Threads); err != nil {
		return p, nil, nil, errMalformed
	}
	if version != 19 || p.Memory == 0 || p.Time == 0 || p.Threads == 0 {
		return p, nil, nil, errMalformed
	}
	salt, err := b64.DecodeString(saltB64)
	if err != nil || len(salt) == 0 {
		return p, nil, nil, errMalformed
	}
	key, err := b64.DecodeString(keyB64)
	if err != nil || len(key) == 0 {
		return p, nil, nil, errMalformed
	}
	return p, salt, key, nil
}

// splitPHC splits "$argon2id$v=19$m=..,t=..,p=..$salt$key" into its
// parameter head and the two trailing base64 segments.
func splitPHC(encoded string) (string, string, string, bool) {
	idx := make([]int, 0, 6)
	for i := 0; i < len(encoded); i++ {
		if encoded[i] == '$' {
			idx = append(idx, i)
		}
	}
	if len(idx) != 5 || idx[0] != 0 {
		return "", "", "", false
	}
	return encoded[:idx[3]], encoded[idx[3]+1 : idx[4]], encoded[idx[4]+1:], true
}

func derive(password string, salt []byte, p Params, keyLen uint32) []byte {
	return argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, keyLen)
}
