package password

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"

	"golang.org/x/crypto/argon2"
)

// Deriver produces an Argon2id tag. Implementations must be deterministic for
// fixed inputs. secret and data are nil when absent.
type Deriver interface {
	DeriveTag(password, salt, secret, data []byte, p Params, keyLen uint32) []byte
}

// IDKeyDeriver derives tags with golang.org/x/crypto/argon2.
//
// argon2.IDKey has no secret or associated data inputs, so when either is
// present the password is bound to them with HMAC-SHA-512 (keyed by the secret)
// before derivation. With neither present the tag is plain Argon2id and
// interoperates with any other implementation.
type IDKeyDeriver struct{}

func (IDKeyDeriver) DeriveTag(password, salt, secret, data []byte, p Params, keyLen uint32) []byte {
	input := password
	if secret != nil || data != nil {
		input = bindInputs(password, secret, data)
		defer clear(input)
	}
	return argon2.IDKey(input, salt, p.Iterations, p.Memory, p.Lanes, keyLen)
}

// bindInputs computes HMAC-SHA-512(secret, len(password) || password || len(data) || data).
// The length prefixes keep (password, data) pairs from colliding.
func bindInputs(password, secret, data []byte) []byte {
	mac := hmac.New(sha512.New, secret)

	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(password)))
	mac.Write(n[:])
	mac.Write(password)

	binary.BigEndian.PutUint32(n[:], uint32(len(data)))
	mac.Write(n[:])
	mac.Write(data)

	return mac.Sum(nil)
}
