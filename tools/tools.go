package tools

import (
	"crypto/sha512"
	"encoding/hex"
)

func EncryptTextSHA512(text string) string {
	sum := sha512.Sum512([]byte(text))
	return hex.EncodeToString(sum[:])
}

// EncodePassword aplica o esquema de senha usado no cadastro e no login:
// sha512(email + ":" + sha512(senha)).
func EncodePassword(email, password string) string {
	encoded := EncryptTextSHA512(password)
	encoded = email + ":" + encoded
	return EncryptTextSHA512(encoded)
}
