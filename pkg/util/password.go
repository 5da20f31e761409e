package util

import (
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// PasswordHasher abstracts password hashing so services never depend on a
// concrete algorithm.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// BcryptHasher hashes passwords with bcrypt
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcryptCost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h *BcryptHasher) Verify(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// DummyHash is a throwaway bcrypt hash verified on login attempts for unknown
// emails, so "no such user" and "wrong password" take the same wall-clock time.
var DummyHash = func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte("timing-equalizer"), bcryptCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}()

// HashPassword hashes a plain text password with the default hasher
func HashPassword(password string) (string, error) {
	return NewBcryptHasher().Hash(password)
}

// VerifyPassword checks if a plain text password matches a hashed password
func VerifyPassword(hashedPassword, password string) bool {
	return NewBcryptHasher().Verify(hashedPassword, password)
}
