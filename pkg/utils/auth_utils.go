package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword: длина пароля ограничена 72 байтами правилом валидации DTO, дальше bcrypt её не учитывает.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("не удалось хешировать пароль: %w", err)
	}
	return string(hash), nil
}

// ComparePasswords возвращает bcrypt.ErrMismatchedHashAndPassword при неверном пароле.
func ComparePasswords(hashedPassword, plainPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
}
