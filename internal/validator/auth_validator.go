package validator

import (
	"net/mail"
	"strings"

	"restaurant-api/internal/usecase"
)

// パスワード最低文字数
const MinPasswordLength = 8

var weakPasswords = map[string]struct{}{
	"password":     {},
	"password123":  {},
	"123456789012": {},
	"1234567890":   {},
	"12345678":     {},
	"qwertyuiop":   {},
	"admin123":     {},
}

// NormalizeEmail は比較・保存用の形（小文字、前後の空白なし）
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// サインアップの入力を検証（emailは正規化済みで渡す）
func ValidateRegister(name, email, password string) error {
	if strings.TrimSpace(name) == "" {
		return usecase.NewValidationError("name is required")
	}
	if !IsEmail(email) {
		return usecase.NewValidationError("invalid email format")
	}
	return ValidatePassword(password)
}

// 長さと弱いパスワードのチェック
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return usecase.NewValidationError("password too short")
	}
	if isWeakPassword(password) {
		return usecase.NewValidationError("weak password")
	}
	return nil
}

// ログインの入力を検証
func ValidateLogin(email, password string) error {
	if email == "" || password == "" {
		return usecase.NewValidationError("email and password are required")
	}
	return nil
}

// "Name <a@b>" 形式は受けない
func IsEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func isWeakPassword(password string) bool {
	_, ok := weakPasswords[strings.ToLower(strings.TrimSpace(password))]
	return ok
}
