package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
)

// 署名を載せてくるヘッダー（先に見つかったもの）
var SignatureHeaders = []string{"X-Event-Checksum", "Wompi-Signature", "X-Wompi-Signature", "Signature"}

var ErrSignatureMismatch = errors.New("signature mismatch")

// SignatureVerifier は生のリクエストボディに対する HMAC-SHA256 を検証する。
// secretが空なら検証しない。
type SignatureVerifier struct {
	secret []byte
}

func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: []byte(secret)}
}

func (v *SignatureVerifier) Enabled() bool {
	return len(v.secret) > 0
}

func (v *SignatureVerifier) Verify(body []byte, signature string) error {
	if !v.Enabled() {
		return nil
	}
	got, err := decodeSignature(signature)
	if err != nil {
		return err
	}
	if !hmac.Equal(got, Sign(v.secret, body)) {
		return ErrSignatureMismatch
	}
	return nil
}

func Sign(secret, body []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return mac.Sum(nil)
}

// hexを優先（hex文字列はbase64としても読めてしまう）
func decodeSignature(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "sha256=")
	if value == "" {
		return nil, errors.New("empty signature")
	}
	if decoded, err := hex.DecodeString(value); err == nil {
		return decoded, nil
	}
	if decoded, err := base64.StdEncoding.DecodeString(value); err == nil {
		return decoded, nil
	}
	return nil, errors.New("signature must be hex or base64 encoded")
}
