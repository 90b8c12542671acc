package settest

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Token returns a JWS-shaped security event token for tests.
//
// The token has three base64url segments and a unique jti claim, so it
// passes structural validation and stays distinguishable across
// deliveries. The signature bytes are random: the token is not
// cryptographically valid and must only be used against test receivers.
func Token() string {
	return TokenWithClaims(nil)
}

// TokenWithClaims returns a test token whose payload carries the given
// claims on top of generated iss, iat and jti values.
//
//	token := settest.TokenWithClaims(map[string]any{
//		"aud": "https://receiver.example.com",
//	})
func TokenWithClaims(claims map[string]any) string {
	header := map[string]any{
		"alg": "HS256",
		"typ": "secevent+jwt",
	}

	payload := map[string]any{
		"iss": "https://issuer.settest.local",
		"iat": time.Now().Unix(),
		"jti": uuid.NewString(),
	}
	for name, value := range claims {
		payload[name] = value
	}

	signature := make([]byte, 32)
	// rand.Read never fails per its contract since Go 1.24.
	_, _ = rand.Read(signature)

	return encodeSegment(header) + "." + encodeSegment(payload) + "." +
		base64.RawURLEncoding.EncodeToString(signature)
}

func encodeSegment(claims map[string]any) string {
	raw, err := json.Marshal(claims)
	if err != nil {
		// Claim maps built above are always marshalable; reaching this
		// means the caller passed something like a channel value.
		panic("settest: unmarshalable claims: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}
