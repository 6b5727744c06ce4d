package auth

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"

	"github.com/samber/mo"
)

const (
	basicScheme          = "Basic "
	credentialsDelimiter = ":"
)

// Credentials is a decoded identifier/secret pair.
type Credentials struct {
	Identifier string
	Secret     string
}

// ExtractEncodedPart returns the encoded part of a Basic Authorization
// header value. The header must start with "Basic " exactly.
func ExtractEncodedPart(header string) mo.Option[string] {
	encoded, ok := strings.CutPrefix(header, basicScheme)
	if !ok {
		return mo.None[string]()
	}
	return nonEmpty(encoded)
}

// Decode base64-decodes encoded and returns the result if it is valid UTF-8.
func Decode(encoded string) mo.Option[string] {
	if encoded == "" {
		return mo.None[string]()
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || !utf8.Valid(raw) {
		return mo.None[string]()
	}
	return nonEmpty(string(raw))
}

// SplitCredentials splits decoded text at its first ':'. The secret may
// itself contain ':'.
func SplitCredentials(decoded string) mo.Option[Credentials] {
	identifier, secret, ok := strings.Cut(decoded, credentialsDelimiter)
	if !ok {
		return mo.None[Credentials]()
	}
	return mo.Some(Credentials{Identifier: identifier, Secret: secret})
}

// EncodeBasic builds a Basic Authorization header value.
func EncodeBasic(identifier, secret string) string {
	return basicScheme + base64.StdEncoding.EncodeToString([]byte(identifier+credentialsDelimiter+secret))
}
