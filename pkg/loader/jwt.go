package loader

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// splitJWT strips a "Bearer " prefix and returns the three token parts.
func splitJWT(input string) ([]string, bool) {
	input = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), "Bearer "))
	parts := strings.Split(input, ".")
	if len(parts) != 3 {
		return nil, false
	}
	for _, part := range parts {
		if part == "" {
			return nil, false
		}
	}
	return parts, true
}

// decodeJWTSegment decodes a base64url segment holding a JSON object.
func decodeJWTSegment(seg string) (OrderedMap, error) {
	raw, err := base64.RawURLEncoding.DecodeString(seg)
	if err != nil {
		return nil, err
	}
	v, err := decodeJSON(string(raw))
	if err != nil {
		return nil, err
	}
	m, ok := v.(OrderedMap)
	if !ok {
		return nil, fmt.Errorf("segment is not a JSON object")
	}
	return m, nil
}

// IsJWT reports whether input looks like a JWT: three dot-separated
// base64url parts, the first two holding JSON objects.
func IsJWT(input string) bool {
	parts, ok := splitJWT(input)
	if !ok {
		return false
	}
	for _, seg := range parts[:2] {
		if _, err := decodeJWTSegment(seg); err != nil {
			return false
		}
	}
	_, err := base64.RawURLEncoding.DecodeString(parts[2])
	return err == nil
}

// DecodeJWT decodes a token into header, payload and signature keys. Claims
// keep their order. The signature stays base64url encoded.
func DecodeJWT(input string) (OrderedMap, error) {
	parts, ok := splitJWT(input)
	if !ok {
		return nil, fmt.Errorf("invalid JWT: expected 3 non-empty parts")
	}
	header, err := decodeJWTSegment(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid JWT header: %w", err)
	}
	payload, err := decodeJWTSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid JWT payload: %w", err)
	}
	return OrderedMap{
		{Key: "header", Value: header},
		{Key: "payload", Value: payload},
		{Key: "signature", Value: parts[2]},
	}, nil
}

func loadJWT(input string) ([]any, error) {
	decoded, err := DecodeJWT(input)
	if err != nil {
		return nil, err
	}
	return []any{decoded}, nil
}
