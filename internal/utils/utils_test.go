// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"
	"encoding/hex"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"
)

// ── Context ──────────────────────────────────────────────────────────────────

func TestGetSubjectFromContext(t *testing.T) {
	tests := []struct {
		name   string
		ctx    context.Context
		want   string
		wantOK bool
	}{
		{
			name:   "present",
			ctx:    context.WithValue(context.Background(), SubjectCtxKey, "console"),
			want:   "console",
			wantOK: true,
		},
		{
			name: "missing",
			ctx:  context.Background(),
		},
		{
			name: "empty",
			ctx:  context.WithValue(context.Background(), SubjectCtxKey, ""),
		},
		{
			name: "wrong type",
			ctx:  context.WithValue(context.Background(), SubjectCtxKey, 42),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := GetSubjectFromContext(tt.ctx)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "subject", SubjectCtxKey.String())
}

// ── Checksums ────────────────────────────────────────────────────────────────

func TestChunkChecksum(t *testing.T) {
	data := []byte("chunk-data")
	sum := blake2b.Sum256(data)

	assert.Equal(t, hex.EncodeToString(sum[:]), ChunkChecksum(data))
	assert.Equal(t, ChunkChecksum(data), ChunkChecksum(data), "deterministic")
	assert.NotEqual(t, ChunkChecksum(data), ChunkChecksum([]byte("other")))
}

func TestVerifyChecksum(t *testing.T) {
	data := []byte("payload")

	assert.True(t, VerifyChecksum(data, ChunkChecksum(data)))
	assert.False(t, VerifyChecksum(data, ChunkChecksum([]byte("tampered"))))
	assert.False(t, VerifyChecksum(data, "not-hex"))
	assert.False(t, VerifyChecksum(data, ""))
}

func TestNewContentHasher_MatchesChunkChecksum(t *testing.T) {
	h := NewContentHasher()
	h.Write([]byte("hello "))
	h.Write([]byte("world"))

	assert.Equal(t, ChunkChecksum([]byte("hello world")), hex.EncodeToString(h.Sum(nil)))
}

// ── JWT ──────────────────────────────────────────────────────────────────────

func TestGenerateJWTToken_Success(t *testing.T) {
	token, err := GenerateJWTToken("test-issuer", "console", time.Hour, "secret-key")
	require.NoError(t, err)

	assert.NotEmpty(t, token.SignedString)
	require.NotNil(t, token.Token)
	assert.Equal(t, "test-issuer", token.Issuer)
	assert.Equal(t, "console", token.Subject)
}

func TestGenerateJWTToken_InvalidParams(t *testing.T) {
	tests := []struct {
		name     string
		issuer   string
		subject  string
		duration time.Duration
		key      string
	}{
		{"empty issuer", "", "sub", time.Hour, "key"},
		{"empty subject", "iss", "", time.Hour, "key"},
		{"zero duration", "iss", "sub", 0, "key"},
		{"empty key", "iss", "sub", time.Hour, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateJWTToken(tt.issuer, tt.subject, tt.duration, tt.key)
			require.Error(t, err)
		})
	}
}

func TestValidateAndParseJWTToken(t *testing.T) {
	valid, err := GenerateJWTToken("iss", "device-1", time.Minute, "key")
	require.NoError(t, err)
	expired, err := GenerateJWTToken("iss", "device-1", -time.Second, "key")
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		parsed, err := ValidateAndParseJWTToken(valid.SignedString, "key", "iss")
		require.NoError(t, err)
		assert.Equal(t, "device-1", parsed.Subject)
		assert.True(t, parsed.Valid)
	})

	t.Run("wrong key", func(t *testing.T) {
		_, err := ValidateAndParseJWTToken(valid.SignedString, "other", "iss")
		require.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		_, err := ValidateAndParseJWTToken(valid.SignedString, "key", "fake")
		require.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
	})

	t.Run("expired", func(t *testing.T) {
		_, err := ValidateAndParseJWTToken(expired.SignedString, "key", "iss")
		require.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := ValidateAndParseJWTToken("not.a.token", "key", "iss")
		require.Error(t, err)
	})
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer abc", want: "abc"},
		{header: "  bearer abc  ", want: "abc"},
		{header: "Bearer", wantErr: true},
		{header: "Basic abc", wantErr: true},
		{header: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := ParseBearerToken(tt.header)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSubjectFromJWT(t *testing.T) {
	token, err := GenerateJWTToken("iss", "console", time.Hour, "key")
	require.NoError(t, err)

	sub, err := ParseSubjectFromJWT(token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, "console", sub)

	_, err = ParseSubjectFromJWT("garbage")
	require.Error(t, err)
}

// ── UUID ─────────────────────────────────────────────────────────────────────

func TestUUIDGenerator_Generate(t *testing.T) {
	g := NewUUIDGenerator()

	first := g.Generate()
	second := g.Generate()

	id, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.NotEqual(t, first, second)
	assert.Less(t, first, second, "v7 ids are time ordered")
}
