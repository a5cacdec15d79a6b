/*
 * Copyright 2026 the yomiyasu authors
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package fetch

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestTokenValid(t *testing.T) {
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{
			name:  "unexpired token",
			token: mintToken(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()}),
			want:  true,
		},
		{
			name:  "expired token",
			token: mintToken(t, jwt.MapClaims{"exp": now.Add(-time.Hour).Unix()}),
			want:  false,
		},
		{
			name:  "no expiry claim",
			token: mintToken(t, jwt.MapClaims{"sub": "user"}),
			want:  false,
		},
		{
			name:  "not a jwt",
			token: "definitely-not-a-token",
			want:  false,
		},
		{
			name:  "empty",
			token: "",
			want:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenValid(tt.token, now))
		})
	}
}
