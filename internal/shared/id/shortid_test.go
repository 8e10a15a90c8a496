package id

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	got, err := Generate(0)
	require.NoError(t, err)
	assert.Len(t, got, DefaultLength)

	for _, r := range got {
		assert.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q", r)
	}
}

func TestNewTicketKey(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		key, err := NewTicketKey()
		require.NoError(t, err)
		require.NoError(t, ValidateTicketKey(key))
		assert.True(t, strings.HasPrefix(key, "tk_"))

		_, dup := seen[key]
		assert.False(t, dup, "duplicate key %s", key)
		seen[key] = struct{}{}
	}
}

func TestValidateTicketKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "valid key", key: "tk_xK9mP2vL3nQa", wantErr: false},
		{name: "wrong prefix", key: "fa_xK9mP2vL3nQa", wantErr: true},
		{name: "missing separator", key: "tkxK9mP2vL3nQa", wantErr: true},
		{name: "empty short id", key: "tk_", wantErr: true},
		{name: "empty", key: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTicketKey(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func FuzzParsePrefixedID(f *testing.F) {
	for _, seed := range []string{"tk_xK9mP2vL3nQa", "", "nounderscore", "_leading", "trailing_", "a_b_c"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			return
		}

		prefix, shortID, err := ParsePrefixedID(input)
		if !strings.Contains(input, "_") {
			if err == nil {
				t.Errorf("ParsePrefixedID(%q) should fail without separator", input)
			}
			return
		}
		if err != nil {
			t.Fatalf("ParsePrefixedID(%q) returned unexpected error: %v", input, err)
		}
		if prefix+"_"+shortID != input {
			t.Errorf("ParsePrefixedID(%q) = (%q, %q) does not reconstruct input", input, prefix, shortID)
		}
	})
}
