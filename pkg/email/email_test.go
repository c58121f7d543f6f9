package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestMaskAddress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abcdef@example.com", "ab***@example.com"},
		{"ab@example.com", "ab***@example.com"},
		{"a@example.com", "a***@example.com"},
		{"@example.com", "***@example.com"},
		{"no-at-sign", "***"},
		{"jo.doe+tag@sub.example.org", "jo***@sub.example.org"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskAddress(tt.in))
		})
	}
}

func TestMaskAddressProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		local := rapid.StringMatching(`[a-z0-9._+-]{2,20}`).Draw(t, "local")
		domain := rapid.StringMatching(`[a-z0-9-]{1,12}\.[a-z]{2,6}`).Draw(t, "domain")

		masked := MaskAddress(local + "@" + domain)

		if !strings.HasSuffix(masked, "@"+domain) {
			t.Fatalf("domain not preserved: %q", masked)
		}
		if !strings.HasPrefix(masked, local[:2]+Mask+"@") {
			t.Fatalf("expected first two characters then mask, got %q", masked)
		}
		if len(masked) != 2+len(Mask)+1+len(domain) {
			t.Fatalf("mask is not fixed length: %q", masked)
		}
	})
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ann@example.com", Normalize("  Ann@Example.COM "))
}

func TestLooksValid(t *testing.T) {
	assert.True(t, LooksValid("a@b.c"))
	assert.False(t, LooksValid("abc"))
	assert.False(t, LooksValid("@b.c"))
	assert.False(t, LooksValid("a@"))
	assert.False(t, LooksValid("a b@c.d"))
}
