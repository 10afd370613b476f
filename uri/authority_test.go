package uri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAuthority(t *testing.T) {
	tests := []struct {
		in          string
		userInfo    string
		hasUserInfo bool
		host        string
		port        int
		hasPort     bool
	}{
		{"example.com", "", false, "example.com", 0, false},
		{"example.com:8080", "", false, "example.com", 8080, true},
		{"bob@example.com", "bob", true, "example.com", 0, false},
		{"bob:secret@example.com:443", "bob:secret", true, "example.com", 443, true},
		{"@example.com", "", true, "example.com", 0, false},
		{"n%C3%A9e@example.com", "née", true, "example.com", 0, false},
		{"", "", false, "", 0, false},
		{"[::1]", "", false, "[::1]", 0, false},
		{"[::1]:8000", "", false, "[::1]", 8000, true},
	}
	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			a, err := ParseAuthority(test.in)
			require.NoError(t, err)
			userInfo, hasUserInfo := a.UserInfo()
			assert.Equal(t, test.userInfo, userInfo)
			assert.Equal(t, test.hasUserInfo, hasUserInfo)
			assert.Equal(t, test.host, a.Host())
			port, hasPort := a.Port()
			assert.Equal(t, test.port, port)
			assert.Equal(t, test.hasPort, hasPort)
		})
	}
}

func TestParseAuthorityErrors(t *testing.T) {
	for _, in := range []string{"host:notaport", "host:-1", "host:70000", "bad%zzhost"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseAuthority(in)
			assert.Error(t, err)
		})
	}
}

func TestAuthorityString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"example.com", "example.com"},
		{"bob@example.com:8080", "bob@example.com:8080"},
		{"n%C3%A9e@example.com", "n%C3%A9e@example.com"},
		{"[::1]:8000", "[::1]:8000"},
	}
	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			a, err := ParseAuthority(test.in)
			require.NoError(t, err)
			assert.Equal(t, test.want, a.String())
		})
	}
}

func TestNilAuthority(t *testing.T) {
	var a *Authority
	assert.Equal(t, "", a.String())
	assert.Equal(t, "", a.Host())
	_, hasUserInfo := a.UserInfo()
	assert.False(t, hasUserInfo)
	_, hasPort := a.Port()
	assert.False(t, hasPort)
	assert.True(t, a.Equal(nil))
	b, err := ParseAuthority("example.com")
	require.NoError(t, err)
	assert.False(t, a.Equal(b))
	assert.False(t, b.Equal(a))
}
