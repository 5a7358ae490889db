package views

import (
	"bytes"
	"testing"

	"github.com/diagnosis/visitor-portal/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ParsesEveryPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	for _, name := range pageNames {
		assert.Contains(t, r.pages, name)
	}
}

func TestRender_LayoutFlashesAndEscaping(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Render(&buf, Login, Page{
		Title:   "Login",
		Flashes: []session.Flash{{Kind: session.FlashError, Message: "Invalid credentials"}},
		Data: map[string]any{
			"OfficialMail": `ada"><script>@corp.test`,
			"Remember":     true,
			"Error":        "Invalid credentials",
		},
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "<title>Login | Visitor Portal</title>")
	assert.Contains(t, html, `class="toast error"`)
	assert.Contains(t, html, `role="alert">Invalid credentials`)
	assert.Contains(t, html, " checked")
	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, `action="/logout"`)
}

func TestRender_LogoutShownWhenAuthenticated(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, Error, Page{
		Title:         "Error",
		Authenticated: true,
		Data:          map[string]any{"Message": "Failed to load visitors data", "RetryHref": "/dashboard"},
	}))
	assert.Contains(t, buf.String(), `action="/logout"`)
	assert.Contains(t, buf.String(), "Failed to load visitors data")
}

func TestRender_UnknownPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	assert.Error(t, r.Render(&bytes.Buffer{}, "missing", Page{}))
}

func TestDeref(t *testing.T) {
	deref := funcs["deref"].(func(*string) string)
	s := "10:30"
	empty := ""
	assert.Equal(t, "10:30", deref(&s))
	assert.Equal(t, "-", deref(&empty))
	assert.Equal(t, "-", deref(nil))
}
