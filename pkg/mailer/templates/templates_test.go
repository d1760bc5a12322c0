package templates

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderVerifyEmail(t *testing.T) {
	subject, text, html, err := Render(VerifyEmail, map[string]any{
		"Username":       "soso",
		"Code":           "123456",
		"ExpiresMinutes": 5,
	})
	require.NoError(t, err)
	require.NotEmpty(t, subject)
	require.Contains(t, text, "123456")
	require.Contains(t, html, "<strong>123456</strong>")
	require.Contains(t, text, "5 minutes")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", nil)
	require.Error(t, err)
}
