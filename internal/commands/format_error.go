package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	apierrors "github.com/hyizhou/ask/internal/errors"
	"github.com/hyizhou/ask/internal/i18n"
)

var (
	colorText    = lipgloss.Color("#c0caf5")
	colorTextDim = lipgloss.Color("#565f89")
	colorError   = lipgloss.Color("#f7768e")
	colorPrimary = lipgloss.Color("#7aa2f7")

	errorStyle = lipgloss.NewStyle().Foreground(colorError)
	dimStyle   = lipgloss.NewStyle().Foreground(colorTextDim)
	labelStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
)

// formatErrorMessage formats a per-exchange error with context from the
// typed errors and a usage hint. envKey is the API key environment
// variable for the active model, shown in auth hints.
func formatErrorMessage(err error, envKey string) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(errorStyle.Render("✗ " + i18n.T("error_prefix", err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	switch {
	case apierrors.IsAuthError(err):
		sb.WriteString(dimStyle.Render("\n  " + i18n.T("hint_auth", envKey)))
	case apierrors.IsRateLimitError(err):
		sb.WriteString(dimStyle.Render("\n  " + i18n.T("hint_rate_limit")))
	case apierrors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  " + i18n.T("hint_network")))
	}

	return sb.String()
}
