package ui

import (
	"strings"
	"testing"
)

func TestNewConsole(t *testing.T) {
	if NewConsole() == nil {
		t.Fatal("NewConsole() returned nil")
	}
}

func TestConsole_formatMessage(t *testing.T) {
	console := &Console{useColors: true}

	tests := []struct {
		style   ConsoleStyle
		message string
		colored bool
	}{
		{StyleNormal, "test message", false},
		{StyleError, "error message", true},
		{StyleWarning, "warning message", true},
		{StyleSuccess, "success message", true},
		{StyleInfo, "info message", true},
	}

	for _, tt := range tests {
		result := console.formatMessage(tt.style, tt.message)

		if !strings.Contains(result, tt.message) {
			t.Errorf("formatMessage(%v, %q) should contain the original message", tt.style, tt.message)
		}
		if tt.colored && !strings.Contains(result, colorReset) {
			t.Errorf("formatMessage(%v, %q) should contain the reset code", tt.style, tt.message)
		}
		if !tt.colored && result != tt.message {
			t.Errorf("formatMessage(%v, %q) = %q, want unchanged message", tt.style, tt.message, result)
		}
	}
}

func TestConsole_formatMessage_NoColors(t *testing.T) {
	console := &Console{useColors: false}

	if result := console.formatMessage(StyleError, "test message"); result != "test message" {
		t.Errorf("formatMessage with useColors=false should return the original message, got %q", result)
	}
}

func TestConsole_FormatErrorMessage(t *testing.T) {
	console := NewConsole()

	tests := []struct {
		name       string
		context    string
		cause      string
		suggestion string
		want       string
	}{
		{
			name:       "all parts",
			context:    "Build failed",
			cause:      "Dockerfile missing",
			suggestion: "Run kbsdk init first",
			want:       "Build failed\nCause: Dockerfile missing\nSuggestion: Run kbsdk init first",
		},
		{
			name:    "context only",
			context: "Build failed",
			want:    "Build failed",
		},
		{
			name:  "cause only",
			cause: "Dockerfile missing",
			want:  "Cause: Dockerfile missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := console.FormatErrorMessage(tt.context, tt.cause, tt.suggestion); got != tt.want {
				t.Errorf("FormatErrorMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
