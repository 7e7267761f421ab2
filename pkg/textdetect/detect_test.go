package textdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/plainedit/pkg/textdetect"
)

func TestIsText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  []byte
		expected bool
	}{
		{"empty", nil, true},
		{"ascii", []byte("hello\nworld\n"), true},
		{"utf8", []byte("héllo wörld"), true},
		{"nul bytes", []byte("ab\x00\x00cd"), false},
		{"invalid utf8", []byte{0xff, 0xfe, 'a'}, false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.expected, textdetect.IsText(testCase.content))
		})
	}
}

func TestLanguage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Go", textdetect.Language("main.go", []byte("package main\n")))
	assert.Equal(t, "Python", textdetect.Language("script", []byte("#!/usr/bin/env python\nprint(1)\n")))
	assert.Equal(t, textdetect.LanguageText, textdetect.Language("notes", []byte("just words")))
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	info := textdetect.Describe("vendor/lib/a.go", []byte("package lib\n"))
	assert.False(t, info.Binary)
	assert.True(t, info.Vendored)
	assert.Equal(t, "Go", info.Language)

	info = textdetect.Describe("blob.bin", []byte{0x00, 0x01, 0x02, 0x00})
	assert.True(t, info.Binary)
	assert.Empty(t, info.Language)
}
