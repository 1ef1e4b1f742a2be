package git

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateStyleFor(t *testing.T) {
	tests := []struct {
		version  string
		expected CommitDateStyle
	}{
		{"2.1.4", DateISOLike},
		{"1.9.5", DateISOLike},
		{"2.2.0", DateStrictISO},
		{"2.39.2", DateStrictISO},
		{"2.39.2.windows.1", DateStrictISO},
		{"2.2.0.rc1", DateStrictISO},
		{"garbage", DateISOLike},
		{"", DateISOLike},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			assert.Equal(t, tt.expected, DateStyleFor(tt.version))
		})
	}
}

func TestFormatCatalog_CommitTemplate(t *testing.T) {
	modern := NewFormatCatalog("2.39.2")
	legacy := NewFormatCatalog("2.1.0")

	assert.True(t, strings.HasPrefix(modern.Commit(),
		`{"sha":"%H","url":"","author":{"name":"%an","email":"%ae","date":"%aI"},"committer":{"name":"%cn","email":"%ce","date":"%cI"}`))
	assert.Contains(t, legacy.Commit(), `"date":"%ai"`)
	assert.Contains(t, legacy.Commit(), `"date":"%ci"`)
	assert.NotContains(t, legacy.Commit(), "%aI")

	assert.True(t, strings.HasSuffix(modern.Commit(), `"message":"%s","tree":{"sha":"%T","url":""},"parent":{"sha":"%P","url":""}}`))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(modern.Commit()), &decoded))
	assert.Equal(t, "%H", decoded["sha"])
}

func TestFormatCatalog_TagTemplate(t *testing.T) {
	catalog := NewFormatCatalog("2.39.2")

	assert.Equal(t,
		`{"tag":"%(refname:short)","sha":"%(objectname)","url":"","message":"%(subject)",`+
			`"tagger":{"name":"%(taggername)","email":"%(taggeremail)","date":"%(taggerdate)"},`+
			`"object":{"type":"%(*objecttype)","sha":"%(*objectname)","message":"%(*subject)","url":""}}`,
		catalog.Tag())
	assert.Equal(t, catalog.Tag(), NewFormatCatalog("1.8.0").Tag())
}

func TestParseVersionOutput(t *testing.T) {
	v, err := ParseVersionOutput([]byte("git version 2.39.2\n"))
	require.NoError(t, err)
	assert.Equal(t, "2.39.2", v)

	v, err = ParseVersionOutput([]byte("git version 2.37.1 (Apple Git-137.1)\n"))
	require.NoError(t, err)
	assert.Equal(t, "2.37.1", v)

	_, err = ParseVersionOutput([]byte("git\n"))
	assert.Error(t, err)
}
