package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoster(t *testing.T) {
	rows := [][]string{
		{"Dewan Rakyat roster"},
		{},
		{"No.", "Constituency", "Name", "Party"},
		{"1", "Padang  Besar", "Dato'  Rushdan bin Rusmi", "PN"},
		{"2", "Kangar", "", "PH"},
		{"3", "Arau", "Shahidan Kassim"},
		{"4", "Padang Besar", "dato' rushdan bin rusmi", "PN"},
	}

	entries, err := parseRoster(rows)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Dato' Rushdan bin Rusmi", entries[0].name)
	assert.Equal(t, "Padang Besar", entries[0].constituency)
	assert.Equal(t, "PN", entries[0].party)
	assert.Equal(t, "Shahidan Kassim", entries[1].name)
	assert.Empty(t, entries[1].party)
	assert.NotEqual(t, entries[0].id, entries[1].id)
}

func TestParseRoster_NoHeader(t *testing.T) {
	_, err := parseRoster([][]string{{"a", "b"}, {"c", "d"}})
	assert.Error(t, err)
}

func TestWriteSeed(t *testing.T) {
	entries, err := parseRoster([][]string{
		{"Name", "Constituency"},
		{"Dato' Rushdan bin Rusmi", "Padang Besar"},
	})
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, writeSeed(&b, entries, true))
	sql := b.String()

	assert.Contains(t, sql, "DELETE FROM members;")
	assert.Contains(t, sql, "'Dato'' Rushdan bin Rusmi', 'Padang Besar', ''")
	assert.Contains(t, sql, "WHERE NOT EXISTS")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(sql), "COMMIT;"))

	b.Reset()
	require.NoError(t, writeSeed(&b, entries, false))
	assert.NotContains(t, b.String(), "DELETE FROM members;")
}
