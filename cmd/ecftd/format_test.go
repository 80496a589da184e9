/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mikeb26/ecfdash/ecf"
)

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]outputFormat{
		"":      formatText,
		"text":  formatText,
		" JSON": formatJSON,
		"yaml":  formatYAML,
	} {
		got, err := parseFormat(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := parseFormat("xml")
	require.Error(t, err)
}

func TestWriteOutput(t *testing.T) {
	games := []ecf.Game{{
		GameDate:       ecf.NewDate(2024, time.March, 9),
		Colour:         "W",
		Score:          ecf.ScoreDraw,
		OpponentName:   "Smith, John",
		OpponentRating: 1900,
	}}
	textCalls := 0
	text := func() string {
		textCalls++
		return "games\n"
	}

	var buf bytes.Buffer
	require.NoError(t, writeOutput(&buf, formatText, games, text))
	require.Equal(t, "games\n", buf.String())
	require.Equal(t, 1, textCalls)

	buf.Reset()
	require.NoError(t, writeOutput(&buf, formatJSON, games, text))
	require.Contains(t, buf.String(), `"game_date": "2024-03-09"`)
	require.Contains(t, buf.String(), `"opponent_name": "Smith, John"`)

	buf.Reset()
	require.NoError(t, writeOutput(&buf, formatYAML, games, text))
	require.Equal(t, 1, textCalls)

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	require.Equal(t, "2024-03-09", decoded[0]["game_date"])
	require.Equal(t, "Smith, John", decoded[0]["opponent_name"])
	require.Equal(t, 1900, decoded[0]["opponent_rating"])
}

func TestParseAsOf(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

	got, err := parseAsOf("", now)
	require.NoError(t, err)
	require.Equal(t, now, got)

	got, err = parseAsOf("2024-01-31", now)
	require.NoError(t, err)
	require.Equal(t, ecf.NewDate(2024, time.January, 31), ecf.DateOf(got))

	got, err = parseAsOf("yesterday", now)
	require.NoError(t, err)
	require.Equal(t, ecf.NewDate(2024, time.March, 14), ecf.DateOf(got))

	got, err = parseAsOf("2 days ago", now)
	require.NoError(t, err)
	require.Equal(t, ecf.NewDate(2024, time.March, 13), ecf.DateOf(got))

	_, err = parseAsOf("the twelfth of never", now)
	require.Error(t, err)
}
