/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"gopkg.in/yaml.v3"
)

type outputFormat string

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
	formatYAML outputFormat = "yaml"
)

func parseFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", formatText:
		return formatText, nil
	case formatJSON, formatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q; use text, json or yaml", s)
}

// writeOutput writes v as json or yaml, or the result of text for the text
// format.
func writeOutput(out io.Writer, format outputFormat, v any,
	text func() string) error {

	switch format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		data, err := toYAML(v)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	_, err := io.WriteString(out, text())
	return err
}

// toYAML renders v through its json encoding so yaml output uses the same
// field names and value formats as the json api.
func toYAML(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}
	return yaml.Marshal(generic)
}

var asOfParser = newAsOfParser()

func newAsOfParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// parseAsOf resolves a natural-language ("yesterday", "3 months ago") or
// absolute date relative to now. Numeric dates with slashes are day first.
// An empty string means now.
func parseAsOf(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}

	// only trust when if it recognized the phrase from its start; otherwise
	// a stray number inside an absolute date could be taken for a time
	r, err := asOfParser.Parse(s, now)
	if err == nil && r != nil && r.Index == 0 {
		return r.Time, nil
	}

	t, err := dateparse.ParseIn(s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q: %w", s, err)
	}
	return t, nil
}
