/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseDateOrZero returns a parsed time, or zero for an empty, "null" or
// all-zero date as the ECF api uses for unknown dates.
func ParseDateOrZero(s string) (time.Time, error) {
	if s == "" || s == "null" || strings.HasPrefix(s, "0000-00-00") {
		return time.Time{}, nil
	}
	return dateparse.ParseAny(s)
}
