/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ecf

import "errors"

var (
	ErrInvalidGameType    = errors.New("invalid game type")
	ErrInvalidWindow      = errors.New("invalid time window")
	ErrPlayerCodeRequired = errors.New("player code is required")
	ErrSearchTooShort     = errors.New("name must be at least 3 characters long")
	ErrUpstream           = errors.New("ecf api error")
)
