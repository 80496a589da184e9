/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

const (
	UserAgent      = "ecfdash/0.4.0 (+https://github.com/mikeb26/ecfdash)"
	ECFAPIBase     = "https://rating.englishchess.org.uk/v2/new/api.php"
	WebCacheBucket = "bopmatic-ecfdash-prod-webcache"
)
