/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package dashboard

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mikeb26/ecfdash/ecf"
)

func TestRenderRatingChart(t *testing.T) {
	tests := []struct {
		name   string
		series []ecf.RatingPoint
		width  int
	}{
		{
			name:   "empty renders placeholder",
			series: nil,
			width:  chartWidth / 2,
		},
		{
			name: "single point renders placeholder",
			series: []ecf.RatingPoint{
				{Date: ecf.NewDate(2024, 1, 1), Rating: 1500},
			},
			width: chartWidth / 2,
		},
		{
			name: "flat series",
			series: []ecf.RatingPoint{
				{Date: ecf.NewDate(2024, 1, 1), Rating: 1500},
				{Date: ecf.NewDate(2024, 2, 1), Rating: 1500},
			},
			width: chartWidth,
		},
		{
			name: "rising series",
			series: []ecf.RatingPoint{
				{Date: ecf.NewDate(2023, 1, 1), Rating: 1400},
				{Date: ecf.NewDate(2023, 6, 1), Rating: 1480},
				{Date: ecf.NewDate(2024, 2, 1), Rating: 1555},
			},
			width: chartWidth,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := RenderRatingChart("test", tc.series)
			require.NoError(t, err)
			img, err := png.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			require.Equal(t, tc.width, img.Bounds().Dx())
		})
	}
}
