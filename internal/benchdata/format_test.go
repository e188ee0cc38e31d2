// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package benchdata

import "testing"

func TestFormatting(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"thousands small", Thousands(576), "576"},
		{"thousands", Thousands(17860), "17 860"},
		{"thousands large", Thousands(100000), "100 000"},
		{"decimal comma", Decimal(19.5, 1), "19,5"},
		{"decimal rounds half up", Decimal(0.125, 2), "0,13"},
		{"factor", Factor(1.9068), "1,91x"},
		{"percent", Percent(0.9166, 1), "91,7%"},
		{"signed positive", SignedPercent(0.156, 1), "+15,6%"},
		{"signed negative", SignedPercent(-0.064, 1), "-6,4%"},
		{"compact n", CompactN(20000), "20K"},
		{"duration seconds", Duration(42.5), "42 s"},
		{"duration minutes", Duration(130), "2 min 10 s"},
		{"duration long", Duration(471.2), "7 min 51 s"},
		{"duration half", Duration(407.5), "6 min 48 s"},
		{"short duration seconds", ShortDuration(42.5), "42s"},
		{"short duration minutes", ShortDuration(471.2), "7m 51s"},
		{"short duration half", ShortDuration(407.5), "6m 48s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
