package naming

import (
	"errors"
	"testing"
	"time"
)

func TestEncode(t *testing.T) {
	d := time.Date(2024, 3, 5, 17, 45, 0, 0, time.Local)

	tests := []struct {
		tier Tier
		want string
	}{
		{ShortTerm, "log_03_05_2024.txt"},
		{MediumTerm, "medium_logs_03_05_2024.tar.gz"},
		{LongTerm, "medium_logs_03_05_2024.tar.gz"},
	}

	for _, tt := range tests {
		t.Run(tt.tier.String(), func(t *testing.T) {
			if got := Encode(tt.tier, d); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	start := time.Date(2023, 12, 25, 0, 0, 0, 0, time.Local)

	for _, tier := range Tiers {
		for i := 0; i < 800; i += 37 {
			d := start.AddDate(0, 0, i)
			name := Encode(tier, d)

			got, err := Decode(tier, name)
			if err != nil {
				t.Fatalf("Decode(%s, %q) error = %v", tier, name, err)
			}
			if !got.Equal(d) {
				t.Errorf("Decode(%s, %q) = %v, want %v", tier, name, got, d)
			}
		}
	}
}

func TestDecode_ParseFailure(t *testing.T) {
	tests := []struct {
		name string
		tier Tier
		file string
	}{
		{"foreign file", ShortTerm, "notes.md"},
		{"wrong suffix", ShortTerm, "log_03_05_2024.log"},
		{"trailing characters", ShortTerm, "log_03_05_2024_1.txt"},
		{"leading characters", ShortTerm, "xlog_03_05_2024.txt"},
		{"wrong field order", ShortTerm, "log_2024_03_05.txt"},
		{"day before month", ShortTerm, "log_25_12_2024.txt"},
		{"invalid calendar date", ShortTerm, "log_02_30_2024.txt"},
		{"unpadded fields", ShortTerm, "log_3_5_2024.txt"},
		{"empty date", ShortTerm, "log_.txt"},
		{"snapshot in bundle tier", MediumTerm, "log_03_05_2024.txt"},
		{"bundle in snapshot tier", ShortTerm, "medium_logs_03_05_2024.tar.gz"},
		{"uncompressed bundle", LongTerm, "medium_logs_03_05_2024.tar"},
		{"dashes instead of underscores", LongTerm, "medium_logs_03-05-2024.tar.gz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.tier, tt.file)
			if err == nil {
				t.Fatalf("Decode(%s, %q) succeeded, want parse failure", tt.tier, tt.file)
			}
			if !errors.Is(err, ErrParseFailure) {
				t.Errorf("error %v does not match ErrParseFailure", err)
			}

			var pf *ParseFailure
			if !errors.As(err, &pf) {
				t.Fatalf("error %T is not *ParseFailure", err)
			}
			if pf.Name != tt.file || pf.Tier != tt.tier {
				t.Errorf("ParseFailure = %+v, want name %q tier %s", pf, tt.file, tt.tier)
			}
			if IsMember(tt.tier, tt.file) {
				t.Errorf("IsMember(%s, %q) = true", tt.tier, tt.file)
			}
		})
	}
}

func TestTier_String(t *testing.T) {
	if got := Tier(9).String(); got != "tier(9)" {
		t.Errorf("String() = %q", got)
	}
}
