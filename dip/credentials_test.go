package dip

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialsResolve(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		creds   Credentials
		want    string
		wantErr bool
	}{
		{
			name:  "explicit key wins",
			creds: Credentials{APIKey: "own", DemoKey: "demo", DemoKeyExpires: now.AddDate(0, 1, 0)},
			want:  "own",
		},
		{
			name:  "demo key before expiry",
			creds: Credentials{DemoKey: "demo", DemoKeyExpires: now.AddDate(0, 1, 0)},
			want:  "demo",
		},
		{
			name:  "demo key without expiry",
			creds: Credentials{DemoKey: "demo"},
			want:  "demo",
		},
		{
			name:    "expired demo key",
			creds:   Credentials{DemoKey: "demo", DemoKeyExpires: now.AddDate(0, 0, -1)},
			wantErr: true,
		},
		{
			name:    "nothing configured",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.creds.Resolve(now)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoAPIKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2023, 5, 17, 8, 4, 9, 0, time.UTC)
	assert.Equal(t, "2023-05-17T08:04:09", FormatTimestamp(ts))
	assert.NoError(t, Validate(ResourceActivity, QueryFilters{UpdatedSince: FormatTimestamp(ts)}, 1, FormatJSON))
}
