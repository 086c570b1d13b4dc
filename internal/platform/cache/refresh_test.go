package cache

import (
	"testing"
	"time"
)

func TestTimeUntilNextRefresh(t *testing.T) {
	t.Parallel()

	istanbul := time.FixedZone("TRT", 3*60*60)

	tests := []struct {
		name string
		now  time.Time
		loc  *time.Location
		hour int
		want time.Duration
	}{
		{
			name: "before refresh hour today",
			now:  time.Date(2025, 1, 15, 16, 0, 0, 0, istanbul),
			loc:  istanbul,
			hour: 19,
			want: 3 * time.Hour,
		},
		{
			name: "after refresh hour rolls to tomorrow",
			now:  time.Date(2025, 1, 15, 20, 30, 0, 0, istanbul),
			loc:  istanbul,
			hour: 19,
			want: 22*time.Hour + 30*time.Minute,
		},
		{
			name: "exactly at refresh hour waits a full day",
			now:  time.Date(2025, 1, 15, 19, 0, 0, 0, istanbul),
			loc:  istanbul,
			hour: 19,
			want: 24 * time.Hour,
		},
		{
			name: "now in another zone is converted",
			now:  time.Date(2025, 1, 15, 13, 0, 0, 0, time.UTC), // 16:00 TRT
			loc:  istanbul,
			hour: 19,
			want: 3 * time.Hour,
		},
		{
			name: "nil location means UTC",
			now:  time.Date(2025, 1, 15, 7, 0, 0, 0, time.UTC),
			loc:  nil,
			hour: 8,
			want: time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := TimeUntilNextRefresh(tt.now, tt.loc, tt.hour)
			if got != tt.want {
				t.Errorf("TimeUntilNextRefresh() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRefreshTTL_AlwaysPositive(t *testing.T) {
	t.Parallel()

	ttl := RefreshTTL(time.UTC, 8)
	for i := 0; i < 10; i++ {
		d := ttl()
		if d <= 0 || d > 24*time.Hour {
			t.Errorf("iteration %d: expected duration in (0, 24h], got %v", i, d)
		}
	}
}
