package cache

import (
	"time"
)

// TimeUntilNextRefresh は loc における次の hour 時ちょうどまでの期間を返します。
// 日足はその時刻以降に更新される前提で、キャッシュのTTLに使います。
func TimeUntilNextRefresh(now time.Time, loc *time.Location, hour int) time.Duration {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)

	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, loc)

	// 既に過ぎている場合は翌日の同時刻
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}

	return next.Sub(now)
}

// RefreshTTL は呼び出し時点の TimeUntilNextRefresh を返す関数を作ります。
func RefreshTTL(loc *time.Location, hour int) func() time.Duration {
	return func() time.Duration {
		return TimeUntilNextRefresh(time.Now(), loc, hour)
	}
}
