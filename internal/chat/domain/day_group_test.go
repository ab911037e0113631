package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func msgAt(id string, ts time.Time) ChatMessage {
	return ChatMessage{ID: id, Timestamp: ts.UnixMilli(), Text: "m", Type: MessageTypeText}
}

// 測試跨午夜的訊息分屬不同日期分組
func TestGroupByDay_MidnightBoundary(t *testing.T) {
	loc := time.UTC
	beforeMidnight := time.Date(2024, 1, 1, 23, 59, 0, 0, loc)
	afterMidnight := time.Date(2024, 1, 2, 0, 1, 0, 0, loc)

	buckets := GroupByDay([]ChatMessage{
		msgAt("m1", beforeMidnight),
		msgAt("m2", afterMidnight),
	}, loc)

	assert.Len(t, buckets, 2)
	assert.Equal(t, "Jan 1", buckets[0].Label)
	assert.Equal(t, "Jan 2", buckets[1].Label)
	assert.Len(t, buckets[0].Messages, 1)
	assert.Len(t, buckets[1].Messages, 1)
}

// 測試同一天的訊息合併為一組
func TestGroupByDay_SameDayMerged(t *testing.T) {
	loc := time.UTC
	morning := time.Date(2024, 3, 15, 8, 0, 0, 0, loc)
	evening := time.Date(2024, 3, 15, 21, 30, 0, 0, loc)

	buckets := GroupByDay([]ChatMessage{
		msgAt("m1", morning),
		msgAt("m2", evening),
	}, loc)

	assert.Len(t, buckets, 1)
	assert.Equal(t, "Mar 15", buckets[0].Label)
	assert.Len(t, buckets[0].Messages, 2)
}

// 測試今天/昨天使用相對標籤
func TestGroupByDay_RelativeLabels(t *testing.T) {
	loc := time.UTC
	now := time.Now().In(loc)
	yesterday := now.AddDate(0, 0, -1)

	buckets := GroupByDay([]ChatMessage{
		msgAt("m1", yesterday),
		msgAt("m2", now),
	}, loc)

	assert.Len(t, buckets, 2)
	assert.Equal(t, "Yesterday", buckets[0].Label)
	assert.Equal(t, "Today", buckets[1].Label)
}

// 測試無時間戳的訊息歸入 Pending 分組
func TestGroupByDay_PendingBucket(t *testing.T) {
	loc := time.UTC
	now := time.Now().In(loc)

	buckets := GroupByDay([]ChatMessage{
		msgAt("m1", now),
		{ID: "m2", Text: "sending", Type: MessageTypeText}, // timestamp 尚未 commit
	}, loc)

	assert.Len(t, buckets, 2)
	assert.Equal(t, "Today", buckets[0].Label)
	assert.Equal(t, PendingLabel, buckets[1].Label)
	assert.True(t, buckets[1].Messages[0].IsPending())
}

// 測試空輸入
func TestGroupByDay_Empty(t *testing.T) {
	assert.Empty(t, GroupByDay(nil, time.UTC))
}

// 日期標籤不帶年份, 相鄰訊息恰差一年會併入同組
// 已知限制, 維持現狀 (詳見 DESIGN.md)
func TestGroupByDay_YearApartSharesLabel(t *testing.T) {
	loc := time.UTC
	now := time.Now().In(loc)
	older := time.Date(now.Year()-2, now.Month(), 10, 9, 0, 0, 0, loc)
	newer := older.AddDate(1, 0, 0)

	buckets := GroupByDay([]ChatMessage{
		msgAt("m1", older),
		msgAt("m2", newer),
	}, loc)

	assert.Len(t, buckets, 1)
	assert.Len(t, buckets[0].Messages, 2)
}

// 測試 client 時區偏移改變日期分界
func TestGroupByDay_ClientOffsetShiftsBoundary(t *testing.T) {
	// UTC 的 3/15 23:30, 在 UTC+8 已是 3/16
	ts := time.Date(2024, 3, 15, 23, 30, 0, 0, time.UTC)
	msgs := []ChatMessage{msgAt("m1", ts)}

	utcBuckets := GroupByDay(msgs, FixedLocation(0))
	assert.Equal(t, "Mar 15", utcBuckets[0].Label)

	taipeiBuckets := GroupByDay(msgs, FixedLocation(8*60))
	assert.Equal(t, "Mar 16", taipeiBuckets[0].Label)
}
