package domain

import "time"

// PendingLabel 尚未取得 store 時間戳的訊息分組
const PendingLabel = "Pending"

// DayBucket 同一天的連續訊息分組
type DayBucket struct {
	Label    string        `json:"label"`
	Messages []ChatMessage `json:"messages"`
}

// GroupByDay 依 viewer 時區的日曆天切分訊息
// 輸入需已依時間排序; 無時間戳(尚未 commit)的訊息歸入 Pending 分組,
// 不併入相鄰日期
func GroupByDay(messages []ChatMessage, loc *time.Location) []DayBucket {
	if loc == nil {
		loc = time.Local
	}

	var buckets []DayBucket
	for _, msg := range messages {
		label := dayLabel(msg.Timestamp, loc)

		if len(buckets) == 0 || buckets[len(buckets)-1].Label != label {
			buckets = append(buckets, DayBucket{Label: label})
		}
		last := &buckets[len(buckets)-1]
		last.Messages = append(last.Messages, msg)
	}
	return buckets
}

// FixedLocation 依 client 回報的 UTC 偏移建立時區 (分鐘, 東半球為正)
// 偏移 0 視為 UTC
func FixedLocation(offsetMinutes int) *time.Location {
	if offsetMinutes == 0 {
		return time.UTC
	}
	return time.FixedZone("client", offsetMinutes*60)
}

func dayLabel(timestamp int64, loc *time.Location) string {
	if timestamp == 0 {
		return PendingLabel
	}

	date := time.UnixMilli(timestamp).In(loc)
	now := time.Now().In(loc)
	today := now.Format("2006-01-02")
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")

	switch date.Format("2006-01-02") {
	case today:
		return "Today"
	case yesterday:
		return "Yesterday"
	default:
		return date.Format("Jan 2")
	}
}
