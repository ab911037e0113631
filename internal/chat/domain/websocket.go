package domain

// Action websocket request action
type Action string

const (
	// EnterRoom websocket action enter_room, 開啟該房間的订阅
	EnterRoom Action = "enter_room"
	// LeaveRoom websocket action leave_room, 釋放订阅
	LeaveRoom Action = "leave_room"

	// OpenDirect websocket action open_direct, 找到或建立 1 on 1 房間
	OpenDirect Action = "open_direct"
	// ListRooms websocket action list_rooms
	ListRooms Action = "list_rooms"
	// SearchMember websocket action search_member, email 精準查詢
	SearchMember Action = "search_member"

	// SendMessage websocket action send_message
	SendMessage Action = "send_message"

	// RoomSnapshot websocket push action room_snapshot, 全量結果集
	RoomSnapshot Action = "room_snapshot"
)

// WSRequest websocket Request
// TZOffsetMinutes 為 client 時區對 UTC 的偏移 (enter_room 用, 東半球為正)
type WSRequest struct {
	Action          string `json:"action"`
	RoomID          string `json:"room_id"`
	OtherUID        string `json:"other_uid"`
	Email           string `json:"email"`
	Content         string `json:"content"`
	TZOffsetMinutes int    `json:"tz_offset_minutes"`
}

// WSResponse websocket Response
type WSResponse struct {
	Action  string                 `json:"action"`
	Success bool                   `json:"success"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	Error   string                 `json:"error,omitempty"`
}
