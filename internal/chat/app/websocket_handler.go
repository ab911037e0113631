package app

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"direct_chat_service/internal/chat/domain"
	"direct_chat_service/pkg/logger"
	"direct_chat_service/pkg/middlewares"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// ChatWebsocketHandler 可包含所有需要的 UseCase
type ChatWebsocketHandler struct {
	roomUC    RoomUseCase
	messageUC MessageUseCase
}

// NewChatWebsocketHandler create ChatWebsocketHandler
func NewChatWebsocketHandler(roomUC RoomUseCase, messageUC MessageUseCase) *ChatWebsocketHandler {
	return &ChatWebsocketHandler{
		roomUC:    roomUC,
		messageUC: messageUC,
	}
}

// connState 單一連線的訂閱與寫入狀態
type connState struct {
	conn    *websocket.Conn
	sender  domain.Sender
	writeMu sync.Mutex

	subMu sync.Mutex
	subs  map[string]*Subscription
}

func (c *connState) closeAllSubs() {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for roomID, sub := range c.subs {
		sub.Close()
		delete(c.subs, roomID)
	}
}

// HandleConnection 是 WebSocket 連線的進入點
func (h *ChatWebsocketHandler) HandleConnection(ctx context.Context, conn *websocket.Conn) {
	accountID, _ := conn.Locals(middlewares.TokenAccountID).(string)
	displayName, _ := conn.Locals(middlewares.TokenDisplayName).(string)
	logger.Log.Info("websocket handle accountID", zap.String("accountID", accountID))

	state := &connState{
		conn: conn,
		sender: domain.Sender{
			UID:         accountID,
			DisplayName: displayName,
		},
		subs: map[string]*Subscription{},
	}

	ticker := time.NewTicker(10 * time.Minute)
	ctxClose, cancel := context.WithCancel(context.Background())

	defer func() {
		ticker.Stop()
		state.closeAllSubs()
		logger.Log.Info("websocket close", zap.String("accountID", accountID))
		conn.Close()
		cancel()
	}()

	//client發出close
	//fiber會自動處理(在read msg 回傳err),故需要SetCloseHandler另外接出
	conn.SetCloseHandler(func(code int, text string) error {
		logger.Log.Infof("WebSocket closed:", conn.RemoteAddr())
		return nil
	})

	//server發出ping之後client連線正常會回pong
	conn.SetPongHandler(func(appData string) error {
		return nil
	})

	//client發出ping
	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(appData),
			time.Now().Add(time.Second),
		)
	})

	// 定期發送 Ping
	go func() {
		for {
			select {
			case <-ticker.C:
				state.writeMu.Lock()
				err := conn.WriteMessage(websocket.PingMessage, []byte("ping message"))
				state.writeMu.Unlock()
				if err != nil {
					logger.Log.Errorf("Ping error:", err)
					return
				}
			case <-ctxClose.Done():
				return
			}
		}
	}()

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Infof("Connection closed:", err)
			} else {
				logger.Log.Errorf("websocket read error:", err)
			}
			return
		}
		h.execWebsocketAction(ctx, state, mt, message)
	}
}

func (h *ChatWebsocketHandler) execWebsocketAction(ctx context.Context, state *connState, mt int, msg []byte) {
	switch mt {
	case websocket.TextMessage:
		h.textMessageAction(ctx, state, msg)
	default:
		h.sendError(state, "unknown message type")
	}
}

func (h *ChatWebsocketHandler) textMessageAction(ctx context.Context, state *connState, msg []byte) {
	var req domain.WSRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		log.Printf("json unmarshal error: %v", err)
		return
	}

	selfUID := state.sender.UID
	resp := domain.WSResponse{Action: req.Action, Success: false, Payload: map[string]interface{}{}}
	switch req.Action {
	//進入聊天室, 啟用快照訂閱
	case string(domain.EnterRoom):
		if err := h.enterRoom(state, req.RoomID, domain.FixedLocation(req.TZOffsetMinutes)); err != nil {
			resp.Error = err.Error()
		} else {
			resp.Success = true
			resp.Payload["room_id"] = req.RoomID
		}

	//離開聊天室, 釋放訂閱
	case string(domain.LeaveRoom):
		state.subMu.Lock()
		if sub, ok := state.subs[req.RoomID]; ok {
			sub.Close()
			delete(state.subs, req.RoomID)
		}
		state.subMu.Unlock()
		resp.Success = true
		resp.Payload["room_id"] = req.RoomID

	//找到或建立 1 on 1 房間
	case string(domain.OpenDirect):
		room, created, err := h.roomUC.FindOrCreateDirectRoom(ctx, selfUID, req.OtherUID)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Success = true
			resp.Payload["room"] = room
			resp.Payload["created"] = created
		}

	//自己的 1 on 1 房間清單
	case string(domain.ListRooms):
		views, err := h.roomUC.DirectRoomsFor(ctx, selfUID)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Success = true
			resp.Payload["rooms"] = views
		}

	//email 精準查詢會員
	case string(domain.SearchMember):
		members, err := h.roomUC.SearchByEmail(ctx, selfUID, req.Email)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Success = true
			resp.Payload["members"] = members
		}

	//傳送訊息, 落地後由訂閱端收到新快照
	case string(domain.SendMessage):
		sent, err := h.messageUC.Send(ctx, req.RoomID, state.sender, req.Content)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Success = true
			resp.Payload["message_id"] = sent.ID
			resp.Payload["timestamp"] = sent.Timestamp
		}

	default:
		h.sendError(state, "unknown action")
		return
	}

	if resp.Error != "" {
		logger.Log.Error("websocket err ", zap.String("AccountID", selfUID), zap.String("Action", req.Action), zap.String("err", resp.Error))
	}
	h.sendResponse(state, resp)
}

// enterRoom 同房重複 enter 視為 no-op; 日期分組用 client 回報的時區
func (h *ChatWebsocketHandler) enterRoom(state *connState, roomID string, loc *time.Location) error {
	state.subMu.Lock()
	defer state.subMu.Unlock()
	if _, ok := state.subs[roomID]; ok {
		return nil
	}

	sub, err := h.messageUC.Subscribe(context.Background(), roomID, func(msgs []domain.ChatMessage, err error) {
		resp := domain.WSResponse{
			Action:  string(domain.RoomSnapshot),
			Success: err == nil,
			Payload: map[string]interface{}{"room_id": roomID},
		}
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Payload["messages"] = msgs
			resp.Payload["groups"] = domain.GroupByDay(msgs, loc)
		}
		h.sendResponse(state, resp)
	})
	if err != nil {
		return err
	}
	state.subs[roomID] = sub
	return nil
}

// sendResponse - 發送 JSON 給前端
func (h *ChatWebsocketHandler) sendResponse(state *connState, resp domain.WSResponse) {
	b, _ := json.Marshal(resp)
	state.writeMu.Lock()
	defer state.writeMu.Unlock()
	if err := state.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		logger.Log.Errorf("write message error:", err)
	}
}

func (h *ChatWebsocketHandler) sendError(state *connState, errorMsg string) {
	h.sendResponse(state, domain.WSResponse{
		Action:  "error",
		Success: false,
		Payload: map[string]interface{}{"error": errorMsg},
	})
}
