package repository

import (
	"context"
	"os"
	"testing"

	"direct_chat_service/pkg/database"
	"direct_chat_service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMain(m *testing.M) {
	logger.SetNewNop()
	os.Exit(m.Run())
}

// 測試查詢必須帶 timestamp 升冪 sort, 訂閱端的順序保證全靠這一條
func TestMessageRepository_FindByRoom_SortsByTimestampAsc(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("find command carries ascending sort", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + messageCollection
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
				bson.D{{Key: "_id", Value: "m1"}, {Key: "room_id", Value: "room-1"}, {Key: "timestamp", Value: int64(1)}},
				bson.D{{Key: "_id", Value: "m2"}, {Key: "room_id", Value: "room-1"}, {Key: "timestamp", Value: int64(2)}},
			),
			mtest.CreateCursorResponse(0, ns, mtest.NextBatch),
		)

		repo := NewMessageRepository(database.MongoDB{Database: mt.DB})
		msgs, err := repo.FindByRoom(context.Background(), "room-1")

		assert.NoError(mt, err)
		assert.Len(mt, msgs, 2)
		assert.Equal(mt, "m1", msgs[0].ID)
		assert.Equal(mt, "m2", msgs[1].ID)

		evt := mt.GetStartedEvent()
		assert.Equal(mt, "find", evt.CommandName)
		sortVal, lookupErr := evt.Command.LookupErr("sort")
		assert.NoError(mt, lookupErr)
		assert.EqualValues(mt, 1, sortVal.Document().Lookup("timestamp").AsInt64())
	})
}
