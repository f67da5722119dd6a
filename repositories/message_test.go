package repositories

import (
	"chat-hub/domain"
	"fmt"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_Record_And_Get_Sorted_Messages(t *testing.T) {
	req := require.New(t)
	db := setupDB(t)

	repository := NewMessageRepository(db, slog.Default(), nil)
	chat := domain.ChatID("chat-1")
	content := "this message will self destruct in 5 seconds"
	at := time.Now().UTC()
	diskMessages := []DiskMessage{
		{ID: uuid.New(), ChatID: chat, Sender: "Alice", Content: content, At: at},
		{ID: uuid.New(), ChatID: chat, Sender: "Bob", Content: content, At: at.Add(1 * time.Minute)},
		{ID: uuid.New(), ChatID: chat, Sender: "Clara", Content: content, At: at.Add(2 * time.Minute)},
	}

	sortedDiskMessages := make([]DiskMessage, len(diskMessages))
	copy(sortedDiskMessages, diskMessages)
	sort.Slice(sortedDiskMessages, func(i, j int) bool {
		return sortedDiskMessages[i].At.After(sortedDiskMessages[j].At)
	})
	for _, dm := range diskMessages {
		req.NoError(repository.StoreMessage(dm))
	}

	// When fetching messages
	fetchedMessages, _, err := repository.GetMessages(chat, nil)
	req.NoError(err)

	// Then the messages come back newest first
	req.Len(fetchedMessages, len(sortedDiskMessages))
	req.Equal(sortedDiskMessages, fetchedMessages)
}

func Test_Get_Messages_Is_Scoped_To_One_Chat(t *testing.T) {
	req := require.New(t)
	db := setupDB(t)

	repository := NewMessageRepository(db, slog.Default(), nil)
	at := time.Now().UTC()
	req.NoError(repository.StoreMessage(DiskMessage{
		ID: uuid.New(), ChatID: "chat-1", Sender: "Alice", Content: "mine", At: at,
	}))
	req.NoError(repository.StoreMessage(DiskMessage{
		ID: uuid.New(), ChatID: "chat-2", Sender: "Bob", Content: "other", At: at,
	}))

	fetchedMessages, _, err := repository.GetMessages("chat-1", nil)
	req.NoError(err)
	req.Len(fetchedMessages, 1)
	req.Equal("Alice", fetchedMessages[0].Sender)
}

func Test_Record_Multiple_Message_And_Limit(t *testing.T) {
	req := require.New(t)
	db := setupDB(t)

	limit := 2
	repository := NewMessageRepository(db, slog.Default(), &limit)
	chat := domain.ChatID("chat-1")
	content := "this message will self destruct in 5 seconds"
	at := time.Now().UTC()
	diskMessages := []DiskMessage{
		{ID: uuid.New(), ChatID: chat, Sender: "Alice", Content: content, At: at},
		{ID: uuid.New(), ChatID: chat, Sender: "Bob", Content: content, At: at.Add(1 * time.Minute)},
		{ID: uuid.New(), ChatID: chat, Sender: "Clara", Content: content, At: at.Add(2 * time.Minute)},
	}
	for _, dm := range diskMessages {
		req.NoError(repository.StoreMessage(dm))
	}
	fetchedMessages, _, err := repository.GetMessages(chat, nil)
	req.NoError(err)
	req.Len(fetchedMessages, limit)
}

func Test_MessageRepository_Pagination(t *testing.T) {
	req := require.New(t)
	db := setupDB(t)

	limit := 4
	repo := NewMessageRepository(db, slog.Default(), &limit)
	chat := domain.ChatID("chat-42")
	now := time.Now().UTC()

	// 10 messages, oldest to newest
	for i := 1; i <= 10; i++ {
		req.NoError(repo.StoreMessage(DiskMessage{
			ID:      uuid.New(),
			ChatID:  chat,
			Sender:  fmt.Sprintf("user_%d", i),
			Content: fmt.Sprintf("Message %d", i),
			At:      now.Add(time.Duration(i) * time.Minute),
		}))
	}

	// --- PAGE 1 ---
	msgs1, cursor1, err := repo.GetMessages(chat, nil)
	req.NoError(err)
	req.Len(msgs1, 4)
	req.Equal("user_10", msgs1[0].Sender) // Newest first
	req.Equal("user_7", msgs1[3].Sender)
	req.NotEmpty(cursor1)

	// --- PAGE 2 ---
	msgs2, cursor2, err := repo.GetMessages(chat, cursor1)
	req.NoError(err)
	req.Len(msgs2, 4)
	// No duplicate across pages: page 2 starts at message 6
	req.Equal("user_6", msgs2[0].Sender)
	req.Equal("user_3", msgs2[3].Sender)
	req.NotEmpty(cursor2)

	// --- PAGE 3 (end) ---
	msgs3, cursor3, err := repo.GetMessages(chat, cursor2)
	req.NoError(err)
	req.Len(msgs3, 2)
	req.Equal("user_2", msgs3[0].Sender)
	req.Equal("user_1", msgs3[1].Sender)

	// Past the end there is nothing left
	msgs4, _, err := repo.GetMessages(chat, cursor3)
	req.NoError(err)
	req.Empty(msgs4)
}
