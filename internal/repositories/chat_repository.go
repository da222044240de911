package repositories

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/jmoiron/sqlx"

	"friend-service/internal/models"
)

// ChatRepository abstracts private chat persistence.
type ChatRepository interface {
	CreateOrGetChat(ctx context.Context, userID string, friendID string) (models.Chat, error)
}

// ChatRepo is a sqlx implementation of ChatRepository.
type ChatRepo struct {
	db *sqlx.DB
}

// NewChatRepo constructs a ChatRepo.
func NewChatRepo(db *sqlx.DB) *ChatRepo {
	return &ChatRepo{db: db}
}

// CreateOrGetChat creates a chat between two users if it does not already exist.
func (r *ChatRepo) CreateOrGetChat(ctx context.Context, userID string, friendID string) (models.Chat, error) {
	return createOrGetChat(ctx, r.db, userID, friendID)
}

// createOrGetChat runs on the pool or inside a transaction.
func createOrGetChat(ctx context.Context, q sqlx.QueryerContext, userID string, friendID string) (models.Chat, error) {
	if userID == friendID {
		return models.Chat{}, errors.New("cannot create chat with self")
	}
	participants := []string{userID, friendID}
	sort.Strings(participants)
	user1, user2 := participants[0], participants[1]

	var chat models.Chat
	err := sqlx.GetContext(ctx, q, &chat, `INSERT INTO chats (user1_id, user2_id) VALUES ($1, $2)
        ON CONFLICT (user1_id, user2_id) DO NOTHING
        RETURNING id, user1_id, user2_id, created_at`, user1, user2)
	if err == nil {
		return chat, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Chat{}, err
	}

	// conflict: the chat already exists
	err = sqlx.GetContext(ctx, q, &chat, `SELECT id, user1_id, user2_id, created_at FROM chats WHERE user1_id=$1 AND user2_id=$2`, user1, user2)
	return chat, err
}
