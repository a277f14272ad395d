package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"marketmind-be/internal/entity"
	"marketmind-be/internal/model"
	"marketmind-be/internal/repository/implementation"
	"marketmind-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormChatSessionRepository(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}
	require.NoError(t, gormDB.AutoMigrate(&model.ChatSession{}))

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	assert.NoError(t, sqlDB.Ping())

	repo := implementation.NewChatSessionRepository(gormDB)
	ctx := context.Background()
	userId := "user-integration-" + uuid.New().String()

	t.Cleanup(func() {
		gormDB.Where("user_id = ?", userId).Delete(&model.ChatSession{})
	})

	t.Run("GetOrCreate Is Idempotent", func(t *testing.T) {
		first, err := repo.GetOrCreate(ctx, userId)
		require.NoError(t, err)
		assert.Equal(t, userId, first.UserId)
		assert.Empty(t, first.Messages)

		second, err := repo.GetOrCreate(ctx, userId)
		require.NoError(t, err)
		assert.Equal(t, first.Version, second.Version)
	})

	t.Run("Append Persists In Order", func(t *testing.T) {
		_, err := repo.Append(ctx, userId, entity.ChatMessage{Text: "hello", IsUser: true})
		require.NoError(t, err)
		_, err = repo.Append(ctx, userId, entity.ChatMessage{Text: "hi there", IsUser: false})
		require.NoError(t, err)

		history, err := repo.GetHistory(ctx, userId)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "hello", history[0].Text)
		assert.True(t, history[0].IsUser)
		assert.Equal(t, "hi there", history[1].Text)
		assert.False(t, history[1].IsUser)
	})

	t.Run("History Empty For Unknown User", func(t *testing.T) {
		history, err := repo.GetHistory(ctx, "user-never-"+uuid.New().String())
		require.NoError(t, err)
		assert.Empty(t, history)
	})
}
