package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aloraops/alora-site/internal/models"
)

func setupNotificationTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	db.AutoMigrate(&models.Notification{})
	return db
}

func TestNotificationService_Create(t *testing.T) {
	db := setupNotificationTestDB(t)
	svc := NewNotificationService(db, nil)

	notif, err := svc.Create(models.NotificationTypeInfo, "Test", "Message")
	require.NoError(t, err)
	assert.Equal(t, "Test", notif.Title)
	assert.Equal(t, "Message", notif.Message)
	assert.False(t, notif.Read)
	assert.NotEmpty(t, notif.ID)
}

func TestNotificationService_ListUnreadOnly(t *testing.T) {
	db := setupNotificationTestDB(t)
	svc := NewNotificationService(db, nil)

	_, err := svc.Create(models.NotificationTypeWarning, "First", "m1")
	require.NoError(t, err)
	second, err := svc.Create(models.NotificationTypeError, "Second", "m2")
	require.NoError(t, err)

	require.NoError(t, svc.MarkAsRead(second.ID))

	unread, err := svc.List(true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "First", unread[0].Title)

	all, err := svc.List(false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestNotificationService_MarkAllAsRead(t *testing.T) {
	db := setupNotificationTestDB(t)
	svc := NewNotificationService(db, nil)

	_, _ = svc.Create(models.NotificationTypeInfo, "A", "a")
	_, _ = svc.Create(models.NotificationTypeInfo, "B", "b")

	require.NoError(t, svc.MarkAllAsRead())

	unread, err := svc.List(true)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestNotificationService_PruneRead(t *testing.T) {
	db := setupNotificationTestDB(t)
	svc := NewNotificationService(db, nil)

	old, err := svc.Create(models.NotificationTypeInfo, "Old", "o")
	require.NoError(t, err)
	require.NoError(t, svc.MarkAsRead(old.ID))
	// Backdate past the retention cutoff.
	db.Model(&models.Notification{}).Where("id = ?", old.ID).
		Update("created_at", time.Now().Add(-40*24*time.Hour))

	fresh, err := svc.Create(models.NotificationTypeInfo, "Fresh", "f")
	require.NoError(t, err)
	require.NoError(t, svc.MarkAsRead(fresh.ID))

	pruned, err := svc.PruneRead(30 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	all, err := svc.List(false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Fresh", all[0].Title)
}
