package repo

import (
	"testing"
	"time"

	"mirarr/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func testChannel(title string) *models.ChannelInfo {
	return &models.ChannelInfo{
		ID:              "UC123",
		Title:           title,
		Description:     "a channel",
		CustomURL:       "@channel",
		PublishedAt:     time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		SubscriberCount: 1000,
		VideoCount:      50,
		ViewCount:       100000,
		LastSynced:      time.Now().UTC(),
	}
}

func TestUpsertChannelOverwritesSnapshot(t *testing.T) {
	cs := GetChannelStore(openTestDB(t))

	require.NoError(t, cs.UpsertChannel(testChannel("Old Title")))

	c := testChannel("New Title")
	c.SubscriberCount = 2000
	require.NoError(t, cs.UpsertChannel(c))

	got, found, err := cs.GetChannel()
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "New Title", got.Title)
	require.EqualValues(t, 2000, got.SubscriberCount)
}

func TestGetChannelNotSynced(t *testing.T) {
	cs := GetChannelStore(openTestDB(t))

	c, found, err := cs.GetChannel()
	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, c)
}

func TestUpsertChannelRequiresID(t *testing.T) {
	cs := GetChannelStore(openTestDB(t))

	require.Error(t, cs.UpsertChannel(nil))
	require.Error(t, cs.UpsertChannel(&models.ChannelInfo{}))
}

func TestUpsertChannelQueryShape(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cs := GetChannelStore(db)

	mock.ExpectExec("INSERT INTO channel_info").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, cs.UpsertChannel(testChannel("Mocked")))
	require.NoError(t, mock.ExpectationsWereMet())
}
