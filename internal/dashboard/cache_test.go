package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/inquiry-dashboard/internal/inquiry"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func testSnapshot() *Snapshot {
	return &Snapshot{
		ID:           "snap-1",
		GeneratedAt:  time.Date(2025, 12, 31, 9, 0, 0, 0, time.UTC),
		Source:       "csv:rows.csv",
		MediaVersion: inquiry.DefaultMediaTables.Version,
		Inquiries: []inquiry.Inquiry{
			{ID: "00001", Date: "2025-12-05", DetailSource: "리마인드CRM", Phone: "010-1111-2222", ReceiptType: inquiry.ReceiptWired, SourceCategory: inquiry.CategoryOther},
			{ID: "00002", Date: "2025-12-20", DetailSource: "리마인드CRM", Phone: "010-1111-2222", ReceiptType: inquiry.ReceiptWired, SourceCategory: inquiry.CategoryOther, IsContract: true},
		},
		Contracts: []inquiry.Contract{
			{ID: "00001", Date: "2025-12-21", InquiryDate: "2025-12-20", ContractDate: "2025-12-21", AmountText: "330,000", Amount: "330000"},
		},
		Report:    inquiry.ParseReport{Rows: 3, Inquiries: 2, Contracts: 1, InquiryDrops: map[string]int{"invalid date": 1}},
		Countable: 1,
	}
}

func TestMemoryCacheTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 12, 31, 9, 0, 0, 0, time.UTC)
	c := NewMemoryCache(30 * time.Minute)
	c.now = func() time.Time { return now }

	_, err := c.Get(ctx)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	require.NoError(t, c.Set(ctx, testSnapshot()))
	now = now.Add(29 * time.Minute)
	snap, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "snap-1", snap.ID)

	now = now.Add(time.Minute)
	_, err = c.Get(ctx)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestMemoryCacheZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	c := NewMemoryCache(0)
	c.now = func() time.Time { return now }
	require.NoError(t, c.Set(ctx, testSnapshot()))
	now = now.Add(365 * 24 * time.Hour)
	_, err := c.Get(ctx)
	assert.NoError(t, err)
}

func TestRedisCache(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()
	c := NewRedisCache(client, "", 30*time.Minute)

	_, err := c.Get(ctx)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	want := testSnapshot()
	require.NoError(t, c.Set(ctx, want))
	assert.True(t, mr.Exists("inquiry:snapshot"))

	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	mr.FastForward(31 * time.Minute)
	_, err = c.Get(ctx)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestRedisCacheCorruptValue(t *testing.T) {
	mr, client := setupTestRedis(t)
	require.NoError(t, mr.Set("inquiry:snapshot", "{not json"))

	_, err := NewRedisCache(client, "", time.Minute).Get(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoSnapshot))
}

func TestSnapshotRecord(t *testing.T) {
	rec := testSnapshot().Record()
	assert.Equal(t, RefreshRecord{
		ID:           "snap-1",
		GeneratedAt:  time.Date(2025, 12, 31, 9, 0, 0, 0, time.UTC),
		Source:       "csv:rows.csv",
		MediaVersion: inquiry.DefaultMediaTables.Version,
		Rows:         3,
		InquiryRows:  2,
		ContractRows: 1,
		Countable:    1,
		Revenue:      330000,
		Dropped:      1,
	}, rec)
}
