package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucrohq/lucro/internal/model"
	"github.com/lucrohq/lucro/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.json")
	svc := NewService(store.NewFileStore(path, zerolog.Nop()))

	// Deterministic, strictly increasing clock.
	base := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	n := 0
	svc.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	return svc
}

func payload(t *testing.T, body string) Payload {
	t.Helper()
	p, verr := DecodePayload([]byte(body))
	require.Nil(t, verr)
	return p
}

func TestCreate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tx, err := svc.Create(ctx, payload(t, `{"date":"2024-01-01","type":"revenue","amount":500.25,"category":"store","note":"launch"}`))
	require.NoError(t, err)

	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, "2024-01-01", tx.Date)
	assert.Equal(t, model.TypeRevenue, tx.Type)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("500.25")), "amount preserved exactly")
	assert.Equal(t, "store", tx.Category)
	assert.Equal(t, "launch", tx.Note)
	assert.False(t, tx.CreatedAt.IsZero())

	got, err := svc.Query(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, tx.ID, got[0].ID)
}

func TestCreate_Invalid(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, payload(t, `{"date":"2024-01-01","type":"salary","amount":10}`))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Report.FieldErrors, "type")

	// Nothing reached the store.
	got, err := svc.Query(ctx, "", "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCreate_OrderingContract(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, payload(t, `{"date":"2024-01-05","type":"ads","amount":1}`))
	require.NoError(t, err)
	b, err := svc.Create(ctx, payload(t, `{"date":"2024-01-07","type":"ads","amount":2}`))
	require.NoError(t, err)
	c, err := svc.Create(ctx, payload(t, `{"date":"2024-01-05","type":"ads","amount":3}`))
	require.NoError(t, err)

	got, err := svc.Query(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Date desc, then createdAt desc on equal dates.
	assert.Equal(t, b.ID, got[0].ID)
	assert.Equal(t, c.ID, got[1].ID)
	assert.Equal(t, a.ID, got[2].ID)
}

func TestPatch_MergesProvidedFieldsOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	orig, err := svc.Create(ctx, payload(t, `{"date":"2024-01-01","type":"expense","amount":80,"category":"tools","note":"keep me"}`))
	require.NoError(t, err)

	got, err := svc.Patch(ctx, orig.ID, payload(t, `{"amount":95.5}`))
	require.NoError(t, err)

	assert.True(t, got.Amount.Equal(decimal.RequireFromString("95.5")))
	assert.Equal(t, orig.ID, got.ID)
	assert.Equal(t, orig.Date, got.Date)
	assert.Equal(t, orig.Type, got.Type)
	assert.Equal(t, orig.Category, got.Category)
	assert.Equal(t, orig.Note, got.Note)
	assert.True(t, got.CreatedAt.Equal(orig.CreatedAt), "createdAt immutable")
}

func TestPatch_UnknownID(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Patch(context.Background(), "nope", payload(t, `{"amount":1}`))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPatch_InvalidField(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	orig, err := svc.Create(ctx, payload(t, `{"date":"2024-01-01","type":"ads","amount":10}`))
	require.NoError(t, err)

	_, err = svc.Patch(ctx, orig.ID, payload(t, `{"type":"bogus"}`))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	// Record untouched.
	got, err := svc.Query(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.TypeAds, got[0].Type)
}

func TestRemove(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tx, err := svc.Create(ctx, payload(t, `{"date":"2024-01-01","type":"ads","amount":10}`))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Remove(ctx, "nope"), store.ErrNotFound)

	require.NoError(t, svc.Remove(ctx, tx.ID))
	got, err := svc.Query(ctx, "", "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMetrics_EndToEnd(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, body := range []string{
		`{"date":"2024-01-01","type":"revenue","amount":500}`,
		`{"date":"2024-01-01","type":"ads","amount":100}`,
		`{"date":"2024-01-02","type":"expense","amount":50}`,
	} {
		_, err := svc.Create(ctx, payload(t, body))
		require.NoError(t, err)
	}

	s, err := svc.Metrics(ctx, "2024-01-01", "2024-01-02")
	require.NoError(t, err)

	assert.True(t, s.Profit.Equal(decimal.NewFromInt(350)))
	assert.True(t, s.TotalCost.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, "233.33", s.ROI.StringFixed(2))
	assert.True(t, s.ROAS.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "70", s.Margin.String())

	require.Len(t, s.Daily, 2)
	assert.Equal(t, "2024-01-01", s.Daily[0].Date)
	assert.True(t, s.Daily[0].Result.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, "2024-01-02", s.Daily[1].Date)
	assert.True(t, s.Daily[1].Result.Equal(decimal.NewFromInt(-50)))
	assert.Equal(t, 1, s.GoodDays)
	assert.Equal(t, 1, s.BadDays)
}
