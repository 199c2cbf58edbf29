package ccbench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTPCCStorage() *InMemoryStorage {
	storage := NewInMemoryStorage()
	storage.BulkLoad([]BulkItem{
		{Key: "W_1", Fields: map[string]any{"ytd": int64(0)}},
		{Key: "D_1", Fields: map[string]any{"next_o_id": int64(1), "ytd": int64(0)}},
		{Key: "C_1", Fields: map[string]any{"balance": int64(100), "ytd_payment": int64(0), "payment_cnt": int64(0)}},
		{Key: "S_1", Fields: map[string]any{"qty": int64(50), "ytd": int64(0), "order_cnt": int64(0)}},
		{Key: "S_2", Fields: map[string]any{"qty": int64(50), "ytd": int64(0), "order_cnt": int64(0)}},
		{Key: "S_3", Fields: map[string]any{"qty": int64(50), "ytd": int64(0), "order_cnt": int64(0)}},
	})
	return storage
}

func TestTPCCWorkload_PrepareRequiresAllPrefixes(t *testing.T) {
	w := NewTPCCWorkload()
	storage := NewInMemoryStorage()
	storage.Put("W_1", NewRecord())
	err := w.Prepare(storage)
	assert.Error(t, err, "missing D_/C_/S_ prefixes must fail Prepare")

	storage2 := seedTPCCStorage()
	assert.NoError(t, w.Prepare(storage2))
}

func TestTPCCWorkload_RunNewOrder(t *testing.T) {
	storage := seedTPCCStorage()
	w := NewTPCCWorkload()
	ctx := NewTxnContext(1, storage)

	ok := w.runNewOrder(ctx, []string{"D_1", "S_1", "S_2", "S_3"})
	require.True(t, ok)

	assert.Equal(t, int64(2), ctx.WriteSet()["D_1"].IntField("next_o_id", 0))
	for _, s := range []string{"S_1", "S_2", "S_3"} {
		rec := ctx.WriteSet()[s]
		assert.Equal(t, int64(49), rec.IntField("qty", 0))
		assert.Equal(t, int64(1), rec.IntField("ytd", 0))
		assert.Equal(t, int64(1), rec.IntField("order_cnt", 0))
	}
}

func TestTPCCWorkload_RunPayment(t *testing.T) {
	storage := seedTPCCStorage()
	w := NewTPCCWorkload()
	ctx := NewTxnContext(1, storage)

	ok := w.runPayment(ctx, []string{"W_1", "D_1", "C_1"})
	require.True(t, ok)

	assert.Equal(t, int64(5), ctx.WriteSet()["W_1"].IntField("ytd", 0))
	assert.Equal(t, int64(5), ctx.WriteSet()["D_1"].IntField("ytd", 0))
	cust := ctx.WriteSet()["C_1"]
	assert.Equal(t, int64(95), cust.IntField("balance", 0))
	assert.Equal(t, int64(5), cust.IntField("ytd_payment", 0))
	assert.Equal(t, int64(1), cust.IntField("payment_cnt", 0))
}

func TestTPCCWorkload_Name(t *testing.T) {
	assert.Equal(t, "w2", NewTPCCWorkload().Name())
}
