package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.PublishSaleCompleted(context.Background(), SaleCompleted{SaleID: 1}))
	assert.NoError(t, p.PublishStockLow(context.Background(), StockLow{IngredientID: 1}))
}

func TestDialAMQP_BadURL(t *testing.T) {
	_, err := DialAMQP("http://not-amqp", "nimo.pos", 1, zap.NewNop())
	assert.ErrorContains(t, err, "dial rabbitmq")
}

func TestSaleCompleted_JSON(t *testing.T) {
	evt := SaleCompleted{
		SaleID:      7,
		EmployeeID:  3,
		TotalAmount: decimal.RequireFromString("9.00"),
		Lines:       2,
		SoldAt:      time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(evt)
	require.NoError(t, err)

	var back map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "9", back["total_amount"])
}
