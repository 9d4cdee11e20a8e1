package testutil

import (
	"context"
	"sync"

	"github.com/bitfantasy/nimo-pos/internal/pos/events"
)

// RecordingPublisher 记录发布过的事件，Err 非空时每次发布都返回它
type RecordingPublisher struct {
	mu        sync.Mutex
	Completed []events.SaleCompleted
	Low       []events.StockLow
	Err       error
}

func (p *RecordingPublisher) PublishSaleCompleted(_ context.Context, evt events.SaleCompleted) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Completed = append(p.Completed, evt)
	return p.Err
}

func (p *RecordingPublisher) PublishStockLow(_ context.Context, evt events.StockLow) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Low = append(p.Low, evt)
	return p.Err
}
