package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rl1809/menu-order/internal/adapter/phone"
	"github.com/rl1809/menu-order/internal/adapter/storage"
	"github.com/rl1809/menu-order/internal/core/domain"
	"github.com/rl1809/menu-order/internal/core/service"
)

const (
	redisAddr       = "localhost:6379"
	menuFile        = "config/menu.json"
	distinctOrders  = 20
	retriesPerOrder = 5
	queueSize       = 1000
)

// Every order is submitted several times concurrently, as a client retrying
// on timeouts would. Exactly one submission per order must be accepted.
func main() {
	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	catalog, err := domain.LoadCatalog(menuFile)
	if err != nil {
		log.Fatalf("failed to load menu: %v", err)
	}
	ids := catalog.IDs()
	if len(ids) == 0 {
		log.Fatal("menu has no items")
	}

	pricing := service.NewPriceEngine(service.DefaultDeliveryCharge)
	orderService := service.NewOrderService(
		storage.NewRedisAdapter(rdb),
		catalog,
		pricing,
		phone.NewUKFormatter(),
		queueSize,
		zap.NewNop(),
	)
	defer orderService.Close()

	// Drain the order queue in background
	go func() {
		for range orderService.GetOrderQueue() {
		}
	}()

	lines := []domain.OrderLine{{ItemID: ids[0], Quantity: 2}}
	totals, err := pricing.TotalsForLines(catalog, lines)
	if err != nil {
		log.Fatalf("failed to price order: %v", err)
	}

	var successCount, duplicateCount, failCount atomic.Int32
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < distinctOrders; i++ {
		requestID := uuid.NewString()
		for j := 0; j < retriesPerOrder; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				order := domain.Order{
					Lines:       append([]domain.OrderLine(nil), lines...),
					PhoneNumber: "+447700900123",
				}
				err := orderService.PlaceOrder(ctx, requestID, order, totals.GrandTotal)
				switch {
				case err == nil:
					successCount.Add(1)
				case errors.Is(err, service.ErrDuplicateRequest):
					duplicateCount.Add(1)
				default:
					failCount.Add(1)
				}
			}()
		}
	}

	wg.Wait()
	elapsed := time.Since(start)

	success := successCount.Load()
	duplicates := duplicateCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Distinct Orders:  %d\n", distinctOrders)
	fmt.Printf("Total Requests:   %d\n", distinctOrders*retriesPerOrder)
	fmt.Printf("Accepted:         %d\n", success)
	fmt.Printf("Duplicates:       %d\n", duplicates)
	fmt.Printf("Failed:           %d\n", failCount.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if success == distinctOrders && duplicates == distinctOrders*(retriesPerOrder-1) {
		fmt.Printf("PASS: exactly one submission accepted per order\n")
	} else {
		fmt.Printf("FAIL: expected %d accepted/%d duplicates, got %d/%d\n",
			distinctOrders, distinctOrders*(retriesPerOrder-1), success, duplicates)
	}
}
