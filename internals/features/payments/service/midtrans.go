package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

// MidtransGateway implements Gateway on Midtrans: Snap hosts the
// checkout page, the Core API answers status checks during capture.
type MidtransGateway struct {
	snapClient snap.Client
	coreClient coreapi.Client
}

func NewMidtransGateway(serverKey string, production bool) *MidtransGateway {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	g := &MidtransGateway{}
	g.snapClient.New(serverKey, env)
	g.coreClient.New(serverKey, env)
	return g
}

// CreateOrder opens a Snap transaction and returns our generated order
// id plus the hosted checkout URL.
func (g *MidtransGateway) CreateOrder(ctx context.Context, order Order) (string, string, error) {
	orderID := buildOrderID(order.Reference)

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID: orderID,
			// gateway wants minor units
			GrossAmt: int64(math.Round(order.Amount * 100)),
		},
		Items: &[]midtrans.ItemDetails{{
			ID:    order.Reference,
			Name:  order.Description,
			Price: int64(math.Round(order.Amount * 100)),
			Qty:   1,
		}},
	}

	type result struct {
		resp *snap.Response
		err  *midtrans.Error
	}
	ch := make(chan result, 1)
	go func() {
		resp, err := g.snapClient.CreateTransaction(req)
		ch <- result{resp, err}
	}()

	select {
	case <-ctx.Done():
		return "", "", ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return "", "", fmt.Errorf("midtrans create transaction: %w", r.err)
		}
		return orderID, r.resp.RedirectURL, nil
	}
}

// CaptureOrder asks the Core API for the transaction status. Only
// settlement and capture count as money in the bank.
func (g *MidtransGateway) CaptureOrder(ctx context.Context, orderID string) (CaptureResult, error) {
	type result struct {
		resp *coreapi.TransactionStatusResponse
		err  *midtrans.Error
	}
	ch := make(chan result, 1)
	go func() {
		resp, err := g.coreClient.CheckTransaction(orderID)
		ch <- result{resp, err}
	}()

	select {
	case <-ctx.Done():
		return CaptureResult{}, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return CaptureResult{}, fmt.Errorf("midtrans check transaction: %w", r.err)
		}
		status := strings.ToLower(r.resp.TransactionStatus)
		return CaptureResult{
			Success:          status == "settlement" || status == "capture",
			Status:           status,
			GatewayPaymentID: r.resp.TransactionID,
		}, nil
	}
}

func buildOrderID(reference string) string {
	short := reference
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("TOPUP-%d-%s", time.Now().UnixNano(), short)
}
