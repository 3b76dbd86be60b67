package controller

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tutorhub_backend/internals/constants"
	"tutorhub_backend/internals/features/payments/model"
	"tutorhub_backend/internals/features/payments/service"
	walletModel "tutorhub_backend/internals/features/wallet/model"
	walletService "tutorhub_backend/internals/features/wallet/service"
	helper "tutorhub_backend/internals/helpers"
)

/* ===================== Fake gateway ===================== */

type fakeGateway struct {
	createErr     error
	captureStatus string
	captureErr    error
	lastOrder     service.Order
	counter       int
}

func (f *fakeGateway) CreateOrder(ctx context.Context, order service.Order) (string, string, error) {
	if f.createErr != nil {
		return "", "", f.createErr
	}
	f.lastOrder = order
	f.counter++
	orderID := "ORDER-" + order.Reference[:8]
	return orderID, "https://gateway.example/checkout/" + orderID, nil
}

func (f *fakeGateway) CaptureOrder(ctx context.Context, orderID string) (service.CaptureResult, error) {
	if f.captureErr != nil {
		return service.CaptureResult{}, f.captureErr
	}
	status := f.captureStatus
	if status == "" {
		status = "settlement"
	}
	return service.CaptureResult{
		Success:          status == "settlement" || status == "capture",
		Status:           status,
		GatewayPaymentID: "GW-" + orderID,
		PayerID:          "PAYER-1",
	}, nil
}

/* ===================== Harness ===================== */

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&walletModel.Wallet{},
		&walletModel.WalletTransaction{},
		&model.Payment{},
	))
	return db
}

func setupApp(db *gorm.DB, gw service.Gateway, userID uuid.UUID) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: helper.FiberErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		return c.Next()
	})

	ctrl := NewPaymentController(db, gw)
	app.Post("/payments", ctrl.CreatePayment)
	app.Post("/payments/by-coins", ctrl.CreatePaymentByCoins)
	app.Post("/payments/capture", ctrl.CapturePayment)
	app.Get("/payments/history", ctrl.GetPaymentHistory)
	app.Delete("/payments/pending", ctrl.DeletePendingPayments)
	app.Post("/payments/cleanup", ctrl.CleanupExpiredPayments)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		raw, err := sonic.Marshal(body)
		require.NoError(t, err)
		buf.Write(raw)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, sonic.Unmarshal(raw, &out))
	return out
}

/* ===================== Tests ===================== */

func TestCreatePaymentFloorsCoins(t *testing.T) {
	db := setupDB(t)
	gw := &fakeGateway{}
	userID := uuid.New()
	app := setupApp(db, gw, userID)

	resp := doJSON(t, app, http.MethodPost, "/payments",
		map[string]any{"amount": 1.2345, "currency": "USD"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data := decodeBody(t, resp)["data"].(map[string]any)
	payment := data["payment"].(map[string]any)
	require.EqualValues(t, 1234, payment["coins"], "coins are floored, never rounded up")
	require.Equal(t, model.PaymentStatusPending, payment["status"])
	require.NotEmpty(t, data["approval_url"])

	// gateway saw our payment id as the reference
	var stored model.Payment
	require.NoError(t, db.First(&stored).Error)
	require.Equal(t, stored.PaymentID.String(), gw.lastOrder.Reference)
	require.NotNil(t, stored.PaymentOrderID)
}

func TestCreatePaymentBelowMinimum(t *testing.T) {
	db := setupDB(t)
	app := setupApp(db, &fakeGateway{}, uuid.New())

	resp := doJSON(t, app, http.MethodPost, "/payments", map[string]any{"amount": 0.05})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&model.Payment{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestCreatePaymentByCoins(t *testing.T) {
	db := setupDB(t)
	app := setupApp(db, &fakeGateway{}, uuid.New())

	resp := doJSON(t, app, http.MethodPost, "/payments/by-coins", map[string]any{"coins": 500})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	payment := decodeBody(t, resp)["data"].(map[string]any)["payment"].(map[string]any)
	require.EqualValues(t, 500, payment["coins"])
	require.InDelta(t, 0.5, payment["amount"].(float64), 1e-9)

	resp = doJSON(t, app, http.MethodPost, "/payments/by-coins", map[string]any{"coins": 99})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreatePaymentGatewayDownKeepsPendingRow(t *testing.T) {
	db := setupDB(t)
	gw := &fakeGateway{createErr: errors.New("gateway boom")}
	app := setupApp(db, gw, uuid.New())

	resp := doJSON(t, app, http.MethodPost, "/payments", map[string]any{"amount": 1.0})
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	// the pending row stays for the sweeps, without an order id
	var stored model.Payment
	require.NoError(t, db.First(&stored).Error)
	require.Equal(t, model.PaymentStatusPending, stored.PaymentStatus)
	require.Nil(t, stored.PaymentOrderID)
}

func captureFlow(t *testing.T, db *gorm.DB, app *fiber.App) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/payments", map[string]any{"amount": 1.0})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	payment := decodeBody(t, resp)["data"].(map[string]any)["payment"].(map[string]any)
	return payment["order_id"].(string)
}

func TestCaptureCreditsExactCoins(t *testing.T) {
	db := setupDB(t)
	userID := uuid.New()
	app := setupApp(db, &fakeGateway{}, userID)
	orderID := captureFlow(t, db, app)

	resp := doJSON(t, app, http.MethodPost, "/payments/capture", map[string]any{"order_id": orderID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decodeBody(t, resp)["data"].(map[string]any)
	require.EqualValues(t, 1000, data["coins_added"])
	require.EqualValues(t, constants.DefaultWalletBalance+1000, data["wallet_balance"],
		"capture ensures the wallet, so the signup grant applies too")

	var stored model.Payment
	require.NoError(t, db.First(&stored).Error)
	require.Equal(t, model.PaymentStatusCompleted, stored.PaymentStatus)
	require.NotNil(t, stored.CompletedAt)
	require.NotEmpty(t, stored.PaymentGatewayID)

	// purchase transaction references the payment
	var entry walletModel.WalletTransaction
	require.NoError(t, db.First(&entry).Error)
	require.Equal(t, walletModel.TxTypePurchase, entry.TxType)
	require.Equal(t, 1000, entry.TxAmount)
	require.Equal(t, stored.PaymentID, *entry.TxPaymentID)
}

func TestCaptureFailedGatewayStatusLeavesWalletUntouched(t *testing.T) {
	db := setupDB(t)
	userID := uuid.New()
	gw := &fakeGateway{}
	app := setupApp(db, gw, userID)
	orderID := captureFlow(t, db, app)

	gw.captureStatus = "deny"
	resp := doJSON(t, app, http.MethodPost, "/payments/capture", map[string]any{"order_id": orderID})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var stored model.Payment
	require.NoError(t, db.First(&stored).Error)
	require.Equal(t, model.PaymentStatusPending, stored.PaymentStatus)

	bal, err := walletService.Balance(db, userID)
	require.NoError(t, err)
	require.Equal(t, 0, bal, "no wallet was ever created")
}

func TestCaptureTwiceCreditsOnce(t *testing.T) {
	db := setupDB(t)
	userID := uuid.New()
	app := setupApp(db, &fakeGateway{}, userID)
	orderID := captureFlow(t, db, app)

	resp := doJSON(t, app, http.MethodPost, "/payments/capture", map[string]any{"order_id": orderID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/payments/capture", map[string]any{"order_id": orderID})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	bal, err := walletService.Balance(db, userID)
	require.NoError(t, err)
	require.Equal(t, constants.DefaultWalletBalance+1000, bal)
}

func TestCaptureSomeoneElsesOrder(t *testing.T) {
	db := setupDB(t)
	owner := uuid.New()
	app := setupApp(db, &fakeGateway{}, owner)
	orderID := captureFlow(t, db, app)

	otherApp := setupApp(db, &fakeGateway{}, uuid.New())
	resp := doJSON(t, otherApp, http.MethodPost, "/payments/capture", map[string]any{"order_id": orderID})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeletePendingRespectsWindow(t *testing.T) {
	db := setupDB(t)
	userID := uuid.New()
	app := setupApp(db, &fakeGateway{}, userID)

	old := model.Payment{
		PaymentUserID: userID,
		PaymentAmount: 1, PaymentCoins: 1000,
		PaymentStatus: model.PaymentStatusPending,
	}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Model(&old).Update("created_at", time.Now().Add(-2*time.Hour)).Error)

	fresh := model.Payment{
		PaymentUserID: userID,
		PaymentAmount: 1, PaymentCoins: 1000,
		PaymentStatus: model.PaymentStatusPending,
	}
	require.NoError(t, db.Create(&fresh).Error)

	resp := doJSON(t, app, http.MethodDelete, "/payments/pending", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := decodeBody(t, resp)["data"].(map[string]any)
	require.EqualValues(t, 1, data["deleted"])

	var count int64
	require.NoError(t, db.Model(&model.Payment{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestExpireStaleSweep(t *testing.T) {
	db := setupDB(t)
	userID := uuid.New()
	app := setupApp(db, &fakeGateway{}, userID)

	stale := model.Payment{
		PaymentUserID: userID,
		PaymentAmount: 1, PaymentCoins: 1000,
		PaymentStatus: model.PaymentStatusPending,
	}
	require.NoError(t, db.Create(&stale).Error)
	require.NoError(t, db.Model(&stale).Update("created_at", time.Now().Add(-25*time.Hour)).Error)

	completed := model.Payment{
		PaymentUserID: userID,
		PaymentAmount: 1, PaymentCoins: 1000,
		PaymentStatus: model.PaymentStatusCompleted,
	}
	require.NoError(t, db.Create(&completed).Error)
	require.NoError(t, db.Model(&completed).Update("created_at", time.Now().Add(-48*time.Hour)).Error)

	resp := doJSON(t, app, http.MethodPost, "/payments/cleanup", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := decodeBody(t, resp)["data"].(map[string]any)
	require.EqualValues(t, 1, data["expired"])

	require.NoError(t, db.First(&stale, "payment_id = ?", stale.PaymentID).Error)
	require.Equal(t, model.PaymentStatusExpired, stale.PaymentStatus)
	require.NoError(t, db.First(&completed, "payment_id = ?", completed.PaymentID).Error)
	require.Equal(t, model.PaymentStatusCompleted, completed.PaymentStatus,
		"sweep never touches non-pending payments")

	// expiring again is a no-op
	resp = doJSON(t, app, http.MethodPost, "/payments/cleanup", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = decodeBody(t, resp)["data"].(map[string]any)
	require.EqualValues(t, 0, data["expired"])
}
