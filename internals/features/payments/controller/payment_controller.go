package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorhub_backend/internals/constants"
	"tutorhub_backend/internals/features/payments/dto"
	"tutorhub_backend/internals/features/payments/model"
	"tutorhub_backend/internals/features/payments/service"
	walletModel "tutorhub_backend/internals/features/wallet/model"
	walletService "tutorhub_backend/internals/features/wallet/service"
	helper "tutorhub_backend/internals/helpers"
)

const gatewayTimeout = 15 * time.Second

type PaymentController struct {
	DB      *gorm.DB
	Gateway service.Gateway
}

func NewPaymentController(db *gorm.DB, gateway service.Gateway) *PaymentController {
	return &PaymentController{DB: db, Gateway: gateway}
}

/* ===================== POST /api/u/payments ===================== */

// CreatePayment starts a top-up: persist a pending payment, open a
// gateway order, store the order id. Gateway failure leaves the pending
// row for the sweeps and surfaces the error.
func (ctrl *PaymentController) CreatePayment(c *fiber.Ctx) error {
	var req dto.CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}
	if req.Amount < constants.MinTopUpUSD {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Minimum top-up is $%.2f", constants.MinTopUpUSD))
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}
	return ctrl.createPayment(c, req.Amount, req.Currency, service.CoinsForAmount(req.Amount))
}

/* ===================== POST /api/u/payments/by-coins ===================== */

// CreatePaymentByCoins prices a whole coin pack and starts the same
// top-up flow.
func (ctrl *PaymentController) CreatePaymentByCoins(c *fiber.Ctx) error {
	var req dto.CreatePaymentByCoinsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}
	if req.Coins < constants.MinTopUpCoins {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Minimum top-up is %d coins", constants.MinTopUpCoins))
	}
	return ctrl.createPayment(c, service.AmountForCoins(req.Coins), "USD", req.Coins)
}

func (ctrl *PaymentController) createPayment(c *fiber.Ctx, amount float64, currency string, coins int) error {
	userID := helper.GetUserUUID(c)
	if userID == uuid.Nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	payment := model.Payment{
		PaymentUserID:   userID,
		PaymentAmount:   amount,
		PaymentCurrency: currency,
		PaymentCoins:    coins,
		PaymentStatus:   model.PaymentStatusPending,
	}
	if err := ctrl.DB.Create(&payment).Error; err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), gatewayTimeout)
	defer cancel()

	orderID, redirectURL, err := ctrl.Gateway.CreateOrder(ctx, service.Order{
		Reference:   payment.PaymentID.String(),
		Amount:      amount,
		Currency:    currency,
		Description: fmt.Sprintf("%d coins top-up", coins),
	})
	if err != nil {
		// the pending row stays behind for the cleanup sweeps
		log.Printf("[PAYMENT] create order for %s failed: %v", payment.PaymentID, err)
		return fiber.NewError(fiber.StatusBadGateway, "Payment provider is unavailable, try again later")
	}

	if err := ctrl.DB.Model(&payment).Update("payment_order_id", orderID).Error; err != nil {
		return err
	}
	payment.PaymentOrderID = &orderID

	return helper.JsonCreated(c, "Payment created", fiber.Map{
		"payment":      dto.NewPaymentResponse(&payment),
		"approval_url": redirectURL,
	})
}

/* ===================== POST /api/u/payments/capture ===================== */

// CapturePayment confirms the checkout with the gateway and, only on a
// confirmed capture, completes the payment and credits the wallet in one
// DB transaction.
func (ctrl *PaymentController) CapturePayment(c *fiber.Ctx) error {
	userID := helper.GetUserUUID(c)
	if userID == uuid.Nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CapturePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}

	var payment model.Payment
	err := ctrl.DB.Where("payment_order_id = ? AND payment_user_id = ?", req.OrderID, userID).
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Payment not found")
	}
	if err != nil {
		return err
	}
	if payment.PaymentStatus == model.PaymentStatusCompleted {
		return fiber.NewError(fiber.StatusBadRequest, "Payment already processed")
	}
	if payment.PaymentStatus != model.PaymentStatusPending {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Payment is %s and cannot be captured", payment.PaymentStatus))
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), gatewayTimeout)
	defer cancel()

	capture, err := ctrl.Gateway.CaptureOrder(ctx, req.OrderID)
	if err != nil {
		log.Printf("[PAYMENT] capture %s failed: %v", req.OrderID, err)
		return fiber.NewError(fiber.StatusBadGateway, "Payment provider is unavailable, try again later")
	}
	if !capture.Success {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Payment not completed (gateway status: %s)", capture.Status))
	}

	now := time.Now()
	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Payment{}).
			Where("payment_id = ? AND payment_status = ?", payment.PaymentID, model.PaymentStatusPending).
			Updates(map[string]any{
				"payment_status":     model.PaymentStatusCompleted,
				"payment_gateway_id": capture.GatewayPaymentID,
				"payment_payer_id":   capture.PayerID,
				"completed_at":       now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// a concurrent capture won
			return fiber.NewError(fiber.StatusBadRequest, "Payment already processed")
		}

		if _, err := walletService.Ensure(tx, userID); err != nil {
			return err
		}
		ref := walletService.Ref{
			ID:        &payment.PaymentID,
			Kind:      walletModel.RefKindPayment,
			PaymentID: &payment.PaymentID,
		}
		desc := fmt.Sprintf("Purchased %d coins", payment.PaymentCoins)
		return walletService.Credit(tx, userID, payment.PaymentCoins, walletModel.TxTypePurchase, desc, ref)
	})
	if err != nil {
		return err
	}

	payment.PaymentStatus = model.PaymentStatusCompleted
	payment.PaymentGatewayID = capture.GatewayPaymentID
	payment.PaymentPayerID = capture.PayerID
	payment.CompletedAt = &now

	balance, err := walletService.Balance(ctrl.DB, userID)
	if err != nil {
		log.Printf("[PAYMENT] balance read after credit failed: %v", err)
	}

	return helper.JsonOK(c, "Payment captured", fiber.Map{
		"payment":        dto.NewPaymentResponse(&payment),
		"coins_added":    payment.PaymentCoins,
		"wallet_balance": balance,
	})
}

/* ===================== Reads ===================== */

func (ctrl *PaymentController) GetPaymentHistory(c *fiber.Ctx) error {
	userID := helper.GetUserUUID(c)
	if userID == uuid.Nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	p := helper.ResolvePaging(c, 20, 100)

	var total int64
	if err := ctrl.DB.Model(&model.Payment{}).
		Where("payment_user_id = ?", userID).
		Count(&total).Error; err != nil {
		return err
	}

	var payments []model.Payment
	if err := ctrl.DB.Where("payment_user_id = ?", userID).
		Order("created_at DESC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&payments).Error; err != nil {
		return err
	}

	items := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		items = append(items, dto.NewPaymentResponse(&payments[i]))
	}

	return helper.JsonOK(c, "Payment history fetched", fiber.Map{
		"payments":   items,
		"pagination": helper.BuildPagination(total, p, len(items)),
	})
}

func (ctrl *PaymentController) GetCoinPackages(c *fiber.Ctx) error {
	packages := []dto.CoinPackage{
		{Name: "Starter", Coins: 100, Amount: service.AmountForCoins(100)},
		{Name: "Standard", Coins: 500, Amount: service.AmountForCoins(500)},
		{Name: "Plus", Coins: 1000, Amount: service.AmountForCoins(1000)},
		{Name: "Pro", Coins: 5000, Amount: service.AmountForCoins(5000)},
	}
	return helper.JsonOK(c, "Coin packages fetched", packages)
}

func (ctrl *PaymentController) GetConversionRate(c *fiber.Ctx) error {
	return helper.JsonOK(c, "Conversion rate fetched", fiber.Map{
		"coins_per_usd":   constants.CoinsPerUSD,
		"min_topup_usd":   constants.MinTopUpUSD,
		"min_topup_coins": constants.MinTopUpCoins,
	})
}

/* ===================== Maintenance ===================== */

// DeletePendingPayments purges the caller's abandoned pending payments
// older than the delete window.
func (ctrl *PaymentController) DeletePendingPayments(c *fiber.Ctx) error {
	userID := helper.GetUserUUID(c)
	if userID == uuid.Nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	n, err := service.DeleteAbandoned(ctrl.DB, userID)
	if err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Pending payments deleted", fiber.Map{"deleted": n})
}

// CleanupExpiredPayments is the admin-triggered counterpart of the
// background sweep.
func (ctrl *PaymentController) CleanupExpiredPayments(c *fiber.Ctx) error {
	n, err := service.ExpireStale(ctrl.DB)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Stale pending payments expired", fiber.Map{"expired": n})
}
