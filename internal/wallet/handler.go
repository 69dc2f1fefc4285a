package wallet

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes wallet HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	UserID string `json:"user_id"`
}

type mutationRequest struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	ReferenceID string `json:"reference_id"`
}

type holdRequest struct {
	BookingID string `json:"booking_id"`
	Amount    int64  `json:"amount"`
}

type entryResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Amount      int64     `json:"amount"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	ReferenceID string    `json:"reference_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Create provisions a wallet for the given user.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.UserID == "" {
		return fiber.NewError(http.StatusBadRequest, "user_id is required")
	}
	w, err := h.service.Create(c.UserContext(), req.UserID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"user_id":    w.UserID,
		"balance":    w.Balance,
		"created_at": w.CreatedAt,
	})
}

// Balance reports the wallet balance and the advisory locked amount.
func (h *Handler) Balance(c *fiber.Ctx) error {
	balance, err := h.service.GetBalance(c.UserContext(), c.Params("userId"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"user_id": balance.UserID,
		"balance": balance.Balance,
		"locked":  balance.Locked,
		"as_of":   balance.AsOf,
	})
}

// Credit adds tokens to the wallet.
func (h *Handler) Credit(c *fiber.Ctx) error {
	return h.mutate(c, h.service.Credit)
}

// Debit spends tokens from the wallet.
func (h *Handler) Debit(c *fiber.Ctx) error {
	return h.mutate(c, h.service.Debit)
}

// Refund compensates a previous debit.
func (h *Handler) Refund(c *fiber.Ctx) error {
	return h.mutate(c, h.service.Refund)
}

func (h *Handler) mutate(c *fiber.Ctx, op func(ctx context.Context, input MutationInput) error) error {
	var req mutationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	err := op(c.UserContext(), MutationInput{
		UserID:      c.Params("userId"),
		Amount:      req.Amount,
		Description: req.Description,
		ReferenceID: req.ReferenceID,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Hold reserves tokens against a booking for the configured TTL.
func (h *Handler) Hold(c *fiber.Ctx) error {
	var req holdRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.BookingID == "" {
		return fiber.NewError(http.StatusBadRequest, "booking_id is required")
	}
	if err := h.service.HoldTokens(c.UserContext(), c.Params("userId"), req.BookingID, req.Amount); err != nil {
		return toHTTPError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Release removes a live booking hold.
func (h *Handler) Release(c *fiber.Ctx) error {
	if err := h.service.ReleaseHold(c.UserContext(), c.Params("bookingId")); err != nil {
		return toHTTPError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// History lists the most recent ledger entries for the wallet.
func (h *Handler) History(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := h.service.History(c.UserContext(), c.Params("userId"), limit)
	if err != nil {
		return toHTTPError(err)
	}
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryResponse{
			ID:          e.ID,
			UserID:      e.UserID,
			Amount:      e.Amount,
			Type:        string(e.Type),
			Description: e.Description,
			ReferenceID: e.ReferenceID,
			CreatedAt:   e.CreatedAt,
		})
	}
	return c.Status(http.StatusOK).JSON(out)
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrWalletNotFound), errors.Is(err, ErrHoldNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrWalletExists):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInsufficientBalance):
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, ErrInternal.Error())
	}
}
