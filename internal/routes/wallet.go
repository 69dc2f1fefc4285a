package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nerdycapuchino/playgrid-sports/internal/wallet"
)

// RegisterWalletRoutes wires the token wallet endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	r.Post("/wallets", h.Create)
	r.Get("/wallets/:userId/balance", h.Balance)
	r.Post("/wallets/:userId/credit", h.Credit)
	r.Post("/wallets/:userId/debit", h.Debit)
	r.Post("/wallets/:userId/refund", h.Refund)
	r.Post("/wallets/:userId/holds", h.Hold)
	r.Delete("/holds/:bookingId", h.Release)
	r.Get("/wallets/:userId/transactions", h.History)
}
