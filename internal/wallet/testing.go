package wallet

// SeedWallet is a test helper that provisions a wallet with the given
// balance when using the in-memory store.
func SeedWallet(s Store, userID string, balance int64) {
	if mem, ok := s.(*memoryStore); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		w, exists := mem.wallets[userID]
		if !exists {
			w = Wallet{UserID: userID}
		}
		w.Balance = balance
		mem.wallets[userID] = w
	}
}
