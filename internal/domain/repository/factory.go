package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Users() UserRepository
	Wallets() WalletRepository
	Transactions() TransactionRepository
	Tokens() TokenRepository
	Orders() OrderRepository
	Ledger() LedgerRepository
}
