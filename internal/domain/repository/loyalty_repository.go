package repository

import "github.com/jhoicas/pos-core-api/internal/domain/entity"

// LoyaltyConfigRepository configuración de fidelización por negocio.
type LoyaltyConfigRepository interface {
	GetActiveByBusiness(businessID string) (*entity.LoyaltyConfig, error)
	Create(cfg *entity.LoyaltyConfig) error
}

// LoyaltyTransactionRepository libro de puntos, solo-append.
type LoyaltyTransactionRepository interface {
	Create(txn *entity.LoyaltyTransaction) error
	// GetLatestByCustomer último asiento del cliente; su BalanceAfter debe
	// coincidir siempre con el saldo vivo del cliente.
	GetLatestByCustomer(businessID, customerID string) (*entity.LoyaltyTransaction, error)
}
