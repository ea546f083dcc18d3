// Package service implements the contract lifecycle operations that sit
// between the HTTP handlers and the persistence layer.
package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"rental-service/internal/model"
)

// ErrInvalidTransition is returned for a contract state change the
// lifecycle does not permit.
var ErrInvalidTransition = errors.New("invalid contract status transition")

// ContractService owns contract state transitions and their item-status
// side effects.
type ContractService struct {
	db       *gorm.DB
	log      *zap.Logger
	idPrefix string
}

// NewContractService creates a contract service
func NewContractService(db *gorm.DB, log *zap.Logger, idPrefix string) *ContractService {
	if idPrefix == "" {
		idPrefix = "CT"
	}
	return &ContractService{db: db, log: log, idPrefix: idPrefix}
}

// GenerateContractID builds a human-displayed contract ID:
// prefix + creation date + short random suffix, e.g. CT-20250830-9f3a.
func GenerateContractID(prefix string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:4]
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), suffix)
}

// Create persists a new contract. Creation always starts at Agendado; a
// sale contract occupies a one-day range, so its end date is pinned to the
// delivery date.
func (s *ContractService) Create(contract *model.Contract) error {
	contract.ID = GenerateContractID(s.idPrefix, time.Now())
	contract.Status = model.ContractStatusScheduled
	if contract.ContractType == model.ContractTypeSale {
		contract.EndDate = contract.StartDate
	}

	if err := s.db.Create(contract).Error; err != nil {
		return err
	}

	s.log.Info("Contract created",
		zap.String("contract_id", contract.ID),
		zap.String("contract_type", contract.ContractType),
		zap.Int("item_count", len(contract.Items)))
	return nil
}

// Activate moves a scheduled contract to Ativo and marks the referenced
// items as rented.
func (s *ContractService) Activate(contractID string) (*model.Contract, error) {
	return s.transition(contractID, func(c *model.Contract) (string, string, error) {
		if c.Status != model.ContractStatusScheduled {
			return "", "", ErrInvalidTransition
		}
		return model.ContractStatusActive, model.ItemStatusRented, nil
	})
}

// Cancel moves a scheduled or active contract to Cancelado. Every
// referenced item has its physical status reset to Disponível.
//
// The reset is deliberately blunt: it does not check whether an item is
// also committed to a different still-active contract. Occupancy scans
// already ignore cancelled contracts, so availability math stays correct
// either way; only the display status of a doubly-committed item can be
// momentarily wrong.
func (s *ContractService) Cancel(contractID string) (*model.Contract, error) {
	return s.transition(contractID, func(c *model.Contract) (string, string, error) {
		if c.Status != model.ContractStatusScheduled && c.Status != model.ContractStatusActive {
			return "", "", ErrInvalidTransition
		}
		return model.ContractStatusCancelled, model.ItemStatusAvailable, nil
	})
}

// Finish closes an active contract after all items were checked back in.
// toLaundry routes the returned garments through the laundry instead of
// straight back to the rack.
func (s *ContractService) Finish(contractID string, toLaundry bool) (*model.Contract, error) {
	itemStatus := model.ItemStatusAvailable
	if toLaundry {
		itemStatus = model.ItemStatusLaundry
	}
	return s.transition(contractID, func(c *model.Contract) (string, string, error) {
		if c.Status != model.ContractStatusActive {
			return "", "", ErrInvalidTransition
		}
		return model.ContractStatusFinished, itemStatus, nil
	})
}

// transition loads the contract, applies the decided status pair inside a
// transaction and updates every referenced item exactly once.
func (s *ContractService) transition(contractID string, decide func(*model.Contract) (string, string, error)) (*model.Contract, error) {
	var contract model.Contract

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&contract, "id = ?", contractID).Error; err != nil {
			return err
		}

		nextStatus, itemStatus, err := decide(&contract)
		if err != nil {
			return err
		}
		previous := contract.Status
		contract.Status = nextStatus

		if err := tx.Model(&contract).Update("status", nextStatus).Error; err != nil {
			return err
		}

		for _, itemID := range uniqueIDs(contract.Items) {
			if err := tx.Model(&model.Item{}).Where("id = ?", itemID).
				Update("status", itemStatus).Error; err != nil {
				return err
			}
		}

		s.log.Info("Contract status changed",
			zap.String("contract_id", contract.ID),
			zap.String("from", previous),
			zap.String("to", nextStatus),
			zap.String("item_status", itemStatus))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// UpdateItems patches the contract's item list and financials after an
// edit. The new totals are written as-is; capacity was already enforced at
// allocation time.
func (s *ContractService) UpdateItems(contractID string, items, saleItems model.StringList, totalValue float64) (*model.Contract, error) {
	var contract model.Contract
	if err := s.db.First(&contract, "id = ?", contractID).Error; err != nil {
		return nil, err
	}

	contract.Items = items
	contract.SaleItems = saleItems
	contract.TotalValue = totalValue

	if err := s.db.Model(&contract).Updates(map[string]interface{}{
		"items":       items,
		"sale_items":  saleItems,
		"total_value": totalValue,
	}).Error; err != nil {
		return nil, err
	}

	s.log.Info("Contract items updated",
		zap.String("contract_id", contractID),
		zap.Int("item_count", len(items)),
		zap.Float64("total_value", totalValue))
	return &contract, nil
}

// Sign records a signature for one party. Both signatures present lifts
// the awaiting-signature display overlay.
func (s *ContractService) Sign(contractID, party, signature string) (*model.Contract, error) {
	var contract model.Contract
	if err := s.db.First(&contract, "id = ?", contractID).Error; err != nil {
		return nil, err
	}

	var column string
	switch party {
	case "client":
		contract.ClientSignature = signature
		column = "client_signature"
	case "store":
		contract.StoreSignature = signature
		column = "store_signature"
	default:
		return nil, fmt.Errorf("unknown signing party: %q", party)
	}

	if err := s.db.Model(&contract).Update(column, signature).Error; err != nil {
		return nil, err
	}

	s.log.Info("Contract signed",
		zap.String("contract_id", contractID),
		zap.String("party", party),
		zap.String("display_status", contract.DisplayStatus()))
	return &contract, nil
}

// RecordPayment adds to the paid amount; balance stays derived
func (s *ContractService) RecordPayment(contractID string, amount float64) (*model.Contract, error) {
	var contract model.Contract
	if err := s.db.First(&contract, "id = ?", contractID).Error; err != nil {
		return nil, err
	}

	contract.PaidAmount += amount
	if err := s.db.Model(&contract).Update("paid_amount", contract.PaidAmount).Error; err != nil {
		return nil, err
	}

	s.log.Info("Payment recorded",
		zap.String("contract_id", contractID),
		zap.Float64("amount", amount),
		zap.Float64("balance", contract.Balance()))
	return &contract, nil
}

func uniqueIDs(ids model.StringList) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
