package dealerapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dms/backend/internal/domain/ledger"
	"github.com/dms/backend/internal/domain/shared"
)

var _ ledger.Gateway = (*Client)(nil)

var debtListPaths = map[ledger.DebtorType]string{
	ledger.DebtorCustomer:     "/api/debts/customers",
	ledger.DebtorManufacturer: "/api/debts/manufacturers",
}

// ListDebts lists customer or manufacturer debts with the filter as query string
func (c *Client) ListDebts(ctx context.Context, debtorType ledger.DebtorType, filter ledger.DebtFilter) (ledger.Page[ledger.Debt], error) {
	path, ok := debtListPaths[debtorType]
	if !ok {
		return ledger.Page[ledger.Debt]{}, shared.NewDomainError("INVALID_DEBTOR_TYPE",
			fmt.Sprintf("Debt listing is not available for %q", debtorType))
	}
	body, err := c.doRequest(ctx, http.MethodGet, path, filter.Query(), nil)
	if err != nil {
		return ledger.Page[ledger.Debt]{}, err
	}
	page, err := decodeDebtPage(body, filter)
	if err != nil {
		return ledger.Page[ledger.Debt]{}, fmt.Errorf("dealer api: failed to decode debts: %w", err)
	}
	return page, nil
}

// GetDebt fetches one debt
func (c *Client) GetDebt(ctx context.Context, id string) (*ledger.Debt, error) {
	var d ledger.Debt
	if err := c.call(ctx, http.MethodGet, "/api/debts/"+escape(id), nil, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateBankProfile opens an installment financing profile
func (c *Client) CreateBankProfile(ctx context.Context, profile *ledger.BankProfile) (*ledger.BankProfile, error) {
	var created ledger.BankProfile
	if err := c.call(ctx, http.MethodPost, "/api/bank-profiles", nil, profile, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetBankProfile fetches one financing profile
func (c *Client) GetBankProfile(ctx context.Context, id string) (*ledger.BankProfile, error) {
	var p ledger.BankProfile
	if err := c.call(ctx, http.MethodGet, "/api/bank-profiles/"+escape(id), nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateBankProfileStatus moves a financing profile along its pipeline
func (c *Client) UpdateBankProfileStatus(ctx context.Context, id string, status ledger.BankProfileStatus, notes string) (*ledger.BankProfile, error) {
	var p ledger.BankProfile
	err := c.call(ctx, http.MethodPut, "/api/bank-profiles/"+escape(id)+"/status", nil,
		bankProfileStatusBody{Status: status, Notes: notes}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
