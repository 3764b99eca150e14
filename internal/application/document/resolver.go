package document

import (
	"context"

	"github.com/dms/backend/internal/domain/document"
	"github.com/dms/backend/internal/domain/order"
	"github.com/dms/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Resolver fills the parties of an order snapshot with the full directory
// records before a contract is rendered. Lookups are best effort: a failed
// fetch is logged and the embedded data is kept, so resolution never fails.
type Resolver struct {
	directory order.DirectoryGateway
	location  string
	logger    *zap.Logger
}

// NewResolver creates a Resolver; location is printed as the place of signing
func NewResolver(directory order.DirectoryGateway, location string, l *zap.Logger) *Resolver {
	if l == nil {
		l = zap.NewNop()
	}
	return &Resolver{directory: directory, location: location, logger: l.Named("contract_resolver")}
}

// ResolveContractData builds the contract data of o. An override dealership
// takes precedence over the one embedded in the order.
func (r *Resolver) ResolveContractData(ctx context.Context, o *order.Order, override *order.Dealership) document.ContractData {
	dealership := r.resolveDealership(ctx, o, override)
	customer := r.resolveCustomer(ctx, o)

	data := MapOrderToContractPDF(o, dealership, customer)
	if goods := data.GoodsTotal(); !goods.Equals(data.TotalAmount) {
		logger.Enrich(ctx, r.logger).Warn("contract lines do not add up to the order amount",
			zap.String("order_id", o.ID),
			zap.String("goods_total", goods.String()),
			zap.String("final_amount", data.TotalAmount.String()))
	}
	data.Location = r.location
	if data.Location == "" {
		data.Location = document.NotAvailable
	}
	return data
}

func (r *Resolver) resolveDealership(ctx context.Context, o *order.Order, override *order.Dealership) *order.Dealership {
	var best *order.Dealership
	id := o.Dealership.ID()
	if override != nil {
		best = override
		if oid := override.GetID(); oid != "" {
			id = oid
		}
	} else if v, ok := o.Dealership.Value(); ok {
		best = &v
	}

	if best != nil && !best.IsSparse() {
		return best
	}
	if id == "" || r.directory == nil {
		return best
	}
	fetched, err := r.directory.GetDealership(ctx, id)
	if err != nil {
		logger.Enrich(ctx, r.logger).Warn("dealership lookup failed, using embedded data",
			zap.String("order_id", o.ID),
			zap.String("dealership_id", id),
			zap.Error(err))
		return best
	}
	return mergeDealership(fetched, best)
}

func (r *Resolver) resolveCustomer(ctx context.Context, o *order.Order) *order.Customer {
	var embedded *order.Customer
	if v, ok := o.Customer.Value(); ok {
		embedded = &v
	}
	if embedded != nil && embedded.HasAddress() {
		return embedded
	}
	id := o.Customer.ID()
	if id == "" || r.directory == nil {
		return embedded
	}
	fetched, err := r.directory.GetCustomer(ctx, id)
	if err != nil {
		logger.Enrich(ctx, r.logger).Warn("customer lookup failed, using embedded data",
			zap.String("order_id", o.ID),
			zap.String("customer_id", id),
			zap.Error(err))
		return embedded
	}
	return mergeCustomer(fetched, embedded)
}

// mergeDealership returns fetched with its blank fields taken from embedded
func mergeDealership(fetched, embedded *order.Dealership) *order.Dealership {
	if fetched == nil {
		return embedded
	}
	out := *fetched
	if embedded == nil {
		return &out
	}
	fill(&out.ID, embedded.ID)
	fill(&out.LegacyID, embedded.LegacyID)
	fill(&out.CompanyName, embedded.CompanyName)
	fill(&out.Name, embedded.Name)
	fill(&out.Phone, embedded.Phone)
	fill(&out.Email, embedded.Email)
	fill(&out.TaxCode, embedded.TaxCode)
	fill(&out.MST, embedded.MST)
	fill(&out.LegalRepresentative, embedded.LegalRepresentative)
	fill(&out.Representative, embedded.Representative)
	if out.Address == nil || out.Address.IsEmpty() {
		out.Address = embedded.Address
	}
	if out.Contact == nil {
		out.Contact = embedded.Contact
	}
	return &out
}

// mergeCustomer returns fetched with its blank fields taken from embedded
func mergeCustomer(fetched, embedded *order.Customer) *order.Customer {
	if fetched == nil {
		return embedded
	}
	out := *fetched
	if embedded == nil {
		return &out
	}
	fill(&out.ID, embedded.ID)
	fill(&out.LegacyID, embedded.LegacyID)
	fill(&out.FullName, embedded.FullName)
	fill(&out.Name, embedded.Name)
	fill(&out.Phone, embedded.Phone)
	fill(&out.Email, embedded.Email)
	fill(&out.IDNumber, embedded.IDNumber)
	if !out.HasAddress() {
		out.Address = embedded.Address
	}
	return &out
}

func fill(dst *string, src string) {
	if *dst == "" {
		*dst = src
	}
}
