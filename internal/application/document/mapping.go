package document

import (
	"strings"

	"github.com/dms/backend/internal/domain/document"
	"github.com/dms/backend/internal/domain/order"
	"github.com/dms/backend/internal/domain/shared/valueobject"
)

// Fallbacks printed when a party field cannot be resolved
const (
	DefaultDealershipName     = "Đại lý ủy quyền"
	DefaultRepresentative     = "Người đại diện theo pháp luật"
	defaultVehicleDescription = "Xe ô tô"
	discountDescription       = "Giảm giá"
	promotionDescription      = "Khuyến mãi"
)

// fieldRule extracts one rendered field from a record. Extractors are tried
// in order and the first non-blank value wins; fallback covers the rest.
type fieldRule[T any] struct {
	name       string
	extractors []func(T) string
	fallback   string
}

func (r fieldRule[T]) apply(v T) string {
	for _, extract := range r.extractors {
		if s := strings.TrimSpace(extract(v)); s != "" {
			return s
		}
	}
	return r.fallback
}

// addressText prefers the full address, then the structured parts, then a raw string
func addressText(a *order.Address) string {
	if a == nil {
		return ""
	}
	if full := strings.TrimSpace(a.FullAddress); full != "" {
		return full
	}
	if flat := a.Flatten(); flat != "" {
		return flat
	}
	return a.Raw
}

var dealershipRules = struct {
	name, address, phone, email, taxCode, representative fieldRule[order.Dealership]
}{
	name: fieldRule[order.Dealership]{
		name: "name",
		extractors: []func(order.Dealership) string{
			func(d order.Dealership) string { return d.CompanyName },
			func(d order.Dealership) string { return d.Name },
		},
		fallback: DefaultDealershipName,
	},
	address: fieldRule[order.Dealership]{
		name:       "address",
		extractors: []func(order.Dealership) string{func(d order.Dealership) string { return addressText(d.Address) }},
		fallback:   document.NotAvailable,
	},
	phone: fieldRule[order.Dealership]{
		name: "phone",
		extractors: []func(order.Dealership) string{
			func(d order.Dealership) string {
				if d.Contact != nil {
					return d.Contact.Phone
				}
				return ""
			},
			func(d order.Dealership) string { return d.Phone },
		},
		fallback: document.NotAvailable,
	},
	email: fieldRule[order.Dealership]{
		name: "email",
		extractors: []func(order.Dealership) string{
			func(d order.Dealership) string {
				if d.Contact != nil {
					return d.Contact.Email
				}
				return ""
			},
			func(d order.Dealership) string { return d.Email },
		},
		fallback: document.NotAvailable,
	},
	taxCode: fieldRule[order.Dealership]{
		name: "tax_code",
		extractors: []func(order.Dealership) string{
			func(d order.Dealership) string { return d.TaxCode },
			func(d order.Dealership) string { return d.MST },
		},
		fallback: document.NotAvailable,
	},
	representative: fieldRule[order.Dealership]{
		name: "representative",
		extractors: []func(order.Dealership) string{
			func(d order.Dealership) string { return d.LegalRepresentative },
			func(d order.Dealership) string { return d.Representative },
		},
		fallback: DefaultRepresentative,
	},
}

var customerRules = struct {
	name, address, phone, email, idNumber fieldRule[order.Customer]
}{
	name: fieldRule[order.Customer]{
		name: "name",
		extractors: []func(order.Customer) string{
			func(c order.Customer) string { return c.FullName },
			func(c order.Customer) string { return c.Name },
		},
		fallback: document.NotAvailable,
	},
	address: fieldRule[order.Customer]{
		name:       "address",
		extractors: []func(order.Customer) string{func(c order.Customer) string { return addressText(c.Address) }},
		fallback:   document.NotAvailable,
	},
	phone: fieldRule[order.Customer]{
		name:       "phone",
		extractors: []func(order.Customer) string{func(c order.Customer) string { return c.Phone }},
		fallback:   document.NotAvailable,
	},
	email: fieldRule[order.Customer]{
		name:       "email",
		extractors: []func(order.Customer) string{func(c order.Customer) string { return c.Email }},
		fallback:   document.NotAvailable,
	},
	idNumber: fieldRule[order.Customer]{
		name:       "id_number",
		extractors: []func(order.Customer) string{func(c order.Customer) string { return c.IDNumber }},
		fallback:   document.NotAvailable,
	},
}

// DealershipParty renders the seller side of the contract
func DealershipParty(d order.Dealership) document.PartyInfo {
	r := dealershipRules
	return document.PartyInfo{
		Name:           r.name.apply(d),
		Address:        r.address.apply(d),
		Phone:          r.phone.apply(d),
		Email:          r.email.apply(d),
		TaxCode:        r.taxCode.apply(d),
		Representative: r.representative.apply(d),
	}
}

// CustomerParty renders the buyer side of the contract
func CustomerParty(c order.Customer) document.PartyInfo {
	r := customerRules
	return document.PartyInfo{
		Name:     r.name.apply(c),
		Address:  r.address.apply(c),
		Phone:    r.phone.apply(c),
		Email:    r.email.apply(c),
		IDNumber: r.idNumber.apply(c),
	}
}

// MapOrderToContractPDF builds the contract data of an order from already
// resolved parties. Each order item yields its vehicle line followed by its
// accessories and options.
func MapOrderToContractPDF(o *order.Order, dealership *order.Dealership, customer *order.Customer) document.ContractData {
	var d order.Dealership
	if dealership != nil {
		d = *dealership
	}
	var c order.Customer
	if customer != nil {
		c = *customer
	}

	code := strings.TrimSpace(o.Code)
	if code == "" {
		code = o.ID
	}

	data := document.ContractData{
		ContractCode:    code,
		OrderID:         o.ID,
		Customer:        CustomerParty(c),
		Dealership:      DealershipParty(d),
		Items:           contractLines(o.Items),
		TotalAmount:     o.FinalAmount,
		PaidAmount:      o.PaidAmount,
		RemainingAmount: o.RemainingAmount(),
		PaymentMethod:   document.NotAvailable,
		Notes:           o.Notes,
	}
	if o.PaymentMethod != "" {
		data.PaymentMethod = order.PaymentMethod(o.PaymentMethod).Label()
	}
	if o.Delivery != nil {
		data.DeliveryAddress = strings.TrimSpace(o.Delivery.Address)
		data.DeliveryDate = o.Delivery.ScheduledDate
	}
	if data.DeliveryAddress == "" {
		data.DeliveryAddress = data.Customer.Address
	}
	return data
}

func contractLines(items []order.Item) []document.LineItem {
	lines := make([]document.LineItem, 0, len(items))
	for _, it := range items {
		first := len(lines)
		lines = append(lines, document.NewLineItem(vehicleDescription(it), document.LineVehicle, it.Color, it.UnitPrice, it.Quantity))
		for _, a := range it.Accessories {
			lines = append(lines, document.NewLineItem(a.Name, document.LineAccessory, "", a.Price, a.EffectiveQuantity()))
		}
		for _, opt := range it.Options {
			lines = append(lines, document.NewLineItem(opt.Name, document.LineOption, "", opt.Price, opt.EffectiveQuantity()))
		}
		if discount := itemDiscount(it, document.SumLines(lines[first:])); discount.IsPositive() {
			lines = append(lines, discountLine(it, discount))
		}
	}
	return lines
}

// itemDiscount is the explicit discount of the item, or the gap between its
// gross lines and a lower final amount when only the latter was sent
func itemDiscount(it order.Item, gross valueobject.Money) valueobject.Money {
	if it.Discount.IsPositive() {
		return it.Discount
	}
	if it.FinalAmount.IsPositive() && it.FinalAmount.LessThan(gross) {
		return gross.Subtract(it.FinalAmount)
	}
	return valueobject.Zero()
}

func discountLine(it order.Item, discount valueobject.Money) document.LineItem {
	description := discountDescription
	if it.Promotion != "" {
		description = promotionDescription
	}
	return document.NewLineItem(description, document.LineDiscount, "", valueobject.Zero().Subtract(discount), 1)
}

func vehicleDescription(it order.Item) string {
	if name := strings.TrimSpace(it.VehicleName); name != "" {
		return name
	}
	if v, ok := it.Vehicle.Value(); ok {
		if name := v.DisplayName(); name != "" {
			return name
		}
	}
	return defaultVehicleDescription
}
