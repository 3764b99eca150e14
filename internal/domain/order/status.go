package order

import (
	"encoding/json"
	"strings"
)

// Status represents the lifecycle status of a dealership order
type Status string

const (
	StatusPending               Status = "pending"
	StatusConfirmed             Status = "confirmed"
	StatusDepositPaid           Status = "deposit_paid"
	StatusWaitingVehicleRequest Status = "waiting_vehicle_request"
	StatusVehicleReady          Status = "vehicle_ready"
	StatusFullyPaid             Status = "fully_paid"
	StatusDelivered             Status = "delivered"
	StatusCompleted             Status = "completed"
	StatusClosed                Status = "closed"
	StatusCancelled             Status = "cancelled"
)

// legacyStatuses maps older backend spellings onto the canonical values
var legacyStatuses = map[string]Status{
	"halfpayment":  StatusDepositPaid,
	"fullypayment": StatusFullyPaid,
	"canceled":     StatusCancelled,
}

// ParseStatus normalizes a backend status string, including legacy aliases
func ParseStatus(s string) Status {
	key := strings.ToLower(strings.TrimSpace(s))
	if st, ok := legacyStatuses[key]; ok {
		return st
	}
	return Status(key)
}

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDepositPaid, StatusWaitingVehicleRequest,
		StatusVehicleReady, StatusFullyPaid, StatusDelivered, StatusCompleted,
		StatusClosed, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusClosed || s == StatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusConfirmed || target == StatusDepositPaid ||
			target == StatusWaitingVehicleRequest || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusDepositPaid || target == StatusWaitingVehicleRequest ||
			target == StatusCancelled
	case StatusWaitingVehicleRequest:
		return target == StatusDepositPaid || target == StatusCancelled
	case StatusDepositPaid:
		return target == StatusVehicleReady || target == StatusCancelled
	case StatusVehicleReady:
		return target == StatusFullyPaid || target == StatusCancelled
	case StatusFullyPaid:
		return target == StatusDelivered || target == StatusCancelled
	case StatusDelivered:
		return target == StatusCompleted
	case StatusCompleted:
		return target == StatusClosed
	case StatusClosed, StatusCancelled:
		return false
	}
	return false
}

// HasAdvancedPastDeposit reports whether a deposit has been taken, whether or
// not the vehicle was in stock at the time
func (s Status) HasAdvancedPastDeposit() bool {
	switch s {
	case StatusDepositPaid, StatusWaitingVehicleRequest, StatusVehicleReady,
		StatusFullyPaid, StatusDelivered, StatusCompleted, StatusClosed:
		return true
	}
	return false
}

// Label returns the Vietnamese display label for the status
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Chờ xử lý"
	case StatusConfirmed:
		return "Đã xác nhận"
	case StatusDepositPaid:
		return "Đã đặt cọc"
	case StatusWaitingVehicleRequest:
		return "Chờ yêu cầu xe từ hãng"
	case StatusVehicleReady:
		return "Xe đã sẵn sàng"
	case StatusFullyPaid:
		return "Đã thanh toán đủ"
	case StatusDelivered:
		return "Đã giao xe"
	case StatusCompleted:
		return "Hoàn tất"
	case StatusClosed:
		return "Đã đóng"
	case StatusCancelled:
		return "Đã hủy"
	}
	return string(s)
}

// UnmarshalJSON normalizes legacy spellings on decode
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseStatus(raw)
	return nil
}
