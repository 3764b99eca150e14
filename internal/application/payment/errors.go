package payment

import "github.com/dms/backend/internal/domain/shared"

// Guard errors. These are raised before any backend call is made.
var (
	ErrDealershipMismatch = shared.NewDomainError("DEALERSHIP_MISMATCH",
		"Bạn không có quyền thao tác trên đơn hàng của đại lý khác")
	ErrDepositRequiresPending = shared.NewDomainError("DEPOSIT_REQUIRES_PENDING",
		"Chỉ có thể đặt cọc khi đơn hàng ở trạng thái pending (chờ xử lý)")
	ErrDepositPercentOutOfRange = shared.NewDomainError("DEPOSIT_PERCENT_OUT_OF_RANGE",
		"Tỷ lệ đặt cọc nằm ngoài khoảng cho phép")
	ErrInvalidDepositAmount = shared.NewDomainError("INVALID_DEPOSIT_AMOUNT",
		"Số tiền đặt cọc phải lớn hơn 0")
	ErrAmountExceedsRemaining = shared.NewDomainError("AMOUNT_EXCEEDS_REMAINING",
		"Số tiền thanh toán vượt quá số tiền còn lại của đơn hàng")
	ErrInvalidPaymentMethod = shared.NewDomainError("INVALID_PAYMENT_METHOD",
		"Phương thức thanh toán phải là cash, bank, qr hoặc card")
	ErrVehicleNotReady = shared.NewDomainError("VEHICLE_NOT_READY",
		"Xe chưa về đại lý, chưa thể thanh toán phần còn lại")
	ErrFinalPaymentRequiresVehicleReady = shared.NewDomainError("FINAL_PAYMENT_REQUIRES_VEHICLE_READY",
		"Chỉ có thể thanh toán phần còn lại khi xe đã sẵn sàng (vehicle_ready)")
	ErrAlreadyFullyPaid = shared.NewDomainError("ALREADY_FULLY_PAID",
		"Đơn hàng đã được thanh toán đủ")
)

// ErrStockPending is returned when the backend reported insufficient stock and
// the order did not settle within the re-check window
var ErrStockPending = shared.NewClassifiedError(shared.ClassTransient, "STOCK_PENDING",
	"Xe tạm hết hàng, hệ thống đang xử lý yêu cầu. Vui lòng kiểm tra lại đơn hàng sau ít phút")

// Translated backend errors
var (
	ErrInsufficientStock = shared.NewClassifiedError(shared.ClassTransient, "INSUFFICIENT_STOCK",
		"Xe tạm hết hàng tại đại lý")
	ErrInvalidOrderStatus = shared.NewClassifiedError(shared.ClassTerminal, "INVALID_ORDER_STATUS",
		"Trạng thái đơn hàng không cho phép thao tác này")
	ErrColorRequired = shared.NewClassifiedError(shared.ClassTerminal, "COLOR_REQUIRED",
		"Vui lòng chọn màu xe trước khi thanh toán")
	ErrOrderNotFound = shared.NewClassifiedError(shared.ClassTerminal, "ORDER_NOT_FOUND",
		"Không tìm thấy đơn hàng")
	ErrBackendUnavailable = shared.NewClassifiedError(shared.ClassTransient, "BACKEND_UNAVAILABLE",
		"Hệ thống quản lý đơn hàng tạm thời không phản hồi, vui lòng thử lại")
)

// CodeUpstreamError marks a backend message no rule recognised
const CodeUpstreamError = "UPSTREAM_ERROR"
