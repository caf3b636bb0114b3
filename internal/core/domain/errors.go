package domain

import "errors"

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrItemNotFound       = errors.New("item not found")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrNotCancellable     = errors.New("only pending orders can be cancelled")
	ErrAlreadyCancelled   = errors.New("order is already cancelled")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrValidation         = errors.New("validation failed")
)

// NoticeLevel classifies a user-visible notification.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeSuccess
	NoticeError
)

func (l NoticeLevel) String() string {
	switch l {
	case NoticeSuccess:
		return "success"
	case NoticeError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a user-facing banner emitted as a side effect of an operation.
type Notice struct {
	Level   NoticeLevel
	Message string
}

func Success(msg string) Notice { return Notice{Level: NoticeSuccess, Message: msg} }
func Failure(msg string) Notice { return Notice{Level: NoticeError, Message: msg} }
