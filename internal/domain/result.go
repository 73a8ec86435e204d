package domain

// ErrorKind classifies a failed ServiceResult
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindNotFound
	KindUnauthenticated
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindValidation:
		return "validation_failure"
	default:
		return "none"
	}
}

// ServiceResult is the envelope every catalog and cart operation answers with
type ServiceResult[T any] struct {
	Data    T         `json:"data"`
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Kind    ErrorKind `json:"-"`
}

// OK wraps data in a successful result
func OK[T any](data T) ServiceResult[T] {
	return ServiceResult[T]{Data: data, Success: true}
}

// Fail builds an unsuccessful result of the given kind
func Fail[T any](kind ErrorKind, message string) ServiceResult[T] {
	return ServiceResult[T]{Success: false, Message: message, Kind: kind}
}

// NotFound builds an unsuccessful NotFound result
func NotFound[T any](message string) ServiceResult[T] {
	return Fail[T](KindNotFound, message)
}

// Unauthenticated builds an unsuccessful Unauthenticated result
func Unauthenticated[T any](message string) ServiceResult[T] {
	return Fail[T](KindUnauthenticated, message)
}

// Invalid builds an unsuccessful ValidationFailure result
func Invalid[T any](message string) ServiceResult[T] {
	return Fail[T](KindValidation, message)
}
