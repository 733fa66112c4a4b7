package modbusrtu

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	modbusrturuntime "rtugateway/pkg/protocol/modbusrtu/runtime"
)

type Category int8

// Categories are matched in declaration order, most specific first.
const (
	CategoryUnauthorized Category = iota
	CategoryConnectionUnavailable
	CategoryNotSupported
	CategoryNullArgument
	CategoryArgumentOutOfRange
	CategoryMalformedArgument
	CategoryInvalidFormat
	CategoryOverflow
	CategoryInvalidCast
	CategorySlaveException
	CategoryInvalidOperation
	CategoryIO
	CategoryTimeout
	CategoryUnexpected
	// the caller gave up before the gate was free; never produced by Classify
	CategoryCancelled
)

var CategoryToString = map[Category]string{
	CategoryUnauthorized:          "unauthorized",
	CategoryConnectionUnavailable: "connectionUnavailable",
	CategoryNotSupported:          "notSupported",
	CategoryNullArgument:          "nullArgument",
	CategoryArgumentOutOfRange:    "argumentOutOfRange",
	CategoryMalformedArgument:     "malformedArgument",
	CategoryInvalidFormat:         "invalidFormat",
	CategoryOverflow:              "overflow",
	CategoryInvalidCast:           "invalidCast",
	CategorySlaveException:        "slaveException",
	CategoryInvalidOperation:      "invalidOperation",
	CategoryIO:                    "io",
	CategoryTimeout:               "timeout",
	CategoryUnexpected:            "unexpected",
	CategoryCancelled:             "cancelled",
}

func (c Category) String() string {
	if s, ok := CategoryToString[c]; ok {
		return s
	}
	return fmt.Sprintf("Category(%d)", int8(c))
}

func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// Kind is the outcome a caller sees.
type Kind int8

const (
	KindBadArgument Kind = iota
	KindForbidden
	KindNotFound
	KindConflict
	KindBadGateway
	KindInternal
)

var KindToString = map[Kind]string{
	KindBadArgument: "badArgument",
	KindForbidden:   "forbidden",
	KindNotFound:    "notFound",
	KindConflict:    "conflict",
	KindBadGateway:  "badGateway",
	KindInternal:    "internalError",
}

func (k Kind) String() string {
	return KindToString[k]
}

var CategoryToKind = map[Category]Kind{
	CategoryUnauthorized:          KindForbidden,
	CategoryConnectionUnavailable: KindNotFound,
	CategoryNotSupported:          KindBadArgument,
	CategoryNullArgument:          KindBadArgument,
	CategoryArgumentOutOfRange:    KindBadArgument,
	CategoryMalformedArgument:     KindBadArgument,
	CategoryInvalidFormat:         KindBadArgument,
	CategoryOverflow:              KindBadArgument,
	CategoryInvalidCast:           KindBadArgument,
	CategorySlaveException:        KindBadGateway,
	CategoryInvalidOperation:      KindInternal,
	CategoryIO:                    KindInternal,
	CategoryTimeout:               KindInternal,
	CategoryUnexpected:            KindInternal,
	CategoryCancelled:             KindInternal,
}

var KindToStatusCode = map[Kind]int{
	KindBadArgument: http.StatusBadRequest,
	KindForbidden:   http.StatusForbidden,
	KindNotFound:    http.StatusNotFound,
	KindConflict:    http.StatusConflict,
	KindBadGateway:  http.StatusBadGateway,
	KindInternal:    http.StatusInternalServerError,
}

// Failure is the only error type returned by the Controller.
type Failure struct {
	Category  Category
	Operation modbusrturuntime.OperationSelector
	Message   string
	Err       error
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func (f *Failure) Kind() Kind {
	if k, ok := CategoryToKind[f.Category]; ok {
		return k
	}
	return KindInternal
}

func (f *Failure) StatusCode() int {
	return KindToStatusCode[f.Kind()]
}

func IsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// Classify maps a client fault onto its category.
func Classify(err error) Category {
	var slaveErr *modbusrturuntime.SlaveError
	switch {
	case errors.Is(err, modbusrturuntime.ErrUnauthorized):
		return CategoryUnauthorized
	case errors.Is(err, modbusrturuntime.ErrNullArgument):
		return CategoryNullArgument
	case errors.Is(err, modbusrturuntime.ErrArgumentOutOfRange):
		return CategoryArgumentOutOfRange
	case errors.Is(err, modbusrturuntime.ErrMalformedArgument):
		return CategoryMalformedArgument
	case errors.Is(err, modbusrturuntime.ErrInvalidFormat):
		return CategoryInvalidFormat
	case errors.Is(err, modbusrturuntime.ErrOverflow):
		return CategoryOverflow
	case errors.Is(err, modbusrturuntime.ErrInvalidCast):
		return CategoryInvalidCast
	case errors.As(err, &slaveErr):
		return CategorySlaveException
	case errors.Is(err, modbusrturuntime.ErrInvalidOperation):
		return CategoryInvalidOperation
	case errors.Is(err, modbusrturuntime.ErrIO):
		return CategoryIO
	case errors.Is(err, modbusrturuntime.ErrTimeout):
		return CategoryTimeout
	default:
		return CategoryUnexpected
	}
}

func newFailure(category Category, op modbusrturuntime.OperationSelector, request *modbusrturuntime.ModbusRequest, err error) *Failure {
	var message string
	if request != nil {
		message = fmt.Sprintf("%s slave %d offset %d count %d: %v", op, request.SlaveID, request.Offset, request.Count, err)
	} else {
		message = fmt.Sprintf("%s: %v", op, err)
	}
	return &Failure{
		Category:  category,
		Operation: op,
		Message:   message,
		Err:       err,
	}
}
