package response

var errors = map[ErrCode]string{
	ErrCodeMalformedJSON:         "The JSON you provided was not well-formed or did not validate against our published format.",
	ErrCodeRequestBody:           "Request body error",
	ErrCodeOperationNotFound:     "Operation %s not found.",
	ErrCodeBadArgument:           "Bad argument: %s",
	ErrCodeSerialPortForbidden:   "Serial port access denied: %s",
	ErrCodeSerialPortUnavailable: "Serial port unavailable: %s",
	ErrCodeSlaveException:        "Slave rejected the request: %s",
	ErrCodeSerialLine:            "Serial line failure: %s",
}

// !!! IMPORTANT PLEASE READ FIRST !!!
// You SHOULD add new code at the end of enum firstly.

var ErrMalformedJSON = &responseError{
	Code:    ErrCodeMalformedJSON,
	Message: errors[ErrCodeMalformedJSON],
}

var ErrRequestBody = &responseError{
	Code:    ErrCodeRequestBody,
	Message: errors[ErrCodeRequestBody],
}
