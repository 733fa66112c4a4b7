package response

type ErrCode int

const (
	_                            ErrCode = 10000 + iota
	ErrCodeMalformedJSON                 // 10001
	ErrCodeRequestBody                   // 10002
	_                                    // 10003 retired
	_                                    // 10004 retired
	_                                    // 10005 retired
	ErrCodeOperationNotFound             // 10006
	ErrCodeBadArgument                   // 10007
	ErrCodeSerialPortForbidden           // 10008
	ErrCodeSerialPortUnavailable         // 10009
	ErrCodeSlaveException                // 10010
	ErrCodeSerialLine                    // 10011
)

// !!! IMPORTANT PLEASE READ FIRST !!!
// You SHOULD add new code at the end, and append comment of number
// Meanwhile, the corresponding error message SHOULD be appended in response.errors
// The order MUST be consistent between them
