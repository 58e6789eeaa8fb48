package utils

import (
	"fmt"
)

type ServiceError struct {
	Code uint32
	Msg  string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("ServiceError: code=%d, msg=%s", e.Code, e.Msg)
}

var (
	// business error code: [500000, 600000)
	ErrOpenCsv       = &ServiceError{500001, "open csv error"}
	ErrReadCsv       = &ServiceError{500002, "read csv error"}
	ErrWrongDataType = &ServiceError{500003, "wrong data type"}
	ErrParameter     = &ServiceError{500005, "invalid parameter"}

	// mining error code: [510000, 520000)
	ErrInvalidDataset   = &ServiceError{510000, "invalid dataset"}
	ErrInvalidAttribute = &ServiceError{510001, "invalid attribute"}
	ErrInvalidPattern   = &ServiceError{510002, "invalid pattern"}
	ErrInvalidConfig    = &ServiceError{510003, "invalid mining config"}
	ErrUnknownStrategy  = &ServiceError{510004, "unknown strategy"}
	ErrTaskNotExist     = &ServiceError{510005, "task not exist"}
)
