package releases

import (
	"errors"
	"fmt"
)

const (
	operationErrorMessageTemplateConstant   = "%s operation failed for %s"
	operationErrorWithCauseTemplateConstant = "%s operation failed for %s: %v"
	listerMissingMessageConstant            = "release lister not configured"
	deleterMissingMessageConstant           = "release deleter not configured"
	listOperationNameConstant               = OperationName("ListReleases")
	deleteReleaseOperationNameConstant      = OperationName("DeleteRelease")
	deleteReferenceOperationNameConstant    = OperationName("DeleteRef")
	pageSubjectTemplateConstant             = "%s/%s page %d"
	releaseSubjectTemplateConstant          = "release %q (id %d)"
	tagSubjectTemplateConstant              = "tag %q of release %q"
)

// OperationName names a collaborator call.
type OperationName string

var (
	// ErrListerNotConfigured indicates Collect was called without a lister.
	ErrListerNotConfigured = errors.New(listerMissingMessageConstant)
	// ErrDeleterNotConfigured indicates Remove was called without a deleter.
	ErrDeleterNotConfigured = errors.New(deleterMissingMessageConstant)
)

// OperationError wraps a collaborator failure together with the item it concerned.
type OperationError struct {
	Operation OperationName
	Subject   string
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation, operationError.Subject)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Subject, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}
