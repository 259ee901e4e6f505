package services

import (
	"fmt"
	"net/http"

	"github.com/projecthub/backend/pkg/response"
)

// Application error codes. The first three digits mirror the HTTP status,
// the last two disambiguate the domain error kind.
const (
	CodeInvalidData             = 40001
	CodeInvalidRole             = 40002
	CodeCannotRemoveOwner       = 40003
	CodeInsufficientPermissions = 40301
	CodeUnauthorizedAccess      = 40302
	CodeProjectNotFound         = 40401
	CodeTaskNotFound            = 40402
	CodeTeamMemberNotFound      = 40403
	CodeDatabase                = 50001
)

func errProjectNotFound(id uint) *response.AppError {
	return &response.AppError{
		HTTPStatus: http.StatusNotFound,
		Code:       CodeProjectNotFound,
		Message:    fmt.Sprintf("project %d not found", id),
	}
}

func errTaskNotFound(id uint) *response.AppError {
	return &response.AppError{
		HTTPStatus: http.StatusNotFound,
		Code:       CodeTaskNotFound,
		Message:    fmt.Sprintf("task %d not found", id),
	}
}

func errTeamMemberNotFound(username string) *response.AppError {
	return &response.AppError{
		HTTPStatus: http.StatusNotFound,
		Code:       CodeTeamMemberNotFound,
		Message:    fmt.Sprintf("%s is not a member of this project", username),
	}
}

func errInvalidRole(role string) *response.AppError {
	return &response.AppError{
		HTTPStatus: http.StatusBadRequest,
		Code:       CodeInvalidRole,
		Message:    fmt.Sprintf("invalid role: %s", role),
	}
}

func errCannotRemoveOwner() *response.AppError {
	return &response.AppError{
		HTTPStatus: http.StatusBadRequest,
		Code:       CodeCannotRemoveOwner,
		Message:    "the project owner cannot be removed from the team",
	}
}

// errInsufficientPermissions names the attempted action so the caller
// can tell what was denied.
func errInsufficientPermissions(action string) *response.AppError {
	return &response.AppError{
		HTTPStatus: http.StatusForbidden,
		Code:       CodeInsufficientPermissions,
		Message:    fmt.Sprintf("insufficient permissions to %s", action),
	}
}

func errUnauthorizedAccess() *response.AppError {
	return &response.AppError{
		HTTPStatus: http.StatusForbidden,
		Code:       CodeUnauthorizedAccess,
		Message:    "you do not have access to this project",
	}
}

func errInvalidData(msg string) *response.AppError {
	return &response.AppError{
		HTTPStatus: http.StatusBadRequest,
		Code:       CodeInvalidData,
		Message:    msg,
	}
}

// errDatabase hides the underlying store failure from the caller.
func errDatabase() *response.AppError {
	return &response.AppError{
		HTTPStatus: http.StatusInternalServerError,
		Code:       CodeDatabase,
		Message:    "internal storage error",
	}
}
