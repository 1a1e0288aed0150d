package api

import (
	"errors"
	"net/http"

	"remindshare/sharing"
	"remindshare/store"
	"remindshare/types"

	"github.com/infinitybotlist/eureka/uapi"
)

// SharingError maps coordinator errors onto HTTP responses. Permission and
// business-rule failures carry a user-facing message; anything else is a
// transient store failure.
func SharingError(err error) uapi.HttpResponse {
	var permErr *sharing.PermissionError

	if errors.As(err, &permErr) {
		return uapi.HttpResponse{
			Status: http.StatusForbidden,
			Json: types.ApiError{
				Message: permissionMessage(permErr.Reason),
				Context: map[string]string{"reason": string(permErr.Reason)},
			},
		}
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		return uapi.HttpResponse{
			Status: http.StatusNotFound,
			Json:   types.ApiError{Message: "Reminder not found. It may have been deleted; refresh your list."},
		}
	case errors.Is(err, sharing.ErrSelfAccept):
		return uapi.HttpResponse{
			Status: http.StatusBadRequest,
			Json:   types.ApiError{Message: "You cannot accept or reject your own reminder"},
		}
	case errors.Is(err, sharing.ErrNotShared):
		return uapi.HttpResponse{
			Status: http.StatusBadRequest,
			Json:   types.ApiError{Message: "This reminder has not been shared"},
		}
	case errors.Is(err, sharing.ErrAlreadyRejected):
		return uapi.HttpResponse{
			Status: http.StatusBadRequest,
			Json:   types.ApiError{Message: "This invitation was already declined"},
		}
	case errors.Is(err, sharing.ErrDueAtRequired):
		return uapi.HttpResponse{
			Status: http.StatusBadRequest,
			Json:   types.ApiError{Message: "A trigger time is required when notifications are enabled"},
		}
	}

	return uapi.DefaultResponse(http.StatusInternalServerError)
}

func permissionMessage(reason sharing.DenyReason) string {
	switch reason {
	case sharing.DenyNotOwner:
		return "Only the owner of a reminder may do this"
	case sharing.DenySharedCopyImmutable:
		return "Reminders received via sharing cannot be changed, deleted or re-shared"
	}

	return "Permission denied"
}
