package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/artshare/domain"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// getStatusCode will get the code of the error returned by the components
func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrAlreadyFollowing),
		errors.Is(err, domain.ErrAlreadyInState):
		return http.StatusConflict
	case errors.Is(err, domain.ErrBadParamInput):
		return http.StatusBadRequest
	case domain.IsPrecondition(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrBackendUnavailable), errors.Is(err, domain.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// message picks the user facing text: the sentinel's own text when err wraps
// one, so backend details stay in the logs.
func message(err error) string {
	for _, sentinel := range []error{
		domain.ErrNotAuthenticated, domain.ErrEntityNotReady, domain.ErrEmptyContent,
		domain.ErrContentTooLong, domain.ErrSelfFollow, domain.ErrAlreadyFollowing,
		domain.ErrAlreadyInState, domain.ErrNotOwner, domain.ErrNotFound,
		domain.ErrConflict, domain.ErrBadParamInput, domain.ErrTimeout,
		domain.ErrBackendUnavailable, domain.ErrMalformedResponse,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrTimeout.Error()
	}
	return domain.ErrInternalServerError.Error()
}

func abortWithError(c *gin.Context, err error) {
	code := getStatusCode(err)
	entry := logrus.WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.FullPath(),
		"status": code,
	})
	if code >= http.StatusInternalServerError {
		entry.Errorf("request failed: %v", err)
	} else {
		entry.Debugf("request rejected: %v", err)
	}
	c.AbortWithStatusJSON(code, ResponseError{Message: message(err)})
}
