package api

import (
	"errors"   // Error unwrapping
	"net/http" // HTTP status codes

	"ccw_tracker/internal/services" // Service error taxonomy

	"github.com/gin-gonic/gin" // Gin web framework
)

// statusForKind maps the service failure taxonomy onto HTTP statuses.
// Unauthenticated and Forbidden stay distinct so clients can choose between
// redirect-to-login and an access-denied page.
func statusForKind(kind services.ErrorKind) int {
	switch kind {
	case services.KindInvalidCredentials, services.KindUnauthenticated:
		return http.StatusUnauthorized
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindDuplicateKey:
		return http.StatusConflict
	case services.KindPolicyViolation:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError renders a service failure as JSON. The extra payload, if
// any, is merged in so write handlers can echo the submitted values back for
// correction instead of losing them.
func writeServiceError(c *gin.Context, err error, extra gin.H) {
	var se *services.ServiceError
	if !errors.As(err, &se) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	body := gin.H{"error": se.Message}
	if se.Field != "" {
		body["field"] = se.Field // Field-level reason for duplicate/policy failures
	}
	if se.Kind == services.KindUnauthenticated {
		body["login"] = "/auth/login" // Redirect target for unauthenticated callers
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(statusForKind(se.Kind), body)
}
