// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file validates the optional Idempotency-Key header the feedback form
// sends to absorb double-clicks and network retries. The middleware only
// validates and stashes the key; the feedback service decides whether a
// repeated key resolves to a previously created record, since the dedupe
// scope also includes the submitter's email from the request body.
package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
)

// HeaderSubmitKey is the request header carrying the client's dedupe key for
// unsafe operations. The value is expected to be stable across retries of
// the same semantic submission.
const HeaderSubmitKey = "Idempotency-Key"

// ctxKeySubmitKey is the Gin context key under which the validated key is
// stashed.
const ctxKeySubmitKey = "submit.key"

// submitKeyRe is a conservative RFC-7230-ish token pattern.
var submitKeyRe = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// maxSubmitKeyLen caps the accepted key length.
const maxSubmitKeyLen = 200

// SubmitKey returns the validated dedupe key stashed by SubmitKeyValidator.
// The second return value indicates presence. Handlers should use this
// rather than reading the header directly.
func SubmitKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeySubmitKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// SubmitKeyValidator validates the Idempotency-Key header when present and
// stashes the normalized key in the Gin context.
//
// An absent header is a no-op; a malformed one is rejected with
// 400 {"error": "Invalid Idempotency-Key"} before the handler runs.
func SubmitKeyValidator() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(HeaderSubmitKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxSubmitKeyLen || !submitKeyRe.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "Invalid Idempotency-Key",
			})
			return
		}
		c.Set(ctxKeySubmitKey, key)
		c.Next()
	}
}
