package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// requestUserID returns a string form of the user_id that JWTAuth
// stored in the context, or "anon" for unauthenticated requests.  It
// feeds the per-user rate limit key.
func requestUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case nil:
		return "anon"
	case string:
		if v == "" {
			return "anon"
		}
		return v
	default:
		return fmt.Sprint(v)
	}
}
