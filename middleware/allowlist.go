package middleware

import (
	"fmt"
	"net/http"
	"net/netip"

	"github.com/gin-gonic/gin"
)

// LoopbackOnly is the default allowlist for the debug API.
var LoopbackOnly = []string{"127.0.0.0/8", "::1/128"}

// Allowlist only lets through clients whose IP falls inside one of the given
// CIDR prefixes. An empty list allows everyone.
func Allowlist(cidrs []string) (gin.HandlerFunc, error) {
	prefixes := make([]netip.Prefix, 0, len(cidrs))
	for _, s := range cidrs {
		p, err := netip.ParsePrefix(s)
		if err != nil {
			return nil, fmt.Errorf("middleware: allowlist entry %q: %w", s, err)
		}
		prefixes = append(prefixes, p.Masked())
	}
	return func(c *gin.Context) {
		if len(prefixes) == 0 {
			c.Next()
			return
		}
		ip, err := netip.ParseAddr(c.ClientIP())
		if err == nil {
			ip = ip.Unmap()
			for _, p := range prefixes {
				if p.Contains(ip) {
					c.Next()
					return
				}
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
	}, nil
}
