package utils

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var forwardClient = &http.Client{Timeout: 30 * time.Second}

type ForwardOptions struct {
	TargetBase  string
	StripPrefix string
	Logger      *zap.Logger
}

// ForwardRequest proxies the current request to a downstream service,
// injecting identity headers from the validated token claims.
func ForwardRequest(c *gin.Context, opts ForwardOptions) {
	targetPath := c.Param("any")
	if targetPath == "" {
		targetPath = c.Request.URL.Path
	}
	if opts.StripPrefix != "" {
		targetPath = strings.TrimPrefix(targetPath, opts.StripPrefix)
	}

	targetURL := opts.TargetBase + targetPath
	if c.Request.URL.RawQuery != "" {
		targetURL += "?" + c.Request.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, targetURL, c.Request.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create request"})
		return
	}

	// Copy original headers, minus identity headers a client might spoof.
	// Only the gateway is allowed to set those.
	for k, v := range c.Request.Header {
		if strings.HasPrefix(strings.ToLower(k), "x-user-") {
			continue
		}
		req.Header[k] = v
	}

	if userID, ok := c.Get("user_id"); ok {
		if uid, ok := userID.(string); ok {
			req.Header.Set("X-User-ID", uid)
		}
	}
	if email, ok := c.Get("email"); ok {
		if e, ok := email.(string); ok {
			req.Header.Set("X-User-Email", e)
		}
	}
	if role, ok := c.Get("role"); ok {
		if r, ok := role.(string); ok {
			req.Header.Set("X-User-Role", r)
		}
	}

	resp, err := forwardClient.Do(req)
	if err != nil {
		if opts.Logger != nil {
			opts.Logger.Error("Failed to forward request",
				zap.String("url", targetURL), zap.Error(err))
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "service unreachable"})
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		lowerKey := strings.ToLower(k)

		// CORS headers are handled by the gateway middleware.
		if strings.HasPrefix(lowerKey, "access-control-") {
			continue
		}
		// Hop-by-hop headers are not forwarded.
		if lowerKey == "connection" || lowerKey == "keep-alive" ||
			lowerKey == "proxy-authenticate" || lowerKey == "proxy-authorization" ||
			lowerKey == "te" || lowerKey == "trailers" ||
			lowerKey == "transfer-encoding" || lowerKey == "upgrade" {
			continue
		}

		c.Header(k, strings.Join(v, ","))
	}

	c.Status(resp.StatusCode)
	if _, err := io.Copy(c.Writer, resp.Body); err != nil && opts.Logger != nil {
		opts.Logger.Error("Failed to copy response body", zap.Error(err))
	}
}
