package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"slices"

	"github.com/api-sage/core-ledger/src/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

const (
	CapabilityLedgerRead  = "ledger:read"
	CapabilityLedgerWrite = "ledger:write"
	CapabilityLoansManage = "loans:manage"
	CapabilityJobsRun     = "jobs:run"
)

// Guard returns the middleware that admits an authenticated channel holding
// capability.
type Guard func(capability string) func(http.Handler) http.Handler

type channelKey struct{}

// Channel is the authenticated caller attached to the request context.
type Channel struct {
	ID           string
	Capabilities []string
}

func (c Channel) Can(capability string) bool {
	return slices.Contains(c.Capabilities, capability)
}

func ChannelFromContext(ctx context.Context) (Channel, bool) {
	channel, ok := ctx.Value(channelKey{}).(Channel)
	return channel, ok
}

// BasicAuth checks HTTP Basic credentials against channelID and the bcrypt
// hash of the channel key, then checks the route's capability.
func BasicAuth(channelID, channelKeyHash string, capabilities []string) Guard {
	channel := Channel{ID: channelID, Capabilities: capabilities}

	return func(capability string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if channelID == "" || channelKeyHash == "" {
					logger.Error("basic auth middleware missing server configuration", nil, logger.Fields{
						"method": r.Method,
						"path":   r.URL.Path,
					})
					http.Error(w, "server auth configuration is missing", http.StatusInternalServerError)
					return
				}

				id, key, ok := r.BasicAuth()
				if !ok || !secureEqual(id, channelID) || bcrypt.CompareHashAndPassword([]byte(channelKeyHash), []byte(key)) != nil {
					logger.Info("basic auth middleware unauthorized request", logger.Fields{
						"method":      r.Method,
						"path":        r.URL.Path,
						"credentials": "invalid_or_missing",
					})
					http.Error(w, "unauthorized", http.StatusUnauthorized)
					return
				}

				if !channel.Can(capability) {
					logger.Info("basic auth middleware forbidden request", logger.Fields{
						"method":     r.Method,
						"path":       r.URL.Path,
						"channelId":  id,
						"capability": capability,
					})
					http.Error(w, "forbidden", http.StatusForbidden)
					return
				}

				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), channelKey{}, channel)))
			})
		}
	}
}

func secureEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
