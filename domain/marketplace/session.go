package marketplace

import (
	"time"

	"github.com/closet-labs/marketapi/base/ctx"
)

// SessionSnapshot is the persisted state of a browsing session
type SessionSnapshot struct {
	Records       []AssetRecord `json:"records"`
	WalletAddress string        `json:"walletAddress"`
	SavedAt       time.Time     `json:"savedAt"`
}

// SessionCache persists the last record set and wallet of a session. Load reports
// ok=false for a missing or unreadable entry. Save errors are for logging only,
// callers carry on without them.
type SessionCache interface {
	Load(c ctx.Ctx, sessionKey string) (snapshot *SessionSnapshot, ok bool)
	Save(c ctx.Ctx, sessionKey string, records []AssetRecord, walletAddress string) error
}
