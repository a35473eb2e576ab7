// Package access describes who is making a request. Services receive a
// Viewer instead of an HTTP context so the same rules serve the API and the
// management panel.
package access

import (
	"net"
	"net/http"
	"strings"

	"agcbo/internal/entity/db"
)

// Viewer is the identity a request runs under. The zero value is anonymous.
type Viewer struct {
	AccountID uint
	Username  string
	Role      string
	IP        string
}

func Anonymous() Viewer {
	return Viewer{Role: db.RolePublic}
}

// FromAccount builds the viewer of an authenticated account.
func FromAccount(account *db.Account, ip string) Viewer {
	if account == nil {
		v := Anonymous()
		v.IP = ip
		return v
	}
	return Viewer{
		AccountID: account.ID,
		Username:  account.Username,
		Role:      account.Role,
		IP:        ip,
	}
}

func (v Viewer) Authenticated() bool {
	return v.AccountID != 0
}

// IsStaff reports whether the viewer sees unpublished content and may edit
// catalogues.
func (v Viewer) IsStaff() bool {
	return v.Authenticated() && db.IsStaffRole(v.Role)
}

func (v Viewer) IsSuperAdmin() bool {
	return v.Authenticated() && v.Role == db.RoleSuperAdmin
}

// ActorID is the audit actor reference, nil for anonymous viewers.
func (v Viewer) ActorID() *uint {
	if !v.Authenticated() {
		return nil
	}
	id := v.AccountID
	return &id
}

// ClientIP returns the first X-Forwarded-For entry, else the remote address
// without its port.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
