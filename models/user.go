package models

import "strings"

// Role представляет закрытый набор ролей пользователя.
type Role string

const (
	RoleViewer Role = "Viewer"
	RoleHost   Role = "Host"
	RoleAdmin  Role = "Admin"
)

// ParseRole нормализует строку роли без учёта регистра.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "viewer":
		return RoleViewer, true
	case "host":
		return RoleHost, true
	case "admin":
		return RoleAdmin, true
	default:
		return "", false
	}
}

// User — узел :User в графе, источник идентичности при логине.
type User struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Role        Role   `json:"role"`
	Password    string `json:"-"`
}

// Identity is the immutable session snapshot taken at login time. It is what
// gets stored in the session cache and what every gated operation sees; role
// changes on the User node are not reflected until the next login.
type Identity struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Role        Role   `json:"role"`
}

// CanReviewApplications reports whether the identity may list, approve or
// reject applications for a tournament. isAssignedHost is true when the
// caller holds a HOSTS or COHOSTS edge to that tournament.
func (id Identity) CanReviewApplications(isAssignedHost bool) bool {
	return id.Role == RoleAdmin || isAssignedHost
}
