package enums

import "strings"

// Role is the closed set of permission levels. The order is total:
// admin covers everything editor covers, editor covers everything
// viewer covers.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

var roleRank = map[Role]int{
	RoleViewer: 1,
	RoleEditor: 2,
	RoleAdmin:  3,
}

func ParseRole(value string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(value)))
	if !r.Valid() {
		return "", false
	}
	return r, true
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants every permission min grants.
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min]
}

func (r Role) String() string {
	return string(r)
}
