package domain

import "strings"

type Role string

const (
	RoleFarmer      Role = "farmer"
	RoleDistributor Role = "distributor"
	RoleRetailer    Role = "retailer"
	RoleConsumer    Role = "consumer"
)

var Roles = []Role{RoleFarmer, RoleDistributor, RoleRetailer, RoleConsumer}

func ParseRole(s string) (Role, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, r := range Roles {
		if s == string(r) {
			return r, true
		}
	}
	return "", false
}

// Title is the capitalized role name used in actor strings.
func (r Role) Title() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}

// Actor identifies who recorded an event.
type Actor struct {
	Role Role
	Name string
}

// String renders the actor as "Distributor: Mike Wilson".
func (a Actor) String() string {
	if a.Name == "" {
		return a.Role.Title()
	}
	return a.Role.Title() + ": " + a.Name
}

// ParseActor splits "Role: Name". The role prefix must be one of Roles.
func ParseActor(s string) (Actor, bool) {
	roleText, name, found := strings.Cut(s, ":")
	role, ok := ParseRole(roleText)
	if !ok {
		return Actor{}, false
	}
	if !found {
		return Actor{Role: role}, true
	}
	return Actor{Role: role, Name: strings.TrimSpace(name)}, true
}
