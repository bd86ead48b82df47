package domain

// Identity is the closed set of issuer variants. Authorization decisions are
// exhaustive type switches over these three, never string comparisons on a
// claims map.
type Identity interface {
	// Actor returns the value recorded in created_by columns.
	Actor() string
	isIdentity()
}

// Citizen is a registered phone-number holder receiving alerts.
type Citizen struct {
	Phone string
}

// Authority can issue alerts and view the dashboard.
type Authority struct {
	Phone string
}

// Admin is an operations login. Admin tokens are mapped to Authority at the
// HTTP boundary when alert issuance is intended; a bare Admin cannot dispatch.
type Admin struct {
	Username string
}

func (c Citizen) Actor() string   { return c.Phone }
func (a Authority) Actor() string { return a.Phone }
func (a Admin) Actor() string     { return "admin:" + a.Username }

func (Citizen) isIdentity()   {}
func (Authority) isIdentity() {}
func (Admin) isIdentity()     {}
