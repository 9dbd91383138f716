package store

// Identity is the resolved caller attached to a request by the session layer
// (JWT middleware). The stores consume it by value and never read request
// state themselves. The zero value is anonymous.
type Identity struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (id Identity) Anonymous() bool {
	return id.UserID == 0
}
