package auth

// Actor is the role claim travelling with every request. There are no
// per-client authorization tokens beyond it.
type Actor struct {
	Name string `json:"actor"`
	Role Role   `json:"role"`
}
