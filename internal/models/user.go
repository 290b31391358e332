package models

// User is the display-ready record of the signed-in visitor. It lives only in
// process memory for the duration of a session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}
