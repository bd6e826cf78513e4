package auth

// Role is an account access level. The set is closed; extending it means
// adding a constant here and, if it should pass the guard, an entry in
// writeRoles.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// writeRoles is the allow-list for guarded operations.
var writeRoles = map[Role]struct{}{
	RoleTeacher: {},
	RoleAdmin:   {},
}

// Authorize reports whether the claimed role may perform guarded write and
// delete operations. The claim is taken at face value from the request;
// there is no cryptographic verification. Empty or unknown claims deny.
func Authorize(claim string) bool {
	_, ok := writeRoles[Role(claim)]
	return ok
}
