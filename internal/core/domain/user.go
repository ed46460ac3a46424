package domain

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
	RoleAlumni  = "alumni"
)

// ValidRole reports whether role is one of the four portal roles.
func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleTeacher, RoleAdmin, RoleAlumni:
		return true
	}
	return false
}

// User models the authenticated principal as the portal API serialises it.
// Role-specific profile fields are optional and populated by the server
// depending on the role.
type User struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	EnrollmentNumber string `json:"enrollmentNumber,omitempty"`
	Course           string `json:"course,omitempty"`
	Year             string `json:"year,omitempty"`
	Semester         string `json:"semester,omitempty"`
	Department       string `json:"department,omitempty"`
	GraduationYear   string `json:"graduationYear,omitempty"`
	CurrentPosition  string `json:"currentPosition,omitempty"`
}

// DashboardRoute returns the dashboard view a freshly authenticated user of
// the given role lands on, e.g. "student-dashboard".
func DashboardRoute(role string) string {
	return role + "-dashboard"
}
