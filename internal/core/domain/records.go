package domain

// Record is implemented by every resource entity the client caches in a list
// view. The id is server-assigned and opaque to the client.
type Record interface {
	RecordID() string
}

// ListQuery carries the pagination and search parameters a panel forwards
// verbatim to the server. Zero values are omitted from the request.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

// PageResult is one page of records as returned by a list endpoint, whether
// the server answered with a bare array or an {items, total} envelope.
type PageResult[T Record] struct {
	Items []T
	Total int
}

// The resource families managed from the admin dashboard. Field names
// follow the portal API's JSON representation; optional fields are omitted
// when empty so partial update payloads only carry the fields being changed.

type Student struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	RollNo     string `json:"rollNo,omitempty"`
	Semester   int    `json:"semester,omitempty"`
	Department string `json:"department,omitempty"`
}

func (s Student) RecordID() string { return s.ID }

type Faculty struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Department  string `json:"department,omitempty"`
	Designation string `json:"designation,omitempty"`
}

func (f Faculty) RecordID() string { return f.ID }

type Notice struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title,omitempty"`
	Date     string `json:"date,omitempty"`
	Content  string `json:"content,omitempty"`
	IsNew    bool   `json:"isNew,omitempty"`
	Category string `json:"category,omitempty"`
}

func (n Notice) RecordID() string { return n.ID }

type Department struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
}

func (d Department) RecordID() string { return d.ID }

type Course struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name,omitempty"`
	Code       string `json:"code,omitempty"`
	Semester   int    `json:"semester,omitempty"`
	Department string `json:"department,omitempty"`
	Credits    int    `json:"credits,omitempty"`
}

func (c Course) RecordID() string { return c.ID }

type Result struct {
	ID           string `json:"id,omitempty"`
	StudentID    string `json:"studentId,omitempty"`
	CourseID     string `json:"courseId,omitempty"`
	CourseName   string `json:"courseName,omitempty"`
	Marks        int    `json:"marks,omitempty"`
	Grade        string `json:"grade,omitempty"`
	Semester     int    `json:"semester,omitempty"`
	ExamType     string `json:"examType,omitempty"`
	AcademicYear string `json:"academicYear,omitempty"`
}

func (r Result) RecordID() string { return r.ID }

type Alumni struct {
	ID              string   `json:"id,omitempty"`
	Name            string   `json:"name,omitempty"`
	Email           string   `json:"email,omitempty"`
	GraduationYear  int      `json:"graduationYear,omitempty"`
	Degree          string   `json:"degree,omitempty"`
	Department      string   `json:"department,omitempty"`
	CurrentCompany  string   `json:"currentCompany,omitempty"`
	CurrentPosition string   `json:"currentPosition,omitempty"`
	Location        string   `json:"location,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	LinkedIn        string   `json:"linkedin,omitempty"`
	Achievements    []string `json:"achievements,omitempty"`
	IsActive        bool     `json:"isActive,omitempty"`
}

func (a Alumni) RecordID() string { return a.ID }

type Event struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
	Location    string `json:"location,omitempty"`
	Type        string `json:"type,omitempty"`
}

func (e Event) RecordID() string { return e.ID }

// ContactMessage is the public contact form submission. It is write-only
// from the client's point of view.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}
