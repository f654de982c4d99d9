package domain

// DraftIDPlaceholder is sent when no draft id is known; the backend resolves
// the applicant's pending draft from the authenticated user instead.
const DraftIDPlaceholder = "temp"

// ApplicationDraft collects the multi-step signup form. The backend creates
// the account and the pending application from it in a single call.
type ApplicationDraft struct {
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	PhoneNumber      string `json:"phone_number"`
	Password         string `json:"password,omitempty"`
	DateOfBirth      string `json:"dob"`
	CurrentRole      string `json:"currentRole"`
	YearsExperience  string `json:"yearsExperience"`
	Skills           string `json:"skills"`
	Country          string `json:"country"`
	DesiredStartDate string `json:"desiredStartDate"`
	DesiredSalary    string `json:"desiredSalary,omitempty"`
}

// FullName joins the applicant's name parts, falling back to the username.
func (a ApplicationDraft) FullName() string {
	name := a.FirstName
	if a.LastName != "" {
		if name != "" {
			name += " "
		}
		name += a.LastName
	}
	if name == "" {
		return a.Username
	}
	return name
}
