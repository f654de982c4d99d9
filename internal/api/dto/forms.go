package dto

import "github.com/spec-kit/jobsabroad-web/internal/domain"

// ApplyForm carries the whole multi-step signup form. Earlier steps travel as
// hidden fields so the server stays stateless between steps.
type ApplyForm struct {
	Step int `form:"step"`

	FirstName   string `form:"first_name"`
	LastName    string `form:"last_name"`
	Username    string `form:"username"`
	Email       string `form:"email"`
	PhoneNumber string `form:"phone_number"`
	Password    string `form:"password"`
	DateOfBirth string `form:"dob"`

	CurrentRole     string `form:"current_role"`
	YearsExperience string `form:"years_experience"`
	Skills          string `form:"skills"`

	Country          string `form:"country"`
	DesiredStartDate string `form:"desired_start_date"`
	DesiredSalary    string `form:"desired_salary"`
}

// Draft converts the form into the backend registration payload.
func (f ApplyForm) Draft() domain.ApplicationDraft {
	return domain.ApplicationDraft{
		FirstName:        f.FirstName,
		LastName:         f.LastName,
		Username:         f.Username,
		Email:            f.Email,
		PhoneNumber:      f.PhoneNumber,
		Password:         f.Password,
		DateOfBirth:      f.DateOfBirth,
		CurrentRole:      f.CurrentRole,
		YearsExperience:  f.YearsExperience,
		Skills:           f.Skills,
		Country:          f.Country,
		DesiredStartDate: f.DesiredStartDate,
		DesiredSalary:    f.DesiredSalary,
	}
}

// MissingRequired reports which required fields are still empty.
func (f ApplyForm) MissingRequired() []string {
	required := map[string]string{
		"first_name": f.FirstName,
		"last_name":  f.LastName,
		"username":   f.Username,
		"email":      f.Email,
		"password":   f.Password,
		"country":    f.Country,
	}
	var missing []string
	for name, value := range required {
		if value == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// LoginForm payload for the credential form.
type LoginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// PaymentForm payload for starting checkout.
type PaymentForm struct {
	DraftID string `form:"draft_id"`
	Email   string `form:"email"`
}
