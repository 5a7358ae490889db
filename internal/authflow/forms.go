package authflow

import (
	"github.com/diagnosis/visitor-portal/internal/domain"
	"github.com/diagnosis/visitor-portal/internal/utils"
)

// LoginForm is the login screen's input. Remember asks for the email to be
// kept for pre-filling the next login.
type LoginForm struct {
	OfficialMail string
	Password     string
	Remember     bool
}

// Complete reports whether both fields are filled. There is no format
// validation.
func (f LoginForm) Complete() bool {
	return !utils.IsBlank(f.OfficialMail) && !utils.IsBlank(f.Password)
}

func (f LoginForm) Request() domain.LoginRequest {
	return domain.LoginRequest{
		OfficialMail: utils.NormalizeString(f.OfficialMail),
		Password:     f.Password,
	}
}

type SignUpForm struct {
	FullName     string
	OfficialMail string
	PhoneNumber  string
	Password     string
}

func (f SignUpForm) PasswordChecks() PasswordChecks {
	return CheckPassword(f.Password)
}

// Complete reports whether the form may be submitted: every field filled and
// the password passing all rules.
func (f SignUpForm) Complete() bool {
	return !utils.IsBlank(f.FullName) &&
		!utils.IsBlank(f.OfficialMail) &&
		!utils.IsBlank(f.PhoneNumber) &&
		f.PasswordChecks().Valid()
}

// Pending is the record kept until the OTP is confirmed.
func (f SignUpForm) Pending() domain.PendingSignUp {
	return domain.PendingSignUp{
		FullName:     utils.NormalizeString(f.FullName),
		OfficialMail: utils.NormalizeString(f.OfficialMail),
		PhoneNumber:  utils.NormalizeString(f.PhoneNumber),
		Password:     f.Password,
	}
}

// ResetForm is the forgot-password screen's input.
type ResetForm struct {
	OfficialMail string
}

func (f ResetForm) Complete() bool {
	return !utils.IsBlank(f.OfficialMail)
}
