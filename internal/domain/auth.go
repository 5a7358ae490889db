package domain

import "log/slog"

type LoginRequest struct {
	OfficialMail string `json:"officialMail"`
	Password     string `json:"password"`
}

// LoginResponse is the payload of a successful login. RefreshToken is
// delivered by the service but the portal does not use it.
type LoginResponse struct {
	JWTToken     string  `json:"jwtToken"`
	RefreshToken *string `json:"refreshToken"`
	Message      string  `json:"message"`
}

type SignUpRequest struct {
	FullName     string `json:"fullName"`
	OfficialMail string `json:"officialMail"`
	Password     string `json:"password"`
	PhoneNumber  string `json:"phoneNumber"`
}

type ConfirmOTPRequest struct {
	OfficialMail string `json:"officialMail"`
	OTP          string `json:"otp"`
	FullName     string `json:"fullName"`
	PhoneNumber  string `json:"phoneNumber"`
	Password     string `json:"password"`
}

// PendingSignUp is the sign-up form held between a successful sign-up call
// and OTP confirmation. It contains the plaintext password and must never be
// logged or sent to the browser.
type PendingSignUp struct {
	FullName     string `json:"fullName"`
	OfficialMail string `json:"officialMail"`
	PhoneNumber  string `json:"phoneNumber"`
	Password     string `json:"password"`
}

func (p PendingSignUp) SignUpRequest() SignUpRequest {
	return SignUpRequest{
		FullName:     p.FullName,
		OfficialMail: p.OfficialMail,
		Password:     p.Password,
		PhoneNumber:  p.PhoneNumber,
	}
}

func (p PendingSignUp) ConfirmOTPRequest(otp string) ConfirmOTPRequest {
	return ConfirmOTPRequest{
		OfficialMail: p.OfficialMail,
		OTP:          otp,
		FullName:     p.FullName,
		PhoneNumber:  p.PhoneNumber,
		Password:     p.Password,
	}
}

// LogValue keeps the password out of structured logs.
func (p PendingSignUp) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("full_name", p.FullName),
		slog.String("official_mail", p.OfficialMail),
	)
}
