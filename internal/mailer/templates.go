package mailer

import "fmt"

// OTPEmail renders the password-reset OTP message.
func OTPEmail(otp string, validMinutes int) (subject, body string) {
	subject = "Password Reset OTP - GPC Itarsi"
	body = fmt.Sprintf(`<h1>Password Reset Request</h1>
<p>You requested a password reset for your GPC Itarsi account.</p>
<p>Your One-Time Password (OTP) for password reset is:</p>
<div style="margin: 20px 0; padding: 10px; background-color: #f0f0f0; border-radius: 5px; text-align: center; font-size: 24px; letter-spacing: 5px; font-weight: bold;">%s</div>
<p>This OTP is valid for %d minutes only.</p>
<p>If you didn't request this, please ignore this email.</p>`, otp, validMinutes)
	return subject, body
}

// ResetConfirmationEmail renders the post-reset notification.
func ResetConfirmationEmail() (subject, body string) {
	subject = "Password Reset Successful - GPC Itarsi"
	body = `<h1>Password Reset Successful</h1>
<p>Your password has been successfully reset.</p>
<p>If you did not perform this action, please contact the administrator immediately.</p>`
	return subject, body
}
