package mail

import "fmt"

// ChallengeEmailHTML renders the sign-in code mail body.
func ChallengeEmailHTML(name, code string) string {
	formatted := code
	if len(code) == 6 {
		formatted = code[:3] + "-" + code[3:]
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="margin: 0; padding: 24px; font-family: sans-serif; background-color: #f7f9fc;">
	<table align="center" width="480" style="background-color: #ffffff; border-radius: 8px; padding: 24px;">
		<tr><td style="font-size: 16px; color: #333333;">
			<p>Hello, <strong>%s</strong>.</p>
			<p>Your sign-in code:</p>
			<p style="font-size: 28px; letter-spacing: 4px; font-weight: 700; color: #5271ff;">%s</p>
			<p style="color: #888888; font-size: 13px;">If you did not try to sign in, you can ignore this message.</p>
		</td></tr>
	</table>
</body>
</html>`, name, formatted)
}

// VerificationEmailHTML renders the account-verification mail body.
func VerificationEmailHTML(name, link string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="margin: 0; padding: 24px; font-family: sans-serif; background-color: #f7f9fc;">
	<table align="center" width="480" style="background-color: #ffffff; border-radius: 8px; padding: 24px;">
		<tr><td style="font-size: 16px; color: #333333;">
			<p>Hello, <strong>%s</strong>.</p>
			<p>Confirm your email address to finish setting up your account:</p>
			<p><a href="%s" style="display: inline-block; padding: 12px 24px; background-color: #5271ff; color: #ffffff; border-radius: 6px; text-decoration: none;">Verify email</a></p>
			<p style="color: #888888; font-size: 13px;">The link expires in 24 hours.</p>
		</td></tr>
	</table>
</body>
</html>`, name, link)
}
