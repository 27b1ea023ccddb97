package i18n

// Catalog is an in-process message catalog keyed by message id and locale.
// Unknown locales fall back to English; unknown keys fall back to the key
// itself so a missing translation is visible, not fatal.
type Catalog struct {
	messages map[string]map[string]string
}

func NewCatalog() *Catalog {
	return &Catalog{messages: map[string]map[string]string{
		"mail.challenge.subject": {
			"en": "Your sign-in code",
			"ko": "로그인 인증 코드",
		},
		"mail.verification.subject": {
			"en": "Verify your email address",
			"ko": "이메일 주소를 인증해 주세요",
		},
		"sms.challenge": {
			"en": "Your sign-in code:",
			"ko": "로그인 인증 코드:",
		},
		"sms.phone_verification": {
			"en": "Your phone verification code:",
			"ko": "휴대폰 인증 코드:",
		},
		"error.sign_in": {
			"en": "Unable to sign in, please try again.",
			"ko": "로그인에 실패했습니다. 다시 시도해 주세요.",
		},
		"error.sign_up": {
			"en": "Unable to sign up, please try again.",
			"ko": "회원가입에 실패했습니다. 다시 시도해 주세요.",
		},
	}}
}

func (c *Catalog) Translate(key, locale string) string {
	byLocale, ok := c.messages[key]
	if !ok {
		return key
	}
	if msg, ok := byLocale[locale]; ok {
		return msg
	}
	if msg, ok := byLocale["en"]; ok {
		return msg
	}
	return key
}
