package constant

type OTPIntent string

const (
	IntentSignup     OTPIntent = "signup"
	IntentLogin      OTPIntent = "login"
	IntentAdminLogin OTPIntent = "admin_login"
)

// MaxOTPAttempts is the number of failed code comparisons allowed per record.
// The attempt check runs before comparison, so a fourth submission is rejected
// without ever consuming a comparison.
const MaxOTPAttempts = 3

const OTPCodeLength = 6
