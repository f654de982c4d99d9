// Package content holds the bilingual UI string tables. Templates look
// strings up by key; unknown keys fall back to English so a missing
// translation never blanks a page.
package content

// Language codes supported by the site.
const (
	LangEnglish = "en"
	LangAmharic = "am"
)

// Supported reports whether code is a known language.
func Supported(code string) bool {
	return code == LangEnglish || code == LangAmharic
}

// Table is one language's strings.
type Table map[string]string

var tables = map[string]Table{
	LangEnglish: {
		"hero.title":            "Welcome to Nova Educational Consultancy",
		"hero.subtitle":         "Have you been worrying that your money might be lost to various agencies and consultancies while planning to go and work and change your life in different European countries? Then, you will find the solution with us!",
		"hero.primary_button":   "Start Your Application",
		"hero.secondary_button": "Get Started Now",
		"cta.title":             "Ready to Begin Your Journey?",
		"cta.subtitle":          "Complete your application in just 3 simple steps and unlock access to exclusive job resources.",

		"form.title":               "Application Form - Step",
		"form.personal_info":       "Personal Information",
		"form.first_name":          "First Name",
		"form.last_name":           "Last Name",
		"form.username":            "Username",
		"form.email":               "Email Address",
		"form.phone":               "Phone Number",
		"form.password":            "Create Password",
		"form.dob":                 "Date of Birth",
		"form.next":                "Next",
		"form.back":                "Back",
		"form.work_experience":     "Work Experience",
		"form.current_role":        "Current / Most Recent Role",
		"form.years_experience":    "Years of Experience",
		"form.skills":              "Key Skills",
		"form.job_preferences":     "Job Preferences",
		"form.preferred_country":   "Preferred Country",
		"form.desired_start_date":  "Desired Start Date",
		"form.desired_salary":      "Desired Salary (Optional)",
		"form.continue_to_payment": "Continue to Payment",

		"dashboard.welcome":            "Welcome",
		"dashboard.welcome_subtitle":   "Your personalized job search dashboard is ready. Explore curated opportunities below.",
		"dashboard.target_country":     "Target Country",
		"dashboard.curated_job_sites":  "Curated Job Sites",
		"dashboard.all_job_sites":      "All Job Sites",
		"dashboard.show_my_country":    "Show My Country",
		"dashboard.view_all_countries": "View All Countries",
		"dashboard.popular_countries":  "Popular Countries",
		"dashboard.no_sites_yet":       "No job sites available yet",
		"dashboard.check_back_soon":    "Check back soon!",

		"login.title":    "Log In",
		"login.email":    "Email",
		"login.password": "Password",
		"login.submit":   "Log In to Dashboard",

		"payment.title":       "Complete Your Application",
		"payment.subtitle":    "You're just one step away from accessing your personalized job dashboard!",
		"payment.pay":         "Complete Payment",
		"payment.success":     "Payment Successful!",
		"payment.redirecting": "Your payment has been confirmed. Redirecting to your dashboard...",
	},
	LangAmharic: {
		"hero.title":            "እንኳን ወደ ኖቫ ኤዱኬሽናል ኮንሰልታንሲ በደህና መጡ",
		"hero.primary_button":   "መተግበሪያዎን ይጀምሩ",
		"hero.secondary_button": "አሁን ይጀምሩ",
		"cta.title":             "ጉዞዎን ለመጀመር ዝግጁ ነዎት?",
		"cta.subtitle":          "በ3 ቀላል ደረጃዎች ብቻ መተግበሪያዎን ይሙሉ እና ልዩ የስራ ሀብቶችን ያግኙ።",

		"form.title":               "የመተግበሪያ ቅጽ - ደረጃ",
		"form.personal_info":       "የግል መረጃ",
		"form.first_name":          "ስም",
		"form.last_name":           "የአባት ስም",
		"form.username":            "የተጠቃሚ ስም",
		"form.email":               "ኢሜይል አድራሻ",
		"form.phone":               "ስልክ ቁጥር",
		"form.password":            "የይለፍ ቃል ይፍጠሩ",
		"form.dob":                 "የልደት ቀን",
		"form.next":                "ቀጣይ",
		"form.back":                "ተመለስ",
		"form.work_experience":     "የስራ ልምድ",
		"form.current_role":        "የአሁኑ / የቅርብ ጊዜ ስራ",
		"form.years_experience":    "የስራ ልምድ ዓመታት",
		"form.skills":              "ዋና የሙያ ችሎታዎች",
		"form.job_preferences":     "የስራ ምርጫዎች",
		"form.preferred_country":   "ተመራጭ አገር",
		"form.desired_start_date":  "የሚፈለገው የመጀመሪያ ቀን",
		"form.desired_salary":      "የሚፈለገው ደመወዝ (አማራጭ)",
		"form.continue_to_payment": "ወደ ክፍያ ይቀጥሉ",

		"dashboard.welcome":           "እንኳን ደህና መጣህ",
		"dashboard.welcome_subtitle":  "ለግል የተበጀው የስራ ፍለጋ ዳሽቦርድዎ ዝግጁ ነው። ከዚህ በታች የተመደቡ እድሎችን ያስሱ።",
		"dashboard.target_country":    "ዒላማ አገር",
		"dashboard.popular_countries": "ተወዳጅ አገሮች",
	},
}

// Lookup returns a translator for the given language with English fallback.
func Lookup(lang string) func(key string) string {
	table := tables[lang]
	fallback := tables[LangEnglish]
	return func(key string) string {
		if table != nil {
			if s, ok := table[key]; ok {
				return s
			}
		}
		if s, ok := fallback[key]; ok {
			return s
		}
		return key
	}
}
