package i18n

var english = Messages{
	"common.add":           "Add",
	"common.delete":        "Delete",
	"common.action":        "Action",
	"common.refresh":       "Refresh",
	"common.createdAt":     "Created At",
	"common.updatedAt":     "Updated At",
	"common.confirmDelete": "Sure to delete?",
	"common.success":       "Success",
	"common.error":         "Error",
	"common.required":      "Required",
	"common.id":            "ID",
	"common.description":   "Description",
	"common.requestFailed": "Request Failed",
	"common.empty":         "No data",

	"login.title":               "Mail Generator Login",
	"login.password":            "Password",
	"login.loginButton":         "Login",
	"login.passwordPlaceholder": "Please input your password!",
	"login.success":             "Logged in",
	"login.logout":              "Logged out",

	"menu.domains":  "Domains",
	"menu.accounts": "Accounts",
	"menu.logs":     "Logs",

	"domain.addTitle":        "Add Domain",
	"domain.name":            "Domain Name",
	"domain.namePlaceholder": "example.com",
	"domain.instruction":     "Instructions: Add an MX record for this domain pointing to this server.",
	"domain.added":           "Domain added",
	"domain.deleted":         "Domain deleted",

	"account.addTitle":             "Add Account Rule",
	"account.pattern":              "Pattern (Regex)",
	"account.patternPlaceholder":   `^.*@example\.com$`,
	"account.patternTip":           `Use Regex. E.g. ^support@.*$ or ^.*@mydomain\.com$`,
	"account.forwardTo":            "Forward To",
	"account.forwardToPlaceholder": "me@gmail.com",
	"account.hitCount":             "Hit Count",
	"account.added":                "Account rule added",
	"account.updated":              "Account rule updated",
	"account.deleted":              "Account deleted",

	"log.from":    "From",
	"log.to":      "To",
	"log.subject": "Subject",
	"log.status":  "Status",
	"log.time":    "Time",
	"log.error":   "Error",
	"log.page":    "Page %d / total %d",

	"console.help":          "Commands: go <path> | login <password> | logout | locale <en|zh> | list | add ... | update ... | delete <id> | page <n> | where | help | quit",
	"console.unknown":       "Unknown command: %s",
	"console.usage":         "Usage: %s",
	"console.notFound":      "No such page: %s",
	"console.locale":        "Language switched to %s",
	"console.unsupported":   "This page does not support %s",
	"console.current":       "Current page: %s",
	"console.invalidLocale": "Unsupported language: %s (en, zh)",
	"console.session":       "Session: %s",
}
