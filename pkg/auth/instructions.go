package auth

import (
	"fmt"
	"io"
	"strings"
)

// ShowKeysGuide writes step-by-step instructions for obtaining the four
// Twitter API secrets
func ShowKeysGuide(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintln(w, "📚 TWITTER API KEYS GUIDE")
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "This tool signs its requests with OAuth 1.0a user-context keys.")
	fmt.Fprintln(w, "You need a developer account and an app to get them:")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "🌐 STEP 1: Open the developer portal")
	fmt.Fprintln(w, "   - Go to https://developer.twitter.com/en/portal/dashboard")
	fmt.Fprintln(w, "   - Sign in and create a project and an app if you have none")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "🔧 STEP 2: Open 'Keys and tokens' for your app")
	fmt.Fprintln(w, "   - Under 'Consumer Keys' generate the API key and secret")
	fmt.Fprintln(w, "   - Under 'Authentication Tokens' generate the access token and secret")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "🔑 STEP 3: Copy these values:")
	fmt.Fprintln(w, "   ┌─────────────────────┬──────────────────────────────────────┐")
	fmt.Fprintln(w, "   │ Field               │ Portal label                         │")
	fmt.Fprintln(w, "   ├─────────────────────┼──────────────────────────────────────┤")
	fmt.Fprintln(w, "   │ consumer_key        │ API Key                              │")
	fmt.Fprintln(w, "   │ consumer_secret     │ API Key Secret                       │")
	fmt.Fprintln(w, "   │ access_token        │ Access Token                         │")
	fmt.Fprintln(w, "   │ access_token_secret │ Access Token Secret                  │")
	fmt.Fprintln(w, "   └─────────────────────┴──────────────────────────────────────┘")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "💡 TIPS:")
	fmt.Fprintln(w, "   • Paste them into 'tweetexport auth login', or")
	fmt.Fprintln(w, "   • write them to credentials.json under the field names above")
	fmt.Fprintln(w, "   • Regenerating a key in the portal invalidates the old one")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "⚠️  SECURITY WARNING:")
	fmt.Fprintln(w, "   • These keys act on behalf of your account")
	fmt.Fprintln(w, "   • NEVER commit credentials.json to version control")
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintln(w)
}

// ShowQuickKeysGuide shows a condensed version for experienced users
func ShowQuickKeysGuide(w io.Writer) {
	fmt.Fprintln(w, "\n🔑 Quick Guide: developer portal → your app → Keys and tokens")
	fmt.Fprintln(w, "   Need: API key/secret and access token/secret")
	fmt.Fprintln(w, "   Type 'help' for detailed instructions")
}
