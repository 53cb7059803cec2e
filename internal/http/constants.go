package httpx

// Pagination bounds shared by list handlers.
const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// Temporary cookies used during the federated sign-in flow.
const (
	oauthStateCookie   = "oauth_state"
	oauthNonceCookie   = "oauth_nonce"
	postLoginCookie    = "post_login_redirect"
	oauthCookieMaxAge  = 600 // 10 minutes
	errMsgAuthRequired = "authentication required"
)
