package common

// AuthorizationHeaderName is the HTTP header that carries the access token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is the optional scheme prefix in front of the access token.
const BearerPrefix = "Bearer "

// DateLayout is the ISO 8601 calendar date format used for attendance records.
const DateLayout = "2006-01-02"
