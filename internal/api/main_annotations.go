// Package api is the JSON REST surface under /api/v1.
//
// @title           EVE-SRP API
// @version         1.0
// @description     Ship replacement request lists, status changes and division permissions. Authenticate with an API key.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerToken
// @in              header
// @name            Authorization
// @description     Type "Bearer" followed by a space and your API key. Example: "Bearer srp_xxx"
package api
