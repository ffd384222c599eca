// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes for handshake rejections. These carry more
// specific reasons than the standard policy-violation code.
const (
	AuthMissingError = 3000 // No token presented in the handshake.
	AuthInvalidError = 3001 // Token failed verification or expired.
)
