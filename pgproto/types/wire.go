package types

// Version represents the protocol version or request code sent as the
// first 4 bytes of the startup message header.
type Version uint32

// See: https://www.postgresql.org/docs/current/protocol-message-formats.html
const (
	Version30         Version = 196608   // (3 << 16) + 0
	VersionCancel     Version = 80877102 // (1234 << 16) + 5678
	VersionSSLRequest Version = 80877103 // (1234 << 16) + 5679
	VersionGSSENC     Version = 80877104 // (1234 << 16) + 5680
)

// AuthType identifies the authentication mechanism requested by an
// AuthenticationXXX backend message.
type AuthType uint32

const (
	AuthTypeOK                AuthType = 0
	AuthTypeKerberosV5        AuthType = 2
	AuthTypeCleartextPassword AuthType = 3
	AuthTypeMD5Password       AuthType = 5
	AuthTypeSCMCredential     AuthType = 6
	AuthTypeGSS               AuthType = 7
	AuthTypeGSSContinue       AuthType = 8
	AuthTypeSSPI              AuthType = 9
	AuthTypeSASL              AuthType = 10
	AuthTypeSASLContinue      AuthType = 11
	AuthTypeSASLFinal         AuthType = 12
)
